// Package history persists which items have already been searched, so a
// cooldown window holds across runs.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS search_history (
	instance    TEXT      NOT NULL,
	item_id     INTEGER   NOT NULL,
	title       TEXT      NOT NULL DEFAULT '',
	searched_at TIMESTAMP NOT NULL,
	PRIMARY KEY (instance, item_id)
);
`

// Store is a SQLite-backed search history. Runs access it sequentially;
// SQLite journaling keeps the file consistent if the process dies
// mid-write.
type Store struct {
	db *sql.DB
}

// Entry is one recorded search.
type Entry struct {
	Instance   string
	ItemID     int64
	Title      string
	SearchedAt time.Time
}

// Open opens or creates the history database at path. An unusable file is
// moved aside and recreated empty: stale history only widens the candidate
// pool, so losing it is never fatal. Failing to recreate the store is.
func Open(path string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}

	db, err := open(path)
	if err != nil {
		log.Warn("history database unusable, starting fresh", "path", path, "error", err)
		if renameErr := os.Rename(path, path+".corrupt"); renameErr != nil && !os.IsNotExist(renameErr) {
			return nil, fmt.Errorf("move corrupt history database: %w", renameErr)
		}
		db, err = open(path)
		if err != nil {
			return nil, fmt.Errorf("recreate history database: %w", err)
		}
	}
	return &Store{db: db}, nil
}

func open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// IsCoolingDown reports whether the item was searched less than cooldown ago.
func (s *Store) IsCoolingDown(instance string, itemID int64, now time.Time, cooldown time.Duration) (bool, error) {
	var searchedAt time.Time
	err := s.db.QueryRow(
		`SELECT searched_at FROM search_history WHERE instance = ? AND item_id = ?`,
		instance, itemID,
	).Scan(&searchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query history: %w", err)
	}
	return now.Sub(searchedAt) < cooldown, nil
}

// Record upserts the last-search timestamp for (instance, item).
func (s *Store) Record(instance string, itemID int64, title string, now time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO search_history (instance, item_id, title, searched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (instance, item_id)
		DO UPDATE SET title = excluded.title, searched_at = excluded.searched_at`,
		instance, itemID, title, now,
	)
	if err != nil {
		return fmt.Errorf("record search: %w", err)
	}
	return nil
}

// Entries returns recorded searches, newest first. An empty instance
// matches all instances; limit <= 0 means no limit.
func (s *Store) Entries(instance string, limit int) ([]Entry, error) {
	query := `SELECT instance, item_id, title, searched_at FROM search_history`
	args := []any{}
	if instance != "" {
		query += ` WHERE instance = ?`
		args = append(args, instance)
	}
	query += ` ORDER BY searched_at DESC, instance, item_id`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Instance, &e.ItemID, &e.Title, &e.SearchedAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune deletes entries older than the cooldown window. Stale entries are
// functionally inert, this just keeps the file small.
func (s *Store) Prune(now time.Time, cooldown time.Duration) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM search_history WHERE searched_at < ?`, now.Add(-cooldown))
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	return result.RowsAffected()
}
