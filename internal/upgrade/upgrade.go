// Package upgrade decides which below-cutoff items get re-searched in a
// run: it filters catalog snapshots against the search history, samples a
// capped random subset per instance, and paces search commands across
// instances.
package upgrade

import (
	"context"
	"time"
)

// Item is one catalog entry from a library instance.
type Item struct {
	ID        int64
	Title     string
	CutoffMet bool
}

// Catalog is one connected library-manager instance.
//
//go:generate mockgen -destination=mocks/catalog.go -package=mocks github.com/gitdeath/cf-search/internal/upgrade Catalog
type Catalog interface {
	// Key uniquely identifies the instance within the run and the
	// history store, e.g. "radarr0".
	Key() string

	// URL returns the instance endpoint, for logging.
	URL() string

	// Snapshot fetches all upgrade-relevant items with their cutoff state.
	Snapshot(ctx context.Context) ([]Item, error)

	// Search asks the instance to re-search the given item IDs.
	Search(ctx context.Context, ids []int64) error
}

// History answers whether an item was searched too recently and records
// new searches.
type History interface {
	IsCoolingDown(instance string, itemID int64, now time.Time, cooldown time.Duration) (bool, error)
	Record(instance string, itemID int64, title string, now time.Time) error
}
