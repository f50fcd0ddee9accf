package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/gitdeath/cf-search/internal/history"
	"github.com/gitdeath/cf-search/internal/match"
)

var (
	historyInstance string
	historyMatch    string
	historyLimit    int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded upgrade searches",
	Long: `Lists recorded searches, newest first. --match filters by fuzzy title
similarity, so "leon professional" finds "Léon: The Professional".`,
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg.LogLevel)

		store, err := history.Open(filepath.Join(cfg.DataDir, "history.db"), logger.With("component", "history"))
		if err != nil {
			return fmt.Errorf("history store: %w", err)
		}
		defer func() { _ = store.Close() }()

		// Fetch unbounded when filtering; the limit applies to matches.
		fetchLimit := historyLimit
		if historyMatch != "" {
			fetchLimit = 0
		}
		entries, err := store.Entries(historyInstance, fetchLimit)
		if err != nil {
			return err
		}

		shown := 0
		for _, e := range entries {
			if historyMatch != "" && !match.Matches(e.Title, historyMatch) {
				continue
			}
			fmt.Printf("%s  %-10s %8d  %s\n", e.SearchedAt.Format(time.RFC3339), e.Instance, e.ItemID, e.Title)
			shown++
			if historyLimit > 0 && shown >= historyLimit {
				break
			}
		}
		if shown == 0 {
			fmt.Println("no matching history entries")
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyInstance, "instance", "", "Only show entries for this instance key (e.g. radarr0)")
	historyCmd.Flags().StringVar(&historyMatch, "match", "", "Fuzzy-filter entries by title")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 50, "Maximum entries to show (0 = all)")
	rootCmd.AddCommand(historyCmd)
}
