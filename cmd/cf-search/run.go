package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/gitdeath/cf-search/internal/arr"
	"github.com/gitdeath/cf-search/internal/config"
	"github.com/gitdeath/cf-search/internal/history"
	"github.com/gitdeath/cf-search/internal/upgrade"
)

var (
	dryRunFlag bool
	debugFlag  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scan all instances and trigger upgrade searches",
	Long: `Performs one full run: fetches each instance's catalog, filters items
below their quality-profile cutoff that are outside the cooldown window,
randomly selects up to the configured caps, and triggers searches.

Exits 0 on a completed run even when individual instances were skipped
due to remote errors.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runOnce(cmd)
	},
}

func init() {
	runCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Compute selection but send no search commands")
	runCmd.Flags().BoolVar(&debugFlag, "debug", false, "Write per-instance catalog dumps with eligibility flags")
	rootCmd.AddCommand(runCmd)
}

func runOnce(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if dryRunFlag {
		cfg.DryRun = true
	}
	if debugFlag {
		cfg.Debug = true
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("starting upgrade search run",
		"instances", len(cfg.Instances),
		"max_upgrades", cfg.MaxUpgrades,
		"cooldown_days", cfg.CooldownDays,
		"dry_run", cfg.DryRun,
	)

	if len(cfg.Instances) == 0 {
		logger.Warn("no instances configured, nothing to do")
		return nil
	}

	// One run at a time: overlapping scheduled invocations must not share
	// the history store mid-run.
	lock := flock.New(filepath.Join(cfg.DataDir, "cf-search.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return errors.New("another cf-search run is already in progress")
	}
	defer func() { _ = lock.Unlock() }()

	store, err := history.Open(filepath.Join(cfg.DataDir, "history.db"), logger.With("component", "history"))
	if err != nil {
		return fmt.Errorf("history store: %w", err)
	}
	defer func() { _ = store.Close() }()

	if pruned, err := store.Prune(time.Now(), cfg.Cooldown()); err != nil {
		logger.Warn("pruning history failed", "error", err)
	} else if pruned > 0 {
		logger.Info("pruned expired history entries", "count", pruned)
	}

	instances := make([]upgrade.Instance, 0, len(cfg.Instances))
	for _, ic := range cfg.Instances {
		client := arr.NewClient(ic.URL, ic.APIKey)
		catalogLog := logger.With("component", "catalog", "instance", ic.Key)

		var catalog upgrade.Catalog
		switch ic.Kind {
		case config.KindSonarr:
			catalog = arr.NewEpisodeCatalog(ic.Key, client, catalogLog)
		default:
			catalog = arr.NewMovieCatalog(ic.Key, client, catalogLog)
		}
		instances = append(instances, upgrade.Instance{Catalog: catalog, Cap: ic.Limit})
	}

	runner := upgrade.NewRunner(instances, store, upgrade.Options{
		MaxUpgrades: cfg.MaxUpgrades,
		Cooldown:    cfg.Cooldown(),
		Delay:       cfg.Delay(),
		DryRun:      cfg.DryRun,
		Debug:       cfg.Debug,
		DataDir:     cfg.DataDir,
	}, logger.With("component", "run"))

	sum := runner.Run(cmd.Context())

	for _, res := range sum.Instances {
		if res.Err != nil {
			fmt.Printf("%s: skipped (%v)\n", res.Key, res.Err)
			continue
		}
		fmt.Printf("%s: %d items, %d eligible, %d selected, %d searched\n",
			res.Key, res.Fetched, res.Eligible, res.Selected, res.Searched)
	}
	fmt.Printf("total: %d searched, %d instances skipped\n", sum.Searched, sum.Skipped)
	return nil
}
