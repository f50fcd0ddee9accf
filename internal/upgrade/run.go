package upgrade

import (
	"context"
	"log/slog"
	"math/rand"
	"time"
)

// Options configures one run.
type Options struct {
	// MaxUpgrades is the global search budget. Zero disables all
	// searches, negative means unlimited.
	MaxUpgrades int

	// Cooldown is the minimum age before an already-searched item may be
	// selected again.
	Cooldown time.Duration

	// Delay is the pacing interval between instances.
	Delay time.Duration

	// DryRun computes selections but sends no search commands and
	// records no history.
	DryRun bool

	// Debug writes a per-instance snapshot dump with eligibility flags.
	Debug bool

	// DataDir is where debug dumps are written.
	DataDir string
}

// Instance pairs a catalog with its per-run upgrade cap.
type Instance struct {
	Catalog Catalog

	// Cap limits selections for this instance. Zero disables selection,
	// negative means unlimited.
	Cap int
}

// InstanceResult summarizes one instance's share of a run.
type InstanceResult struct {
	Key      string
	Fetched  int
	Eligible int
	Selected int
	Searched int
	Err      error
}

// Summary aggregates a whole run.
type Summary struct {
	Instances []InstanceResult
	Selected  int
	Searched  int
	Skipped   int
}

// Runner sequences instances through fetch, filter, select, trigger and
// record. Instances are processed one at a time, in configuration order,
// with a blocking pacing delay in between.
type Runner struct {
	instances []Instance
	history   History
	opts      Options
	log       *slog.Logger

	rng   *rand.Rand
	sleep func(time.Duration)
	now   func() time.Time
}

// NewRunner creates a runner over the given instances.
func NewRunner(instances []Instance, hist History, opts Options, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{
		instances: instances,
		history:   hist,
		opts:      opts,
		log:       log,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:     time.Sleep,
		now:       time.Now,
	}
}

// Run executes one full run and returns its summary. Per-instance remote
// failures are recorded and skipped, never fatal.
func (r *Runner) Run(ctx context.Context) Summary {
	budget := r.opts.MaxUpgrades
	if r.opts.DryRun {
		r.log.Info("dry run enabled, no search commands will be sent")
	}

	var sum Summary
	for i, inst := range r.instances {
		res := r.processInstance(ctx, inst, &budget)
		sum.Instances = append(sum.Instances, res)
		sum.Selected += res.Selected
		sum.Searched += res.Searched
		if res.Err != nil {
			sum.Skipped++
		}

		last := i == len(r.instances)-1
		if r.opts.Delay > 0 && !last && !r.opts.DryRun {
			r.log.Info("waiting before next instance", "delay", r.opts.Delay)
			r.sleep(r.opts.Delay)
		}
	}

	r.log.Info("run complete",
		"instances", len(sum.Instances),
		"selected", sum.Selected,
		"searched", sum.Searched,
		"skipped", sum.Skipped,
	)
	return sum
}

func (r *Runner) processInstance(ctx context.Context, inst Instance, budget *int) InstanceResult {
	key := inst.Catalog.Key()
	res := InstanceResult{Key: key}
	log := r.log.With("instance", key)
	log.Info("processing instance", "url", inst.Catalog.URL())

	items, err := inst.Catalog.Snapshot(ctx)
	if err != nil {
		log.Error("catalog fetch failed, skipping instance", "error", err)
		res.Err = err
		return res
	}
	res.Fetched = len(items)

	now := r.now()
	eligible := Eligible(items, key, now, r.opts.Cooldown, r.history, log)
	res.Eligible = len(eligible)
	log.Info("eligibility computed", "fetched", len(items), "eligible", len(eligible))

	if r.opts.Debug {
		path, err := writeSnapshotDump(r.opts.DataDir, key, items, eligible)
		if err != nil {
			log.Warn("debug dump failed", "error", err)
		} else {
			log.Info("debug dump written", "path", path)
		}
	}

	selected := Select(eligible, inst.Cap, *budget, r.rng)
	res.Selected = len(selected)
	if *budget > 0 {
		*budget -= len(selected)
		if *budget < 0 {
			*budget = 0
		}
	}
	if len(selected) == 0 {
		log.Info("nothing selected", "cap", inst.Cap)
		return res
	}

	ids := make([]int64, len(selected))
	for i, item := range selected {
		ids[i] = item.ID
		log.Info("queueing search", "title", item.Title, "id", item.ID, "dry_run", r.opts.DryRun)
	}

	if r.opts.DryRun {
		return res
	}

	if err := inst.Catalog.Search(ctx, ids); err != nil {
		log.Error("search command failed", "items", len(ids), "error", err)
		res.Err = err
		return res
	}
	res.Searched = len(selected)

	for _, item := range selected {
		if err := r.history.Record(key, item.ID, item.Title, now); err != nil {
			log.Error("recording search history failed", "id", item.ID, "error", err)
		}
	}
	return res
}
