package upgrade

import (
	"math/rand"
	"time"
)

// Deterministic seams for runner tests.

func (r *Runner) SetRand(rng *rand.Rand) { r.rng = rng }

func (r *Runner) SetSleep(f func(time.Duration)) { r.sleep = f }

func (r *Runner) SetNow(f func() time.Time) { r.now = f }
