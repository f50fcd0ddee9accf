package upgrade

import "math/rand"

// Select draws items uniformly at random without replacement, bounded by
// the per-instance cap and the remaining global budget. A negative cap at
// either level means unlimited at that level; a cap of zero selects
// nothing even when eligible items exist.
func Select(items []Item, instanceCap, globalRemaining int, rng *rand.Rand) []Item {
	n := len(items)
	if instanceCap >= 0 && instanceCap < n {
		n = instanceCap
	}
	if globalRemaining >= 0 && globalRemaining < n {
		n = globalRemaining
	}
	if n <= 0 {
		return nil
	}

	selected := make([]Item, 0, n)
	for _, idx := range rng.Perm(len(items))[:n] {
		selected = append(selected, items[idx])
	}
	return selected
}
