package upgrade

import (
	"log/slog"
	"time"
)

// Eligible returns the items that are below cutoff and outside the
// cooldown window. Output order carries no meaning; selection randomizes
// regardless.
func Eligible(items []Item, instance string, now time.Time, cooldown time.Duration, hist History, log *slog.Logger) []Item {
	var out []Item
	for _, item := range items {
		if item.CutoffMet {
			continue
		}
		cooling, err := hist.IsCoolingDown(instance, item.ID, now, cooldown)
		if err != nil {
			// History is advisory; a failed lookup keeps the item in play.
			log.Warn("history lookup failed", "instance", instance, "id", item.ID, "error", err)
		}
		if cooling {
			log.Debug("skipping recently searched item", "instance", instance, "title", item.Title)
			continue
		}
		out = append(out, item)
	}
	return out
}
