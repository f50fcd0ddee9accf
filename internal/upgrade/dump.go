package upgrade

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

type dumpItem struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	CutoffMet bool   `json:"cutoffMet"`
	Eligible  bool   `json:"eligible"`
}

// writeSnapshotDump serializes an instance's full snapshot with computed
// eligibility flags for offline inspection. It never influences selection.
func writeSnapshotDump(dir, instance string, items, eligible []Item) (string, error) {
	eligibleIDs := make(map[int64]bool, len(eligible))
	for _, item := range eligible {
		eligibleIDs[item.ID] = true
	}

	rows := make([]dumpItem, 0, len(items))
	for _, item := range items {
		rows = append(rows, dumpItem{
			ID:        item.ID,
			Title:     item.Title,
			CutoffMet: item.CutoffMet,
			Eligible:  eligibleIDs[item.ID],
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Title < rows[j].Title })

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal dump: %w", err)
	}

	path := filepath.Join(dir, "debug-"+instance+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write dump: %w", err)
	}
	return path, nil
}
