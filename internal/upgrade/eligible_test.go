package upgrade

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeHistory struct {
	cooling map[int64]bool
	err     error
	records []int64
}

func (f *fakeHistory) IsCoolingDown(_ string, itemID int64, _ time.Time, _ time.Duration) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.cooling[itemID], nil
}

func (f *fakeHistory) Record(_ string, itemID int64, _ string, _ time.Time) error {
	f.records = append(f.records, itemID)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEligible_ExcludesCutoffMet(t *testing.T) {
	items := []Item{
		{ID: 1, Title: "Needs Upgrade", CutoffMet: false},
		{ID: 2, Title: "Already Good", CutoffMet: true},
	}
	hist := &fakeHistory{}

	got := Eligible(items, "radarr0", time.Now(), time.Hour, hist, discardLogger())
	assert.Equal(t, []Item{items[0]}, got)
}

func TestEligible_ExcludesCoolingDown(t *testing.T) {
	items := []Item{
		{ID: 1, Title: "Fresh", CutoffMet: false},
		{ID: 2, Title: "Recently Searched", CutoffMet: false},
	}
	hist := &fakeHistory{cooling: map[int64]bool{2: true}}

	got := Eligible(items, "radarr0", time.Now(), time.Hour, hist, discardLogger())
	assert.Equal(t, []Item{items[0]}, got)
}

func TestEligible_HistoryErrorKeepsItem(t *testing.T) {
	items := []Item{{ID: 1, Title: "Unknown State", CutoffMet: false}}
	hist := &fakeHistory{err: errors.New("disk gone")}

	got := Eligible(items, "radarr0", time.Now(), time.Hour, hist, discardLogger())
	assert.Equal(t, items, got)
}

func TestEligible_EmptyInput(t *testing.T) {
	got := Eligible(nil, "radarr0", time.Now(), time.Hour, &fakeHistory{}, discardLogger())
	assert.Empty(t, got)
}
