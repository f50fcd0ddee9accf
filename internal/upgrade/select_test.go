package upgrade

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{ID: int64(i + 1), Title: fmt.Sprintf("Item %d", i+1)}
	}
	return items
}

func TestSelect_Bounds(t *testing.T) {
	tests := []struct {
		name      string
		items     int
		cap       int
		remaining int
		want      int
	}{
		{"cap binds", 10, 3, 100, 3},
		{"budget binds", 10, 8, 2, 2},
		{"pool binds", 2, 5, 5, 2},
		{"zero cap selects nothing", 10, 0, 100, 0},
		{"zero budget selects nothing", 10, 5, 0, 0},
		{"unlimited cap", 4, -1, 100, 4},
		{"unlimited budget", 4, 100, -1, 4},
		{"both unlimited", 4, -1, -1, 4},
		{"empty pool", 0, 5, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(1))
			got := Select(testItems(tt.items), tt.cap, tt.remaining, rng)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestSelect_NoDuplicatesAndMembership(t *testing.T) {
	items := testItems(20)
	rng := rand.New(rand.NewSource(42))

	selected := Select(items, 10, -1, rng)
	require.Len(t, selected, 10)

	seen := make(map[int64]bool)
	for _, item := range selected {
		assert.False(t, seen[item.ID], "item %d selected twice", item.ID)
		seen[item.ID] = true
		assert.GreaterOrEqual(t, item.ID, int64(1))
		assert.LessOrEqual(t, item.ID, int64(20))
	}
}

func TestSelect_SeededDeterminism(t *testing.T) {
	items := testItems(50)

	a := Select(items, 5, -1, rand.New(rand.NewSource(7)))
	b := Select(items, 5, -1, rand.New(rand.NewSource(7)))
	assert.Equal(t, a, b)
}

func TestSelect_VariesAcrossSeeds(t *testing.T) {
	items := testItems(50)

	a := Select(items, 5, -1, rand.New(rand.NewSource(1)))
	b := Select(items, 5, -1, rand.New(rand.NewSource(2)))
	assert.NotEqual(t, a, b, "different seeds should pick different subsets")
}
