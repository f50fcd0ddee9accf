package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Léon: The Professional", "leon the professional"},
		{"The Matrix", "matrix"},
		{"A Quiet Place", "quiet place"},
		{"An American Werewolf in London", "american werewolf in london"},
		{"Fast & Furious", "fast and furious"},
		{"  Spaced   Out  ", "spaced out"},
		{"WALL·E", "wall e"},
		{"The", "the"}, // lone article survives
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("The Matrix", "matrix"), 0.001)
	assert.Greater(t, Similarity("Léon: The Professional", "leon professional"), 0.8)
	assert.Less(t, Similarity("The Matrix", "Blade Runner"), DefaultThreshold)
}

func TestMatches(t *testing.T) {
	tests := []struct {
		title string
		query string
		want  bool
	}{
		{"Léon: The Professional", "leon professional", true},
		{"Blade Runner 2049", "blade runner", true}, // substring containment
		{"Good Show - S01E02 - The Long Goodbye", "long goodbye", true},
		{"The Matrix", "matrix", true},
		{"The Matrix", "blade runner", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Matches(tt.title, tt.query), "Matches(%q, %q)", tt.title, tt.query)
	}
}
