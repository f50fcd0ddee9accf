// Package match normalizes media titles and scores their similarity, used
// to filter search history by human-typed titles.
package match

import (
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultThreshold is the minimum similarity considered a match.
const DefaultThreshold = 0.70

// Normalize prepares a title for comparison: lowercase, accents folded,
// punctuation stripped, leading articles removed, whitespace collapsed.
func Normalize(title string) string {
	s := strings.ToLower(title)
	s = removeAccents(s)
	s = strings.ReplaceAll(s, "&", " and ")

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	if len(fields) > 1 {
		switch fields[0] {
		case "the", "a", "an":
			fields = fields[1:]
		}
	}
	return strings.Join(fields, " ")
}

// Similarity returns the Jaro-Winkler similarity of two titles after
// normalization, in [0, 1].
func Similarity(a, b string) float64 {
	return float64(edlib.JaroWinklerSimilarity(Normalize(a), Normalize(b)))
}

// Matches reports whether query matches title at DefaultThreshold, either
// by fuzzy similarity or by normalized substring containment so short
// queries still hit long episode titles.
func Matches(title, query string) bool {
	if strings.Contains(Normalize(title), Normalize(query)) {
		return true
	}
	return Similarity(title, query) >= DefaultThreshold
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}
