package curation

import (
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NameMatcher picks the provider entry that best matches a hotel name.
type NameMatcher interface {
	// Best returns the index of the best match in names, its similarity in
	// [0,1], and false when nothing clears the matcher's threshold.
	Best(query string, names []string) (int, float64, bool)
}

// LevenshteinMatcher compares accent-folded, lower-cased names by edit
// distance similarity.
type LevenshteinMatcher struct {
	Threshold float64
}

func NewLevenshteinMatcher(threshold float64) LevenshteinMatcher {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.6
	}
	return LevenshteinMatcher{Threshold: threshold}
}

var nameNoise = []string{"hotel", "resort", "& spa", "and spa", "the "}

func (m LevenshteinMatcher) Best(query string, names []string) (int, float64, bool) {
	q := matchKey(query)
	best, bestScore := -1, 0.0
	for i, n := range names {
		k := matchKey(n)
		var s float64
		switch {
		case k == "" || q == "":
			continue
		case k == q:
			s = 1
		default:
			s = levenshtein.Similarity(q, k, nil)
			// containment is a strong signal for "Hotel X" vs "X Resort & Spa"
			if (strings.Contains(k, q) || strings.Contains(q, k)) && s < 0.9 {
				s = 0.9
			}
		}
		if s > bestScore {
			best, bestScore = i, s
		}
	}
	if best < 0 || bestScore < m.Threshold {
		return -1, bestScore, false
	}
	return best, bestScore, true
}

func matchKey(s string) string {
	s = Fold(s)
	for _, n := range nameNoise {
		s = strings.ReplaceAll(s, n, " ")
	}
	return strings.Join(strings.Fields(s), " ")
}

// Fold lower-cases s and strips diacritics ("Mýkonos" -> "mykonos").
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
