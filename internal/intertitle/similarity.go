package intertitle

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultSimilarityThreshold is the ratio at or above which two paragraphs
// are the same intertitle.
const DefaultSimilarityThreshold = 0.9

// scores two strings in [0,1], 1.0 meaning identical
type SimilarityFunc func(a, b string) float64

// Ratio is the sequence-alignment similarity of a and b computed over
// characters: twice the matched characters divided by the total length.
func Ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	m := difflib.NewMatcher(splitRunes(a), splitRunes(b))
	return m.Ratio()
}

func splitRunes(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "")
}
