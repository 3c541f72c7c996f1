// Package similarity scores how well an extracted text fragment matches a
// ground-truth paragraph. The metric is substring-tolerant: extraction
// fragments are usually truncated relative to full paragraphs, so the score
// is the best alignment of the shorter string inside the longer one, not a
// whole-string edit ratio.
package similarity

import (
	"fmt"

	"github.com/lexalign/lexalign/internal/normalize"
)

// MinLength is the minimum normalized length either input must have.
// Anything shorter (page numbers, stray characters, running heads) scores
// 0.0 so it can never accidentally match a real paragraph.
const MinLength = 10

// Scorer computes a similarity score in [0, 1] between two raw strings.
// Implementations must be deterministic and pure: same inputs, same score.
type Scorer interface {
	Score(a, b string) float64
}

// NewScorer creates a scorer for the named backend. The backends implement
// the same metric; the trigram backend trades exhaustive window search for
// indexed candidate positions on long paragraphs.
func NewScorer(backend string) (Scorer, error) {
	switch backend {
	case "", "brute":
		return NewBruteScorer(), nil
	case "trigram":
		return NewTrigramScorer(), nil
	default:
		return nil, fmt.Errorf("unknown similarity backend: %q (expected brute or trigram)", backend)
	}
}

// prepare normalizes both inputs and orders them shorter-first.
// ok is false when either side is below MinLength.
func prepare(a, b string) (short, long []rune, ok bool) {
	na := normalize.Normalize(a)
	nb := normalize.Normalize(b)

	ra := []rune(na)
	rb := []rune(nb)
	if len(ra) < MinLength || len(rb) < MinLength {
		return nil, nil, false
	}

	if len(ra) <= len(rb) {
		return ra, rb, true
	}
	return rb, ra, true
}

// windowRatio scores the shorter string against the fixed-length window of
// long starting at start, clamped to valid bounds.
func windowRatio(short, long []rune, start int) float64 {
	if start < 0 {
		start = 0
	}
	if start > len(long)-len(short) {
		start = len(long) - len(short)
	}
	window := long[start : start+len(short)]
	dist := levenshtein(short, window)
	return 1.0 - float64(dist)/float64(len(short))
}

// levenshtein computes the edit distance between two rune slices using the
// two-row dynamic programming formulation.
func levenshtein(s1, s2 []rune) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)

	for j := 0; j <= len(s2); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// containsRunes reports whether needle occurs verbatim inside haystack.
func containsRunes(haystack, needle []rune) bool {
	if len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if runesEqual(haystack[i:i+len(needle)], needle) {
			return true
		}
	}
	return false
}
