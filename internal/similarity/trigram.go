package similarity

// TrigramScorer computes the same window-alignment metric as BruteScorer but
// only evaluates windows anchored where the two strings share character
// trigrams, instead of every position. On real OCR noise the best window
// always shares trigrams with the fragment, so the anchored search finds the
// same maximum at a fraction of the cost.
type TrigramScorer struct {
	// slack widens the band checked around each anchored position to absorb
	// small insertions/deletions before the anchor.
	slack int
}

// NewTrigramScorer creates an indexed scorer.
func NewTrigramScorer() *TrigramScorer {
	return &TrigramScorer{slack: 3}
}

// Score returns the best anchored alignment ratio in [0, 1]. Inputs below
// MinLength after normalization score 0.
func (s *TrigramScorer) Score(a, b string) float64 {
	short, long, ok := prepare(a, b)
	if !ok {
		return 0.0
	}

	if containsRunes(long, short) {
		return 1.0
	}

	starts := s.anchorStarts(short, long)
	if len(starts) == 0 {
		// No shared trigrams: the strings are unrelated. A single centered
		// window keeps the result bounded and deterministic.
		return windowRatio(short, long, (len(long)-len(short))/2)
	}

	best := 0.0
	for start := range starts {
		for offset := -s.slack; offset <= s.slack; offset++ {
			ratio := windowRatio(short, long, start+offset)
			if ratio > best {
				best = ratio
				if best == 1.0 {
					return best
				}
			}
		}
	}

	return best
}

// anchorStarts proposes window start positions in long by back-projecting
// every shared trigram: a trigram at offset o in short found at position p
// in long votes for a window starting at p-o.
func (s *TrigramScorer) anchorStarts(short, long []rune) map[int]struct{} {
	index := make(map[[3]rune][]int)
	for i := 0; i+3 <= len(long); i++ {
		key := [3]rune{long[i], long[i+1], long[i+2]}
		index[key] = append(index[key], i)
	}

	starts := make(map[int]struct{})
	for o := 0; o+3 <= len(short); o++ {
		key := [3]rune{short[o], short[o+1], short[o+2]}
		for _, p := range index[key] {
			start := p - o
			if start < 0 {
				start = 0
			}
			if start+len(short) > len(long) {
				start = len(long) - len(short)
			}
			starts[start] = struct{}{}
		}
	}

	return starts
}
