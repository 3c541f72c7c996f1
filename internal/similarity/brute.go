package similarity

// BruteScorer slides a fixed-length window across the longer string and
// keeps the best edit ratio. Exhaustive and exact for the metric; quadratic
// in paragraph length, which is fine for law-review paragraphs.
type BruteScorer struct{}

// NewBruteScorer creates a brute-force scorer.
func NewBruteScorer() *BruteScorer {
	return &BruteScorer{}
}

// Score returns the best alignment ratio of the shorter input within the
// longer one, in [0, 1]. Inputs below MinLength after normalization score 0.
func (s *BruteScorer) Score(a, b string) float64 {
	short, long, ok := prepare(a, b)
	if !ok {
		return 0.0
	}

	if containsRunes(long, short) {
		return 1.0
	}

	best := 0.0
	for start := 0; start+len(short) <= len(long); start++ {
		ratio := windowRatio(short, long, start)
		if ratio > best {
			best = ratio
			if best == 1.0 {
				break
			}
		}
	}

	return best
}
