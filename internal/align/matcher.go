// Package align assigns each PDF-extracted item to at most one ground-truth
// paragraph and emits the corrected label stream. This is the core of the
// corpus builder: normalized fuzzy scoring, one-to-one claiming, and
// locality-aware candidate windows.
package align

import (
	"strings"

	"github.com/lexalign/lexalign/internal/model"
	"github.com/lexalign/lexalign/internal/similarity"
)

// ClaimedSet tracks ground-truth paragraphs already claimed by an earlier
// extracted item. It is passed into each candidate search and extended with
// With rather than mutated in place, which keeps the sequential dependency
// between items explicit.
type ClaimedSet map[model.GroundTruthRef]struct{}

// Has reports whether ref has been claimed.
func (s ClaimedSet) Has(ref model.GroundTruthRef) bool {
	_, ok := s[ref]
	return ok
}

// With returns a copy of the set with ref added.
func (s ClaimedSet) With(ref model.GroundTruthRef) ClaimedSet {
	next := make(ClaimedSet, len(s)+1)
	for k := range s {
		next[k] = struct{}{}
	}
	next[ref] = struct{}{}
	return next
}

// Matcher aligns one article's extraction stream against its ground truth.
type Matcher struct {
	scorer similarity.Scorer
	cfg    model.AlignConfig
}

// NewMatcher creates a matcher using the given scorer and configuration.
func NewMatcher(scorer similarity.Scorer, cfg model.AlignConfig) *Matcher {
	return &Matcher{scorer: scorer, cfg: cfg}
}

// Align processes the extraction stream in order, producing exactly one
// Match per extracted item. With one-to-one enforcement on, a ground-truth
// paragraph claimed by an earlier item is unavailable to later ones; this is
// what keeps multiple short fragments from all matching the same long
// paragraph and inflating recall past 100%.
//
// The claiming step is inherently sequential. Do not parallelize this loop:
// each claim changes the candidate pool seen by every later item.
func (m *Matcher) Align(gt *model.GroundTruth, ex *model.Extraction) []model.Match {
	threshold := m.cfg.EffectiveThreshold()
	matches := make([]model.Match, 0, len(ex.Items))
	claimed := ClaimedSet{}

	for _, item := range ex.Items {
		best := m.findBest(item, len(ex.Items), gt, claimed)

		match := model.Match{Item: item, Similarity: best.score}
		if best.found && best.score >= threshold {
			para := best.para
			ref := best.ref
			label := para.Label
			match.GroundTruth = &para
			match.Ref = &ref
			match.CorrectedLabel = &label
			if m.cfg.EnforceOneToOne {
				claimed = claimed.With(ref)
			}
		} else if m.cfg.FallbackToOriginalLabel {
			if label, ok := fallbackLabel(item.OriginalLabel); ok {
				match.CorrectedLabel = &label
				match.FromFallback = true
			}
		}

		matches = append(matches, match)
	}

	return matches
}

// candidate is the running best during a search.
type candidate struct {
	found bool
	para  model.GroundTruthParagraph
	ref   model.GroundTruthRef
	score float64
	dist  int // distance from the predicted position, for tie-breaking
}

// findBest searches both candidate pools for the best-scoring unclaimed
// paragraph. In locality mode the search covers a symmetric window around
// the item's interpolated position first and widens to the full pools only
// when nothing in the window reaches the threshold.
func (m *Matcher) findBest(item model.ExtractedItem, totalItems int, gt *model.GroundTruth, claimed ClaimedSet) candidate {
	if m.cfg.Mode == model.ModeLocality {
		best := m.searchPools(item, totalItems, gt, claimed, true)
		if best.found && best.score >= m.cfg.EffectiveThreshold() {
			return best
		}
		// Window miss: widen once to the full pools.
		wide := m.searchPools(item, totalItems, gt, claimed, false)
		if wide.score > best.score || !best.found {
			return wide
		}
		return best
	}
	return m.searchPools(item, totalItems, gt, claimed, false)
}

// searchPools scans the body pool, then the footnote pool. Ascending scan
// order plus strict-improvement comparison gives the deterministic
// tie-break: equal scores prefer the candidate closest to the predicted
// position, then the lowest sequence index.
func (m *Matcher) searchPools(item model.ExtractedItem, totalItems int, gt *model.GroundTruth, claimed ClaimedSet, windowed bool) candidate {
	var best candidate
	m.searchPool(item, totalItems, gt.Body, model.LabelBodyText, claimed, windowed, &best)
	m.searchPool(item, totalItems, gt.Footnotes, model.LabelFootnoteText, claimed, windowed, &best)
	return best
}

func (m *Matcher) searchPool(item model.ExtractedItem, totalItems int, pool []model.GroundTruthParagraph, label model.Label, claimed ClaimedSet, windowed bool, best *candidate) {
	if len(pool) == 0 {
		return
	}

	predicted := predictedIndex(item.SequenceIndex, totalItems, len(pool))
	lo, hi := 0, len(pool)
	if windowed {
		lo = predicted - m.cfg.WindowRadius
		hi = predicted + m.cfg.WindowRadius + 1
		if lo < 0 {
			lo = 0
		}
		if hi > len(pool) {
			hi = len(pool)
		}
	}

	for i := lo; i < hi; i++ {
		ref := model.GroundTruthRef{Label: label, Index: pool[i].SequenceIndex}
		if claimed.Has(ref) {
			continue
		}

		score := m.scorer.Score(item.Text, pool[i].Text)
		if score == 0 {
			continue
		}

		dist := pool[i].SequenceIndex - predicted
		if dist < 0 {
			dist = -dist
		}

		if !best.found || score > best.score || (score == best.score && dist < best.dist) {
			*best = candidate{
				found: true,
				para:  pool[i],
				ref:   ref,
				score: score,
				dist:  dist,
			}
		}
	}
}

// predictedIndex interpolates the item's position in the extraction stream
// onto the candidate pool.
func predictedIndex(itemIndex, totalItems, poolSize int) int {
	if totalItems <= 1 || poolSize == 0 {
		return 0
	}
	frac := float64(itemIndex) / float64(totalItems-1)
	idx := int(frac*float64(poolSize-1) + 0.5)
	if idx >= poolSize {
		idx = poolSize - 1
	}
	return idx
}

// fallbackLabel maps an untrusted upstream layout label onto a training
// class. Invoked only when no ground-truth candidate met the threshold and
// the fallback option is on.
func fallbackLabel(original string) (model.Label, bool) {
	s := strings.ToLower(strings.TrimSpace(original))
	switch {
	case strings.Contains(s, "foot") || strings.Contains(s, "note"):
		return model.LabelFootnoteText, true
	case strings.Contains(s, "body") || strings.Contains(s, "text") || strings.Contains(s, "para"):
		return model.LabelBodyText, true
	}
	return "", false
}
