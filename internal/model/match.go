package model

// GroundTruthRef identifies a ground-truth paragraph by pool and position.
// The pair is stable for the lifetime of an alignment run and doubles as the
// key in the claimed set.
type GroundTruthRef struct {
	Label Label `json:"label"`
	Index int   `json:"index"`
}

// Match is the alignment result for a single extracted item. GroundTruth is
// nil when no candidate met the similarity threshold; such items are excluded
// from the training corpus.
type Match struct {
	Item           ExtractedItem         `json:"item"`
	GroundTruth    *GroundTruthParagraph `json:"ground_truth,omitempty"`
	Ref            *GroundTruthRef       `json:"ref,omitempty"`
	Similarity     float64               `json:"similarity"`
	CorrectedLabel *Label                `json:"corrected_label,omitempty"`
	// FromFallback marks labels recovered from the untrusted upstream label
	// rather than a ground-truth match. Fallback rows never count as
	// ground-truth agreement in metrics.
	FromFallback bool `json:"from_fallback,omitempty"`
}

// Matched reports whether the item was aligned to a ground-truth paragraph.
func (m *Match) Matched() bool {
	return m.GroundTruth != nil
}

// CorpusRow is one row of the emitted training corpus.
type CorpusRow struct {
	Text       string `json:"text"`
	Label      Label  `json:"label"`
	Source     string `json:"source"`
	PageNumber int    `json:"page"`
}
