package model

// Label is a training class for a paragraph of article text.
type Label string

const (
	LabelBodyText     Label = "body-text"
	LabelFootnoteText Label = "footnote-text"
)

// TrainingLabels is the closed set of classes the corpus may contain.
var TrainingLabels = []Label{LabelBodyText, LabelFootnoteText}

// ParseLabel maps an external label string onto a training class.
// Returns false for anything outside the closed set.
func ParseLabel(s string) (Label, bool) {
	switch Label(s) {
	case LabelBodyText:
		return LabelBodyText, true
	case LabelFootnoteText:
		return LabelFootnoteText, true
	}
	return "", false
}

// GroundTruthParagraph is one paragraph from the HTML-derived rendering of an
// article. Its label is authoritative. SequenceIndex is the position within
// the class-specific list (body and footnote lists are indexed independently).
type GroundTruthParagraph struct {
	Text          string `json:"text"`
	Label         Label  `json:"label"`
	SequenceIndex int    `json:"sequence_index"`
}

// BoundingBox is a page-space rectangle from the layout engine.
type BoundingBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// ExtractedItem is one block from the PDF layout extraction, in original
// top-to-bottom extraction order. OriginalLabel comes from the upstream
// layout model and is untrusted; it is never used as ground truth.
type ExtractedItem struct {
	Text          string       `json:"text"`
	OriginalLabel string       `json:"label"`
	PageNumber    int          `json:"page"`
	BoundingBox   *BoundingBox `json:"bbox,omitempty"`
	SequenceIndex int          `json:"sequence_index"`
}

// GroundTruth holds an article's ground-truth paragraphs split into the two
// independently ordered candidate pools.
type GroundTruth struct {
	ArticleID string
	Body      []GroundTruthParagraph
	Footnotes []GroundTruthParagraph
}

// Pool returns the candidate pool for the given label.
func (g *GroundTruth) Pool(label Label) []GroundTruthParagraph {
	if label == LabelFootnoteText {
		return g.Footnotes
	}
	return g.Body
}

// Extraction holds an article's layout-extraction stream.
type Extraction struct {
	ArticleID string
	Items     []ExtractedItem
}
