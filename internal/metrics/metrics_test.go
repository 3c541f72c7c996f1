package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/lexalign/lexalign/internal/model"
)

func para(text string, label model.Label, idx int) model.GroundTruthParagraph {
	return model.GroundTruthParagraph{Text: text, Label: label, SequenceIndex: idx}
}

func matchTo(p model.GroundTruthParagraph, as model.Label) model.Match {
	label := as
	return model.Match{
		GroundTruth:    &p,
		Ref:            &model.GroundTruthRef{Label: p.Label, Index: p.SequenceIndex},
		Similarity:     0.9,
		CorrectedLabel: &label,
	}
}

func TestCompute_PerfectAlignment(t *testing.T) {
	body := para("The court held that the defendant was liable.", model.LabelBodyText, 0)
	note := para("1 See Smith v. Jones, 2020.", model.LabelFootnoteText, 0)
	gt := &model.GroundTruth{
		ArticleID: "a",
		Body:      []model.GroundTruthParagraph{body},
		Footnotes: []model.GroundTruthParagraph{note},
	}
	matches := []model.Match{
		matchTo(body, model.LabelBodyText),
		matchTo(note, model.LabelFootnoteText),
	}

	classes, macro, err := Compute("a", matches, gt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(classes) != 2 {
		t.Fatalf("expected 2 classes, got %d", len(classes))
	}
	for _, c := range classes {
		if c.Precision != 1.0 || c.Recall != 1.0 || c.F1 != 1.0 {
			t.Errorf("class %s: p=%f r=%f f1=%f, want all 1.0", c.Label, c.Precision, c.Recall, c.F1)
		}
	}
	if macro != 1.0 {
		t.Errorf("macro-F1 = %f, want 1.0", macro)
	}
}

func TestCompute_UnmatchedGroundTruthReducesRecall(t *testing.T) {
	p0 := para("First body paragraph.", model.LabelBodyText, 0)
	p1 := para("Second body paragraph, never matched.", model.LabelBodyText, 1)
	gt := &model.GroundTruth{Body: []model.GroundTruthParagraph{p0, p1}}

	matches := []model.Match{
		matchTo(p0, model.LabelBodyText),
		{Similarity: 0.1}, // unmatched item: no label, no effect
	}

	classes, _, err := Compute("a", matches, gt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(classes) != 1 {
		t.Fatalf("expected 1 class, got %d", len(classes))
	}
	c := classes[0]
	if c.Precision != 1.0 {
		t.Errorf("precision = %f, want 1.0", c.Precision)
	}
	if c.Recall != 0.5 {
		t.Errorf("recall = %f, want 0.5 (silent false negative)", c.Recall)
	}
}

// Scenario: three fragments all claim the same long paragraph because
// one-to-one enforcement was off. Recall computes as 3/1 and the validator
// must refuse to report it.
func TestCompute_DuplicateClaimsAreFatal(t *testing.T) {
	p := para("One long body paragraph.", model.LabelBodyText, 0)
	gt := &model.GroundTruth{Body: []model.GroundTruthParagraph{p}}

	matches := []model.Match{
		matchTo(p, model.LabelBodyText),
		matchTo(p, model.LabelBodyText),
		matchTo(p, model.LabelBodyText),
	}

	_, _, err := Compute("a", matches, gt)
	if err == nil {
		t.Fatal("expected integrity error for recall > 1.0")
	}
	var integrity *IntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("expected *IntegrityError, got %T: %v", err, err)
	}
	if integrity.Metric != "recall" {
		t.Errorf("metric = %q, want recall", integrity.Metric)
	}
	if integrity.Value != 3.0 {
		t.Errorf("value = %f, want 3.0", integrity.Value)
	}
}

func TestCompute_Mislabel(t *testing.T) {
	// A footnote paragraph matched but corrected to the wrong class can
	// only happen via fallback or a future matcher bug; either way the
	// counts must stay within bounds.
	note := para("1 See Smith v. Jones.", model.LabelFootnoteText, 0)
	gt := &model.GroundTruth{Footnotes: []model.GroundTruthParagraph{note}}

	matches := []model.Match{matchTo(note, model.LabelBodyText)}

	classes, _, err := Compute("a", matches, gt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range classes {
		if c.Precision < 0 || c.Precision > 1 || c.Recall < 0 || c.Recall > 1 {
			t.Errorf("class %s out of bounds: %+v", c.Label, c)
		}
		if c.Label == model.LabelBodyText && c.Precision != 0 {
			t.Errorf("body precision = %f, want 0 (wrong-class prediction)", c.Precision)
		}
	}
}

func TestCompute_FallbackExcluded(t *testing.T) {
	p := para("Body paragraph.", model.LabelBodyText, 0)
	gt := &model.GroundTruth{Body: []model.GroundTruthParagraph{p}}

	label := model.LabelBodyText
	matches := []model.Match{
		matchTo(p, model.LabelBodyText),
		{CorrectedLabel: &label, FromFallback: true}, // must not count
	}

	classes, _, err := Compute("a", matches, gt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if classes[0].Predicted != 1 {
		t.Errorf("predicted = %d, want 1 (fallback rows excluded)", classes[0].Predicted)
	}
}

func TestAggregate(t *testing.T) {
	reports := []*model.Report{
		{
			ArticleID: "a", AlignedAt: time.Now(),
			Classes: []model.ClassMetrics{
				{Label: model.LabelBodyText, TruePositives: 8, Predicted: 10, Actual: 10},
				{Label: model.LabelFootnoteText, TruePositives: 4, Predicted: 4, Actual: 5},
			},
		},
		{
			ArticleID: "b", AlignedAt: time.Now(),
			Classes: []model.ClassMetrics{
				{Label: model.LabelBodyText, TruePositives: 2, Predicted: 2, Actual: 4},
			},
		},
	}

	classes, macro, err := Aggregate(reports)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(classes) != 2 {
		t.Fatalf("expected 2 classes, got %d", len(classes))
	}

	var body model.ClassMetrics
	for _, c := range classes {
		if c.Label == model.LabelBodyText {
			body = c
		}
	}
	if body.TruePositives != 10 || body.Predicted != 12 || body.Actual != 14 {
		t.Errorf("body totals = %+v", body)
	}
	if body.Precision != 10.0/12.0 {
		t.Errorf("body precision = %f", body.Precision)
	}
	if macro <= 0 || macro > 1 {
		t.Errorf("macro = %f out of range", macro)
	}
}

func TestAggregate_IntegrityError(t *testing.T) {
	reports := []*model.Report{
		{Classes: []model.ClassMetrics{
			{Label: model.LabelBodyText, TruePositives: 3, Predicted: 3, Actual: 1},
		}},
	}
	if _, _, err := Aggregate(reports); err == nil {
		t.Fatal("expected integrity error from aggregate revalidation")
	}
}

func TestMacroF1_Empty(t *testing.T) {
	if got := MacroF1(nil); got != 0 {
		t.Errorf("MacroF1(nil) = %f, want 0", got)
	}
}
