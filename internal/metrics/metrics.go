// Package metrics computes per-class precision, recall and F1 for an
// alignment run and validates the results. A precision or recall outside
// [0, 1] means the one-to-one invariant was violated upstream (the
// duplicate-matching defect that once produced F1 scores above 1.0), so it
// is a fatal data-integrity error here, never a warning.
package metrics

import (
	"fmt"

	"github.com/lexalign/lexalign/internal/model"
)

// IntegrityError reports an impossible metric value. Results carrying one
// must never flow into an aggregate corpus-quality report.
type IntegrityError struct {
	ArticleID string
	Label     model.Label
	Metric    string
	Value     float64
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("data integrity: %s %s for class %q is %.4f, outside [0,1] (one-to-one enforcement violated upstream?)",
		e.ArticleID, e.Metric, e.Label, e.Value)
}

// Compute calculates per-class metrics and the macro-F1 for one article's
// matches against its ground-truth pools.
//
// Counting rules:
//   - predicted(C): matches labeled C from a ground-truth match. Fallback
//     labels have no ground truth to verify and are excluded entirely.
//   - true positives(C): predicted C where the matched paragraph's
//     authoritative label is also C.
//   - actual(C): paragraphs labeled C in the ground truth. A paragraph no
//     item claimed is a silent false negative and reduces recall; it is not
//     an error.
//
// A class absent from both ground truth and predictions contributes nothing
// to the macro average.
func Compute(articleID string, matches []model.Match, gt *model.GroundTruth) ([]model.ClassMetrics, float64, error) {
	var classes []model.ClassMetrics

	for _, label := range model.TrainingLabels {
		tp, predicted := 0, 0
		for _, m := range matches {
			if m.CorrectedLabel == nil || *m.CorrectedLabel != label || m.FromFallback {
				continue
			}
			predicted++
			if m.GroundTruth != nil && m.GroundTruth.Label == label {
				tp++
			}
		}

		actual := len(gt.Pool(label))
		if actual == 0 && predicted == 0 {
			continue
		}

		cm := model.ClassMetrics{
			Label:         label,
			TruePositives: tp,
			Predicted:     predicted,
			Actual:        actual,
		}
		if predicted > 0 {
			cm.Precision = float64(tp) / float64(predicted)
		}
		if actual > 0 {
			cm.Recall = float64(tp) / float64(actual)
		}
		cm.F1 = f1(cm.Precision, cm.Recall)

		if err := validate(articleID, cm); err != nil {
			return nil, 0, err
		}

		classes = append(classes, cm)
	}

	return classes, MacroF1(classes), nil
}

// MacroF1 is the unweighted mean of per-class F1 scores.
func MacroF1(classes []model.ClassMetrics) float64 {
	if len(classes) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range classes {
		sum += c.F1
	}
	return sum / float64(len(classes))
}

// Aggregate micro-averages class counts across articles and revalidates the
// combined precision and recall.
func Aggregate(reports []*model.Report) ([]model.ClassMetrics, float64, error) {
	totals := make(map[model.Label]*model.ClassMetrics)
	for _, r := range reports {
		for _, c := range r.Classes {
			t, ok := totals[c.Label]
			if !ok {
				t = &model.ClassMetrics{Label: c.Label}
				totals[c.Label] = t
			}
			t.TruePositives += c.TruePositives
			t.Predicted += c.Predicted
			t.Actual += c.Actual
		}
	}

	var classes []model.ClassMetrics
	for _, label := range model.TrainingLabels {
		t, ok := totals[label]
		if !ok {
			continue
		}
		if t.Predicted > 0 {
			t.Precision = float64(t.TruePositives) / float64(t.Predicted)
		}
		if t.Actual > 0 {
			t.Recall = float64(t.TruePositives) / float64(t.Actual)
		}
		t.F1 = f1(t.Precision, t.Recall)

		if err := validate("aggregate", *t); err != nil {
			return nil, 0, err
		}
		classes = append(classes, *t)
	}

	return classes, MacroF1(classes), nil
}

// validate asserts the metric bounds for one class.
func validate(articleID string, cm model.ClassMetrics) error {
	if cm.Precision < 0 || cm.Precision > 1 {
		return &IntegrityError{ArticleID: articleID, Label: cm.Label, Metric: "precision", Value: cm.Precision}
	}
	if cm.Recall < 0 || cm.Recall > 1 {
		return &IntegrityError{ArticleID: articleID, Label: cm.Label, Metric: "recall", Value: cm.Recall}
	}
	return nil
}

// f1 is the harmonic mean of precision and recall.
func f1(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}
