package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lexalign/lexalign/internal/model"
)

// Renderer writes reports to files and the terminal.
type Renderer struct {
	verbose bool
}

// NewRenderer creates a renderer.
func NewRenderer(verbose bool) *Renderer {
	return &Renderer{verbose: verbose}
}

// RenderJSON writes any report value as indented JSON.
func (r *Renderer) RenderJSON(v interface{}, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderSummary prints a per-article summary to stderr.
func (r *Renderer) RenderSummary(report *model.Report) {
	cached := ""
	if report.FromCache {
		cached = " (cached)"
	}
	fmt.Fprintf(os.Stderr, "✓ %s%s: %d extracted, %d matched, %d unmatched, macro-F1 %.3f\n",
		report.ArticleID, cached, report.Extracted, report.Matched, report.Unmatched, report.MacroF1)

	if r.verbose {
		for _, c := range report.Classes {
			fmt.Fprintf(os.Stderr, "    %-14s precision %.3f  recall %.3f  f1 %.3f  (%d/%d predicted, %d actual)\n",
				c.Label, c.Precision, c.Recall, c.F1, c.TruePositives, c.Predicted, c.Actual)
		}
	}
}

// RenderAggregate prints the batch quality report to stderr.
func (r *Renderer) RenderAggregate(agg *model.AggregateReport) {
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Corpus Quality Report\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Articles:   %d (%d ok, %d failed, %d cached)\n",
		agg.Articles, agg.Succeeded, agg.Failed, agg.Cached)
	fmt.Fprintf(os.Stderr, "  Corpus:     %d rows\n", agg.CorpusRows)

	for _, c := range agg.Classes {
		fmt.Fprintf(os.Stderr, "  %-14s precision %.3f  recall %.3f  f1 %.3f  (%d samples)\n",
			c.Label, c.Precision, c.Recall, c.F1, agg.ClassCounts[c.Label])
	}
	fmt.Fprintf(os.Stderr, "  Macro-F1:   %.3f\n", agg.MacroF1)

	for _, label := range agg.Insufficient {
		fmt.Fprintf(os.Stderr, "  ⚠ class %q below minimum sample count (%d)\n", label, agg.ClassCounts[label])
	}
	for _, e := range agg.Errors {
		marker := "✗"
		if e.Integrity {
			marker = "✗ INTEGRITY"
		}
		fmt.Fprintf(os.Stderr, "  %s %s: %s\n", marker, e.ArticleID, e.Error)
	}
	fmt.Fprintf(os.Stderr, "\n")
}
