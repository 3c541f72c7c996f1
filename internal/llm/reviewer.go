package llm

import (
	"context"
	"fmt"

	"github.com/lexalign/lexalign/internal/model"
)

// Reviewer attaches an optional prose assessment to an aggregate report.
// It is strictly advisory: failures become warnings on the summary, never
// errors, so a flaky API can never sink a batch run.
type Reviewer struct {
	provider Provider
}

// NewReviewer creates a reviewer for the configured provider. A nil provider
// (review disabled) is valid; Review then returns a disabled summary.
func NewReviewer(provider Provider) *Reviewer {
	return &Reviewer{provider: provider}
}

// Review generates a ReviewSummary for the aggregate report
func (r *Reviewer) Review(ctx context.Context, report model.AggregateReport) *model.ReviewSummary {
	if r.provider == nil {
		return &model.ReviewSummary{Enabled: false}
	}

	summary := &model.ReviewSummary{
		Enabled:  true,
		Provider: r.provider.Name(),
	}

	resp, err := r.provider.Review(ctx, ReviewRequest{Report: report})
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("review failed: %v", err))
		return summary
	}

	summary.Model = resp.Model
	summary.TextMD = resp.Text

	if resp.Text == "" {
		summary.Warnings = append(summary.Warnings, "review returned empty text")
	}

	return summary
}
