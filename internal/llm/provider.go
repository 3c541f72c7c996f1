package llm

import (
	"context"
	"fmt"

	"github.com/lexalign/lexalign/internal/model"
)

// Provider defines the interface for LLM review backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Review generates a prose assessment of an aggregate report
	Review(ctx context.Context, req ReviewRequest) (*ReviewResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// ReviewRequest contains the input for LLM review
type ReviewRequest struct {
	// Report is the batch aggregate to assess
	Report model.AggregateReport

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// ReviewResponse contains the LLM's review output
type ReviewResponse struct {
	// Text is the generated markdown assessment
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for the provider
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// RequestsPerSecond throttles API calls across a batch
	RequestsPerSecond float64

	// Burst allows short bursts above the sustained rate
	Burst int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:          "", // Disabled by default
		Model:             "gpt-4o-mini",
		Timeout:           30,
		MaxTokens:         1000,
		RequestsPerSecond: 1,
		Burst:             2,
	}
}

// BuildPrompt constructs the default prompt for the aggregate-report review.
// The review is advisory prose for a human reader; it must never restate the
// numbers as if it had computed them.
func BuildPrompt(report model.AggregateReport) string {
	prompt := fmt.Sprintf(`You are reviewing an alignment quality report for a legal-text training corpus. The corpus pairs extracted PDF paragraphs with ground-truth labels (body text vs. footnote text).

RULES:
1. Describe alignment quality only. Do not invent numbers not shown below.
2. Flag classes with low recall or precision and suggest what to inspect (extraction artifacts, footnote boundary errors, OCR noise).
3. If any articles failed, note whether failures were data-integrity errors.
4. Keep it to 4-6 sentences of plain prose.

Batch summary:
- Articles: %d processed, %d succeeded, %d failed (%d served from cache)
- Corpus rows emitted: %d
- Macro-F1: %.3f

Per-class metrics:
`, report.Articles, report.Succeeded, report.Failed, report.Cached, report.CorpusRows, report.MacroF1)

	for _, c := range report.Classes {
		prompt += fmt.Sprintf("- %s: precision %.3f, recall %.3f, F1 %.3f (%d predicted, %d actual)\n",
			c.Label, c.Precision, c.Recall, c.F1, c.Predicted, c.Actual)
	}

	for _, label := range report.Insufficient {
		prompt += fmt.Sprintf("- WARNING: class %q has fewer samples than the configured minimum\n", label)
	}

	for i, e := range report.Errors {
		if i >= 5 {
			prompt += fmt.Sprintf("... and %d more failed articles\n", len(report.Errors)-5)
			break
		}
		kind := "error"
		if e.Integrity {
			kind = "integrity error"
		}
		prompt += fmt.Sprintf("- %s (%s): %s\n", e.ArticleID, kind, e.Error)
	}

	prompt += "\nProvide the assessment."

	return prompt
}
