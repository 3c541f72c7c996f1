package model

import "time"

// ClassMetrics holds precision/recall/F1 for one training class, with the
// raw counts kept alongside so every number is recomputable by hand.
type ClassMetrics struct {
	Label         Label   `json:"label"`
	TruePositives int     `json:"true_positives"`
	Predicted     int     `json:"predicted"`
	Actual        int     `json:"actual"`
	Precision     float64 `json:"precision"`
	Recall        float64 `json:"recall"`
	F1            float64 `json:"f1"`
}

// Report is the per-article alignment quality report.
type Report struct {
	ArticleID string    `json:"article_id"`
	AlignedAt time.Time `json:"aligned_at"`

	Extracted int `json:"extracted"` // items in the extraction stream
	Matched   int `json:"matched"`   // items aligned to ground truth
	Unmatched int `json:"unmatched"` // items below threshold (headers, artifacts)
	Fallback  int `json:"fallback,omitempty"`

	GroundTruthBody      int `json:"ground_truth_body"`
	GroundTruthFootnotes int `json:"ground_truth_footnotes"`

	Classes []ClassMetrics `json:"classes"`
	MacroF1 float64        `json:"macro_f1"`

	// FromCache marks a report replayed from the alignment cache.
	FromCache bool `json:"from_cache,omitempty"`
}

// AggregateReport summarizes a batch run for the corpus-acceptance decision.
type AggregateReport struct {
	GeneratedAt time.Time `json:"generated_at"`

	Articles  int `json:"articles"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Cached    int `json:"cached"`

	Classes []ClassMetrics `json:"classes"` // micro-averaged over all articles
	MacroF1 float64        `json:"macro_f1"`

	CorpusRows   int            `json:"corpus_rows"`
	ClassCounts  map[Label]int  `json:"class_counts"`
	Insufficient []Label        `json:"insufficient_classes,omitempty"`
	Errors       []ArticleError `json:"errors,omitempty"`
	Review       *ReviewSummary `json:"review,omitempty"`
}

// ArticleError records a per-article failure without aborting the batch.
type ArticleError struct {
	ArticleID string `json:"article_id"`
	Error     string `json:"error"`
	Integrity bool   `json:"integrity"` // true for data-integrity failures
}

// ReviewSummary contains the optional LLM-generated prose assessment of the
// aggregate report. It never affects metrics or corpus content.
type ReviewSummary struct {
	Enabled  bool     `json:"enabled"`
	Provider string   `json:"provider,omitempty"`
	Model    string   `json:"model,omitempty"`
	TextMD   string   `json:"text_md,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}
