// Package pipeline orchestrates a single article's alignment run: load the
// ground-truth and extraction records, match them, compute validated
// metrics, and hand the corrected matches to the corpus builder.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/lexalign/lexalign/internal/align"
	"github.com/lexalign/lexalign/internal/cache"
	"github.com/lexalign/lexalign/internal/loader"
	"github.com/lexalign/lexalign/internal/metrics"
	"github.com/lexalign/lexalign/internal/model"
	"github.com/lexalign/lexalign/internal/similarity"
)

// resultTTL bounds how long cached alignment results are replayed. Inputs
// are content-hashed, so this mostly caps cache-directory growth.
const resultTTL = 30 * 24 * time.Hour

// ArticleInput names one article's input files. The ground-truth file may
// be a JSONL record file or a saved article HTML page.
type ArticleInput struct {
	ArticleID       string
	GroundTruthPath string
	ExtractionPath  string
}

// AlignResult is the complete outcome of one article's alignment.
type AlignResult struct {
	ArticleID string        `json:"article_id"`
	Matches   []model.Match `json:"matches"`
	Report    *model.Report `json:"report"`
}

// Pipeline runs article alignments. Safe for concurrent use: all per-run
// state lives on the stack, and the result cache is the only shared
// component.
type Pipeline struct {
	matcher *align.Matcher
	cache   cache.Cache
	cfg     *model.Config
}

// NewPipeline creates a pipeline from configuration.
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	scorer, err := similarity.NewScorer(cfg.Align.Backend)
	if err != nil {
		return nil, err
	}

	var resultCache cache.Cache
	if cfg.Cache.Enabled {
		resultCache = cache.NewLayeredCache(time.Hour, cfg.Cache.Dir, resultTTL)
	}

	return &Pipeline{
		matcher: align.NewMatcher(scorer, cfg.Align),
		cache:   resultCache,
		cfg:     cfg,
	}, nil
}

// AlignArticle aligns one article. Input errors (missing or malformed
// files) and data-integrity errors both surface as errors; the caller
// decides whether to continue the batch (input errors) or flag the article
// loudly (integrity errors, distinguishable via errors.As on
// *metrics.IntegrityError).
func (p *Pipeline) AlignArticle(ctx context.Context, in ArticleInput) (*AlignResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := ""
	if p.cache != nil {
		k, err := cache.ResultKey(in.GroundTruthPath, in.ExtractionPath, p.cfg.Align)
		if err == nil {
			key = k
			if data, found := p.cache.Get(key); found {
				var cached AlignResult
				if err := json.Unmarshal(data, &cached); err == nil && cached.Report != nil {
					cached.Report.FromCache = true
					return &cached, nil
				}
				// Corrupt entry: drop it and realign.
				_ = p.cache.Delete(key)
			}
		}
	}

	gt, err := loadGroundTruth(in)
	if err != nil {
		return nil, fmt.Errorf("load ground truth: %w", err)
	}
	ex, err := loader.LoadExtraction(in.ExtractionPath, in.ArticleID)
	if err != nil {
		return nil, fmt.Errorf("load extraction: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matches := p.matcher.Align(gt, ex)

	classes, macro, err := metrics.Compute(in.ArticleID, matches, gt)
	if err != nil {
		return nil, err
	}

	report := buildReport(in.ArticleID, matches, gt, classes, macro)
	result := &AlignResult{ArticleID: in.ArticleID, Matches: matches, Report: report}

	if p.cache != nil && key != "" {
		if data, err := json.Marshal(result); err == nil {
			_ = p.cache.Set(key, data, resultTTL)
		}
	}

	return result, nil
}

// loadGroundTruth picks the parser from the file extension.
func loadGroundTruth(in ArticleInput) (*model.GroundTruth, error) {
	switch strings.ToLower(filepath.Ext(in.GroundTruthPath)) {
	case ".html", ".htm":
		return loader.LoadGroundTruthHTML(in.GroundTruthPath, in.ArticleID)
	default:
		return loader.LoadGroundTruth(in.GroundTruthPath, in.ArticleID)
	}
}

func buildReport(articleID string, matches []model.Match, gt *model.GroundTruth, classes []model.ClassMetrics, macro float64) *model.Report {
	report := &model.Report{
		ArticleID:            articleID,
		AlignedAt:            time.Now().UTC(),
		Extracted:            len(matches),
		GroundTruthBody:      len(gt.Body),
		GroundTruthFootnotes: len(gt.Footnotes),
		Classes:              classes,
		MacroF1:              macro,
	}
	for _, m := range matches {
		switch {
		case m.Matched():
			report.Matched++
		case m.FromFallback:
			report.Fallback++
		default:
			report.Unmatched++
		}
	}
	return report
}
