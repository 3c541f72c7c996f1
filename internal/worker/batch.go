package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lexalign/lexalign/internal/pipeline"
)

// Aligner aligns a single article. Implemented by *pipeline.Pipeline.
type Aligner interface {
	AlignArticle(ctx context.Context, in pipeline.ArticleInput) (*pipeline.AlignResult, error)
}

// AlignJob aligns one article inside the pool.
type AlignJob struct {
	Input   pipeline.ArticleInput
	Aligner Aligner
}

// Execute runs the alignment. Errors are captured in the outcome, never
// propagated: one failing article must not abort the batch.
func (j *AlignJob) Execute(ctx context.Context) Result {
	result, err := j.Aligner.AlignArticle(ctx, j.Input)
	return &AlignOutcome{Input: j.Input, Result: result, Error: err}
}

// AlignOutcome is the per-article batch result.
type AlignOutcome struct {
	Input  pipeline.ArticleInput
	Result *pipeline.AlignResult
	Error  error
}

// Err implements Result.
func (o *AlignOutcome) Err() error {
	return o.Error
}

// BatchProcessor aligns many articles concurrently.
type BatchProcessor struct {
	aligner     Aligner
	concurrency int
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(aligner Aligner, concurrency int) *BatchProcessor {
	return &BatchProcessor{aligner: aligner, concurrency: concurrency}
}

// ProcessArticles aligns the inputs on the pool and returns outcomes sorted
// by article ID, so downstream corpus emission is reproducible regardless
// of completion order.
func (b *BatchProcessor) ProcessArticles(ctx context.Context, inputs []pipeline.ArticleInput) []*AlignOutcome {
	if len(inputs) == 0 {
		return []*AlignOutcome{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			pool.Shutdown()
		case <-done:
		}
	}()

	// Drain results while submitting: with inputs outnumbering the pool's
	// bounded buffers, submitting everything first would deadlock.
	collector := NewResultCollector()
	drained := collector.Collect(pool.Results())

	for _, in := range inputs {
		pool.Submit(&AlignJob{Input: in, Aligner: b.aligner})
	}

	pool.Wait()
	<-drained
	close(done)

	results := collector.Results()

	outcomes := make([]*AlignOutcome, 0, len(results))
	for _, r := range results {
		outcomes = append(outcomes, r.(*AlignOutcome))
	}
	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].Input.ArticleID < outcomes[j].Input.ArticleID
	})

	return outcomes
}

// ProcessDir discovers article pairs in dir and aligns them.
func (b *BatchProcessor) ProcessDir(ctx context.Context, dir string) ([]*AlignOutcome, []string, error) {
	inputs, unpaired, err := DiscoverArticles(dir)
	if err != nil {
		return nil, nil, err
	}
	return b.ProcessArticles(ctx, inputs), unpaired, nil
}

// DiscoverArticles pairs input files in dir: every `<stem>.ex.jsonl`
// extraction joins a `<stem>.gt.jsonl` or `<stem>.gt.html` ground truth.
// Extractions without a ground-truth counterpart come back in unpaired.
func DiscoverArticles(dir string) (inputs []pipeline.ArticleInput, unpaired []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read input dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".ex.jsonl") {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), ".ex.jsonl")

		gtPath := ""
		for _, ext := range []string{".gt.jsonl", ".gt.html"} {
			candidate := filepath.Join(dir, stem+ext)
			if _, statErr := os.Stat(candidate); statErr == nil {
				gtPath = candidate
				break
			}
		}
		if gtPath == "" {
			unpaired = append(unpaired, entry.Name())
			continue
		}

		inputs = append(inputs, pipeline.ArticleInput{
			ArticleID:       stem,
			GroundTruthPath: gtPath,
			ExtractionPath:  filepath.Join(dir, entry.Name()),
		})
	}

	sort.Slice(inputs, func(i, j int) bool { return inputs[i].ArticleID < inputs[j].ArticleID })
	sort.Strings(unpaired)

	return inputs, unpaired, nil
}
