package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lexalign/lexalign/internal/model"
	"github.com/lexalign/lexalign/internal/pipeline"
)

// mockAligner records processed articles and fails configured IDs.
type mockAligner struct {
	failIDs map[string]bool
}

func (m *mockAligner) AlignArticle(ctx context.Context, in pipeline.ArticleInput) (*pipeline.AlignResult, error) {
	if m.failIDs[in.ArticleID] {
		return nil, errors.New("malformed input")
	}
	return &pipeline.AlignResult{
		ArticleID: in.ArticleID,
		Report:    &model.Report{ArticleID: in.ArticleID, AlignedAt: time.Now()},
	}, nil
}

func inputsNamed(ids ...string) []pipeline.ArticleInput {
	var inputs []pipeline.ArticleInput
	for _, id := range ids {
		inputs = append(inputs, pipeline.ArticleInput{ArticleID: id})
	}
	return inputs
}

func TestBatchProcessor_DrainsBatchesLargerThanBuffers(t *testing.T) {
	// Far more articles than one worker's bounded job and result buffers
	// can absorb; submission must interleave with result draining.
	inputs := make([]pipeline.ArticleInput, 30)
	for i := range inputs {
		inputs[i] = pipeline.ArticleInput{ArticleID: fmt.Sprintf("article-%02d", i)}
	}

	done := make(chan []*AlignOutcome, 1)
	go func() {
		done <- NewBatchProcessor(&mockAligner{}, 1).ProcessArticles(context.Background(), inputs)
	}()

	select {
	case outcomes := <-done:
		if len(outcomes) != len(inputs) {
			t.Fatalf("expected %d outcomes, got %d", len(inputs), len(outcomes))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("batch stalled before draining all articles")
	}
}

func TestBatchProcessor_FailureIsolation(t *testing.T) {
	aligner := &mockAligner{failIDs: map[string]bool{"b": true}}
	processor := NewBatchProcessor(aligner, 2)

	outcomes := processor.ProcessArticles(context.Background(), inputsNamed("a", "b", "c"))

	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}

	failures := 0
	for _, o := range outcomes {
		if o.Err() != nil {
			failures++
			if o.Input.ArticleID != "b" {
				t.Errorf("unexpected failure for %q", o.Input.ArticleID)
			}
		}
	}
	if failures != 1 {
		t.Errorf("expected 1 failure, got %d", failures)
	}
}

func TestBatchProcessor_SortedOutcomes(t *testing.T) {
	processor := NewBatchProcessor(&mockAligner{}, 4)

	outcomes := processor.ProcessArticles(context.Background(), inputsNamed("c", "a", "b", "d"))

	want := []string{"a", "b", "c", "d"}
	for i, o := range outcomes {
		if o.Input.ArticleID != want[i] {
			t.Errorf("outcome %d = %q, want %q", i, o.Input.ArticleID, want[i])
		}
	}
}

func TestBatchProcessor_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockAligner{}, 2)
	if outcomes := processor.ProcessArticles(context.Background(), nil); len(outcomes) != 0 {
		t.Errorf("expected no outcomes, got %d", len(outcomes))
	}
}

func TestDiscoverArticles(t *testing.T) {
	dir := t.TempDir()
	touch := func(name string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	touch("smith-2020.ex.jsonl")
	touch("smith-2020.gt.jsonl")
	touch("jones-2021.ex.jsonl")
	touch("jones-2021.gt.html")
	touch("orphan.ex.jsonl")
	touch("notes.txt")

	inputs, unpaired, err := DiscoverArticles(dir)
	if err != nil {
		t.Fatalf("DiscoverArticles: %v", err)
	}

	if len(inputs) != 2 {
		t.Fatalf("expected 2 paired articles, got %d", len(inputs))
	}
	if inputs[0].ArticleID != "jones-2021" || inputs[1].ArticleID != "smith-2020" {
		t.Errorf("inputs out of order: %q, %q", inputs[0].ArticleID, inputs[1].ArticleID)
	}
	if filepath.Ext(inputs[0].GroundTruthPath) != ".html" {
		t.Errorf("jones-2021 should pair with its HTML ground truth, got %q", inputs[0].GroundTruthPath)
	}

	if len(unpaired) != 1 || unpaired[0] != "orphan.ex.jsonl" {
		t.Errorf("unpaired = %v", unpaired)
	}
}

func TestDiscoverArticles_MissingDir(t *testing.T) {
	if _, _, err := DiscoverArticles("/nonexistent-dir"); err == nil {
		t.Error("expected error for missing directory")
	}
}
