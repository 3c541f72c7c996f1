package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/lexalign/lexalign/internal/corpus"
	"github.com/lexalign/lexalign/internal/llm"
	"github.com/lexalign/lexalign/internal/metrics"
	"github.com/lexalign/lexalign/internal/model"
	"github.com/lexalign/lexalign/internal/pipeline"
	"github.com/lexalign/lexalign/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	corpusPath   string
	minSamples   int
	llmEnabled   bool
	llmProvider  string
	llmModel     string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Align every article in a directory and emit the training corpus",
	Long: `Batch aligns many articles concurrently:
- Pair every <stem>.ex.jsonl extraction with its <stem>.gt.jsonl or
  <stem>.gt.html ground truth
- Align article pairs in parallel with configurable worker count
- One failing article never aborts the batch; its error is reported
- Emit per-article reports, an aggregate report, and a deduplicated
  corpus CSV

Example:
  lexalign batch ./articles
  lexalign batch ./articles --concurrency 8 --corpus corpus.csv
  lexalign batch ./articles --llm --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency and output flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./lexalign-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	// Corpus flags
	batchCmd.Flags().StringVar(&corpusPath, "corpus", "corpus.csv", "output corpus CSV path")
	batchCmd.Flags().IntVar(&minSamples, "min-samples", 50, "minimum samples per class before warning")

	// Matcher flags shared with align
	registerAlignFlags(batchCmd)

	// LLM flags
	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM review of the aggregate report")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	// Build configuration: merged file/env view, then explicit flags
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyAlignFlags(cmd, cfg)
	flags := cmd.Flags()
	if flags.Changed("concurrency") {
		cfg.Concurrency.Workers = concurrency
	}
	if flags.Changed("corpus") {
		cfg.Corpus.Path = corpusPath
	}
	if flags.Changed("min-samples") {
		cfg.Corpus.MinSamplesPerClass = minSamples
	}
	if flags.Changed("output-dir") {
		cfg.Output.Dir = outputDir
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Lexalign Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input dir:    %s\n", dir)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "  Corpus:       %s\n", cfg.Corpus.Path)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	// Configure LLM if enabled by flag or config file
	var reviewer *llm.Reviewer
	if llmEnabled || cfg.LLM.Provider != "" {
		if flags.Changed("llm-provider") || cfg.LLM.Provider == "" {
			cfg.LLM.Provider = llmProvider
		}
		if flags.Changed("llm-model") {
			cfg.LLM.Model = llmModel
		}

		provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			return fmt.Errorf("configure LLM: %w", err)
		}
		reviewer = llm.NewReviewer(provider)

		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n\n", cfg.LLM.Provider, cfg.LLM.Model)
	}

	// Create output directory
	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// Create pipeline
	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	// Discover and align article pairs
	fmt.Fprintf(os.Stderr, "⚙  Discovering article pairs...\n")
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers)
	outcomes, unpaired, err := processor.ProcessDir(ctx, dir)
	if err != nil {
		return fmt.Errorf("process dir: %w", err)
	}

	for _, name := range unpaired {
		fmt.Fprintf(os.Stderr, "⚠ %s: no ground-truth counterpart, skipped\n", name)
	}

	fmt.Fprintf(os.Stderr, "✓ Aligned %d article pairs with %d workers\n", len(outcomes), cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "\n")

	renderer := pipeline.NewRenderer(cfg.Output.Verbose)
	builder := corpus.NewBuilder(cfg.Corpus.MinSamplesPerClass)

	var (
		reports      []*model.Report
		articleErrs  []model.ArticleError
		successCount int
		cachedCount  int
	)

	for _, outcome := range outcomes {
		if outcome.Error != nil {
			var integrity *metrics.IntegrityError
			isIntegrity := errors.As(outcome.Error, &integrity)
			articleErrs = append(articleErrs, model.ArticleError{
				ArticleID: outcome.Input.ArticleID,
				Error:     outcome.Error.Error(),
				Integrity: isIntegrity,
			})
			if isIntegrity {
				fmt.Fprintf(os.Stderr, "✗ %s: INTEGRITY: %v\n", outcome.Input.ArticleID, outcome.Error)
			} else {
				fmt.Fprintf(os.Stderr, "✗ %s: %v\n", outcome.Input.ArticleID, outcome.Error)
			}
			continue
		}

		successCount++
		if outcome.Result.Report.FromCache {
			cachedCount++
		}

		reports = append(reports, outcome.Result.Report)
		builder.Add(outcome.Input.ArticleID, outcome.Result.Matches)
		renderer.RenderSummary(outcome.Result.Report)

		// Per-article report
		jsonPath := filepath.Join(cfg.Output.Dir, outcome.Input.ArticleID+".json")
		if err := renderer.RenderJSON(outcome.Result.Report, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write report: %v\n", outcome.Input.ArticleID, err)
		}
	}

	// Corpus-level metrics; an aggregate integrity failure poisons the whole
	// corpus, so it aborts the run rather than becoming a per-article error.
	classes, macro, err := metrics.Aggregate(reports)
	if err != nil {
		return fmt.Errorf("aggregate metrics: %w", err)
	}

	agg := &model.AggregateReport{
		GeneratedAt:  time.Now().UTC(),
		Articles:     len(outcomes),
		Succeeded:    successCount,
		Failed:       len(articleErrs),
		Cached:       cachedCount,
		Classes:      classes,
		MacroF1:      macro,
		CorpusRows:   len(builder.Rows()),
		ClassCounts:  builder.ClassCounts(),
		Insufficient: builder.Insufficient(),
		Errors:       articleErrs,
	}

	// Optional advisory review; never affects metrics or corpus content
	if reviewer != nil {
		fmt.Fprintf(os.Stderr, "\n⚙  Generating LLM review...\n")
		agg.Review = reviewer.Review(ctx, *agg)
		if agg.Review.TextMD != "" {
			reviewPath := filepath.Join(cfg.Output.Dir, "review.md")
			if err := os.WriteFile(reviewPath, []byte(agg.Review.TextMD+"\n"), 0644); err != nil {
				fmt.Fprintf(os.Stderr, "✗ failed to write review: %v\n", err)
			}
		}
		for _, w := range agg.Review.Warnings {
			fmt.Fprintf(os.Stderr, "⚠ review: %s\n", w)
		}
	}

	// Write corpus and aggregate report
	if err := builder.WriteCSVFile(cfg.Corpus.Path); err != nil {
		return fmt.Errorf("write corpus: %w", err)
	}
	if err := renderer.RenderJSON(agg, filepath.Join(cfg.Output.Dir, "aggregate.json")); err != nil {
		return fmt.Errorf("write aggregate report: %w", err)
	}

	renderer.RenderAggregate(agg)

	return nil
}
