package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lexalign/lexalign/internal/metrics"
	"github.com/lexalign/lexalign/internal/model"
	"github.com/lexalign/lexalign/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outJSON      string
	matchMode    string
	threshold    float64
	windowRadius int
	backend      string
	noEnforce    bool
	fallback     bool
	noCache      bool
	cacheDir     string
	alignTimeout time.Duration
)

// alignCmd represents the align command
var alignCmd = &cobra.Command{
	Use:   "align <ground-truth> <extraction>",
	Short: "Align one article's extraction with its ground truth",
	Long: `Align matches every extracted paragraph against the ground-truth
paragraphs of a single article:
- Normalize both sides (hyphenation, whitespace, case)
- Find the best unclaimed ground-truth counterpart per extracted paragraph
- Relabel matched paragraphs from ground truth
- Compute precision/recall/F1 per class

The ground truth is JSONL (one paragraph per line) or HTML; the
extraction is JSONL in top-to-bottom page order.

Example:
  lexalign align smith-2020.gt.jsonl smith-2020.ex.jsonl
  lexalign align smith-2020.gt.html smith-2020.ex.jsonl --json report.json
  lexalign align smith-2020.gt.jsonl smith-2020.ex.jsonl --mode global --backend trigram`,
	Args: cobra.ExactArgs(2),
	RunE: runAlign,
}

func init() {
	rootCmd.AddCommand(alignCmd)

	alignCmd.Flags().StringVar(&outJSON, "json", "", "output JSON report path (optional)")
	alignCmd.Flags().DurationVar(&alignTimeout, "timeout", 2*time.Minute, "overall alignment timeout")
	registerAlignFlags(alignCmd)
}

// registerAlignFlags adds the matcher flags shared by align and batch.
func registerAlignFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&matchMode, "mode", string(model.ModeLocality), "match mode (locality, global)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "similarity threshold override (0 = mode default)")
	cmd.Flags().IntVar(&windowRadius, "window-radius", 10, "locality window half-width in paragraphs")
	cmd.Flags().StringVar(&backend, "backend", "brute", "similarity backend (brute, trigram)")
	cmd.Flags().BoolVar(&noEnforce, "no-one-to-one", false, "allow one ground-truth paragraph to match several extractions (diagnostics only)")
	cmd.Flags().BoolVar(&fallback, "fallback-labels", false, "keep the extractor's own label for unmatched paragraphs instead of dropping them")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the alignment-result cache")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "alignment cache directory (default: .lexalign-cache)")
}

// applyAlignFlags folds explicitly-set matcher flags into cfg, on top of
// whatever the config file and environment provided.
func applyAlignFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Align.Mode = model.MatchMode(matchMode)
	}
	if flags.Changed("threshold") {
		cfg.Align.Threshold = threshold
	}
	if flags.Changed("window-radius") {
		cfg.Align.WindowRadius = windowRadius
	}
	if flags.Changed("backend") {
		cfg.Align.Backend = backend
	}
	if noEnforce {
		cfg.Align.EnforceOneToOne = false
	}
	if fallback {
		cfg.Align.FallbackToOriginalLabel = true
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if cacheDir != "" {
		cfg.Cache.Dir = cacheDir
	}
	if verbose {
		cfg.Output.Verbose = true
	}
}

// articleID derives the article identifier from an extraction path.
func articleID(path string) string {
	base := filepath.Base(path)
	if stem := strings.TrimSuffix(base, ".ex.jsonl"); stem != base {
		return stem
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func runAlign(cmd *cobra.Command, args []string) error {
	gtPath, exPath := args[0], args[1]
	ctx, cancel := context.WithTimeout(context.Background(), alignTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyAlignFlags(cmd, cfg)

	if verbose {
		fmt.Fprintf(os.Stderr, "Ground truth: %s\n", gtPath)
		fmt.Fprintf(os.Stderr, "Extraction:   %s\n", exPath)
		fmt.Fprintf(os.Stderr, "Mode:         %s (threshold %.2f)\n", cfg.Align.Mode, cfg.Align.EffectiveThreshold())
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	result, err := p.AlignArticle(ctx, pipeline.ArticleInput{
		ArticleID:       articleID(exPath),
		GroundTruthPath: gtPath,
		ExtractionPath:  exPath,
	})
	if err != nil {
		var integrity *metrics.IntegrityError
		if errors.As(err, &integrity) {
			return fmt.Errorf("alignment produced impossible metrics, refusing to emit: %w", err)
		}
		return fmt.Errorf("align failed: %w", err)
	}

	renderer := pipeline.NewRenderer(verbose)
	renderer.RenderSummary(result.Report)

	if outJSON != "" {
		if err := renderer.RenderJSON(result.Report, outJSON); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outJSON)
		}
	}

	return nil
}
