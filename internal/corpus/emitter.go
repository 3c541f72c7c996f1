// Package corpus accumulates corrected matches into the flat training
// corpus: filter out unmatched items, deduplicate identical text across the
// entire corpus, and validate per-class sample counts before the corpus is
// accepted for training.
package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/lexalign/lexalign/internal/model"
	"github.com/lexalign/lexalign/internal/normalize"
)

// Builder collects corpus rows across a whole batch run. Deduplication is
// corpus-wide on normalized text: identical boilerplate appearing in many
// articles is counted once, first occurrence wins. Callers must Add articles
// in a deterministic order for reproducible corpora.
type Builder struct {
	minSamples int
	seen       map[string]struct{}
	rows       []model.CorpusRow
	counts     map[model.Label]int
}

// NewBuilder creates a corpus builder. minSamples is the per-class floor
// below which a class is flagged as insufficiently represented.
func NewBuilder(minSamples int) *Builder {
	return &Builder{
		minSamples: minSamples,
		seen:       make(map[string]struct{}),
		counts:     make(map[model.Label]int),
	}
}

// Add appends one article's accepted matches. Unmatched items, items whose
// text normalizes to empty, and duplicates are dropped.
func (b *Builder) Add(articleID string, matches []model.Match) {
	for _, m := range matches {
		if m.CorrectedLabel == nil {
			continue
		}
		key := normalize.Normalize(m.Item.Text)
		if key == "" {
			continue
		}
		if _, dup := b.seen[key]; dup {
			continue
		}
		b.seen[key] = struct{}{}

		b.rows = append(b.rows, model.CorpusRow{
			Text:       m.Item.Text,
			Label:      *m.CorrectedLabel,
			Source:     articleID,
			PageNumber: m.Item.PageNumber,
		})
		b.counts[*m.CorrectedLabel]++
	}
}

// Rows returns the accumulated corpus.
func (b *Builder) Rows() []model.CorpusRow {
	return b.rows
}

// ClassCounts returns per-class sample counts.
func (b *Builder) ClassCounts() map[model.Label]int {
	out := make(map[model.Label]int, len(b.counts))
	for k, v := range b.counts {
		out[k] = v
	}
	return out
}

// Insufficient lists training classes below the minimum sample count. A
// non-empty result is a warning for downstream training, not a failure.
func (b *Builder) Insufficient() []model.Label {
	var out []model.Label
	for _, label := range model.TrainingLabels {
		if b.counts[label] < b.minSamples {
			out = append(out, label)
		}
	}
	return out
}

// WriteCSV writes the corpus as `text,label,source,page` rows.
func (b *Builder) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"text", "label", "source", "page"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range b.rows {
		record := []string{row.Text, string(row.Label), row.Source, strconv.Itoa(row.PageNumber)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the corpus to path, creating or truncating it.
func (b *Builder) WriteCSVFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create corpus file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close corpus file: %w", closeErr)
		}
	}()

	return b.WriteCSV(f)
}
