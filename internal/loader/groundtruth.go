// Package loader reads the two input record streams produced by the
// external collaborators: HTML-derived ground-truth paragraphs and
// PDF-layout extraction items. Both arrive as JSONL files, one record per
// line; ground truth can also be read straight from a saved article HTML
// page.
package loader

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lexalign/lexalign/internal/model"
)

// groundTruthRecord is the wire format of one ground-truth line.
type groundTruthRecord struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// LoadGroundTruth reads an article's ground-truth JSONL file.
func LoadGroundTruth(path, articleID string) (*model.GroundTruth, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ground truth: %w", err)
	}
	defer func() { _ = f.Close() }()

	gt, err := ParseGroundTruth(f, articleID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return gt, nil
}

// ParseGroundTruth parses ground-truth records into the two independently
// indexed candidate pools. Blank lines and # comments are skipped; a
// malformed record, an unknown label, or empty text is an input error
// carrying the line number.
func ParseGroundTruth(r io.Reader, articleID string) (*model.GroundTruth, error) {
	gt := &model.GroundTruth{ArticleID: articleID}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var rec groundTruthRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("line %d: malformed record: %w", lineNo, err)
		}

		label, ok := model.ParseLabel(rec.Label)
		if !ok {
			return nil, fmt.Errorf("line %d: unknown ground-truth label %q", lineNo, rec.Label)
		}
		if strings.TrimSpace(rec.Text) == "" {
			return nil, fmt.Errorf("line %d: empty text", lineNo)
		}

		appendParagraph(gt, rec.Text, label)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ground truth: %w", err)
	}

	return gt, nil
}

// appendParagraph adds a paragraph to its class pool with the next
// class-local sequence index.
func appendParagraph(gt *model.GroundTruth, text string, label model.Label) {
	switch label {
	case model.LabelFootnoteText:
		gt.Footnotes = append(gt.Footnotes, model.GroundTruthParagraph{
			Text:          text,
			Label:         label,
			SequenceIndex: len(gt.Footnotes),
		})
	default:
		gt.Body = append(gt.Body, model.GroundTruthParagraph{
			Text:          text,
			Label:         model.LabelBodyText,
			SequenceIndex: len(gt.Body),
		})
	}
}
