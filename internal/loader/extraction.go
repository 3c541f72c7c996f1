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

// extractionRecord is the wire format of one layout-extraction line. The
// label is whatever the upstream layout model assigned and is untrusted.
type extractionRecord struct {
	Text  string             `json:"text"`
	Label string             `json:"label"`
	Page  int                `json:"page"`
	BBox  *model.BoundingBox `json:"bbox,omitempty"`
}

// LoadExtraction reads an article's layout-extraction JSONL file.
func LoadExtraction(path, articleID string) (*model.Extraction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open extraction: %w", err)
	}
	defer func() { _ = f.Close() }()

	ex, err := ParseExtraction(f, articleID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ex, nil
}

// ParseExtraction parses extraction records in their original top-to-bottom
// order. SequenceIndex follows the full stream, not the page. Empty text is
// tolerated here (unlike ground truth): stray empty blocks are a normal
// layout-engine artifact and simply never match anything.
func ParseExtraction(r io.Reader, articleID string) (*model.Extraction, error) {
	ex := &model.Extraction{ArticleID: articleID}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var rec extractionRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("line %d: malformed record: %w", lineNo, err)
		}
		if rec.Page < 0 {
			return nil, fmt.Errorf("line %d: negative page number %d", lineNo, rec.Page)
		}

		ex.Items = append(ex.Items, model.ExtractedItem{
			Text:          rec.Text,
			OriginalLabel: rec.Label,
			PageNumber:    rec.Page,
			BoundingBox:   rec.BBox,
			SequenceIndex: len(ex.Items),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read extraction: %w", err)
	}

	return ex, nil
}
