package loader

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lexalign/lexalign/internal/model"
	"golang.org/x/net/html"
)

// LoadGroundTruthHTML reads ground truth straight from a saved article HTML
// page instead of a pre-extracted JSONL record file.
func LoadGroundTruthHTML(path, articleID string) (*model.GroundTruth, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ground truth html: %w", err)
	}
	defer func() { _ = f.Close() }()

	gt, err := ParseGroundTruthHTML(f, articleID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return gt, nil
}

// ParseGroundTruthHTML walks the article markup and splits paragraphs into
// the body and footnote pools. A paragraph is a footnote when any ancestor
// carries a footnote marker: a class or id containing "footnote", an id with
// the "fn" prefix, or an <aside> element. Law-review HTML renderings use one
// of those conventions for the notes section.
func ParseGroundTruthHTML(r io.Reader, articleID string) (*model.GroundTruth, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	gt := &model.GroundTruth{ArticleID: articleID}

	var walk func(n *html.Node, inFootnotes bool)
	walk = func(n *html.Node, inFootnotes bool) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "nav", "header":
				return
			}
			if isFootnoteContainer(n) {
				inFootnotes = true
			}
			if n.Data == "p" || (inFootnotes && n.Data == "li") {
				text := strings.TrimSpace(nodeText(n))
				if text != "" {
					label := model.LabelBodyText
					if inFootnotes {
						label = model.LabelFootnoteText
					}
					appendParagraph(gt, text, label)
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inFootnotes)
		}
	}
	walk(doc, false)

	if len(gt.Body) == 0 && len(gt.Footnotes) == 0 {
		return nil, fmt.Errorf("no paragraphs found in article html")
	}

	return gt, nil
}

// isFootnoteContainer reports whether an element opens the footnote section.
func isFootnoteContainer(n *html.Node) bool {
	if n.Data == "aside" {
		return true
	}
	for _, attr := range n.Attr {
		switch attr.Key {
		case "class":
			if strings.Contains(strings.ToLower(attr.Val), "footnote") {
				return true
			}
		case "id":
			v := strings.ToLower(attr.Val)
			if strings.Contains(v, "footnote") || strings.HasPrefix(v, "fn") {
				return true
			}
		}
	}
	return false
}

// nodeText concatenates the text nodes under n.
func nodeText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if buf.Len() > 0 {
					buf.WriteString(" ")
				}
				buf.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return buf.String()
}
