// Package normalize canonicalizes article text for comparison. Every string
// that enters the similarity scorer or the corpus deduper goes through
// Normalize first, so the rest of the system can assume lowercase,
// single-spaced, unhyphenated text.
package normalize

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes text for fuzzy comparison:
//   - deletes hyphenation line-break artifacts (a hyphen immediately
//     followed by whitespace joins the split word: "de-\nfendant" →
//     "defendant")
//   - collapses runs of whitespace, including newlines and tabs, into a
//     single space
//   - case-folds to lowercase
//   - trims leading and trailing whitespace
//
// Total and idempotent: any input, including the empty string, produces a
// deterministic result.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))

	runes := []rune(text)
	inSpace := false
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		// Hyphen-break: drop the hyphen and the whitespace run after it.
		if r == '-' && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				i++
			}
			continue
		}

		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			inSpace = false
		}
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}
