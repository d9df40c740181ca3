package normalize

import (
	"strings"
	"unicode"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/refdata"
)

// MapCategory maps free-text category strings in any supported language to the
// fixed category enum. Matching is case-insensitive over word boundaries so
// short keywords ("ai", "art") don't fire inside unrelated words. Falls back
// to CategoryOther; never errors.
func MapCategory(text string, tables *refdata.Tables) models.Category {
	tokens := tokenize(text)
	if tokens == "" {
		return models.CategoryOther
	}

	for _, entry := range tables.Categories {
		for _, kw := range entry.Keywords {
			// Keywords go through the same tokenization as the input, so a
			// punctuated keyword ("stand-up") matches its punctuated and
			// plain spellings alike.
			kwTokens := tokenize(kw)
			if kwTokens != "" && strings.Contains(tokens, kwTokens) {
				return entry.Category
			}
		}
	}
	return models.CategoryOther
}

// tokenize lowercases the text, replaces punctuation with spaces and pads the
// result so keyword hits always land on word boundaries.
func tokenize(text string) string {
	text = strings.TrimSpace(strings.ToLower(text))
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.WriteByte(' ')
	prevSpace := true
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevSpace = false
		} else if !prevSpace {
			b.WriteByte(' ')
			prevSpace = true
		}
	}
	if !prevSpace {
		b.WriteByte(' ')
	}
	return b.String()
}
