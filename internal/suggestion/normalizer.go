// Package suggestion implements the smart-suggestion routine: free text is
// normalized, vectorized as term counts over a per-call vocabulary, and
// scored with cosine similarity against the existing task corpus.
package suggestion

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lowercase = cases.Lower(language.Und)

// Normalize lowercases text and drops tokens containing non-alphanumeric
// characters. Tokens are dropped whole, not stripped of punctuation.
func Normalize(text string) string {
	tokens := strings.Fields(lowercase.String(text))
	kept := tokens[:0]
	for _, tok := range tokens {
		if isAlphanumeric(tok) {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}

func isAlphanumeric(token string) bool {
	for _, r := range token {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
