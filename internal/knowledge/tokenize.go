// Package knowledge implements the in-memory knowledge base: record
// loading, token-overlap lookup with ranking, and source summaries.
package knowledge

import (
	"strings"
	"unicode"
)

// Tokenize normalizes text into a set of lowercase word tokens.
// Punctuation is stripped; tokens are split on whitespace.
func Tokenize(text string) map[string]struct{} {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		default:
			// Punctuation separates tokens rather than joining them.
			b.WriteRune(' ')
		}
	}

	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(b.String()) {
		tokens[tok] = struct{}{}
	}
	return tokens
}

// IsStopword returns true if the word is too common (or too short) to
// count toward a match.
func IsStopword(word string) bool {
	if len([]rune(word)) <= 2 {
		return true
	}
	return stopwords[strings.ToLower(word)]
}

// meaningfulWords returns the non-stopword tokens of text that are
// longer than four runes, in arbitrary order.
func meaningfulWords(text string) []string {
	var words []string
	for tok := range Tokenize(text) {
		if len([]rune(tok)) > 4 && !IsStopword(tok) {
			words = append(words, tok)
		}
	}
	return words
}

var stopwords = map[string]bool{
	"the": true, "and": true, "are": true, "was": true, "were": true,
	"been": true, "being": true, "have": true, "has": true, "had": true,
	"does": true, "did": true, "will": true, "would": true, "could": true,
	"should": true, "may": true, "might": true, "must": true, "shall": true,
	"for": true, "with": true, "from": true, "into": true, "through": true,
	"during": true, "before": true, "after": true, "above": true, "below": true,
	"out": true, "but": true, "nor": true, "yet": true, "then": true,
	"else": true, "when": true, "where": true, "why": true, "how": true,
	"all": true, "each": true, "every": true, "both": true, "few": true,
	"more": true, "most": true, "other": true, "some": true, "such": true,
	"not": true, "only": true, "own": true, "same": true, "than": true,
	"too": true, "very": true, "can": true, "just": true, "now": true,
	"tell": true, "about": true, "what": true, "which": true, "who": true,
	"this": true, "that": true, "these": true, "those": true, "its": true,
	"you": true, "your": true, "they": true, "their": true, "them": true,
	"please": true, "know": true, "give": true, "show": true, "find": true,
}
