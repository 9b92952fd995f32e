// Package terms provides text tokenisation for the relevance engine. It
// lower-cases input, splits on non-alphanumeric boundaries, and removes
// stop-words and short tokens. Unlike a full-text indexer there is no
// stemming: downstream scoring matches raw tokens.
package terms

import (
	"strings"
	"unicode"
)

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "but": {}, "for": {}, "with": {},
	"are": {}, "was": {}, "were": {}, "been": {}, "have": {},
	"has": {}, "had": {}, "does": {}, "did": {}, "will": {},
	"would": {}, "could": {}, "should": {}, "this": {}, "that": {},
	"these": {}, "those": {}, "can": {}, "may": {}, "might": {},
	"must": {}, "shall": {}, "from": {}, "out": {}, "down": {},
	"off": {}, "over": {}, "under": {}, "again": {}, "further": {},
	"then": {}, "once": {}, "not": {}, "nor": {}, "all": {},
	"any": {}, "both": {}, "each": {}, "few": {}, "more": {},
	"most": {}, "other": {}, "some": {}, "such": {}, "own": {},
	"same": {}, "than": {}, "too": {}, "very": {},
}

// Extract breaks text into normalised terms: lowercased, alphanumeric-only,
// longer than two characters, and not a stop-word. Occurrence order and
// duplicates are preserved so callers can count term frequencies. Empty
// input yields an empty result.
func Extract(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ToLower(text)
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) <= 2 {
			continue
		}
		if _, isStop := stopWords[word]; isStop {
			continue
		}
		out = append(out, word)
	}
	return out
}

// IsStopWord reports whether the given lowercase token is in the fixed
// stop-word set.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}
