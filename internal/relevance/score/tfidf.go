// Package score implements the four independent relevance signals: TF-IDF,
// semantic cluster overlap, keyword/positional matching, and freshness
// decay. Each scorer takes one document and one query and returns a
// non-negative number; missing or empty fields score 0 rather than erring.
package score

import (
	"github.com/grantwell/grantsearch/internal/grants"
	"github.com/grantwell/grantsearch/internal/relevance/idf"
	"github.com/grantwell/grantsearch/internal/relevance/terms"
)

// TFIDF scores a document against the extracted query terms. Each query term
// occurrence that appears in the document contributes its max-normalised
// term frequency times the corpus IDF weight. Query duplicates score once
// per occurrence. Documents with no extractable terms score 0.
func TFIDF(queryTerms []string, doc grants.Document, table *idf.Table) float64 {
	if len(queryTerms) == 0 {
		return 0
	}
	docTerms := terms.Extract(doc.CombinedText())
	if len(docTerms) == 0 {
		return 0
	}
	termFreq := make(map[string]int, len(docTerms))
	maxFreq := 0
	for _, term := range docTerms {
		termFreq[term]++
		if termFreq[term] > maxFreq {
			maxFreq = termFreq[term]
		}
	}
	score := 0.0
	for _, term := range queryTerms {
		freq, ok := termFreq[term]
		if !ok {
			continue
		}
		score += (float64(freq) / float64(maxFreq)) * table.Weight(term)
	}
	return score
}
