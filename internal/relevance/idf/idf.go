// Package idf builds inverse-document-frequency tables over a corpus
// snapshot. A Table is immutable once built; callers rebuild a fresh table
// and swap it atomically rather than mutating in place.
package idf

import (
	"math"

	"github.com/grantwell/grantsearch/internal/grants"
	"github.com/grantwell/grantsearch/internal/relevance/terms"
)

// Table maps a term to its IDF weight, ln(totalDocs/docFrequency). Terms
// absent from the table weigh 0.
type Table struct {
	weights   map[string]float64
	totalDocs int
}

// Build computes document frequencies over the distinct terms of every
// document's combined text and derives IDF weights. An empty corpus yields
// an empty table. Build is deterministic for an identical corpus snapshot.
func Build(docs []grants.Document) *Table {
	t := &Table{
		weights:   make(map[string]float64),
		totalDocs: len(docs),
	}
	if len(docs) == 0 {
		return t
	}
	docFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range terms.Extract(doc.CombinedText()) {
			if _, dup := seen[term]; dup {
				continue
			}
			seen[term] = struct{}{}
			docFreq[term]++
		}
	}
	total := float64(len(docs))
	for term, freq := range docFreq {
		t.weights[term] = math.Log(total / float64(freq))
	}
	return t
}

// Weight returns the IDF weight for term, or 0 when the term is unknown.
// Safe on a nil Table.
func (t *Table) Weight(term string) float64 {
	if t == nil {
		return 0
	}
	return t.weights[term]
}

// Len returns the number of distinct terms in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.weights)
}

// TotalDocs returns the corpus size the table was built from.
func (t *Table) TotalDocs() int {
	if t == nil {
		return 0
	}
	return t.totalDocs
}
