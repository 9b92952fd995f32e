// Package grants defines the document model shared by the corpus store, the
// relevance scorers, and the search API.
package grants

import (
	"strings"
	"time"
)

// Document is a single funding opportunity as read from the corpus store.
// The relevance core treats documents as immutable snapshots; missing text
// fields are empty strings and missing timestamps are the zero time.
type Document struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Keywords    string    `json:"keywords"`
	Agency      string    `json:"agency"`
	AmountMin   float64   `json:"amount_min"`
	AmountMax   float64   `json:"amount_max"`
	Deadline    time.Time `json:"deadline,omitzero"`
	LastUpdated time.Time `json:"last_updated,omitzero"`
}

// CombinedText returns title, description, and keywords joined with single
// spaces. This is the text every scorer and the IDF builder operate on.
func (d Document) CombinedText() string {
	return d.Title + " " + d.Description + " " + d.Keywords
}

// KeywordList splits the comma-delimited keywords field into trimmed,
// lowercased entries, dropping empty ones.
func (d Document) KeywordList() []string {
	if d.Keywords == "" {
		return nil
	}
	parts := strings.Split(d.Keywords, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.ToLower(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Signals holds the four component scores that feed the composite.
type Signals struct {
	TFIDF     float64 `json:"tfidf"`
	Semantic  float64 `json:"semantic"`
	Keyword   float64 `json:"keyword"`
	Freshness float64 `json:"freshness"`
}

// ScoredDocument is a Document plus its signal breakdown and composite
// relevance score. Created fresh per query, never persisted.
type ScoredDocument struct {
	Document
	Signals        Signals `json:"signals"`
	RelevanceScore float64 `json:"relevance_score"`
}
