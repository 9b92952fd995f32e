// Package filter applies user-supplied post-filters to an already ranked
// result set. Filters run after thresholding, sorting, and truncation, so
// they never change relative order among survivors. Every criterion is
// fail-open: an absent or malformed value constrains nothing.
package filter

import (
	"strings"
	"time"

	"github.com/grantwell/grantsearch/internal/grants"
)

// Criteria holds the optional post-filter fields. Nil pointer fields and
// empty strings mean "no constraint".
type Criteria struct {
	// Agency keeps documents whose agency contains this substring,
	// case-insensitively.
	Agency string
	// AmountMin keeps documents whose amount_max is at least this floor.
	AmountMin *float64
	// AmountMax keeps documents whose amount_min is at most this ceiling.
	AmountMax *float64
	// DeadlineDays keeps documents whose deadline is at most this many days
	// away. Documents without a deadline always pass.
	DeadlineDays *int
	// Category names a fixed keyword group; at least one of its keywords
	// must appear in the document text. Unknown names constrain nothing.
	Category string
	// Keywords is a comma-separated list of required substrings; every
	// entry must appear in the document text.
	Keywords string
}

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool {
	return c.Agency == "" && c.AmountMin == nil && c.AmountMax == nil &&
		c.DeadlineDays == nil && c.Category == "" && c.Keywords == ""
}

// categoryKeywords maps the fixed category names onto the substrings that
// satisfy them.
var categoryKeywords = map[string][]string{
	"diagnostics":     {"diagnostic", "biomarker", "detection", "clinical", "point-of-care"},
	"genomics":        {"genome", "genomic", "sequencing", "dna", "gene"},
	"proteomics":      {"protein", "proteome", "peptide", "mass spectrometry"},
	"cell_biology":    {"cell", "cellular", "cell culture", "imaging"},
	"bioinformatics":  {"bioinformatics", "computational", "algorithm", "pipeline", "software"},
	"instrumentation": {"instrument", "device", "microscope", "sequencer", "cytometer", "sensor"},
	"immunology":      {"immune", "antibody", "cytokine", "immunoassay", "vaccine"},
	"therapeutics":    {"therapeutic", "drug", "treatment", "therapy", "clinical trial"},
}

// Categories returns the recognised category names.
func Categories() []string {
	names := make([]string, 0, len(categoryKeywords))
	for name := range categoryKeywords {
		names = append(names, name)
	}
	return names
}

// CategoryKeywords returns the keyword list for a category name, or nil for
// an unknown category.
func CategoryKeywords(name string) []string {
	return categoryKeywords[strings.ToLower(strings.TrimSpace(name))]
}

// Apply returns the subset of docs satisfying every supplied criterion,
// preserving order. now anchors the deadline-window check.
func Apply(docs []grants.ScoredDocument, criteria Criteria, now time.Time) []grants.ScoredDocument {
	if criteria.IsZero() {
		return docs
	}
	kept := make([]grants.ScoredDocument, 0, len(docs))
	for _, doc := range docs {
		if matches(doc, criteria, now) {
			kept = append(kept, doc)
		}
	}
	return kept
}

func matches(doc grants.ScoredDocument, c Criteria, now time.Time) bool {
	if c.Agency != "" {
		if !strings.Contains(strings.ToLower(doc.Agency), strings.ToLower(c.Agency)) {
			return false
		}
	}
	if c.AmountMin != nil && doc.AmountMax < *c.AmountMin {
		return false
	}
	if c.AmountMax != nil && doc.AmountMin > *c.AmountMax {
		return false
	}
	if c.DeadlineDays != nil && !doc.Deadline.IsZero() {
		days := int(doc.Deadline.Sub(now).Hours() / 24)
		if days > *c.DeadlineDays {
			return false
		}
	}
	if c.Category != "" {
		if keywords := CategoryKeywords(c.Category); keywords != nil {
			docText := strings.ToLower(doc.CombinedText())
			found := false
			for _, kw := range keywords {
				if strings.Contains(docText, kw) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	if c.Keywords != "" {
		docText := strings.ToLower(doc.CombinedText())
		for _, kw := range strings.Split(c.Keywords, ",") {
			kw = strings.TrimSpace(strings.ToLower(kw))
			if kw == "" {
				continue
			}
			if !strings.Contains(docText, kw) {
				return false
			}
		}
	}
	return true
}
