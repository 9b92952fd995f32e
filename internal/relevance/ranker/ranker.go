// Package ranker combines the four relevance signals into a composite score
// and produces the ordered, thresholded, truncated result list. All scoring
// constants arrive through Config so they can be tuned without touching the
// scoring logic.
package ranker

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/grantwell/grantsearch/internal/grants"
	"github.com/grantwell/grantsearch/internal/relevance/idf"
	"github.com/grantwell/grantsearch/internal/relevance/score"
	"github.com/grantwell/grantsearch/internal/relevance/terms"
	"github.com/grantwell/grantsearch/pkg/errors"
)

// Weights blends the four signals into the composite score. The four values
// must sum to 1.0.
type Weights struct {
	TFIDF     float64 `yaml:"tfidf"`
	Semantic  float64 `yaml:"semantic"`
	Keyword   float64 `yaml:"keyword"`
	Freshness float64 `yaml:"freshness"`
}

// Sum returns the total of the four weights.
func (w Weights) Sum() float64 {
	return w.TFIDF + w.Semantic + w.Keyword + w.Freshness
}

// DefaultWeights returns the reference signal blend.
func DefaultWeights() Weights {
	return Weights{TFIDF: 0.25, Semantic: 0.35, Keyword: 0.30, Freshness: 0.10}
}

// Config carries every tunable scoring constant.
type Config struct {
	Weights Weights
	// MinScore is the composite relevance cutoff; documents scoring at or
	// below it are discarded. The primary lever against false positives on
	// unrelated queries.
	MinScore float64
	// RequireTextMatch discards documents whose TF-IDF and semantic scores
	// are both zero and whose keyword score came only from the agency
	// bonus, so freshness and agency alone cannot cross MinScore.
	RequireTextMatch bool
	ClusterBoost     float64
	Points           score.KeywordPoints
	AgencyCodes      []string
	Clusters         []score.Cluster
}

// DefaultConfig returns the reference scoring configuration.
func DefaultConfig() Config {
	return Config{
		Weights:          DefaultWeights(),
		MinScore:         0.5,
		RequireTextMatch: true,
		ClusterBoost:     score.DefaultClusterBoost,
		Points:           score.DefaultKeywordPoints(),
		AgencyCodes:      score.DefaultAgencyCodes(),
		Clusters:         score.DefaultClusters(),
	}
}

// Validate checks the configuration for programmer errors.
func (c Config) Validate() error {
	if diff := math.Abs(c.Weights.Sum() - 1.0); diff > 1e-9 {
		return fmt.Errorf("signal weights must sum to 1.0, got %v", c.Weights.Sum())
	}
	if c.MinScore < 0 {
		return fmt.Errorf("minimum score must be non-negative, got %v", c.MinScore)
	}
	return nil
}

// Ranker scores and orders documents for a query.
type Ranker struct {
	cfg Config
	now func() time.Time
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithNow overrides the clock, used by tests for deterministic freshness.
func WithNow(now func() time.Time) Option {
	return func(r *Ranker) { r.now = now }
}

// New creates a Ranker from cfg.
func New(cfg Config, opts ...Option) *Ranker {
	r := &Ranker{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank scores every document against the query, keeps those above the
// relevance cutoff, sorts descending by composite score with ascending
// document ID as the tie-break, and truncates to limit (limit 0 means no
// truncation). A query with no extractable terms yields an empty result. A
// negative limit is a contract violation.
func (r *Ranker) Rank(query string, docs []grants.Document, table *idf.Table, limit int) ([]grants.ScoredDocument, error) {
	if limit < 0 {
		return nil, errors.Newf(errors.ErrInvalidInput, 400, "negative limit %d", limit)
	}
	queryTerms := terms.Extract(query)
	if len(queryTerms) == 0 {
		return []grants.ScoredDocument{}, nil
	}
	now := r.now()
	scored := make([]grants.ScoredDocument, 0, len(docs))
	for _, doc := range docs {
		signals := grants.Signals{
			TFIDF:     score.TFIDF(queryTerms, doc, table),
			Semantic:  score.Semantic(query, doc, r.cfg.Clusters, r.cfg.ClusterBoost),
			Freshness: score.Freshness(doc, now),
		}
		var lexical bool
		signals.Keyword, lexical = score.Keyword(query, doc, r.cfg.Points, r.cfg.AgencyCodes)

		if r.cfg.RequireTextMatch && signals.TFIDF == 0 && signals.Semantic == 0 && !lexical {
			continue
		}
		composite := round2(
			signals.TFIDF*r.cfg.Weights.TFIDF +
				signals.Semantic*r.cfg.Weights.Semantic +
				signals.Keyword*r.cfg.Weights.Keyword +
				signals.Freshness*r.cfg.Weights.Freshness,
		)
		if composite <= r.cfg.MinScore {
			continue
		}
		scored = append(scored, grants.ScoredDocument{
			Document:       doc,
			Signals:        signals,
			RelevanceScore: composite,
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].RelevanceScore != scored[j].RelevanceScore {
			return scored[i].RelevanceScore > scored[j].RelevanceScore
		}
		return scored[i].ID < scored[j].ID
	})
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
