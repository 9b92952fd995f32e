// Package engine wires the relevance core to the corpus store and owns the
// IDF table lifecycle. It exposes the two caller-facing operations, Search
// and RebuildIndex, plus the browse/detail/stats views built on the same
// snapshot reads.
package engine

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/grantwell/grantsearch/internal/grants"
	"github.com/grantwell/grantsearch/internal/relevance/filter"
	"github.com/grantwell/grantsearch/internal/relevance/idf"
	"github.com/grantwell/grantsearch/internal/relevance/ranker"
	"github.com/grantwell/grantsearch/internal/relevance/score"
	"github.com/grantwell/grantsearch/internal/relevance/terms"
	"github.com/grantwell/grantsearch/pkg/errors"
	"github.com/grantwell/grantsearch/pkg/metrics"
)

// Store is the corpus document store the engine consumes.
type Store interface {
	GetAllDocuments(ctx context.Context) ([]grants.Document, error)
	GetDocumentByID(ctx context.Context, id int64) (grants.Document, error)
}

// DocumentDetail is a single document plus its topical cluster profile.
type DocumentDetail struct {
	grants.Document
	ClusterProfile map[string]int `json:"cluster_profile,omitempty"`
}

// CorpusStats summarises the corpus and the current index.
type CorpusStats struct {
	Documents      int            `json:"documents"`
	VocabularySize int            `json:"vocabulary_size"`
	ByAgency       map[string]int `json:"by_agency"`
}

// Engine ranks the corpus against queries. The IDF table sits behind an
// atomic pointer: rebuilds construct a complete table and swap it in, so
// concurrent searches never observe a partial build.
type Engine struct {
	store        Store
	searchRanker *ranker.Ranker
	browseRanker *ranker.Ranker
	clusters     []score.Cluster
	table        atomic.Pointer[idf.Table]
	metrics      *metrics.Metrics
	logger       *slog.Logger
	now          func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics attaches Prometheus collectors for index gauges.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithNow overrides the clock, used by tests.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine. cfg drives text searches; browseWeights replaces
// the blend for category browsing, where there is no user text for TF-IDF.
// The engine starts with an empty IDF table; call RebuildIndex before
// serving queries.
func New(store Store, cfg ranker.Config, browseWeights ranker.Weights, opts ...Option) *Engine {
	browseCfg := cfg
	browseCfg.Weights = browseWeights
	e := &Engine{
		store:    store,
		clusters: cfg.Clusters,
		logger:   slog.Default().With("component", "search-engine"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.searchRanker = ranker.New(cfg, ranker.WithNow(e.now))
	e.browseRanker = ranker.New(browseCfg, ranker.WithNow(e.now))
	e.table.Store(idf.Build(nil))
	return e
}

// RebuildIndex reads the corpus and swaps in a freshly built IDF table. On a
// store failure the previous table is kept and the error returned; the
// engine keeps serving with the stale (possibly empty) table rather than
// crashing.
func (e *Engine) RebuildIndex(ctx context.Context) error {
	docs, err := e.store.GetAllDocuments(ctx)
	if err != nil {
		e.logger.Error("index rebuild failed, keeping previous table", "error", err)
		if e.metrics != nil {
			e.metrics.IndexRebuildsTotal.WithLabelValues("error").Inc()
		}
		return errors.Newf(errors.ErrStoreUnavailable, 503, "rebuilding index: %v", err)
	}
	table := idf.Build(docs)
	e.table.Store(table)
	e.logger.Info("index rebuilt",
		"documents", table.TotalDocs(),
		"vocabulary", table.Len(),
	)
	if e.metrics != nil {
		e.metrics.IndexRebuildsTotal.WithLabelValues("ok").Inc()
		e.metrics.IndexVocabularySize.Set(float64(table.Len()))
		e.metrics.CorpusDocuments.Set(float64(table.TotalDocs()))
	}
	return nil
}

// Search ranks the corpus against query, applies the post-filter criteria,
// and returns at most limit documents. A query with no extractable terms
// returns an empty list with no error. A corpus read failure degrades to an
// empty result. A negative limit is a contract violation and fails loudly.
func (e *Engine) Search(ctx context.Context, query string, limit int, criteria filter.Criteria) ([]grants.ScoredDocument, error) {
	if limit < 0 {
		return nil, errors.Newf(errors.ErrInvalidInput, 400, "negative limit %d", limit)
	}
	if len(terms.Extract(query)) == 0 {
		return []grants.ScoredDocument{}, nil
	}
	docs, err := e.store.GetAllDocuments(ctx)
	if err != nil {
		e.logger.Error("corpus read failed, returning empty results", "query", query, "error", err)
		if e.metrics != nil {
			e.metrics.SearchesTotal.WithLabelValues("store_error").Inc()
		}
		return []grants.ScoredDocument{}, nil
	}
	ranked, err := e.searchRanker.Rank(query, docs, e.table.Load(), limit)
	if err != nil {
		return nil, err
	}
	return filter.Apply(ranked, criteria, e.now()), nil
}

// Browse returns category-driven results for an empty query: the category's
// keyword list becomes the query text and the browse blend drops TF-IDF in
// favour of semantic alignment.
func (e *Engine) Browse(ctx context.Context, category string, limit int, criteria filter.Criteria) ([]grants.ScoredDocument, error) {
	if limit < 0 {
		return nil, errors.Newf(errors.ErrInvalidInput, 400, "negative limit %d", limit)
	}
	keywords := filter.CategoryKeywords(category)
	if len(keywords) == 0 {
		return []grants.ScoredDocument{}, nil
	}
	docs, err := e.store.GetAllDocuments(ctx)
	if err != nil {
		e.logger.Error("corpus read failed, returning empty results", "category", category, "error", err)
		return []grants.ScoredDocument{}, nil
	}
	query := strings.Join(keywords, " ")
	ranked, err := e.browseRanker.Rank(query, docs, e.table.Load(), limit)
	if err != nil {
		return nil, err
	}
	return filter.Apply(ranked, criteria, e.now()), nil
}

// DocumentByID returns one document with its cluster profile.
func (e *Engine) DocumentByID(ctx context.Context, id int64) (DocumentDetail, error) {
	doc, err := e.store.GetDocumentByID(ctx, id)
	if err != nil {
		return DocumentDetail{}, err
	}
	return DocumentDetail{
		Document:       doc,
		ClusterProfile: score.ClusterProfile(doc, e.clusters),
	}, nil
}

// Trending returns the most recently updated documents, newest first.
func (e *Engine) Trending(ctx context.Context, limit int) ([]grants.Document, error) {
	if limit < 0 {
		return nil, errors.Newf(errors.ErrInvalidInput, 400, "negative limit %d", limit)
	}
	docs, err := e.store.GetAllDocuments(ctx)
	if err != nil {
		e.logger.Error("corpus read failed, returning empty results", "error", err)
		return []grants.Document{}, nil
	}
	sort.SliceStable(docs, func(i, j int) bool {
		if !docs[i].LastUpdated.Equal(docs[j].LastUpdated) {
			return docs[i].LastUpdated.After(docs[j].LastUpdated)
		}
		return docs[i].ID < docs[j].ID
	})
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

// Stats summarises the corpus and current index state.
func (e *Engine) Stats(ctx context.Context) (CorpusStats, error) {
	docs, err := e.store.GetAllDocuments(ctx)
	if err != nil {
		return CorpusStats{}, errors.Newf(errors.ErrStoreUnavailable, 503, "reading corpus: %v", err)
	}
	stats := CorpusStats{
		Documents:      len(docs),
		VocabularySize: e.table.Load().Len(),
		ByAgency:       make(map[string]int),
	}
	for _, doc := range docs {
		if doc.Agency != "" {
			stats.ByAgency[doc.Agency]++
		}
	}
	return stats, nil
}

// VocabularySize returns the current IDF table size, used by health checks.
func (e *Engine) VocabularySize() int {
	return e.table.Load().Len()
}
