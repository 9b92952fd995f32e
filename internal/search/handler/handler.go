// Package handler exposes the search engine over HTTP. Filter parameters
// parse fail-open: an unparseable number or date leaves that criterion
// unset instead of rejecting the request.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/grantwell/grantsearch/internal/analytics"
	"github.com/grantwell/grantsearch/internal/engine"
	"github.com/grantwell/grantsearch/internal/grants"
	"github.com/grantwell/grantsearch/internal/relevance/filter"
	"github.com/grantwell/grantsearch/internal/relevance/terms"
	"github.com/grantwell/grantsearch/internal/search/cache"
	apperrors "github.com/grantwell/grantsearch/pkg/errors"
	"github.com/grantwell/grantsearch/pkg/logger"
	"github.com/grantwell/grantsearch/pkg/metrics"
)

// Engine is the search surface the handler consumes.
type Engine interface {
	Search(ctx context.Context, query string, limit int, criteria filter.Criteria) ([]grants.ScoredDocument, error)
	Browse(ctx context.Context, category string, limit int, criteria filter.Criteria) ([]grants.ScoredDocument, error)
	DocumentByID(ctx context.Context, id int64) (engine.DocumentDetail, error)
	Trending(ctx context.Context, limit int) ([]grants.Document, error)
	Stats(ctx context.Context) (engine.CorpusStats, error)
	RebuildIndex(ctx context.Context) error
}

// SearchResponse is the JSON envelope for search and browse results.
type SearchResponse struct {
	Query     string                  `json:"query,omitempty"`
	Category  string                  `json:"category,omitempty"`
	Returned  int                     `json:"returned"`
	Results   []grants.ScoredDocument `json:"results"`
	LatencyMs int64                   `json:"latency_ms"`
}

// Handler serves the search API.
type Handler struct {
	engine       Engine
	cache        *cache.ResultCache
	collector    *analytics.Collector
	metrics      *metrics.Metrics
	defaultLimit int
	maxResults   int
	logger       *slog.Logger
}

// New creates a Handler. cache, collector, and m may be nil; the handler
// degrades to uncached, untracked operation.
func New(eng Engine, resultCache *cache.ResultCache, collector *analytics.Collector, m *metrics.Metrics, defaultLimit, maxResults int) *Handler {
	return &Handler{
		engine:       eng,
		cache:        resultCache,
		collector:    collector,
		metrics:      m,
		defaultLimit: defaultLimit,
		maxResults:   maxResults,
		logger:       slog.Default().With("component", "search-handler"),
	}
}

// Register mounts all API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/grants", h.Browse)
	mux.HandleFunc("GET /api/v1/grants/trending", h.Trending)
	mux.HandleFunc("GET /api/v1/grants/{id}", h.GrantByID)
	mux.HandleFunc("GET /api/v1/stats", h.Stats)
	mux.HandleFunc("POST /api/v1/reindex", h.Reindex)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
}

// Search handles GET /api/v1/search?q=...&limit=...&agency=...&amount_min=...
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	limit, ok := h.parseLimit(w, r)
	if !ok {
		return
	}
	criteria := parseCriteria(r)

	queryTerms := terms.Extract(query)
	if len(queryTerms) == 0 {
		if h.metrics != nil {
			h.metrics.SearchesTotal.WithLabelValues("empty_query").Inc()
		}
		h.writeJSON(w, http.StatusOK, SearchResponse{
			Query:   query,
			Results: []grants.ScoredDocument{},
		})
		return
	}

	var results []grants.ScoredDocument
	var err error
	cacheHit := false
	if h.cache != nil {
		results, cacheHit, err = h.cache.GetOrCompute(ctx, query, limit, criteria, func() ([]grants.ScoredDocument, error) {
			return h.engine.Search(ctx, query, limit, criteria)
		})
	} else {
		results, err = h.engine.Search(ctx, query, limit, criteria)
	}
	if err != nil {
		log.Error("search failed", "query", query, "error", err)
		h.writeError(w, apperrors.HTTPStatusCode(err), "search failed")
		return
	}

	latency := time.Since(start)
	log.Info("search completed",
		"query", query,
		"returned", len(results),
		"cache_hit", cacheHit,
		"latency_ms", latency.Milliseconds(),
	)
	h.recordSearch(results, cacheHit, latency)
	if h.collector != nil {
		h.collector.Track(analytics.SearchEvent{
			Query:     query,
			Terms:     queryTerms,
			Returned:  len(results),
			LatencyMs: latency.Milliseconds(),
			CacheHit:  cacheHit,
			Timestamp: time.Now().UTC(),
			RequestID: logger.RequestIDFromContext(ctx),
		})
	}
	h.writeJSON(w, http.StatusOK, SearchResponse{
		Query:     query,
		Returned:  len(results),
		Results:   results,
		LatencyMs: latency.Milliseconds(),
	})
}

// Browse handles GET /api/v1/grants?category=... — category-driven results
// without query text.
func (h *Handler) Browse(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	category := r.URL.Query().Get("category")
	if category == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'category' is required")
		return
	}
	limit, ok := h.parseLimit(w, r)
	if !ok {
		return
	}
	criteria := parseCriteria(r)
	criteria.Category = "" // the category drives the browse query itself

	results, err := h.engine.Browse(ctx, category, limit, criteria)
	if err != nil {
		log.Error("browse failed", "category", category, "error", err)
		h.writeError(w, apperrors.HTTPStatusCode(err), "browse failed")
		return
	}
	latency := time.Since(start)
	if h.collector != nil {
		h.collector.Track(analytics.SearchEvent{
			Category:  category,
			Returned:  len(results),
			LatencyMs: latency.Milliseconds(),
			Timestamp: time.Now().UTC(),
			RequestID: logger.RequestIDFromContext(ctx),
		})
	}
	h.writeJSON(w, http.StatusOK, SearchResponse{
		Category:  category,
		Returned:  len(results),
		Results:   results,
		LatencyMs: latency.Milliseconds(),
	})
}

// GrantByID handles GET /api/v1/grants/{id}.
func (h *Handler) GrantByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "grant id must be an integer")
		return
	}
	detail, err := h.engine.DocumentByID(r.Context(), id)
	if err != nil {
		h.writeError(w, apperrors.HTTPStatusCode(err), "grant not found")
		return
	}
	h.writeJSON(w, http.StatusOK, detail)
}

// Trending handles GET /api/v1/grants/trending.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.parseLimit(w, r)
	if !ok {
		return
	}
	docs, err := h.engine.Trending(r.Context(), limit)
	if err != nil {
		h.writeError(w, apperrors.HTTPStatusCode(err), "trending lookup failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"returned": len(docs),
		"results":  docs,
	})
}

// Stats handles GET /api/v1/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.engine.Stats(r.Context())
	if err != nil {
		h.writeError(w, apperrors.HTTPStatusCode(err), "stats unavailable")
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

// Reindex handles POST /api/v1/reindex, rebuilding the IDF table and
// invalidating the result cache.
func (h *Handler) Reindex(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.RebuildIndex(r.Context()); err != nil {
		h.writeError(w, apperrors.HTTPStatusCode(err), "index rebuild failed")
		return
	}
	if h.cache != nil {
		if _, err := h.cache.Invalidate(r.Context()); err != nil {
			h.logger.Error("cache invalidation failed after reindex", "error", err)
		}
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "rebuilt"})
}

// CacheStats handles GET /api/v1/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]any{"enabled": false})
		return
	}
	hits, misses := h.cache.Stats()
	h.writeJSON(w, http.StatusOK, map[string]any{
		"enabled": true,
		"hits":    hits,
		"misses":  misses,
	})
}

// CacheInvalidate handles POST /api/v1/cache/invalidate.
func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]any{"enabled": false})
		return
	}
	dropped, err := h.cache.Invalidate(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"keys_dropped": dropped})
}

func (h *Handler) parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	limit := h.defaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return 0, false
		}
		if parsed > h.maxResults {
			parsed = h.maxResults
		}
		limit = parsed
	}
	return limit, true
}

// parseCriteria builds filter criteria from query parameters. Malformed
// values are dropped, never rejected.
func parseCriteria(r *http.Request) filter.Criteria {
	q := r.URL.Query()
	criteria := filter.Criteria{
		Agency:   q.Get("agency"),
		Category: q.Get("category"),
		Keywords: q.Get("keywords"),
	}
	if v := q.Get("amount_min"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			criteria.AmountMin = &f
		}
	}
	if v := q.Get("amount_max"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			criteria.AmountMax = &f
		}
	}
	if v := q.Get("deadline"); v != "" {
		if d, err := strconv.Atoi(v); err == nil {
			criteria.DeadlineDays = &d
		}
	}
	return criteria
}

func (h *Handler) recordSearch(results []grants.ScoredDocument, cacheHit bool, latency time.Duration) {
	if h.metrics == nil {
		return
	}
	outcome := "ok"
	if len(results) == 0 {
		outcome = "zero_result"
	}
	h.metrics.SearchesTotal.WithLabelValues(outcome).Inc()
	h.metrics.SearchResultsCount.Observe(float64(len(results)))
	cacheStatus := "miss"
	if cacheHit {
		cacheStatus = "hit"
		h.metrics.CacheHitsTotal.Inc()
	} else {
		h.metrics.CacheMissesTotal.Inc()
	}
	h.metrics.SearchLatency.WithLabelValues(cacheStatus).Observe(latency.Seconds())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("writing response failed", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
