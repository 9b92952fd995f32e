// Package cache provides a Redis-backed result cache for search responses,
// with singleflight suppression so concurrent identical queries compute the
// ranking once.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/grantwell/grantsearch/internal/grants"
	"github.com/grantwell/grantsearch/internal/relevance/filter"
	"github.com/grantwell/grantsearch/pkg/config"
	pkgredis "github.com/grantwell/grantsearch/pkg/redis"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "search:"

// ResultCache caches scored result lists keyed by query, limit, and filter
// criteria.
type ResultCache struct {
	client *pkgredis.Client
	cfg    config.RedisConfig
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a ResultCache over the given Redis client.
func New(client *pkgredis.Client, cfg config.RedisConfig) *ResultCache {
	return &ResultCache{
		client: client,
		cfg:    cfg,
		logger: slog.Default().With("component", "result-cache"),
	}
}

// Get returns the cached results for the key, if present. Redis failures
// count as misses; the cache never fails a search.
func (c *ResultCache) Get(ctx context.Context, query string, limit int, criteria filter.Criteria) ([]grants.ScoredDocument, bool) {
	key := c.buildKey(query, limit, criteria)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	var results []grants.ScoredDocument
	if err := json.Unmarshal([]byte(data), &results); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return results, true
}

// Set stores results under the key with the configured TTL.
func (c *ResultCache) Set(ctx context.Context, query string, limit int, criteria filter.Criteria, results []grants.ScoredDocument) {
	key := c.buildKey(query, limit, criteria)
	data, err := json.Marshal(results)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns cached results or runs computeFn once per key across
// concurrent callers, caching its output. The bool reports a cache hit.
func (c *ResultCache) GetOrCompute(
	ctx context.Context,
	query string,
	limit int,
	criteria filter.Criteria,
	computeFn func() ([]grants.ScoredDocument, error),
) ([]grants.ScoredDocument, bool, error) {
	if results, ok := c.Get(ctx, query, limit, criteria); ok {
		return results, true, nil
	}
	key := c.buildKey(query, limit, criteria)
	v, err, shared := c.group.Do(key, func() (any, error) {
		results, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, query, limit, criteria, results)
		return results, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.([]grants.ScoredDocument), shared, nil
}

// Invalidate removes all cached search results, returning the number of
// keys dropped. Called after an index rebuild.
func (c *ResultCache) Invalidate(ctx context.Context) (int64, error) {
	return c.client.FlushByPattern(ctx, keyPrefix+"*")
}

// Stats reports hit/miss counters since process start.
func (c *ResultCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *ResultCache) buildKey(query string, limit int, criteria filter.Criteria) string {
	parts := []string{
		strings.ToLower(strings.TrimSpace(query)),
		strconv.Itoa(limit),
		criteria.Agency,
		formatFloat(criteria.AmountMin),
		formatFloat(criteria.AmountMax),
		formatInt(criteria.DeadlineDays),
		criteria.Category,
		criteria.Keywords,
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%s%x", keyPrefix, sum[:16])
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
