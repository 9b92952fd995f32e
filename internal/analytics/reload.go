package analytics

import (
	"context"
	"log/slog"

	"github.com/grantwell/grantsearch/pkg/kafka"
)

// Rebuilder is the part of the engine the reload handler needs.
type Rebuilder interface {
	RebuildIndex(ctx context.Context) error
}

// Invalidator drops cached search results after a rebuild.
type Invalidator interface {
	Invalidate(ctx context.Context) (int64, error)
}

// ReloadHandler returns a Kafka message handler that rebuilds the IDF index
// and flushes the result cache whenever a reload event arrives. cache may
// be nil when Redis is not configured.
func ReloadHandler(engine Rebuilder, cache Invalidator) kafka.MessageHandler {
	logger := slog.Default().With("component", "reload-handler")
	return func(ctx context.Context, key, value []byte) error {
		event, err := kafka.DecodeJSON[ReloadEvent](value)
		if err != nil {
			logger.Warn("ignoring malformed reload event", "error", err)
			return nil
		}
		logger.Info("corpus reload requested", "reason", event.Reason)
		if err := engine.RebuildIndex(ctx); err != nil {
			return err
		}
		if cache != nil {
			dropped, err := cache.Invalidate(ctx)
			if err != nil {
				logger.Error("cache invalidation failed after reload", "error", err)
			} else {
				logger.Info("cache invalidated after reload", "keys_dropped", dropped)
			}
		}
		return nil
	}
}
