// Package analytics emits search telemetry events to Kafka through a
// buffered, non-blocking collector. Downstream persistence and aggregation
// of these events belongs to external consumers.
package analytics

import "time"

// SearchEvent describes one completed search request.
type SearchEvent struct {
	Query     string    `json:"query"`
	Terms     []string  `json:"terms"`
	Category  string    `json:"category,omitempty"`
	Returned  int       `json:"returned"`
	LatencyMs int64     `json:"latency_ms"`
	CacheHit  bool      `json:"cache_hit"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// ReloadEvent is published on the corpus-reload topic to trigger an index
// rebuild, typically after an external ingestion run finishes.
type ReloadEvent struct {
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}
