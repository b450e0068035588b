package ports

import (
	"context"
	"time"
)

// ReportCache stores rendered report payloads keyed by a digest of the
// time window and calendar configuration. Implementations degrade: a cache
// failure behaves like a miss and never fails a report.
type ReportCache interface {
	// Get returns the cached payload and whether it was present
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a payload with the given TTL
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration)
}
