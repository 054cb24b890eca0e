package cache

import (
	"context"
	"time"
)

// RateLimitStore counts requests per key within a fixed window.
// Implementations must be safe for concurrent use.
type RateLimitStore interface {
	// Increment adds one hit for the key and returns the total number of
	// hits in the current window. The window TTL starts on the first hit.
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)

	// Close releases any resources held by the store
	Close() error
}
