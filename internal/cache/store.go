// Package cache implements the key-value store used by every I/O-bound stage
// and the get-or-compute discipline on top of it.
package cache

import (
	"context"
	"time"
)

// Store is a byte-oriented key-value store with per-entry TTL.
// A ttl <= 0 means the entry never expires.
type Store interface {
	// Get returns types.ErrCacheMiss when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
