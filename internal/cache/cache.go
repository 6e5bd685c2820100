package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/singleflight"

	"github.com/FACorreiaa/go-trip-route-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-route-planner/internal/types"
)

// Cache layers JSON encoding and in-flight deduplication over a Store.
// Components never write to the Store directly; all writes go through
// GetOrSet, Set or Delete.
type Cache struct {
	store          Store
	group          singleflight.Group
	computeTimeout time.Duration
	logger         *slog.Logger
}

// DefaultComputeTimeout bounds a shared computation once it no longer follows
// the context of the request that started it.
const DefaultComputeTimeout = 2 * time.Minute

func New(store Store, logger *slog.Logger) *Cache {
	return &Cache{store: store, computeTimeout: DefaultComputeTimeout, logger: logger}
}

// Get decodes the entry for key into dst. It reports false on a miss.
func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := c.store.Get(ctx, key)
	if errors.Is(err, types.ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}
	return c.store.Set(ctx, key, b, ttl)
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.store.Delete(ctx, key)
}

// GetOrSet returns the cached value for key, or runs compute, writes the
// result back and returns it. Concurrent misses on the same key share a single
// compute call. A failed compute is returned to every waiter and nothing is
// written, so a key only ever holds a successful result.
//
// The shared compute runs detached from any one caller's cancellation and is
// bounded by the cache's compute timeout instead. Each caller stops waiting
// when its own ctx is done.
func GetOrSet[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, compute func(ctx context.Context) (T, error)) (T, error) {
	var cached T
	hit, err := c.Get(ctx, key, &cached)
	if err != nil {
		c.logger.WarnContext(ctx, "Cache read failed, computing", slog.String("key", key), slog.Any("error", err))
	}
	if hit {
		metrics.Get().CacheHitsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("cache.prefix", keyPrefix(key))))
		return cached, nil
	}
	metrics.Get().CacheMissesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("cache.prefix", keyPrefix(key))))

	flight := c.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.computeTimeout)
		defer cancel()

		// a flight that finished between our read and DoChan has already written
		var again T
		if hit, _ := c.Get(fctx, key, &again); hit {
			return again, nil
		}

		value, err := compute(fctx)
		if err != nil {
			return value, err
		}
		if err := c.Set(fctx, key, value, ttl); err != nil {
			c.logger.WarnContext(fctx, "Cache write failed", slog.String("key", key), slog.Any("error", err))
		}
		return value, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-flight:
		if res.Shared {
			c.logger.DebugContext(ctx, "Cache computation shared", slog.String("key", key))
		}
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func keyPrefix(key string) string {
	if i := strings.Index(key, ":"); i > 0 {
		return key[:i]
	}
	return key
}
