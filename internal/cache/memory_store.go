package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/go-trip-route-planner/internal/types"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-process Store backed by go-cache.
type MemoryStore struct {
	cache *gocache.Cache
}

func NewMemoryStore(defaultTTL, cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{cache: gocache.New(defaultTTL, cleanupInterval)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	v, found := m.cache.Get(key)
	if !found {
		return nil, types.ErrCacheMiss
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, types.ErrCacheMiss
	}
	return b, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.cache.Set(key, value, ttl)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.cache.Delete(key)
	return nil
}

// ItemCount is exposed for diagnostics and tests.
func (m *MemoryStore) ItemCount() int {
	return m.cache.ItemCount()
}
