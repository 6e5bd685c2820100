package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-route-planner/internal/types"
)

func newTestCache() (*Cache, *MemoryStore) {
	store := NewMemoryStore(time.Hour, time.Minute)
	return New(store, slog.New(slog.NewTextHandler(io.Discard, nil))), store
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour, time.Minute)

	t.Run("miss", func(t *testing.T) {
		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(t, err, types.ErrCacheMiss)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))
		b, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), b)
	})

	t.Run("expires", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "short", []byte("v"), 10*time.Millisecond))
		time.Sleep(30 * time.Millisecond)
		_, err := store.Get(ctx, "short")
		assert.ErrorIs(t, err, types.ErrCacheMiss)
	})

	t.Run("zero ttl never expires", func(t *testing.T) {
		short := NewMemoryStore(10*time.Millisecond, time.Minute)
		require.NoError(t, short.Set(ctx, "forever", []byte("v"), 0))
		time.Sleep(30 * time.Millisecond)
		_, err := short.Get(ctx, "forever")
		assert.NoError(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "gone", []byte("v"), time.Minute))
		require.NoError(t, store.Delete(ctx, "gone"))
		_, err := store.Get(ctx, "gone")
		assert.ErrorIs(t, err, types.ErrCacheMiss)
	})
}

func TestGetOrSet(t *testing.T) {
	ctx := context.Background()

	t.Run("computes once for successive calls", func(t *testing.T) {
		c, _ := newTestCache()
		var calls int32
		compute := func(context.Context) ([]string, error) {
			atomic.AddInt32(&calls, 1)
			return []string{"a", "b"}, nil
		}

		first, err := GetOrSet(ctx, c, "list:1", time.Minute, compute)
		require.NoError(t, err)
		second, err := GetOrSet(ctx, c, "list:1", time.Minute, compute)
		require.NoError(t, err)

		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		assert.Equal(t, first, second)
	})

	t.Run("deduplicates concurrent misses", func(t *testing.T) {
		c, _ := newTestCache()
		var calls int32
		release := make(chan struct{})
		compute := func(context.Context) (int, error) {
			atomic.AddInt32(&calls, 1)
			<-release
			return 42, nil
		}

		const callers = 16
		var wg sync.WaitGroup
		results := make([]int, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				v, err := GetOrSet(ctx, c, "answer", time.Minute, compute)
				assert.NoError(t, err)
				results[i] = v
			}(i)
		}
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		for _, v := range results {
			assert.Equal(t, 42, v)
		}
	})

	t.Run("failed computation is not cached", func(t *testing.T) {
		c, store := newTestCache()
		boom := errors.New("upstream down")
		_, err := GetOrSet(ctx, c, "fail", time.Minute, func(context.Context) (string, error) {
			return "", boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 0, store.ItemCount())

		v, err := GetOrSet(ctx, c, "fail", time.Minute, func(context.Context) (string, error) {
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", v)
	})

	t.Run("cancelled first caller does not fail the others", func(t *testing.T) {
		c, _ := newTestCache()
		started := make(chan struct{})
		compute := func(cctx context.Context) (string, error) {
			close(started)
			select {
			case <-time.After(200 * time.Millisecond):
				return "done", nil
			case <-cctx.Done():
				return "", cctx.Err()
			}
		}

		aCtx, cancelA := context.WithCancel(ctx)
		aErr := make(chan error, 1)
		go func() {
			_, err := GetOrSet(aCtx, c, "k", time.Minute, compute)
			aErr <- err
		}()
		<-started

		bVal := make(chan string, 1)
		bErr := make(chan error, 1)
		go func() {
			v, err := GetOrSet(ctx, c, "k", time.Minute, func(context.Context) (string, error) {
				return "", errors.New("second compute must not run")
			})
			bVal <- v
			bErr <- err
		}()
		time.Sleep(20 * time.Millisecond)
		cancelA()

		assert.ErrorIs(t, <-aErr, context.Canceled)
		require.NoError(t, <-bErr)
		assert.Equal(t, "done", <-bVal)
	})

	t.Run("abandoned computation still fills the cache", func(t *testing.T) {
		c, store := newTestCache()
		release := make(chan struct{})
		aCtx, cancelA := context.WithCancel(ctx)
		cancelA()

		_, err := GetOrSet(aCtx, c, "late", time.Minute, func(context.Context) (int, error) {
			<-release
			return 7, nil
		})
		assert.ErrorIs(t, err, context.Canceled)

		close(release)
		assert.Eventually(t, func() bool { return store.ItemCount() == 1 }, time.Second, 10*time.Millisecond)

		v, err := GetOrSet(ctx, c, "late", time.Minute, func(context.Context) (int, error) {
			return 0, errors.New("should be cached")
		})
		require.NoError(t, err)
		assert.Equal(t, 7, v)
	})

	t.Run("struct values round trip", func(t *testing.T) {
		c, _ := newTestCache()
		want := types.POIStrategy{Categories: []types.CategoryPlan{{Category: "meal", Count: 3, Priority: 1}}}
		_, err := GetOrSet(ctx, c, "strategy", time.Minute, func(context.Context) (types.POIStrategy, error) {
			return want, nil
		})
		require.NoError(t, err)

		var got types.POIStrategy
		hit, err := c.Get(ctx, "strategy", &got)
		require.NoError(t, err)
		assert.True(t, hit)
		assert.Equal(t, want, got)
	})
}

func TestKeyPrefix(t *testing.T) {
	assert.Equal(t, "poi", keyPrefix("poi:strategy:car"))
	assert.Equal(t, "plain", keyPrefix("plain"))
}
