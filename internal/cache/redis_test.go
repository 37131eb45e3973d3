package cache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerlens/internal/cache"
)

func newRedisTestStore(t *testing.T) *cache.RedisStore {
	t.Helper()

	mr := miniredis.RunT(t)

	cfg := newTestConfig(t)
	cfg.Redis.URL = "redis://" + mr.Addr()

	store, err := cache.NewRedisStore(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store := newRedisTestStore(t)
	ctx := context.Background()
	params := map[string]string{"term": "golang", "domain": "jobs"}

	_, found, err := store.Get(ctx, "search", params)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "search", params, testCandidates(3), 3, nil))

	entry, found, err := store.Get(ctx, "search", params)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "search", entry.CacheType)
	assert.Equal(t, 3, entry.Total)
	assert.Len(t, entry.Candidates, 3)
	assert.Equal(t, int64(1), entry.HitCount)

	entry, found, err = store.Get(ctx, "search", params)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(2), entry.HitCount)
}

func TestRedisStore_ConcurrentHitsAllCounted(t *testing.T) {
	store := newRedisTestStore(t)
	ctx := context.Background()
	params := map[string]string{"term": "go"}

	require.NoError(t, store.Set(ctx, "search", params, testCandidates(1), 1, nil))

	const readers = 25
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = store.Get(ctx, "search", params)
		}()
	}
	wg.Wait()

	entry, found, err := store.Get(ctx, "search", params)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(readers+1), entry.HitCount)
}

func TestRedisStore_SetResetsHitAccounting(t *testing.T) {
	store := newRedisTestStore(t)
	ctx := context.Background()
	params := map[string]string{"term": "go"}

	require.NoError(t, store.Set(ctx, "search", params, testCandidates(1), 1, nil))
	_, _, err := store.Get(ctx, "search", params)
	require.NoError(t, err)
	_, _, err = store.Get(ctx, "search", params)
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "search", params, testCandidates(2), 2, nil))

	entry, found, err := store.Get(ctx, "search", params)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, entry.Total)
	assert.Equal(t, int64(1), entry.HitCount)
}

func TestRedisStore_InvalidateByType(t *testing.T) {
	store := newRedisTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "search", map[string]string{"term": "go"}, testCandidates(1), 1, nil))
	require.NoError(t, store.Set(ctx, "search", map[string]string{"term": "rust"}, testCandidates(1), 1, nil))
	require.NoError(t, store.Set(ctx, "featured", map[string]string{"domain": "jobs"}, testCandidates(1), 1, nil))

	deleted, err := store.Invalidate(ctx, "search", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	_, found, err := store.Get(ctx, "featured", map[string]string{"domain": "jobs"})
	require.NoError(t, err)
	assert.True(t, found)
}

func TestRedisStore_InvalidateExactKey(t *testing.T) {
	store := newRedisTestStore(t)
	ctx := context.Background()
	params := map[string]string{"term": "go", "location": "Berlin"}

	require.NoError(t, store.Set(ctx, "search", params, testCandidates(1), 1, nil))

	deleted, err := store.Invalidate(ctx, "search", params)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, found, err := store.Get(ctx, "search", params)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStore_Stats(t *testing.T) {
	store := newRedisTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "search", map[string]string{"term": "go"}, testCandidates(2), 2, nil))
	require.NoError(t, store.Set(ctx, "featured", map[string]string{"domain": "jobs"}, testCandidates(1), 1, nil))

	_, _, err := store.Get(ctx, "search", map[string]string{"term": "go"})
	require.NoError(t, err)
	_, _, err = store.Get(ctx, "search", map[string]string{"term": "go"})
	require.NoError(t, err)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalEntries)
	assert.Equal(t, 2, stats.ActiveEntries)
	assert.Equal(t, int64(2), stats.TotalHits)

	require.Len(t, stats.PerType, 2)
	assert.Equal(t, "featured", stats.PerType[0].CacheType)
	assert.Equal(t, "search", stats.PerType[1].CacheType)
	assert.Equal(t, int64(2), stats.PerType[1].Hits)
}

func TestRedisStore_Ping(t *testing.T) {
	store := newRedisTestStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestRedisStore_TTLAppliedPerClass(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := newTestConfig(t)
	cfg.Redis.URL = "redis://" + mr.Addr()
	cfg.Cache.TTL["free"] = time.Minute

	store, err := cache.NewRedisStore(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	params := map[string]string{"domain": "courses"}
	require.NoError(t, store.Set(ctx, "free", params, testCandidates(1), 1, nil))

	_, found, err := store.Get(ctx, "free", params)
	require.NoError(t, err)
	assert.True(t, found)

	// Past the class TTL the server has expired the key.
	mr.FastForward(2 * time.Minute)

	_, found, err = store.Get(ctx, "free", params)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStore_CorruptEntryIsMiss(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := newTestConfig(t)
	cfg.Redis.URL = "redis://" + mr.Addr()

	store, err := cache.NewRedisStore(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	params := map[string]string{"term": "go"}
	key := "agg:search:" + cache.Key("search", params)
	require.NoError(t, mr.Set(key, "{not json"))

	_, found, err := store.Get(context.Background(), "search", params)
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, mr.Exists(key))
}
