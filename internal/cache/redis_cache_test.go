package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cache, err := NewRedisCache(mr.Addr(), "")
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	return cache, mr
}

func TestRedisCache_SetAndGet(t *testing.T) {
	cache, _ := setupRedisCache(t)
	ctx := context.Background()

	err := cache.Set(ctx, "script:abc", `{"name":"disk-report"}`, time.Minute)
	require.NoError(t, err)

	val, err := cache.Get(ctx, "script:abc")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"disk-report"}`, val)
}

func TestRedisCache_GetMissing(t *testing.T) {
	cache, _ := setupRedisCache(t)

	_, err := cache.Get(context.Background(), "script:missing")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_Delete(t *testing.T) {
	cache, _ := setupRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "script:abc", "payload", time.Minute))
	require.NoError(t, cache.Delete(ctx, "script:abc"))

	_, err := cache.Get(ctx, "script:abc")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_Expiration(t *testing.T) {
	cache, mr := setupRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "script:abc", "payload", time.Second))

	mr.FastForward(2 * time.Second)

	_, err := cache.Get(ctx, "script:abc")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
