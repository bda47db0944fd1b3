package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute), mr
}

func TestCacheSetGet(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	_, ok := cache.GetBytes(ctx, "cache:post:1")
	assert.False(t, ok)

	cache.SetJSON(ctx, "cache:post:1", map[string]any{"id": 1})
	b, ok := cache.GetBytes(ctx, "cache:post:1")
	require.True(t, ok)
	assert.JSONEq(t, `{"id":1}`, string(b))

	assert.Equal(t, time.Minute, mr.TTL("cache:post:1"))
	mr.FastForward(2 * time.Minute)
	_, ok = cache.GetBytes(ctx, "cache:post:1")
	assert.False(t, ok)
}

func TestCacheInvalidateByPrefix(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	cache.SetJSON(ctx, "cache:posts:list:term=", []int{})
	cache.SetJSON(ctx, "cache:posts:list:term=go", []int{1})
	cache.SetJSON(ctx, "cache:post:1", 1)

	cache.InvalidateByPrefix(ctx, "cache:posts:list:")

	assert.False(t, mr.Exists("cache:posts:list:term="))
	assert.False(t, mr.Exists("cache:posts:list:term=go"))
	assert.True(t, mr.Exists("cache:post:1"))
}

func TestCacheGeneration(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	gen, ok := cache.Generation(ctx, "cache:posts:gen")
	require.True(t, ok)
	assert.Equal(t, int64(0), gen)

	gen, ok = cache.Bump(ctx, "cache:posts:gen")
	require.True(t, ok)
	assert.Equal(t, int64(1), gen)
	gen, _ = cache.Bump(ctx, "cache:posts:gen")
	assert.Equal(t, int64(2), gen)

	gen, ok = cache.Generation(ctx, "cache:posts:gen")
	require.True(t, ok)
	assert.Equal(t, int64(2), gen)
	// the counter must outlive cached entries
	assert.Zero(t, mr.TTL("cache:posts:gen"))

	require.NoError(t, mr.Set("cache:bad:gen", "x"))
	_, ok = cache.Generation(ctx, "cache:bad:gen")
	assert.False(t, ok)
}

func TestCacheUnavailable(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()
	mr.Close()

	cache.SetJSON(ctx, "k", 1)
	_, ok := cache.GetBytes(ctx, "k")
	assert.False(t, ok)
	_, ok = cache.Generation(ctx, "g")
	assert.False(t, ok)
	_, ok = cache.Bump(ctx, "g")
	assert.False(t, ok)
	cache.InvalidateByPrefix(ctx, "k")
}

func TestNilCache(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	cache.SetJSON(ctx, "k", 1)
	_, ok := cache.GetBytes(ctx, "k")
	assert.False(t, ok)
	_, ok = cache.Generation(ctx, "g")
	assert.False(t, ok)
	_, ok = cache.Bump(ctx, "g")
	assert.False(t, ok)
	cache.InvalidateByPrefix(ctx, "k")
}

func TestNewCacheDefaultTTL(t *testing.T) {
	assert.Equal(t, time.Hour, NewCache(nil, 0).ttl)
}
