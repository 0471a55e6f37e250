package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/movie-gateway/internal/config"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func setupTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.RedisConnection{AddressRedis: mr.Addr()}
	c, err := InitRedis(context.Background(), cfg, 5*time.Minute, newNoopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedis_PutAndGet(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	want := listing(3)
	require.NoError(t, c.Put(ctx, "anime-3", want))

	got, ok := c.Get(ctx, "anime-3")
	require.True(t, ok)
	assert.Equal(t, want.Page, got.Page)
	assert.Equal(t, want.TotalPages, got.TotalPages)
	require.Len(t, got.Content, 1)
	assert.JSONEq(t, string(want.Content[0]), string(got.Content[0]))

	assert.True(t, mr.Exists("category:anime-3"))
	assert.Equal(t, 5*time.Minute, mr.TTL("category:anime-3"))
}

func TestRedis_ExpiresAfterWindow(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "tv-1", listing(1)))

	mr.FastForward(4 * time.Minute)
	_, ok := c.Get(ctx, "tv-1")
	assert.True(t, ok)

	mr.FastForward(time.Minute)
	_, ok = c.Get(ctx, "tv-1")
	assert.False(t, ok)
}

func TestRedis_GetNotFound(t *testing.T) {
	c, _ := setupTestRedis(t)

	got, ok := c.Get(context.Background(), "no_such_key")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestRedis_CorruptedEntryIsMiss(t *testing.T) {
	c, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("category:bad-1", "not-json"))

	_, ok := c.Get(context.Background(), "bad-1")
	assert.False(t, ok)
}

func TestRedis_BackendDownIsMiss(t *testing.T) {
	c, mr := setupTestRedis(t)
	mr.Close()

	_, ok := c.Get(context.Background(), "movies-1")
	assert.False(t, ok)
	assert.Error(t, c.Put(context.Background(), "movies-1", listing(1)))
}

func TestInitRedisInvalidAddr(t *testing.T) {
	cfg := config.RedisConnection{
		AddressRedis: "127.0.0.1:1",
		DialTimeout:  100 * time.Millisecond,
	}

	c, err := InitRedis(context.Background(), cfg, time.Minute, newNoopLogger())
	assert.Nil(t, c)
	assert.Error(t, err)
}
