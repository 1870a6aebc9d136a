package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amplify-platform/ampauth/internal/core/domain"
)

func newRedisCache(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client), mr
}

func TestRedisGetMiss(t *testing.T) {
	c, _ := newRedisCache(t)

	e, err := c.Get(context.Background(), "deadbeef")
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestRedisPutAuthoritativeRoundTrip(t *testing.T) {
	c, _ := newRedisCache(t)
	ctx := context.Background()

	exp := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	in := &Entry{
		Status:    StatusActive,
		TokenID:   "amptk-01jj0000000000000000000000",
		Name:      "ci-deploy",
		Scopes:    []string{"read", "write"},
		ExpiresAt: &exp,
	}
	require.NoError(t, c.PutAuthoritative(ctx, "d1", in, time.Minute))

	got, err := c.Get(ctx, "d1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, in.Status, got.Status)
	assert.Equal(t, in.TokenID, got.TokenID)
	assert.Equal(t, in.Scopes, got.Scopes)
	require.NotNil(t, got.ExpiresAt)
	assert.True(t, got.ExpiresAt.Equal(exp))
}

func TestRedisPutIfAbsentNeverOverwrites(t *testing.T) {
	c, _ := newRedisCache(t)
	ctx := context.Background()

	// Authoritative denial written by the executor.
	require.NoError(t, c.PutAuthoritative(ctx, "d2", Negative(StatusRevoked), time.Minute))

	// A racing miss-fill with a stale positive verdict must lose.
	stale := &Entry{Status: StatusActive, TokenID: "amptk-01jj0000000000000000000000"}
	require.NoError(t, c.PutIfAbsent(ctx, "d2", stale, time.Minute))

	got, err := c.Get(ctx, "d2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, StatusRevoked, got.Status)
}

func TestRedisAuthoritativeOverwrites(t *testing.T) {
	c, _ := newRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.PutIfAbsent(ctx, "d3", &Entry{Status: StatusActive}, time.Minute))
	require.NoError(t, c.PutAuthoritative(ctx, "d3", Negative(StatusRevoked), time.Minute))

	got, err := c.Get(ctx, "d3")
	require.NoError(t, err)
	assert.Equal(t, StatusRevoked, got.Status)
}

func TestRedisInvalidate(t *testing.T) {
	c, _ := newRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.PutAuthoritative(ctx, "d4", Negative(StatusExpired), time.Minute))
	require.NoError(t, c.Invalidate(ctx, "d4"))

	got, err := c.Get(ctx, "d4")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Invalidating a missing key is not an error.
	require.NoError(t, c.Invalidate(ctx, "d4"))
}

func TestRedisEntryTTLExpiry(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.PutAuthoritative(ctx, "d5", Negative(StatusRevoked), time.Minute))

	mr.FastForward(2 * time.Minute)

	got, err := c.Get(ctx, "d5")
	require.NoError(t, err)
	assert.Nil(t, got, "entry should expire with its TTL")
}

func TestRedisCorruptEntryTreatedAsMiss(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(key("d6"), "{not json"))

	got, err := c.Get(ctx, "d6")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists(key("d6")), "corrupt entry should be dropped")
}

func TestRedisUnavailable(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()
	mr.Close()

	_, err := c.Get(ctx, "d7")
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)

	err = c.PutAuthoritative(ctx, "d7", Negative(StatusRevoked), time.Minute)
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)

	assert.ErrorIs(t, c.Ping(ctx), domain.ErrCacheUnavailable)
}

func TestRedisPing(t *testing.T) {
	c, _ := newRedisCache(t)
	assert.NoError(t, c.Ping(context.Background()))
}
