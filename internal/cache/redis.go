package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/amplify-platform/ampauth/internal/core/domain"
)

// keyPrefix namespaces validation entries in a shared Redis instance.
const keyPrefix = "ampauth:token:"

// Redis is a Cache backed by a Redis instance.
type Redis struct {
	client redis.UniversalClient
}

// NewRedis creates a Redis cache over the given client.
func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

func key(digest string) string {
	return keyPrefix + digest
}

// Get retrieves the entry for a digest. Returns (nil, nil) on a miss.
func (c *Redis) Get(ctx context.Context, digest string) (*Entry, error) {
	raw, err := c.client.Get(ctx, key(digest)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.ErrCacheUnavailable.WithCause(err)
	}

	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		// An undecodable entry is dropped and treated as a miss; the read
		// path repopulates from the store.
		_ = c.client.Del(ctx, key(digest)).Err()
		return nil, nil
	}
	return &e, nil
}

// PutAuthoritative stores an entry unconditionally.
func (c *Redis) PutAuthoritative(ctx context.Context, digest string, e *Entry, ttl time.Duration) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return domain.ErrInternal.WithCause(err)
	}
	if err := c.client.Set(ctx, key(digest), raw, ttl).Err(); err != nil {
		return domain.ErrCacheUnavailable.WithCause(err)
	}
	return nil
}

// PutIfAbsent stores an entry only if none exists, so a concurrent
// authoritative write is never clobbered by a miss-fill.
func (c *Redis) PutIfAbsent(ctx context.Context, digest string, e *Entry, ttl time.Duration) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return domain.ErrInternal.WithCause(err)
	}
	if err := c.client.SetNX(ctx, key(digest), raw, ttl).Err(); err != nil {
		return domain.ErrCacheUnavailable.WithCause(err)
	}
	return nil
}

// Invalidate removes the entry for a digest.
func (c *Redis) Invalidate(ctx context.Context, digest string) error {
	if err := c.client.Del(ctx, key(digest)).Err(); err != nil {
		return domain.ErrCacheUnavailable.WithCause(err)
	}
	return nil
}

// Ping reports backend reachability.
func (c *Redis) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return domain.ErrCacheUnavailable.WithCause(err)
	}
	return nil
}
