package cache

import (
	"context"
	"time"

	"github.com/amplify-platform/ampauth/pkg/cmap"
)

// memItem wraps an entry with its own eviction deadline.
type memItem struct {
	entry    *Entry
	deadline time.Time
}

func (it memItem) expired(now time.Time) bool {
	return !it.deadline.After(now)
}

// Memory is an in-process Cache over a sharded concurrent map. It serves
// tests and single-process deployments where Redis is not configured.
//
// Expired items are dropped lazily on access; Purge sweeps the rest.
type Memory struct {
	items *cmap.Map[memItem]
	now   func() time.Time
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{
		items: cmap.New[memItem](),
		now:   time.Now,
	}
}

// Get retrieves the entry for a digest. Returns (nil, nil) on a miss.
func (c *Memory) Get(_ context.Context, digest string) (*Entry, error) {
	it, ok := c.items.Get(digest)
	if !ok {
		return nil, nil
	}
	if it.expired(c.now()) {
		c.items.Delete(digest)
		return nil, nil
	}
	return it.entry, nil
}

// PutAuthoritative stores an entry unconditionally.
func (c *Memory) PutAuthoritative(_ context.Context, digest string, e *Entry, ttl time.Duration) error {
	c.items.Set(digest, memItem{entry: e, deadline: c.now().Add(ttl)})
	return nil
}

// PutIfAbsent stores an entry only if no live entry exists for the digest.
func (c *Memory) PutIfAbsent(_ context.Context, digest string, e *Entry, ttl time.Duration) error {
	now := c.now()
	it := memItem{entry: e, deadline: now.Add(ttl)}
	if c.items.SetIfAbsent(digest, it) {
		return nil
	}
	// The key exists; replace it only if the resident item already expired.
	c.items.Replace(digest, it, func(current memItem) bool {
		return current.expired(now)
	})
	return nil
}

// Invalidate removes the entry for a digest.
func (c *Memory) Invalidate(_ context.Context, digest string) error {
	c.items.Delete(digest)
	return nil
}

// Ping always succeeds for the in-process cache.
func (c *Memory) Ping(context.Context) error {
	return nil
}

// Purge removes all expired items and returns how many were dropped.
func (c *Memory) Purge() int {
	now := c.now()
	var stale []string
	c.items.Range(func(key string, it memItem) bool {
		if it.expired(now) {
			stale = append(stale, key)
		}
		return true
	})
	for _, key := range stale {
		c.items.Delete(key)
	}
	return len(stale)
}

// Len returns the number of resident items, including not-yet-purged
// expired ones.
func (c *Memory) Len() int {
	return c.items.Count()
}
