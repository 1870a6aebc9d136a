package cache

import (
	"context"
	"time"

	"github.com/amplify-platform/ampauth/internal/core/domain"
)

// DefaultTTL is the default entry time-to-live. It bounds the staleness
// window for expiry-driven invalidation and is independent of a token's
// own expiry.
const DefaultTTL = 30 * time.Minute

// Entry statuses. Active entries are positive verdicts; everything else
// is a cached denial.
const (
	StatusActive  = string(domain.StatusActive)
	StatusRevoked = string(domain.StatusRevoked)
	StatusExpired = string(domain.StatusExpired)
	StatusInvalid = "invalid"
)

// Entry is a cached validation verdict, keyed externally by the
// credential digest.
type Entry struct {
	// Status is one of active, revoked, expired, invalid.
	Status string `json:"status"`

	// TokenID, Name and Scopes are set on positive entries only.
	TokenID string   `json:"token_id,omitempty"`
	Name    string   `json:"name,omitempty"`
	Scopes  []string `json:"scopes,omitempty"`

	// ExpiresAt carries the token's own expiry on positive entries so the
	// read path re-checks it on every hit; nil means no expiry.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Positive reports whether the entry is a positive (active) verdict.
func (e *Entry) Positive() bool {
	return e.Status == StatusActive
}

// Negative builds a cached denial entry.
func Negative(status string) *Entry {
	return &Entry{Status: status}
}

// FromRecord derives the entry for a token record at the given instant.
func FromRecord(rec *domain.TokenRecord, now time.Time) *Entry {
	switch rec.StatusAt(now) {
	case domain.StatusRevoked:
		return Negative(StatusRevoked)
	case domain.StatusExpired:
		return Negative(StatusExpired)
	}

	scopes := make([]string, len(rec.Scopes))
	copy(scopes, rec.Scopes)
	e := &Entry{
		Status:  StatusActive,
		TokenID: rec.ID,
		Name:    rec.Name,
		Scopes:  scopes,
	}
	if rec.ExpiresAt != nil {
		t := *rec.ExpiresAt
		e.ExpiresAt = &t
	}
	return e
}

// Cache is the validation cache contract.
//
// Get returns (nil, nil) on a clean miss. Implementations return
// domain.ErrCacheUnavailable (with cause) when the backend is unreachable,
// so callers can distinguish a miss from a degraded cache.
type Cache interface {
	// Get retrieves the entry for a digest.
	Get(ctx context.Context, digest string) (*Entry, error)

	// PutAuthoritative stores an entry unconditionally. Executor only.
	PutAuthoritative(ctx context.Context, digest string, e *Entry, ttl time.Duration) error

	// PutIfAbsent stores an entry only if none exists for the digest.
	// Used by the read path's miss-fill.
	PutIfAbsent(ctx context.Context, digest string, e *Entry, ttl time.Duration) error

	// Invalidate removes the entry for a digest, if any.
	Invalidate(ctx context.Context, digest string) error

	// Ping reports backend reachability.
	Ping(ctx context.Context) error
}
