// Package storage defines the token store contract.
//
// The token store owns the durable source of truth for issued tokens.
// It is mutated only by the command executor; it is read concurrently by
// the executor and by validation workers. All mutating operations are
// atomic; partial writes are never observable.
package storage

import (
	"context"
	"time"

	"github.com/amplify-platform/ampauth/internal/core/domain"
)

// TokenStore is the durable store for token records.
type TokenStore interface {
	// Insert persists a fully built record (token row plus its scope set)
	// in one transaction.
	Insert(ctx context.Context, rec *domain.TokenRecord) error

	// FindByHash retrieves a record by credential digest.
	// Returns domain.ErrTokenNotFound if no record matches.
	FindByHash(ctx context.Context, digest string) (*domain.TokenRecord, error)

	// FindByID retrieves a record by token id.
	// Returns domain.ErrTokenNotFound if no record matches.
	FindByID(ctx context.Context, id string) (*domain.TokenRecord, error)

	// Revoke marks a token revoked at the given instant and returns the
	// updated record. Returns domain.ErrTokenNotFound for unknown ids and
	// domain.ErrAlreadyRevoked if revoked_at is already set (the store
	// state is left unchanged; revocation is terminal).
	Revoke(ctx context.Context, id string, at time.Time) (*domain.TokenRecord, error)

	// Extend moves a token's expiry to max(now, current expiry) + ttlDays
	// and returns the updated record. Returns domain.ErrTokenNotFound for
	// unknown ids and domain.ErrAlreadyRevoked for revoked tokens.
	Extend(ctx context.Context, id string, ttlDays int, now time.Time) (*domain.TokenRecord, error)

	// List returns record summaries, newest first. Revoked tokens are
	// included only when includeRevoked is set.
	List(ctx context.Context, includeRevoked bool) ([]*domain.TokenRecord, error)

	// ListActive returns all records that are active at the given instant.
	// Used to warm the validation cache at startup.
	ListActive(ctx context.Context, now time.Time) ([]*domain.TokenRecord, error)

	// Ping reports store reachability.
	Ping(ctx context.Context) error
}
