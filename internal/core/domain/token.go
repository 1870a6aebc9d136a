package domain

import (
	"crypto/rand"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Token ID constants.
const (
	// TokenIDPrefix is the prefix for token ids (public identifier, uses hyphen).
	TokenIDPrefix = "amptk-"

	// TokenIDLength is the total id length: amptk- (6) + ULID (26).
	TokenIDLength = 32
)

// NewTokenID generates a new token id: amptk-{ulid_lowercase}.
func NewTokenID() (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return "", ErrInternal.WithCause(err)
	}
	return TokenIDPrefix + strings.ToLower(id.String()), nil
}

// ValidTokenID checks if a string is a well-formed token id.
func ValidTokenID(id string) bool {
	if len(id) != TokenIDLength {
		return false
	}
	if !strings.HasPrefix(id, TokenIDPrefix) {
		return false
	}
	_, err := ulid.Parse(strings.ToUpper(id[len(TokenIDPrefix):]))
	return err == nil
}

// Status is the derived lifecycle status of a token.
type Status string

const (
	// StatusActive means the token is neither revoked nor expired.
	StatusActive Status = "active"

	// StatusRevoked means revoked_at is set. Terminal.
	StatusRevoked Status = "revoked"

	// StatusExpired means the token is not revoked but its expiry passed.
	StatusExpired Status = "expired"
)

// TokenRecord is the durable state of one issued credential.
//
// The raw credential is never part of the record; only its digest is.
// SecretHash and Scopes are immutable after creation. RevokedAt, once
// set, never changes or clears. Extension only adjusts ExpiresAt.
type TokenRecord struct {
	// ID is the stable opaque identifier (amptk-...).
	ID string `json:"token_id"`

	// Name is a display label; not unique.
	Name string `json:"name"`

	// SecretHash is the hex SHA-256 digest of the raw credential.
	SecretHash string `json:"-"`

	// Scopes is the unordered set of opaque scope labels.
	Scopes []string `json:"scopes"`

	// CreatedAt is the creation timestamp.
	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is the expiry timestamp; nil means no expiry.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	// RevokedAt is the revocation timestamp; nil until revoked.
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// StatusAt derives the token status at the given instant.
// Revocation is terminal and takes precedence over expiry.
func (r *TokenRecord) StatusAt(now time.Time) Status {
	if r.RevokedAt != nil {
		return StatusRevoked
	}
	if r.ExpiresAt != nil && !r.ExpiresAt.After(now) {
		return StatusExpired
	}
	return StatusActive
}

// HasScopes reports whether the record's scope set is a superset of
// required. Scope comparison is pure set membership; no hierarchy.
func (r *TokenRecord) HasScopes(required []string) bool {
	if len(required) == 0 {
		return true
	}
	held := make(map[string]struct{}, len(r.Scopes))
	for _, s := range r.Scopes {
		held[s] = struct{}{}
	}
	for _, s := range required {
		if _, ok := held[s]; !ok {
			return false
		}
	}
	return true
}

// Clone creates a deep copy of the record.
func (r *TokenRecord) Clone() *TokenRecord {
	clone := *r
	if r.Scopes != nil {
		clone.Scopes = make([]string, len(r.Scopes))
		copy(clone.Scopes, r.Scopes)
	}
	if r.ExpiresAt != nil {
		t := *r.ExpiresAt
		clone.ExpiresAt = &t
	}
	if r.RevokedAt != nil {
		t := *r.RevokedAt
		clone.RevokedAt = &t
	}
	return &clone
}

// Scope constraints.
const (
	MaxScopes      = 64
	MaxScopeLength = 128
	MaxNameLength  = 256
)

// NormalizeScopes validates and canonicalizes a scope list: labels are
// trimmed, must be non-empty without whitespace or commas, and the result
// is deduplicated and sorted.
func NormalizeScopes(scopes []string) ([]string, error) {
	if len(scopes) > MaxScopes {
		return nil, ErrInvalidArgument.WithDetails("too many scopes")
	}

	seen := make(map[string]struct{}, len(scopes))
	out := make([]string, 0, len(scopes))
	for _, s := range scopes {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, ErrInvalidArgument.WithDetails("empty scope")
		}
		if len(s) > MaxScopeLength {
			return nil, ErrInvalidArgument.WithDetails("scope too long: " + s[:16] + "...")
		}
		if strings.ContainsAny(s, " \t\n,") {
			return nil, ErrInvalidArgument.WithDetails("scope contains whitespace or comma: " + s)
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out, nil
}
