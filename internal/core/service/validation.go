package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/amplify-platform/ampauth/internal/cache"
	"github.com/amplify-platform/ampauth/internal/core/domain"
	"github.com/amplify-platform/ampauth/internal/storage"
	"github.com/amplify-platform/ampauth/internal/telemetry/metric"
	"github.com/amplify-platform/ampauth/pkg/token"
)

// ValidationService is the concurrent read path. Many goroutines call
// Validate at once; it never mutates the store and only writes to the
// cache through the absent-only fill.
type ValidationService struct {
	store    storage.TokenStore
	cache    cache.Cache
	log      *slog.Logger
	metrics  *metric.Registry
	cacheTTL time.Duration
	now      func() time.Time
}

// ValidationConfig carries the validation service's collaborators.
type ValidationConfig struct {
	Store   storage.TokenStore
	Cache   cache.Cache
	Logger  *slog.Logger
	Metrics *metric.Registry

	// CacheTTL bounds read-through cache fills. Defaults to
	// cache.DefaultTTL.
	CacheTTL time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// NewValidationService builds the read path.
func NewValidationService(cfg ValidationConfig) *ValidationService {
	s := &ValidationService{
		store:    cfg.Store,
		cache:    cfg.Cache,
		log:      cfg.Logger,
		metrics:  cfg.Metrics,
		cacheTTL: cfg.CacheTTL,
		now:      cfg.Now,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.cacheTTL <= 0 {
		s.cacheTTL = cache.DefaultTTL
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

// Validate decides whether a raw credential is valid and holds all
// required scopes. It never returns an error for a bad credential; the
// verdict carries the denial reason. Infrastructure failures degrade
// per policy: cache down means direct store reads, store down on a
// cache miss means deny.
func (s *ValidationService) Validate(ctx context.Context, credential string, requiredScopes []string) *domain.Verdict {
	// 1. Shape filter. Malformed input is rejected before any hashing
	// or backend touch.
	if !token.ValidFormat(credential) {
		return s.verdict(domain.Deny(domain.ReasonMalformed))
	}

	// 2. Digest once; the raw credential goes no further.
	digest := token.Hash(credential)
	now := s.now()

	// 3. Cache lookup.
	entry, err := s.cache.Get(ctx, digest)
	switch {
	case err != nil:
		// Cache down: serve from the store, skip the fill.
		s.log.Warn("validation cache unavailable, reading store directly", "error", err)
		s.countCache("error")
		return s.verdict(s.validateFromStore(ctx, digest, requiredScopes, now, false))
	case entry != nil:
		s.countCache("hit")
		return s.verdict(s.validateFromEntry(entry, requiredScopes, now))
	}

	// 4. Cache miss: fall back to the store and fill read-through.
	s.countCache("miss")
	return s.verdict(s.validateFromStore(ctx, digest, requiredScopes, now, true))
}

// validateFromEntry decides from a cache entry alone.
func (s *ValidationService) validateFromEntry(entry *cache.Entry, requiredScopes []string, now time.Time) *domain.Verdict {
	switch entry.Status {
	case cache.StatusRevoked:
		return domain.Deny(domain.ReasonRevoked)
	case cache.StatusExpired:
		return domain.Deny(domain.ReasonExpired)
	case cache.StatusActive:
	default:
		return domain.Deny(domain.ReasonInvalid)
	}

	// A positive entry carries the expiry it was filled with; an expiry
	// that passed while the entry was resident still denies.
	if entry.ExpiresAt != nil && !entry.ExpiresAt.After(now) {
		return domain.Deny(domain.ReasonExpired)
	}

	rec := &domain.TokenRecord{
		ID:     entry.TokenID,
		Name:   entry.Name,
		Scopes: entry.Scopes,
	}
	if !rec.HasScopes(requiredScopes) {
		return domain.Deny(domain.ReasonInsufficientScope)
	}
	return domain.Allow(rec)
}

// validateFromStore decides from the durable store. When fill is set,
// the outcome is written back with an absent-only put so a concurrent
// authoritative write is never clobbered.
func (s *ValidationService) validateFromStore(ctx context.Context, digest string, requiredScopes []string, now time.Time, fill bool) *domain.Verdict {
	rec, err := s.store.FindByHash(ctx, digest)
	switch {
	case errors.Is(err, domain.ErrTokenNotFound), errors.Is(err, domain.ErrCorruptRecord):
		if errors.Is(err, domain.ErrCorruptRecord) {
			s.log.Error("corrupt token record during validation", "error", err)
		}
		if fill {
			s.fillCache(ctx, digest, cache.Negative(cache.StatusInvalid))
		}
		return domain.Deny(domain.ReasonInvalid)
	case err != nil:
		// Store down: deny rather than guess. Nothing is cached, so the
		// token validates normally once the store returns.
		s.log.Error("token store unavailable during validation, denying", "error", err)
		return domain.Deny(domain.ReasonUnavailable)
	}

	if fill {
		s.fillCache(ctx, digest, cache.FromRecord(rec, now))
	}

	switch rec.StatusAt(now) {
	case domain.StatusRevoked:
		return domain.Deny(domain.ReasonRevoked)
	case domain.StatusExpired:
		return domain.Deny(domain.ReasonExpired)
	}
	if !rec.HasScopes(requiredScopes) {
		return domain.Deny(domain.ReasonInsufficientScope)
	}
	return domain.Allow(rec)
}

func (s *ValidationService) fillCache(ctx context.Context, digest string, entry *cache.Entry) {
	if err := s.cache.PutIfAbsent(ctx, digest, entry, s.cacheTTL); err != nil {
		s.log.Warn("cache fill failed", "error", err)
	}
}

// WarmCache loads every active token into the cache so the first
// validation after startup does not stampede the store. Errors on
// individual entries are logged and skipped.
func (s *ValidationService) WarmCache(ctx context.Context) (int, error) {
	now := s.now()
	recs, err := s.store.ListActive(ctx, now)
	if err != nil {
		return 0, err
	}

	warmed := 0
	for _, rec := range recs {
		entry := cache.FromRecord(rec, now)
		if err := s.cache.PutAuthoritative(ctx, rec.SecretHash, entry, s.cacheTTL); err != nil {
			s.log.Warn("cache warm failed for token", "token_id", rec.ID, "error", err)
			continue
		}
		warmed++
	}
	s.log.Info("validation cache warmed", "tokens", warmed)
	return warmed, nil
}

func (s *ValidationService) verdict(v *domain.Verdict) *domain.Verdict {
	if s.metrics != nil {
		outcome := "valid"
		if !v.Valid {
			outcome = string(v.Reason)
		}
		s.metrics.ValidationsTotal.WithLabelValues(outcome).Inc()
	}
	return v
}

func (s *ValidationService) countCache(result string) {
	if s.metrics != nil {
		s.metrics.CacheLookupsTotal.WithLabelValues(result).Inc()
	}
}
