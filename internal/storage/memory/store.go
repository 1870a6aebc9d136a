// Package memory provides an in-process token store used by tests and
// by single-node development runs where PostgreSQL is not available.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/amplify-platform/ampauth/internal/core/domain"
	"github.com/amplify-platform/ampauth/internal/storage"
)

// Store keeps token records in two indexes guarded by one lock.
// Records are cloned on every boundary crossing so callers can never
// alias internal state.
type Store struct {
	mu     sync.RWMutex
	byID   map[string]*domain.TokenRecord
	byHash map[string]*domain.TokenRecord
}

var _ storage.TokenStore = (*Store)(nil)

func New() *Store {
	return &Store{
		byID:   make(map[string]*domain.TokenRecord),
		byHash: make(map[string]*domain.TokenRecord),
	}
}

func (s *Store) Insert(_ context.Context, rec *domain.TokenRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[rec.ID]; ok {
		return domain.ErrInvalidArgument.WithDetails("duplicate token id " + rec.ID)
	}
	if _, ok := s.byHash[rec.SecretHash]; ok {
		return domain.ErrInvalidArgument.WithDetails("duplicate credential digest")
	}
	cp := rec.Clone()
	s.byID[cp.ID] = cp
	s.byHash[cp.SecretHash] = cp
	return nil
}

func (s *Store) FindByHash(_ context.Context, digest string) (*domain.TokenRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byHash[digest]
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	return rec.Clone(), nil
}

func (s *Store) FindByID(_ context.Context, id string) (*domain.TokenRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	return rec.Clone(), nil
}

func (s *Store) Revoke(_ context.Context, id string, at time.Time) (*domain.TokenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	if rec.RevokedAt != nil {
		return nil, domain.ErrAlreadyRevoked
	}
	ts := at
	rec.RevokedAt = &ts
	return rec.Clone(), nil
}

func (s *Store) Extend(_ context.Context, id string, ttlDays int, now time.Time) (*domain.TokenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	if rec.RevokedAt != nil {
		return nil, domain.ErrAlreadyRevoked
	}
	base := now
	if rec.ExpiresAt != nil && rec.ExpiresAt.After(base) {
		base = *rec.ExpiresAt
	}
	exp := base.AddDate(0, 0, ttlDays)
	rec.ExpiresAt = &exp
	return rec.Clone(), nil
}

func (s *Store) List(_ context.Context, includeRevoked bool) ([]*domain.TokenRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.TokenRecord, 0, len(s.byID))
	for _, rec := range s.byID {
		if !includeRevoked && rec.RevokedAt != nil {
			continue
		}
		out = append(out, rec.Clone())
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *Store) ListActive(_ context.Context, now time.Time) ([]*domain.TokenRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.TokenRecord, 0, len(s.byID))
	for _, rec := range s.byID {
		if rec.StatusAt(now) != domain.StatusActive {
			continue
		}
		out = append(out, rec.Clone())
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *Store) Ping(_ context.Context) error {
	return nil
}

// Len reports the number of stored records, revoked ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func sortNewestFirst(recs []*domain.TokenRecord) {
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].CreatedAt.After(recs[j].CreatedAt)
		}
		return recs[i].ID > recs[j].ID
	})
}
