package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/amplify-platform/ampauth/internal/core/command"
	"github.com/amplify-platform/ampauth/internal/core/domain"
	"github.com/amplify-platform/ampauth/internal/storage"
)

// ManagementService is the write path facade. Mutations are validated
// here, then submitted to the command queue; the executor applies them
// one at a time. List and Info read the store directly.
type ManagementService struct {
	queue *command.Queue
	store storage.TokenStore
	log   *slog.Logger
}

// NewManagementService builds the management facade.
func NewManagementService(queue *command.Queue, store storage.TokenStore, log *slog.Logger) *ManagementService {
	if log == nil {
		log = slog.Default()
	}
	return &ManagementService{queue: queue, store: store, log: log}
}

// CreateTokenRequest contains parameters for token creation.
type CreateTokenRequest struct {
	Name   string
	Scopes []string

	// TTLDays nil means the token never expires.
	TTLDays *int
}

// CreateTokenResponse carries the created record and the plaintext
// credential. The plaintext exists only in this response; it is never
// persisted and cannot be retrieved again.
type CreateTokenResponse struct {
	Record    *domain.TokenRecord
	Plaintext string
}

// Create validates the request and runs a create command through the
// queue.
func (s *ManagementService) Create(ctx context.Context, req *CreateTokenRequest) (*CreateTokenResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidArgument.WithDetails("name is required")
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrInvalidArgument.WithDetails("name too long")
	}
	scopes, err := domain.NormalizeScopes(req.Scopes)
	if err != nil {
		return nil, err
	}
	// ttl_days 0 is allowed and yields a token that is expired the
	// instant it exists.
	if req.TTLDays != nil && *req.TTLDays < 0 {
		return nil, domain.ErrInvalidArgument.WithDetails("ttl_days must not be negative")
	}

	res, err := s.queue.Submit(ctx, command.NewCreate(name, scopes, req.TTLDays))
	if err != nil {
		return nil, err
	}
	return &CreateTokenResponse{Record: res.Record, Plaintext: res.Plaintext}, nil
}

// Revoke runs a revoke command through the queue and returns the
// updated record. Revoking an already revoked token returns
// domain.ErrAlreadyRevoked and changes nothing.
func (s *ManagementService) Revoke(ctx context.Context, tokenID string) (*domain.TokenRecord, error) {
	if !domain.ValidTokenID(tokenID) {
		return nil, domain.ErrInvalidArgument.WithDetails("malformed token id")
	}
	res, err := s.queue.Submit(ctx, command.NewRevoke(tokenID))
	if err != nil {
		return nil, err
	}
	return res.Record, nil
}

// Extend runs an extend command through the queue and returns the
// updated record. The new expiry is ttlDays past the later of now and
// the current expiry.
func (s *ManagementService) Extend(ctx context.Context, tokenID string, ttlDays int) (*domain.TokenRecord, error) {
	if !domain.ValidTokenID(tokenID) {
		return nil, domain.ErrInvalidArgument.WithDetails("malformed token id")
	}
	if ttlDays <= 0 {
		return nil, domain.ErrInvalidArgument.WithDetails("ttl_days must be positive")
	}
	res, err := s.queue.Submit(ctx, command.NewExtend(tokenID, ttlDays))
	if err != nil {
		return nil, err
	}
	return res.Record, nil
}

// List returns token records, newest first.
func (s *ManagementService) List(ctx context.Context, includeRevoked bool) ([]*domain.TokenRecord, error) {
	return s.store.List(ctx, includeRevoked)
}

// Info returns one token record by id.
func (s *ManagementService) Info(ctx context.Context, tokenID string) (*domain.TokenRecord, error) {
	if !domain.ValidTokenID(tokenID) {
		return nil, domain.ErrInvalidArgument.WithDetails("malformed token id")
	}
	return s.store.FindByID(ctx, tokenID)
}
