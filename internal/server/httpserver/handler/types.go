package handler

import (
	"time"

	"github.com/amplify-platform/ampauth/internal/core/domain"
)

// Response is the standard API response envelope. All JSON responses
// use this format; /metrics uses Prometheus exposition format.
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
	}
}

// ValidateRequest is the request body for POST /auth/validate.
type ValidateRequest struct {
	Credential     string   `json:"credential"`
	RequiredScopes []string `json:"required_scopes,omitempty"`
}

// CreateTokenRequest is the request body for POST /auth/tokens.
type CreateTokenRequest struct {
	Name    string   `json:"name"`
	Scopes  []string `json:"scopes"`
	TTLDays *int     `json:"ttl_days,omitempty"`
}

// CreateTokenResponse is the response body for POST /auth/tokens.
// Credential is the plaintext secret, returned exactly once.
type CreateTokenResponse struct {
	Token      *TokenView `json:"token"`
	Credential string     `json:"credential"`
}

// ExtendTokenRequest is the request body for POST /auth/tokens/{token_id}/extend.
type ExtendTokenRequest struct {
	TTLDays int `json:"ttl_days"`
}

// TokenView is a token record in API responses. The credential digest
// never appears here.
type TokenView struct {
	TokenID   string     `json:"token_id"`
	Name      string     `json:"name"`
	Status    string     `json:"status"`
	Scopes    []string   `json:"scopes"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// NewTokenView projects a record for API output.
func NewTokenView(rec *domain.TokenRecord, now time.Time) *TokenView {
	scopes := rec.Scopes
	if scopes == nil {
		scopes = []string{}
	}
	return &TokenView{
		TokenID:   rec.ID,
		Name:      rec.Name,
		Status:    string(rec.StatusAt(now)),
		Scopes:    scopes,
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
		RevokedAt: rec.RevokedAt,
	}
}

// ListTokensResponse is the response body for GET /auth/tokens.
type ListTokensResponse struct {
	Tokens []*TokenView `json:"tokens"`
	Count  int          `json:"count"`
}
