// Package handler implements the HTTP API endpoints: credential
// validation, token management and health.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/amplify-platform/ampauth/internal/core/domain"
	"github.com/amplify-platform/ampauth/internal/core/service"
)

// Handler holds the services behind the HTTP API.
type Handler struct {
	validation *service.ValidationService
	management *service.ManagementService
	health     *service.HealthService
	logger     *slog.Logger
}

// New creates a Handler with the given services.
func New(validation *service.ValidationService, management *service.ManagementService, health *service.HealthService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		validation: validation,
		management: management,
		health:     health,
		logger:     logger,
	}
}

// writeJSON writes a JSON response with the standard envelope.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	response := NewResponse(requestID(w), data)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response with the standard envelope.
func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	response := NewErrorResponse(requestID(w), code, message)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}

// writeDomainError maps a service error to its HTTP status.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var de *domain.DomainError
	if !errors.As(err, &de) {
		h.logger.Error("unclassified handler error", "error", err)
		h.writeError(w, http.StatusInternalServerError, domain.ErrInternal.Code, "internal error")
		return
	}
	h.writeError(w, statusFor(de), de.Code, de.Message)
}

// statusFor maps domain error codes to HTTP statuses.
func statusFor(de *domain.DomainError) int {
	switch {
	case errors.Is(de, domain.ErrTokenNotFound):
		return http.StatusNotFound
	case errors.Is(de, domain.ErrAlreadyRevoked):
		return http.StatusConflict
	case errors.Is(de, domain.ErrInvalidArgument), errors.Is(de, domain.ErrMalformedCredential):
		return http.StatusBadRequest
	case errors.Is(de, domain.ErrCommandTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(de, domain.ErrStoreUnavailable),
		errors.Is(de, domain.ErrCacheUnavailable),
		errors.Is(de, domain.ErrQueueClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON request body, rejecting unknown fields.
func decode(r *http.Request, target any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(target)
}

// requestID reads the request id the middleware stamped on the
// response headers.
func requestID(w http.ResponseWriter) string {
	return w.Header().Get("X-Request-ID")
}
