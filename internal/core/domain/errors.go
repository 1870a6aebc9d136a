package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
type DomainError struct {
	Code    string // Error code (e.g., "AMP-TOKN-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support: two DomainErrors match on Code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, Details: details, Cause: e.Cause}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, Details: e.Details, Cause: cause}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks whether the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Token Errors (TOKN)
// ============================================================================

var (
	// ErrTokenNotFound indicates the requested token id or hash is unknown.
	ErrTokenNotFound = NewDomainError("AMP-TOKN-4040", "token not found")

	// ErrAlreadyRevoked indicates a revoke on an already revoked token.
	// The second revoke is an idempotent no-op; store state is unchanged.
	ErrAlreadyRevoked = NewDomainError("AMP-TOKN-4090", "token already revoked")

	// ErrTokenExpired indicates the token's expiry has passed.
	ErrTokenExpired = NewDomainError("AMP-TOKN-4011", "token expired")

	// ErrTokenRevoked indicates the token has been revoked.
	ErrTokenRevoked = NewDomainError("AMP-TOKN-4012", "token revoked")

	// ErrInsufficientScope indicates the token lacks a required scope.
	ErrInsufficientScope = NewDomainError("AMP-TOKN-4030", "insufficient scope")

	// ErrMalformedCredential indicates the credential fails the shape filter.
	ErrMalformedCredential = NewDomainError("AMP-TOKN-4000", "malformed credential")
)

// ============================================================================
// Infrastructure Errors (STOR / CACH / CMDQ)
// ============================================================================

var (
	// ErrStoreUnavailable indicates the token store cannot be reached.
	ErrStoreUnavailable = NewDomainError("AMP-STOR-5030", "token store unavailable")

	// ErrCorruptRecord indicates a persisted record could not be read back
	// cleanly. Validation treats this as not-found (fail closed); the store
	// flags it for operator attention.
	ErrCorruptRecord = NewDomainError("AMP-STOR-5001", "corrupt token record")

	// ErrCacheUnavailable indicates the validation cache cannot be reached.
	ErrCacheUnavailable = NewDomainError("AMP-CACH-5030", "validation cache unavailable")

	// ErrCommandTimeout indicates a command was not resolved within the
	// submitter's deadline. The command may still be applied afterwards;
	// store-side effects remain exactly-once.
	ErrCommandTimeout = NewDomainError("AMP-CMDQ-5040", "command timed out")

	// ErrQueueClosed indicates the command queue no longer accepts
	// submissions (process shutdown).
	ErrQueueClosed = NewDomainError("AMP-CMDQ-5031", "command queue closed")
)

// ============================================================================
// System Errors (SYS / ARG)
// ============================================================================

var (
	// ErrInternal indicates an unexpected internal error.
	ErrInternal = NewDomainError("AMP-SYS-5000", "internal error")

	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("AMP-ARG-4001", "invalid argument")
)
