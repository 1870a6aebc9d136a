package domain

// Reason identifies why a validation was denied.
type Reason string

const (
	// ReasonMalformed means the credential failed the shape filter.
	ReasonMalformed Reason = "malformed_credential"

	// ReasonInvalid means no token matches the credential's digest.
	ReasonInvalid Reason = "token_not_found"

	// ReasonUnavailable means the store could not answer and validation
	// failed closed. Distinct from ReasonInvalid so callers can tell an
	// outage denial from a bad credential.
	ReasonUnavailable Reason = "store_unavailable"

	// ReasonRevoked means the token has been revoked.
	ReasonRevoked Reason = "token_revoked"

	// ReasonExpired means the token's expiry has passed.
	ReasonExpired Reason = "token_expired"

	// ReasonInsufficientScope means the token is active but lacks one or
	// more of the required scopes.
	ReasonInsufficientScope Reason = "insufficient_scopes"
)

// Verdict is the outcome of validating a credential.
//
// A positive verdict carries the token's identity and scope set; a
// negative verdict carries only the denial reason.
type Verdict struct {
	Valid   bool     `json:"valid"`
	Reason  Reason   `json:"error,omitempty"`
	TokenID string   `json:"token_id,omitempty"`
	Name    string   `json:"name,omitempty"`
	Scopes  []string `json:"scopes,omitempty"`
}

// Deny builds a negative verdict with the given reason.
func Deny(reason Reason) *Verdict {
	return &Verdict{Valid: false, Reason: reason}
}

// Allow builds a positive verdict for the given record.
func Allow(rec *TokenRecord) *Verdict {
	scopes := make([]string, len(rec.Scopes))
	copy(scopes, rec.Scopes)
	return &Verdict{
		Valid:   true,
		TokenID: rec.ID,
		Name:    rec.Name,
		Scopes:  scopes,
	}
}

// DenialError maps a denial reason to its domain error.
func (r Reason) DenialError() *DomainError {
	switch r {
	case ReasonMalformed:
		return ErrMalformedCredential
	case ReasonRevoked:
		return ErrTokenRevoked
	case ReasonExpired:
		return ErrTokenExpired
	case ReasonInsufficientScope:
		return ErrInsufficientScope
	case ReasonUnavailable:
		return ErrStoreUnavailable
	default:
		return ErrTokenNotFound
	}
}
