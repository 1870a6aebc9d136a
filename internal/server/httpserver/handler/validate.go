package handler

import (
	"net/http"

	"github.com/amplify-platform/ampauth/internal/core/domain"
)

// HandleValidate handles POST /auth/validate.
//
// Validation always answers 200 with a verdict; a denied credential is
// a normal outcome, not an HTTP error. Only an unreadable request body
// is rejected outright.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidArgument.Code, "invalid request body")
		return
	}

	verdict := h.validation.Validate(r.Context(), req.Credential, req.RequiredScopes)
	h.writeJSON(w, http.StatusOK, verdict)
}
