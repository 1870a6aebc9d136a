package handler

import (
	"net/http"
	"time"

	"github.com/amplify-platform/ampauth/internal/core/domain"
	"github.com/amplify-platform/ampauth/internal/core/service"
)

// HandleCreateToken handles POST /auth/tokens.
func (h *Handler) HandleCreateToken(w http.ResponseWriter, r *http.Request) {
	var req CreateTokenRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidArgument.Code, "invalid request body")
		return
	}

	res, err := h.management.Create(r.Context(), &service.CreateTokenRequest{
		Name:    req.Name,
		Scopes:  req.Scopes,
		TTLDays: req.TTLDays,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, &CreateTokenResponse{
		Token:      NewTokenView(res.Record, time.Now().UTC()),
		Credential: res.Plaintext,
	})
}

// HandleListTokens handles GET /auth/tokens. Revoked tokens are
// included with ?include_revoked=true.
func (h *Handler) HandleListTokens(w http.ResponseWriter, r *http.Request) {
	includeRevoked := r.URL.Query().Get("include_revoked") == "true"

	recs, err := h.management.List(r.Context(), includeRevoked)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	now := time.Now().UTC()
	views := make([]*TokenView, 0, len(recs))
	for _, rec := range recs {
		views = append(views, NewTokenView(rec, now))
	}
	h.writeJSON(w, http.StatusOK, &ListTokensResponse{Tokens: views, Count: len(views)})
}

// HandleTokenInfo handles GET /auth/tokens/{token_id}.
func (h *Handler) HandleTokenInfo(w http.ResponseWriter, r *http.Request) {
	rec, err := h.management.Info(r.Context(), r.PathValue("token_id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, NewTokenView(rec, time.Now().UTC()))
}

// HandleRevokeToken handles POST /auth/tokens/{token_id}/revoke.
func (h *Handler) HandleRevokeToken(w http.ResponseWriter, r *http.Request) {
	rec, err := h.management.Revoke(r.Context(), r.PathValue("token_id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, NewTokenView(rec, time.Now().UTC()))
}

// HandleExtendToken handles POST /auth/tokens/{token_id}/extend.
func (h *Handler) HandleExtendToken(w http.ResponseWriter, r *http.Request) {
	var req ExtendTokenRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidArgument.Code, "invalid request body")
		return
	}

	rec, err := h.management.Extend(r.Context(), r.PathValue("token_id"), req.TTLDays)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, NewTokenView(rec, time.Now().UTC()))
}
