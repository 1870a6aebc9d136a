package handler

import (
	"net/http"
	"time"
)

// healthResponse is the body for GET /health.
type healthResponse struct {
	Status     string         `json:"status"`
	Components map[string]any `json:"components"`
	Time       string         `json:"time"`
}

// HandleHealth handles GET /health. A degraded component turns the
// overall status and the HTTP code; load balancers can act on either.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	check := h.health.Check(r.Context())

	status := "healthy"
	code := http.StatusOK
	if !check.Healthy() {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	h.writeJSON(w, code, &healthResponse{
		Status: status,
		Components: map[string]any{
			"database":          check.Store,
			"cache":             check.Cache,
			"command_processor": check.Executor,
		},
		Time: time.Now().UTC().Format(time.RFC3339),
	})
}
