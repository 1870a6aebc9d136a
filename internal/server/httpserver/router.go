package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/amplify-platform/ampauth/internal/core/service"
	"github.com/amplify-platform/ampauth/internal/server/httpserver/handler"
	"github.com/amplify-platform/ampauth/internal/telemetry/metric"
)

// RouterConfig holds the collaborators and policy for the router.
type RouterConfig struct {
	Validation *service.ValidationService
	Management *service.ManagementService
	Health     *service.HealthService

	Logger  *slog.Logger
	Metrics *metric.Registry

	// AdminToken protects management endpoints. Empty disables the
	// check.
	AdminToken string

	// RateLimit / RateBurst bound per-client request rates on the
	// validation endpoint. Zero disables limiting.
	RateLimit float64
	RateBurst int
}

// NewRouter wires all routes and middleware.
//
// Validation is the public hot path: no management auth, optional rate
// limiting. Management endpoints sit behind the static bearer token.
// Health and metrics are unauthenticated for probes and scrapers.
func NewRouter(cfg *RouterConfig) http.Handler {
	h := handler.New(cfg.Validation, cfg.Management, cfg.Health, cfg.Logger)

	base := []Middleware{
		RequestID(),
		Recover(cfg.Logger),
		RequestLog(cfg.Logger, cfg.Metrics),
	}

	validate := base
	if cfg.RateLimit > 0 {
		validate = append(append([]Middleware{}, base...), RateLimit(cfg.RateLimit, cfg.RateBurst))
	}

	admin := append(append([]Middleware{}, base...), AdminAuth(cfg.AdminToken))

	mux := http.NewServeMux()

	mux.Handle("POST /auth/validate", Chain(http.HandlerFunc(h.HandleValidate), validate...))

	mux.Handle("POST /auth/tokens", Chain(http.HandlerFunc(h.HandleCreateToken), admin...))
	mux.Handle("GET /auth/tokens", Chain(http.HandlerFunc(h.HandleListTokens), admin...))
	mux.Handle("GET /auth/tokens/{token_id}", Chain(http.HandlerFunc(h.HandleTokenInfo), admin...))
	mux.Handle("POST /auth/tokens/{token_id}/revoke", Chain(http.HandlerFunc(h.HandleRevokeToken), admin...))
	mux.Handle("POST /auth/tokens/{token_id}/extend", Chain(http.HandlerFunc(h.HandleExtendToken), admin...))

	mux.Handle("GET /health", Chain(http.HandlerFunc(h.HandleHealth), RequestID(), Recover(cfg.Logger)))

	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}

	return mux
}
