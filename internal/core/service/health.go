package service

import (
	"context"
	"time"

	"github.com/amplify-platform/ampauth/internal/cache"
	"github.com/amplify-platform/ampauth/internal/core/command"
	"github.com/amplify-platform/ampauth/internal/storage"
)

// healthProbeTimeout bounds each component probe so a hung backend
// cannot stall the health endpoint.
const healthProbeTimeout = 2 * time.Second

// HealthStatus reports per-component reachability.
type HealthStatus struct {
	Store    bool `json:"database"`
	Cache    bool `json:"cache"`
	Executor bool `json:"command_processor"`
}

// Healthy reports whether every component is up.
func (h HealthStatus) Healthy() bool {
	return h.Store && h.Cache && h.Executor
}

// HealthService probes the store, the cache and the executor loop.
type HealthService struct {
	store storage.TokenStore
	cache cache.Cache
	exec  *command.Executor
}

// NewHealthService builds the health prober.
func NewHealthService(store storage.TokenStore, c cache.Cache, exec *command.Executor) *HealthService {
	return &HealthService{store: store, cache: c, exec: exec}
}

// Check probes every component and reports their state.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()

	return HealthStatus{
		Store:    s.store.Ping(ctx) == nil,
		Cache:    s.cache.Ping(ctx) == nil,
		Executor: s.exec.Running(),
	}
}
