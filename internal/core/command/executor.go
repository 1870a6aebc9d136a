package command

import (
	"context"
	"log/slog"
	"time"

	"github.com/amplify-platform/ampauth/internal/cache"
	"github.com/amplify-platform/ampauth/internal/core/domain"
	"github.com/amplify-platform/ampauth/internal/storage"
	"github.com/amplify-platform/ampauth/internal/telemetry/metric"
	"github.com/amplify-platform/ampauth/pkg/token"
)

// ExecutorConfig carries the executor's collaborators.
type ExecutorConfig struct {
	Queue   *Queue
	Store   storage.TokenStore
	Cache   cache.Cache
	Logger  *slog.Logger
	Metrics *metric.Registry

	// CacheTTL bounds both positive and negative cache entries.
	// Defaults to cache.DefaultTTL.
	CacheTTL time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Executor is the single writer. It consumes the queue in submission
// order and applies one command at a time: the durable store first,
// then the validation cache, then the submitter's result. A command's
// effects are fully visible before the next command starts.
type Executor struct {
	queue    *Queue
	store    storage.TokenStore
	cache    cache.Cache
	log      *slog.Logger
	metrics  *metric.Registry
	cacheTTL time.Duration
	now      func() time.Time

	done chan struct{}
}

// NewExecutor builds an executor. Run must be called exactly once.
func NewExecutor(cfg ExecutorConfig) *Executor {
	e := &Executor{
		queue:    cfg.Queue,
		store:    cfg.Store,
		cache:    cfg.Cache,
		log:      cfg.Logger,
		metrics:  cfg.Metrics,
		cacheTTL: cfg.CacheTTL,
		now:      cfg.Now,
		done:     make(chan struct{}),
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	if e.cacheTTL <= 0 {
		e.cacheTTL = cache.DefaultTTL
	}
	if e.now == nil {
		e.now = func() time.Time { return time.Now().UTC() }
	}
	return e
}

// Run consumes the queue until it is closed and drained. It never
// stops on a failed command; failures resolve to the submitter and the
// loop moves on. Call from a dedicated goroutine.
func (e *Executor) Run() {
	defer close(e.done)
	for cmd := range e.queue.cmds {
		e.apply(cmd)
	}
	e.log.Info("command executor drained")
}

// Done is closed once the executor has drained the queue and exited.
func (e *Executor) Done() <-chan struct{} {
	return e.done
}

// Running reports whether the executor loop is still consuming.
func (e *Executor) Running() bool {
	select {
	case <-e.done:
		return false
	default:
		return true
	}
}

func (e *Executor) apply(cmd *Command) {
	start := time.Now()
	ctx := context.Background()

	var res Result
	switch cmd.Kind {
	case KindCreate:
		res = e.applyCreate(ctx, cmd.Create)
	case KindRevoke:
		res = e.applyRevoke(ctx, cmd.Revoke)
	case KindExtend:
		res = e.applyExtend(ctx, cmd.Extend)
	default:
		res = Result{Err: domain.ErrInternal.WithDetails("unknown command kind " + string(cmd.Kind))}
	}

	status := "ok"
	if res.Err != nil {
		status = "error"
		e.log.Warn("command failed",
			"command_id", cmd.ID,
			"kind", string(cmd.Kind),
			"error", res.Err)
	}
	if e.metrics != nil {
		e.metrics.CommandsTotal.WithLabelValues(string(cmd.Kind), status).Inc()
		e.metrics.CommandDuration.WithLabelValues(string(cmd.Kind)).Observe(time.Since(start).Seconds())
		e.metrics.QueueDepth.Set(float64(e.queue.Depth()))
	}

	cmd.resolve(res)
}

func (e *Executor) applyCreate(ctx context.Context, payload *CreateToken) Result {
	plaintext, digest, err := token.Generate()
	if err != nil {
		return Result{Err: domain.ErrInternal.WithCause(err)}
	}
	id, err := domain.NewTokenID()
	if err != nil {
		return Result{Err: err}
	}

	now := e.now()
	rec := &domain.TokenRecord{
		ID:         id,
		Name:       payload.Name,
		SecretHash: digest,
		Scopes:     payload.Scopes,
		CreatedAt:  now,
	}
	if payload.TTLDays != nil {
		exp := now.AddDate(0, 0, *payload.TTLDays)
		rec.ExpiresAt = &exp
	}

	if err := e.store.Insert(ctx, rec); err != nil {
		return Result{Err: err}
	}
	if e.metrics != nil {
		e.metrics.TokensCreated.Inc()
	}
	e.log.Info("token created",
		"token_id", rec.ID,
		"name", rec.Name,
		"scopes", rec.Scopes,
		"expires_at", rec.ExpiresAt)

	// No cache write: the first validation fills it read-through.
	return Result{Record: rec, Plaintext: plaintext}
}

func (e *Executor) applyRevoke(ctx context.Context, payload *RevokeToken) Result {
	now := e.now()
	rec, err := e.store.Revoke(ctx, payload.TokenID, now)
	if err != nil {
		return Result{Err: err}
	}
	if e.metrics != nil {
		e.metrics.TokensRevoked.Inc()
	}

	// The denial must land in the cache before the submitter learns the
	// revoke succeeded. If the cache write fails, fall back to dropping
	// the key; if that fails too the entry lapses with its TTL.
	entry := cache.Negative(cache.StatusRevoked)
	if err := e.cache.PutAuthoritative(ctx, rec.SecretHash, entry, e.cacheTTL); err != nil {
		e.log.Warn("revocation cache write failed, invalidating",
			"token_id", rec.ID,
			"error", err)
		if err := e.cache.Invalidate(ctx, rec.SecretHash); err != nil {
			e.log.Error("revocation cache invalidate failed",
				"token_id", rec.ID,
				"error", err)
		}
	}

	e.log.Info("token revoked", "token_id", rec.ID)
	return Result{Record: rec}
}

func (e *Executor) applyExtend(ctx context.Context, payload *ExtendToken) Result {
	now := e.now()
	rec, err := e.store.Extend(ctx, payload.TokenID, payload.TTLDays, now)
	if err != nil {
		return Result{Err: err}
	}

	// Drop the stale entry so the next validation reads the new expiry.
	if err := e.cache.Invalidate(ctx, rec.SecretHash); err != nil {
		e.log.Warn("extension cache invalidate failed",
			"token_id", rec.ID,
			"error", err)
	}

	e.log.Info("token extended",
		"token_id", rec.ID,
		"expires_at", rec.ExpiresAt)
	return Result{Record: rec}
}
