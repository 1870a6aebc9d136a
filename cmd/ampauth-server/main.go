// Package main provides the entry point for ampauth-server.
//
// ampauth-server issues, validates and manages opaque bearer tokens
// backed by Postgres with a Redis validation cache.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/amplify-platform/ampauth/internal/cache"
	"github.com/amplify-platform/ampauth/internal/core/command"
	"github.com/amplify-platform/ampauth/internal/core/service"
	"github.com/amplify-platform/ampauth/internal/infra/buildinfo"
	"github.com/amplify-platform/ampauth/internal/infra/confloader"
	"github.com/amplify-platform/ampauth/internal/infra/shutdown"
	"github.com/amplify-platform/ampauth/internal/server/config"
	"github.com/amplify-platform/ampauth/internal/server/httpserver"
	"github.com/amplify-platform/ampauth/internal/storage"
	"github.com/amplify-platform/ampauth/internal/storage/memory"
	"github.com/amplify-platform/ampauth/internal/storage/postgres"
	"github.com/amplify-platform/ampauth/internal/telemetry/logger"
	"github.com/amplify-platform/ampauth/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("ampauth-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	slog.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting ampauth-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", *configFile)

	if cfg.Admin.Token == "" {
		log.Warn("admin token not configured, management endpoints are unauthenticated")
	}

	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	tokenCache := openCache(cfg, log)
	metrics := metric.NewRegistry()

	queue := command.NewQueue(cfg.Queue.Size)
	executor := command.NewExecutor(command.ExecutorConfig{
		Queue:    queue,
		Store:    store,
		Cache:    tokenCache,
		Logger:   log,
		Metrics:  metrics,
		CacheTTL: cfg.Cache.TTL,
	})
	go executor.Run()

	validationSvc := service.NewValidationService(service.ValidationConfig{
		Store:    store,
		Cache:    tokenCache,
		Logger:   log,
		Metrics:  metrics,
		CacheTTL: cfg.Cache.TTL,
	})
	managementSvc := service.NewManagementService(queue, store, log)
	healthSvc := service.NewHealthService(store, tokenCache, executor)

	if cfg.Cache.Warm {
		if n, err := validationSvc.WarmCache(ctx); err != nil {
			log.Warn("cache warm-up failed", "error", err)
		} else {
			log.Info("cache warmed", "tokens", n)
		}
	}

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Validation: validationSvc,
		Management: managementSvc,
		Health:     healthSvc,
		Logger:     log,
		Metrics:    metrics,
		AdminToken: cfg.Admin.Token,
		RateLimit:  cfg.Server.RateLimit,
		RateBurst:  cfg.Server.RateBurst,
	})
	httpServer := httpserver.New(cfg.Server.Addr, router, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)

	shutdownHandler := shutdown.NewHandler(cfg.Server.ShutdownTimeout, log)

	// Hooks run in reverse registration order: HTTP drains first, then
	// the queue, then the store closes.
	shutdownHandler.OnShutdown("token store", func(ctx context.Context) error {
		return closeStore()
	})
	shutdownHandler.OnShutdown("command queue", func(ctx context.Context) error {
		queue.Close()
		select {
		case <-executor.Done():
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	shutdownHandler.OnShutdown("http server", httpServer.Shutdown)

	watcher := watchConfig(*configFile, log)
	if watcher != nil {
		defer watcher.Stop()
	}

	go func() {
		log.Info("HTTP server listening", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
			shutdownHandler.Trigger()
		}
	}()

	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig merges defaults, the optional config file and environment
// variables, then validates the result.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openStore opens the configured token store and returns it with its
// close function.
func openStore(ctx context.Context, cfg *config.ServerConfig, log *slog.Logger) (storage.TokenStore, func() error, error) {
	if cfg.Database.UseMemory {
		log.Warn("using in-memory token store, tokens will not survive a restart")
		return memory.New(), func() error { return nil }, nil
	}

	store, err := postgres.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Database.Migrate {
		if err := postgres.RunMigrations(ctx, store.DB()); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	log.Info("token store ready", "backend", "postgres")
	return store, store.Close, nil
}

// openCache connects the Redis validation cache, falling back to the
// in-process cache when no address is configured.
func openCache(cfg *config.ServerConfig, log *slog.Logger) cache.Cache {
	if cfg.Cache.RedisAddr == "" {
		log.Info("validation cache ready", "backend", "memory")
		return cache.NewMemory()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.RedisAddr,
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
	})
	log.Info("validation cache ready", "backend", "redis", "addr", cfg.Cache.RedisAddr)
	return cache.NewRedis(client)
}

// watchConfig re-applies the log level when the config file changes.
// Other settings require a restart.
func watchConfig(configFile string, log *slog.Logger) *confloader.Watcher {
	if configFile == "" {
		return nil
	}

	watcher, err := confloader.NewWatcher(log)
	if err != nil {
		log.Warn("config watcher unavailable", "error", err)
		return nil
	}
	if err := watcher.Watch(configFile); err != nil {
		log.Warn("config watcher unavailable", "error", err)
		watcher.Stop()
		return nil
	}

	watcher.OnChange(func(path string) {
		cfg, err := loadConfig(path)
		if err != nil {
			log.Warn("config reload failed", "error", err)
			return
		}
		logger.SetLevel(cfg.Log.Level)
		log.Info("log level reloaded", "level", cfg.Log.Level)
	})
	watcher.StartAsync()
	return watcher
}
