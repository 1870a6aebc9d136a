package config

import "errors"

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if cfg.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if cfg.Server.RateLimit < 0 {
		return errors.New("server.rate_limit must not be negative")
	}
	if cfg.Server.RateLimit > 0 && cfg.Server.RateBurst < 1 {
		return errors.New("server.rate_burst must be at least 1 when rate limiting is on")
	}
	if cfg.Database.DSN == "" && !cfg.Database.UseMemory {
		return errors.New("database.dsn is required unless database.use_memory is set")
	}
	if cfg.Cache.TTL <= 0 {
		return errors.New("cache.ttl must be positive")
	}
	if cfg.Queue.Size < 1 {
		return errors.New("queue.size must be at least 1")
	}
	if cfg.Queue.SubmitTimeout <= 0 {
		return errors.New("queue.submit_timeout must be positive")
	}
	return nil
}
