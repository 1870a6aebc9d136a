package config

import "time"

// ServerConfig is the root configuration for ampauth-server.
type ServerConfig struct {
	Server   ServerSection   `koanf:"server"`
	Database DatabaseSection `koanf:"database"`
	Cache    CacheSection    `koanf:"cache"`
	Queue    QueueSection    `koanf:"queue"`
	Admin    AdminSection    `koanf:"admin"`
	Log      LogSection      `koanf:"log"`
}

// ServerSection configures the HTTP surface.
type ServerSection struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RateLimit is the sustained requests-per-second budget per
	// client; RateBurst is the allowed burst. Zero disables limiting.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`
}

// DatabaseSection configures the PostgreSQL token store.
type DatabaseSection struct {
	// DSN is a pgx connection string (postgres://...).
	DSN string `koanf:"dsn"`

	// Migrate runs pending schema migrations at startup.
	Migrate bool `koanf:"migrate"`

	// UseMemory swaps in the in-process store; development only.
	UseMemory bool `koanf:"use_memory"`
}

// CacheSection configures the validation cache.
type CacheSection struct {
	// RedisAddr is the host:port of the Redis cache. Empty selects the
	// in-process cache.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// TTL bounds cache entries, positive and negative alike.
	TTL time.Duration `koanf:"ttl"`

	// Warm pre-loads active tokens at startup.
	Warm bool `koanf:"warm"`
}

// QueueSection configures the command pipeline.
type QueueSection struct {
	// Size is the submission buffer of the write queue.
	Size int `koanf:"size"`

	// SubmitTimeout bounds how long a request waits for its command.
	SubmitTimeout time.Duration `koanf:"submit_timeout"`
}

// AdminSection configures management API access.
type AdminSection struct {
	// Token is the static bearer token required by management
	// endpoints. Empty disables management authentication; never do
	// that outside development.
	Token string `koanf:"token"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
