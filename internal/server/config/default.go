package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr        = "127.0.0.1:8080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 15 * time.Second

	DefaultCacheTTL      = 30 * time.Minute
	DefaultQueueSize     = 1024
	DefaultSubmitTimeout = 5 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Addr:            DefaultHTTPAddr,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Database: DatabaseSection{
			Migrate: true,
		},
		Cache: CacheSection{
			TTL:  DefaultCacheTTL,
			Warm: true,
		},
		Queue: QueueSection{
			Size:          DefaultQueueSize,
			SubmitTimeout: DefaultSubmitTimeout,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
