package config

import "strings"

// Sanitize returns a copy of the config with sensitive fields masked.
//
// This is used for logging configuration without exposing secrets.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	sanitized := *cfg

	if sanitized.Database.DSN != "" {
		sanitized.Database.DSN = maskDSN(sanitized.Database.DSN)
	}
	if sanitized.Cache.RedisPassword != "" {
		sanitized.Cache.RedisPassword = maskSecret(sanitized.Cache.RedisPassword)
	}
	if sanitized.Admin.Token != "" {
		sanitized.Admin.Token = maskSecret(sanitized.Admin.Token)
	}

	return &sanitized
}

// maskSecret masks a secret value for safe logging.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}

// maskDSN hides the credential part of a connection string.
func maskDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return maskSecret(dsn)
	}
	return dsn[:scheme+3] + "****" + dsn[at:]
}
