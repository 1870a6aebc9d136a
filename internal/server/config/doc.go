// Package config defines the server configuration structure.
//
// Configuration is loaded by infra/confloader from a YAML file merged
// with AMPAUTH_ environment variables. Defaults live in default.go,
// validation in verify.go.
package config
