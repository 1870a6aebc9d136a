// Package postgres provides the PostgreSQL-backed token store.
//
// Records live in two tables: tokens (one row per credential, carrying
// the digest, timestamps and revocation marker) and token_scopes (one
// row per scope label). Schema management is handled by embedded goose
// migrations; see RunMigrations.
package postgres
