// Package token provides credential generation and hashing utilities.
//
// This package implements cryptographically secure generation and
// shape validation for ampauth bearer credentials.
//
// Credential format:
//
//   - Prefix: amp_live_ (9 characters)
//   - Body: 43 characters of Base64 RawURL encoded random bytes
//   - Total: 52 characters
//
// Digest format:
//
//   - 64 characters of hex-encoded SHA-256, computed over the whole
//     credential string including its prefix
//
// Security:
//
//   - Uses crypto/rand for CSPRNG (256 bits of entropy per credential)
//   - SHA-256 hashing with constant-time comparison
//   - Raw credentials are never stored, only digests
package token
