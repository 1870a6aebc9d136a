package token

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
)

// Credential format constants.
const (
	// Prefix is the fixed textual prefix of every credential.
	Prefix = "amp_live_"

	// BytesLength is the number of random bytes behind a credential.
	BytesLength = 32

	// BodyLength is the Base64 RawURL encoded length (32 bytes -> 43 chars).
	BodyLength = 43

	// Length is the total credential length (prefix + body).
	Length = len(Prefix) + BodyLength // amp_live_ + 43 = 52
)

// Generate generates a cryptographically secure credential.
// Returns the plaintext credential (amp_live_...) and its SHA-256 digest.
//
// The plaintext must only be returned to the caller once, at creation
// time. Never store or log the plaintext credential.
func Generate() (plaintext string, digest string, err error) {
	bytes := make([]byte, BytesLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", err
	}

	plaintext = Prefix + base64.RawURLEncoding.EncodeToString(bytes)
	digest = Hash(plaintext)
	return plaintext, digest, nil
}

// ValidFormat reports whether a string has the expected credential shape.
// This is a cheap filter used before any cache or store access: a fixed
// prefix, a 43 character body, and a decodable Base64 RawURL alphabet.
func ValidFormat(credential string) bool {
	if len(credential) != Length {
		return false
	}
	if !strings.HasPrefix(credential, Prefix) {
		return false
	}
	body := credential[len(Prefix):]
	_, err := base64.RawURLEncoding.DecodeString(body)
	return err == nil
}

// Mask masks a credential for safe logging.
// Example: amp_live_ABC...xyz
func Mask(credential string) string {
	if len(credential) < len(Prefix)+6 || !strings.HasPrefix(credential, Prefix) {
		return "***REDACTED***"
	}
	body := credential[len(Prefix):]
	return Prefix + body[:3] + "..." + body[len(body)-3:]
}
