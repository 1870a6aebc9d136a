package token

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashLength is the length of a hex-encoded SHA-256 digest.
const HashLength = 64

// Hash computes the SHA-256 digest of a credential.
//
// The digest covers the whole credential string including its prefix and
// is hex encoded for storage.
func Hash(credential string) string {
	h := sha256.Sum256([]byte(credential))
	return hex.EncodeToString(h[:])
}

// ValidHashFormat reports whether a string is a well-formed digest:
// 64 hex characters.
func ValidHashFormat(digest string) bool {
	if len(digest) != HashLength {
		return false
	}
	_, err := hex.DecodeString(digest)
	return err == nil
}
