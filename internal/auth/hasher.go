package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hasher derives credential digests from a plaintext password and a fixed
// server-side secret (a pepper). The digest is hex-encoded SHA-256 over the
// concatenation password+secret.
//
// Known weakness, preserved on purpose: there is no per-user random salt, so
// identical passwords produce identical digests. Adding salt would change
// the stored-digest format and break verification of every existing row, so
// any fix has to come with a migration.
type Hasher struct {
	secret string
}

// NewHasher creates a Hasher around the configured secret.
func NewHasher(secret string) *Hasher {
	return &Hasher{secret: secret}
}

// Hash returns the hex digest for a password. The error return exists for
// callers treating a hashing failure as terminal; SHA-256 itself cannot
// fail here.
func (h *Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password + h.secret))
	return hex.EncodeToString(sum[:]), nil
}

// Verify recomputes the digest for password and compares it byte-for-byte
// against the stored digest. A mismatch returns false, never an error.
func (h *Hasher) Verify(password, digest string) bool {
	computed, err := h.Hash(password)
	if err != nil {
		return false
	}
	return computed == digest
}
