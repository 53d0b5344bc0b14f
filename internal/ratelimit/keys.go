package ratelimit

import (
	"crypto/sha256"
	"encoding/hex"
)

// KeyHasher derives rate-limit identifiers from client network
// addresses. Only the salted one-way hash ever reaches the counter
// store or logs; the raw address does not.
type KeyHasher struct {
	salt string
}

// NewKeyHasher creates a hasher with the given salt.
func NewKeyHasher(salt string) *KeyHasher {
	return &KeyHasher{salt: salt}
}

// Key returns the hex-encoded salted hash of a client address.
func (h *KeyHasher) Key(clientAddr string) string {
	sum := sha256.Sum256([]byte(clientAddr + h.salt))

	return hex.EncodeToString(sum[:])
}
