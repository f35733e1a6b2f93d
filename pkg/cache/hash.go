package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Key joins parts into a namespaced cache key, e.g. Key("pypi", "requests")
// yields "pypi:requests". Parts are lowercased so lookups are
// case-insensitive like package names.
func Key(parts ...string) string {
	return strings.ToLower(strings.Join(parts, ":"))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
