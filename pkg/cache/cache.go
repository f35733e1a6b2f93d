// Package cache provides byte-level caches for registry API responses.
//
// Implementations:
//   - [FileCache]: entries stored as JSON files under a cache directory (CLI default)
//   - [RedisCache]: entries stored in Redis with native expiry (shared deployments)
//   - [NullCache]: never stores anything (tests, --no-cache)
//
// [Scoped] wraps any Cache with a key prefix so that several registry
// clients can share one backend without collisions.
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache stores opaque byte values by key. Implementations must be safe for
// concurrent use.
type Cache interface {
	// Get returns the value for key. hit is false on a miss or an expired
	// entry; err is reserved for backend failures.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// DefaultDir returns the directory used for HTTP response caching:
// $XDG_CACHE_HOME/deprecated-checker/http (or the platform equivalent).
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "deprecated-checker", "http"), nil
}
