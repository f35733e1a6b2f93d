package cache

import (
	"context"
	"time"
)

// ScopedCache prefixes every key before delegating to the wrapped cache.
// Registry clients use it to share one backend:
//
//	shared, _ := cache.NewFileCache("")
//	pypiCache := cache.Scoped(shared, "pypi:")
//	osvCache := cache.Scoped(shared, "osv:")
type ScopedCache struct {
	inner  Cache
	prefix string
}

// Scoped returns a view of inner whose keys are prefixed with prefix. A nil
// inner cache yields a [NullCache] view.
func Scoped(inner Cache, prefix string) *ScopedCache {
	if inner == nil {
		inner = NewNullCache()
	}
	return &ScopedCache{inner: inner, prefix: prefix}
}

// Prefix returns the key prefix of this view.
func (s *ScopedCache) Prefix() string { return s.prefix }

func (s *ScopedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *ScopedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

func (s *ScopedCache) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Close does nothing: the wrapped cache is owned by whoever created it.
func (s *ScopedCache) Close() error { return nil }

var _ Cache = (*ScopedCache)(nil)
