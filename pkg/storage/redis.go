package storage

import (
	"bytes"
	"context"
	goerrors "errors"

	"github.com/redis/go-redis/v9"

	"github.com/julicq/is-deprecated-or-not/pkg/errors"
	"github.com/julicq/is-deprecated-or-not/pkg/kb"
)

// RedisBackend stores the YAML document under a single key with no
// expiry.
type RedisBackend struct {
	client *redis.Client
	key    string
}

// NewRedisBackend connects to the Redis server at url
// (redis://[user:pass@]host:port/db).
func NewRedisBackend(url, key string) (*RedisBackend, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "redis url")
	}
	return &RedisBackend{client: redis.NewClient(opts), key: key}, nil
}

// NewRedisBackendWithClient wraps an existing client.
func NewRedisBackendWithClient(client *redis.Client, key string) *RedisBackend {
	return &RedisBackend{client: client, key: key}
}

func (b *RedisBackend) Name() string { return "redis" }

func (b *RedisBackend) Load(ctx context.Context) (*kb.Snapshot, error) {
	data, err := b.client.Get(ctx, b.key).Bytes()
	if goerrors.Is(err, redis.Nil) {
		return nil, errors.New(errors.ErrCodeNotFound, "redis key %s is empty", b.key)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "redis get %s", b.key)
	}
	return kb.Decode(bytes.NewReader(data), "redis:"+b.key)
}

func (b *RedisBackend) Save(ctx context.Context, s *kb.Snapshot) error {
	var buf bytes.Buffer
	if err := kb.Encode(&buf, s); err != nil {
		return err
	}
	if err := b.client.Set(ctx, b.key, buf.Bytes(), 0).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "redis set %s", b.key)
	}
	return nil
}

func (b *RedisBackend) Close() error { return b.client.Close() }

var _ Backend = (*RedisBackend)(nil)
