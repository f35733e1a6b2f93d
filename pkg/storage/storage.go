// Package storage persists knowledge base snapshots.
//
// Three backends are provided: a YAML file on disk (the default), a single
// Redis key holding the same YAML document, and a MongoDB collection with
// one document per package. All of them satisfy [Backend], which is what
// the refresh scheduler writes to before publishing a new snapshot.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/julicq/is-deprecated-or-not/pkg/errors"
	"github.com/julicq/is-deprecated-or-not/pkg/kb"
)

// Backend loads and saves whole snapshots.
type Backend interface {
	// Name identifies the backend in logs ("file", "redis", "mongo").
	Name() string
	// Load returns the stored snapshot. When nothing has been stored yet
	// the error satisfies [IsEmpty].
	Load(ctx context.Context) (*kb.Snapshot, error)
	// Save replaces the stored snapshot.
	Save(ctx context.Context, s *kb.Snapshot) error
	// Close releases connections held by the backend.
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	// Backend is "file" (default), "redis" or "mongo".
	Backend string `mapstructure:"backend" validate:"omitempty,oneof=file redis mongo mongodb"`
	// Path is the document path for the file backend.
	Path string `mapstructure:"path" validate:"required_if=Backend file"`

	RedisURL string `mapstructure:"redis_url"`
	RedisKey string `mapstructure:"redis_key"`

	MongoURI        string `mapstructure:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection"`
}

// Defaults for optional Config fields.
const (
	DefaultRedisKey        = "deprecated-checker:kb"
	DefaultMongoDatabase   = "deprecated_checker"
	DefaultMongoCollection = "packages"
)

// Open returns the backend named by cfg.Backend.
func Open(ctx context.Context, cfg Config) (Backend, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "file":
		if cfg.Path == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "file backend requires database.path")
		}
		return NewFileBackend(cfg.Path), nil
	case "redis":
		key := cfg.RedisKey
		if key == "" {
			key = DefaultRedisKey
		}
		return NewRedisBackend(cfg.RedisURL, key)
	case "mongo", "mongodb":
		db, coll := cfg.MongoDatabase, cfg.MongoCollection
		if db == "" {
			db = DefaultMongoDatabase
		}
		if coll == "" {
			coll = DefaultMongoCollection
		}
		return NewMongoBackend(ctx, cfg.MongoURI, db, coll)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown storage backend %q", cfg.Backend)
	}
}

// IsEmpty reports whether err means the backend holds no snapshot yet.
func IsEmpty(err error) bool {
	return errors.Is(err, errors.ErrCodeNotFound) || errors.Is(err, errors.ErrCodeFileNotFound)
}

// LoadOrSeed loads the stored snapshot. When the backend is empty, seed is
// saved and returned instead.
func LoadOrSeed(ctx context.Context, b Backend, seed *kb.Snapshot) (*kb.Snapshot, bool, error) {
	snap, err := b.Load(ctx)
	if err == nil {
		return snap, false, nil
	}
	if !IsEmpty(err) || seed == nil {
		return nil, false, err
	}
	if err := b.Save(ctx, seed); err != nil {
		return nil, false, fmt.Errorf("seed %s backend: %w", b.Name(), err)
	}
	return seed, true, nil
}
