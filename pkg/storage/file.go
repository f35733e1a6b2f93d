package storage

import (
	"context"

	"github.com/julicq/is-deprecated-or-not/pkg/kb"
)

// FileBackend stores the snapshot as a YAML document on disk. Writes are
// atomic (temp file and rename).
type FileBackend struct {
	path string
}

// NewFileBackend returns a backend for the document at path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (b *FileBackend) Name() string { return "file" }

// Path returns the document location.
func (b *FileBackend) Path() string { return b.path }

func (b *FileBackend) Load(ctx context.Context) (*kb.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return kb.LoadFile(b.path)
}

func (b *FileBackend) Save(ctx context.Context, s *kb.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return kb.SaveFile(b.path, s)
}

func (b *FileBackend) Close() error { return nil }

var _ Backend = (*FileBackend)(nil)
