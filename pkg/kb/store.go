package kb

import (
	"context"
	"io"
	"path/filepath"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Store holds the active snapshot. It is safe for concurrent use; Current
// never blocks and always returns a complete snapshot.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore returns a store whose active snapshot is initial, or an empty
// snapshot when initial is nil.
func NewStore(initial *Snapshot) *Store {
	if initial == nil {
		initial = Empty()
	}
	s := &Store{}
	s.current.Store(initial)
	return s
}

// Current returns the active snapshot.
func (s *Store) Current() *Snapshot { return s.current.Load() }

// Publish replaces the active snapshot. A nil snapshot is ignored.
func (s *Store) Publish(snap *Snapshot) {
	if snap != nil {
		s.current.Store(snap)
	}
}

// LoadFile reads the document at path and publishes it. On failure the
// previous snapshot stays active.
func (s *Store) LoadFile(path string) error {
	snap, err := LoadFile(path)
	if err != nil {
		return err
	}
	s.Publish(snap)
	return nil
}

// Watch reloads the document at path into store whenever it changes on
// disk, until ctx is done. The parent directory is watched so that editors
// which replace the file by rename are picked up. Documents that fail to
// decode are logged and the previous snapshot is kept.
func Watch(ctx context.Context, store *Store, path string, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if err := store.LoadFile(abs); err != nil {
				logger.Warn("knowledge base reload failed", "path", abs, "err", err)
				continue
			}
			logger.Info("knowledge base reloaded", "path", abs, "packages", store.Current().Len())
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "path", abs, "err", err)
		}
	}
}
