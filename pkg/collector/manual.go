package collector

import (
	"bytes"
	"context"
	_ "embed"
	"maps"
	"sync"

	"github.com/julicq/is-deprecated-or-not/pkg/kb"
)

//go:embed manual.yaml
var manualDocument []byte

// DefaultManual returns the embedded curated list. It seeds empty
// databases.
func DefaultManual() *kb.Snapshot {
	snap, err := kb.Decode(bytes.NewReader(manualDocument), "manual.yaml")
	if err != nil {
		panic(err)
	}
	return snap
}

// ManualSource serves the curated list: the embedded document, overlaid by
// an optional user file.
type ManualSource struct {
	path string

	once  sync.Once
	embed map[string]kb.Record
}

// NewManualSource creates the "manual" source. path may be empty.
func NewManualSource(path string) *ManualSource {
	return &ManualSource{path: path}
}

func (s *ManualSource) Name() string { return SourceManual }

// Candidates returns every curated name so automatic sources inspect
// them too. A broken user file only fails Collect.
func (s *ManualSource) Candidates() []string {
	records, _ := s.load()
	names := make([]string, 0, len(records))
	for name := range records {
		names = append(names, name)
	}
	return names
}

// Collect ignores candidates: curated entries always apply.
func (s *ManualSource) Collect(ctx context.Context, _ []string) (map[string]kb.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.load()
}

func (s *ManualSource) load() (map[string]kb.Record, error) {
	s.once.Do(func() { s.embed = DefaultManual().All() })

	records := maps.Clone(s.embed)
	if s.path == "" {
		return records, nil
	}
	user, err := kb.LoadFile(s.path)
	if err != nil {
		return records, err
	}
	maps.Copy(records, user.All())
	return records, nil
}
