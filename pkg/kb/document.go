package kb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julicq/is-deprecated-or-not/pkg/errors"
)

// MetaKey is the reserved document key holding snapshot metadata.
const MetaKey = "_meta"

type recordDoc struct {
	DeprecatedSince string        `yaml:"deprecated_since"`
	Reason          string        `yaml:"reason"`
	Alternatives    []Alternative `yaml:"alternatives"`
	Source          string        `yaml:"source,omitempty"`
	Sources         []string      `yaml:"sources,omitempty"`
}

// Decode reads a knowledge base document. The document is a YAML mapping
// of package name to record plus the optional [MetaKey] entry. name is
// used in error messages. Any malformed content fails with
// ErrCodeCorruptDatabase.
func Decode(r io.Reader, name string) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCorruptDatabase, err, "read %s", name)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Empty(), nil
	}

	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCorruptDatabase, err, "decode %s", name)
	}

	var meta Metadata
	records := make(map[string]Record, len(doc))
	for key, node := range doc {
		if key == MetaKey {
			if err := node.Decode(&meta); err != nil {
				return nil, errors.Wrap(errors.ErrCodeCorruptDatabase, err, "decode %s: %s", name, MetaKey)
			}
			continue
		}
		if strings.HasPrefix(key, "_") || strings.TrimSpace(key) == "" {
			return nil, errors.New(errors.ErrCodeCorruptDatabase, "decode %s: invalid package key %q", name, key)
		}
		var rd recordDoc
		if err := node.Decode(&rd); err != nil {
			return nil, errors.Wrap(errors.ErrCodeCorruptDatabase, err, "decode %s: package %s", name, key)
		}
		records[key] = Record{
			DeprecatedSince: rd.DeprecatedSince,
			Reason:          rd.Reason,
			Alternatives:    rd.Alternatives,
			Source:          rd.Source,
			Sources:         rd.Sources,
		}
	}
	return NewSnapshot(records, meta), nil
}

// Encode writes s as a knowledge base document. Keys are emitted in
// sorted order so the output is stable.
func Encode(w io.Writer, s *Snapshot) error {
	doc := make(map[string]any, s.Len()+1)
	for name, rec := range s.records {
		alts := rec.Alternatives
		if alts == nil {
			alts = []Alternative{}
		}
		doc[name] = recordDoc{
			DeprecatedSince: rec.DeprecatedSince,
			Reason:          rec.Reason,
			Alternatives:    alts,
			Source:          rec.Source,
			Sources:         rec.Sources,
		}
	}
	if !s.meta.LastUpdated.IsZero() || len(s.meta.SourceCounts) > 0 {
		doc[MetaKey] = s.meta
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// EncodeJSON writes the records of s as an indented JSON object keyed by
// package name, for export.
func EncodeJSON(w io.Writer, s *Snapshot) error {
	out := struct {
		Packages map[string]Record `json:"packages"`
		Meta     Metadata          `json:"_meta"`
	}{s.All(), s.Metadata()}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// LoadFile reads the document at path. A missing file fails with
// ErrCodeFileNotFound.
func LoadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "knowledge base %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeCorruptDatabase, err, "open %s", path)
	}
	defer f.Close()
	return Decode(f, path)
}

// SaveFile writes s to path atomically: the document is written to a
// temporary file in the same directory and renamed over path.
func SaveFile(path string, s *Snapshot) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".kb-*.yaml.tmp")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, s); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
