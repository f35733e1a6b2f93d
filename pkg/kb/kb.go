// Package kb holds the knowledge base of deprecated Python packages.
//
// A [Snapshot] is an immutable view of the knowledge base: presence of a
// package means it is deprecated, absence means safe or unknown (the two
// are not distinguished). Lookups are case-insensitive.
//
// Snapshots are replaced wholesale. [Store] publishes a new snapshot with
// an atomic pointer swap, so readers observe either the old or the new
// snapshot and never a partially built one.
package kb

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/julicq/is-deprecated-or-not/pkg/deps"
)

// Alternative is a suggested replacement for a deprecated package.
type Alternative struct {
	Name           string `yaml:"name" json:"name" validate:"required"`
	Reason         string `yaml:"reason,omitempty" json:"reason,omitempty"`
	MigrationGuide string `yaml:"migration_guide,omitempty" json:"migration_guide,omitempty" validate:"omitempty,url"`
}

// Record describes why a package is deprecated and what to use instead.
type Record struct {
	Name            string        `yaml:"-" json:"name" validate:"required"`
	DeprecatedSince string        `yaml:"deprecated_since" json:"deprecated_since" validate:"required,datetime=2006-01-02"`
	Reason          string        `yaml:"reason" json:"reason" validate:"required"`
	Alternatives    []Alternative `yaml:"alternatives" json:"alternatives" validate:"dive"`
	Source          string        `yaml:"source,omitempty" json:"source,omitempty"`
	// Sources lists every source that reported the package. Source names
	// the one whose fields won the merge.
	Sources []string `yaml:"sources,omitempty" json:"sources,omitempty"`
}

// From reports whether source contributed the record.
func (r Record) From(source string) bool {
	return r.Source == source || slices.Contains(r.Sources, source)
}

func (r Record) clone() Record {
	if r.Alternatives == nil {
		r.Alternatives = []Alternative{}
	} else {
		r.Alternatives = slices.Clone(r.Alternatives)
	}
	r.Sources = slices.Clone(r.Sources)
	return r
}

// Metadata describes when and from where a snapshot was built.
type Metadata struct {
	LastUpdated  time.Time      `yaml:"last_updated,omitempty" json:"last_updated,omitempty"`
	SourceCounts map[string]int `yaml:"source_counts,omitempty" json:"source_counts,omitempty"`
}

// Snapshot is an immutable name → record mapping. The zero value is not
// usable; build one with [NewSnapshot] or [Empty].
type Snapshot struct {
	records map[string]Record
	meta    Metadata
}

// NewSnapshot copies records into a new snapshot. Keys are normalized
// with [deps.NormalizeName] and each record's Name is set to its key; when
// two keys normalize to the same name the later one in sorted key order
// wins.
func NewSnapshot(records map[string]Record, meta Metadata) *Snapshot {
	s := &Snapshot{
		records: make(map[string]Record, len(records)),
		meta: Metadata{
			LastUpdated:  meta.LastUpdated,
			SourceCounts: maps.Clone(meta.SourceCounts),
		},
	}
	for _, k := range slices.Sorted(maps.Keys(records)) {
		rec := records[k].clone()
		rec.Name = deps.NormalizeName(k)
		s.records[rec.Name] = rec
	}
	return s
}

// Empty returns a snapshot with no records.
func Empty() *Snapshot {
	return &Snapshot{records: map[string]Record{}}
}

// IsDeprecated reports whether name is in the knowledge base.
func (s *Snapshot) IsDeprecated(name string) bool {
	_, ok := s.records[deps.NormalizeName(name)]
	return ok
}

// Lookup returns a copy of the record for name.
func (s *Snapshot) Lookup(name string) (Record, bool) {
	rec, ok := s.records[deps.NormalizeName(name)]
	if !ok {
		return Record{}, false
	}
	return rec.clone(), true
}

// Alternatives returns the suggested replacements for name, or nil when
// the package is not deprecated.
func (s *Snapshot) Alternatives(name string) []Alternative {
	rec, ok := s.records[deps.NormalizeName(name)]
	if !ok {
		return nil
	}
	return slices.Clone(rec.Alternatives)
}

// MigrationGuide returns the migration guide URL for moving from name to
// alternative. ok is false when either is unknown or no guide is recorded.
func (s *Snapshot) MigrationGuide(name, alternative string) (string, bool) {
	for _, alt := range s.records[deps.NormalizeName(name)].Alternatives {
		if strings.EqualFold(alt.Name, strings.TrimSpace(alternative)) && alt.MigrationGuide != "" {
			return alt.MigrationGuide, true
		}
	}
	return "", false
}

// All returns a copy of every record keyed by normalized name.
func (s *Snapshot) All() map[string]Record {
	out := make(map[string]Record, len(s.records))
	for k, rec := range s.records {
		out[k] = rec.clone()
	}
	return out
}

// Names returns the normalized package names in sorted order.
func (s *Snapshot) Names() []string {
	return slices.Sorted(maps.Keys(s.records))
}

// Len returns the number of deprecated packages.
func (s *Snapshot) Len() int { return len(s.records) }

// Metadata returns a copy of the snapshot metadata.
func (s *Snapshot) Metadata() Metadata {
	return Metadata{
		LastUpdated:  s.meta.LastUpdated,
		SourceCounts: maps.Clone(s.meta.SourceCounts),
	}
}

// SourceCounts returns the number of records per source. Recorded counts
// from the last collection are returned when present; otherwise they are
// derived from each record's Source, with unattributed records counted
// under "database".
func (s *Snapshot) SourceCounts() map[string]int {
	if len(s.meta.SourceCounts) > 0 {
		return maps.Clone(s.meta.SourceCounts)
	}
	counts := make(map[string]int)
	for _, rec := range s.records {
		src := rec.Source
		if src == "" {
			src = "database"
		}
		counts[src]++
	}
	return counts
}

// BySource returns the records source contributed, keyed by name. A
// record reported by several sources is returned for each of them.
func (s *Snapshot) BySource(source string) map[string]Record {
	out := make(map[string]Record)
	for k, rec := range s.records {
		if rec.From(source) {
			out[k] = rec.clone()
		}
	}
	return out
}

// Search returns records whose name contains query (case-insensitive),
// sorted by name. An exact match is listed first.
func (s *Snapshot) Search(query string) []Record {
	q := deps.NormalizeName(query)
	var out []Record
	for _, name := range s.Names() {
		if strings.Contains(name, q) {
			out = append(out, s.records[name].clone())
		}
	}
	slices.SortStableFunc(out, func(a, b Record) int {
		switch {
		case a.Name == q && b.Name != q:
			return -1
		case b.Name == q && a.Name != q:
			return 1
		}
		return 0
	})
	return out
}
