package deps

import (
	"strings"
)

// DependencyRecord is one declared dependency as it appears in a manifest.
// Name keeps the casing used in the file; Constraint is the raw version
// specifier (e.g. "==2.31.0", ">=2.0.0") or empty when unconstrained.
type DependencyRecord struct {
	Name       string `json:"name" yaml:"name"`
	Constraint string `json:"constraint,omitempty" yaml:"constraint,omitempty"`
}

// Key returns the normalized name used for knowledge base lookups.
func (d DependencyRecord) Key() string { return NormalizeName(d.Name) }

// String renders the record the way it would appear in requirements.txt.
func (d DependencyRecord) String() string { return d.Name + d.Constraint }

// NormalizeName converts a package name to its lookup form: trimmed and
// lower-cased. Separators are left untouched so that knowledge base keys
// round-trip through the persisted document unchanged.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Options configures manifest parsing.
type Options struct {
	Logger func(string, ...any) // Receives skipped-line diagnostics (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}
