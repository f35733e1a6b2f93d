package deps

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ManifestKind identifies a manifest format. The kind, not the parser
// value, selects the extractor used for a file.
type ManifestKind int

const (
	KindUnknown      ManifestKind = iota
	KindRequirements              // requirements.txt, requirements-*.txt
	KindSetupPy                   // setup.py
	KindPyproject                 // pyproject.toml
	KindPipfile                   // Pipfile
)

// Kinds lists the known manifest kinds in discovery priority order.
var Kinds = []ManifestKind{KindRequirements, KindSetupPy, KindPyproject, KindPipfile}

func (k ManifestKind) String() string {
	switch k {
	case KindRequirements:
		return "requirements.txt"
	case KindSetupPy:
		return "setup.py"
	case KindPyproject:
		return "pyproject.toml"
	case KindPipfile:
		return "Pipfile"
	default:
		return "unknown"
	}
}

// DetectKind maps a manifest filename (base name only) to its kind.
func DetectKind(filename string) (ManifestKind, bool) {
	name := filepath.Base(filename)
	switch {
	case name == "requirements.txt",
		strings.HasPrefix(name, "requirements") && strings.HasSuffix(name, ".txt"):
		return KindRequirements, true
	case name == "setup.py":
		return KindSetupPy, true
	case name == "pyproject.toml":
		return KindPyproject, true
	case name == "Pipfile":
		return KindPipfile, true
	default:
		return KindUnknown, false
	}
}

// ManifestParser reads dependency declarations from one manifest format.
type ManifestParser interface {
	// Kind returns the manifest kind this parser extracts.
	Kind() ManifestKind
	// Supports reports whether this parser handles the given filename.
	Supports(filename string) bool
	// Parse reads the manifest at path. Lines or entries that cannot be
	// tokenized are skipped; only file-level failures are returned.
	Parse(path string, opts Options) ([]DependencyRecord, error)
}

// DetectManifest finds a parser that supports the given file path.
// Returns an error if no parser matches.
func DetectManifest(path string, parsers ...ManifestParser) (ManifestParser, error) {
	kind, ok := DetectKind(path)
	if !ok {
		return nil, fmt.Errorf("unsupported manifest: %s", filepath.Base(path))
	}
	for _, p := range parsers {
		if p.Kind() == kind {
			return p, nil
		}
	}
	return nil, fmt.Errorf("no parser registered for %s", kind)
}
