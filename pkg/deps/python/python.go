// Package python extracts declared dependencies from Python project
// manifests: requirements*.txt, setup.py, pyproject.toml and Pipfile.
//
// Extraction is purely textual. setup.py is scanned, never executed.
package python

import (
	"os"
	"path/filepath"

	"github.com/julicq/is-deprecated-or-not/pkg/deps"
	"github.com/julicq/is-deprecated-or-not/pkg/errors"
)

// Parsers returns one extractor per supported manifest kind, in
// discovery priority order.
func Parsers() []deps.ManifestParser {
	return []deps.ManifestParser{
		&Requirements{},
		&SetupPy{},
		&Pyproject{},
		&Pipfile{},
	}
}

func readManifest(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", filepath.Base(path))
	}
	return nil, errors.Wrap(errors.ErrCodeParse, err, "read manifest %s", filepath.Base(path))
}

func appendRequirement(out []deps.DependencyRecord, raw string, opts deps.Options, where string) []deps.DependencyRecord {
	rec, ok := deps.SplitRequirement(raw)
	if !ok {
		opts.Logger("skipping %s: cannot parse %q", where, raw)
		return out
	}
	return append(out, rec)
}
