// Package deps provides the manifest model and project discovery used to
// extract declared dependencies from a Python project.
//
// # Overview
//
// A project declares its dependencies in one or more manifests:
//
//   - requirements.txt and requirements-*.txt
//   - setup.py (install_requires list, scanned textually)
//   - pyproject.toml (PEP 621 and Poetry tables)
//   - Pipfile ([packages] table)
//
// Format-specific extractors live in [python]; this package holds the
// shared types and the discovery loop.
//
// # Records
//
// Each declaration becomes a [DependencyRecord] holding the name as
// written and the raw version constraint. [DependencyRecord.Key] gives the
// lower-cased form used for knowledge base lookups. No version resolution
// is performed: constraints are carried verbatim.
//
// # Discovery
//
// [ParseAll] scans the top level of a project directory, selects an
// extractor by [ManifestKind] and returns a [Project]:
//
//	project, err := deps.ParseAll(".", deps.Options{}, python.Parsers()...)
//	for _, f := range project.Files {
//	    fmt.Println(f.Name, len(f.Records))
//	}
//
// Manifests are visited in [Kinds] priority order and then by filename, so
// the flattened [Project.Records] order is stable across runs. A manifest
// that fails to parse is listed in [Project.Skipped] without aborting the
// scan.
//
// [python]: https://pkg.go.dev/github.com/julicq/is-deprecated-or-not/pkg/deps/python
package deps
