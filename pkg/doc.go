// Package pkg holds the libraries behind deprecated-checker.
//
// # Overview
//
// deprecated-checker audits the declared dependencies of a Python project
// against a knowledge base of deprecated packages and keeps that knowledge
// base current from several sources. The packages are organized as:
//
//  1. [deps] - Manifest discovery and requirement parsing ([deps/python])
//  2. [kb] - Knowledge base snapshots, the YAML document and the live store
//  3. [checker] - Project checks and report rendering
//  4. [collector] - Data sources (PyPI, GitHub, OSV, curated list) and merging
//  5. [scheduler] - Periodic refresh with retries
//  6. [storage] - Snapshot persistence (file, Redis, MongoDB)
//  7. [integrations] - Registry API clients over a shared HTTP client
//  8. [cache], [httputil], [errors], [config], [observability], [buildinfo] - Infrastructure
//
// # Data Flow
//
//	requirements.txt / setup.py / pyproject.toml / Pipfile
//	         ↓
//	    [deps] (DependencyRecord per declaration)
//	         ↓
//	    [checker] ← [kb] snapshot ← [storage]
//	         ↓
//	    text / JSON / YAML report
//
// and, in the background:
//
//	[scheduler] → [collector] → [integrations] → merged snapshot → [storage] → [kb] store
//
// # Quick Start
//
//	store := kb.NewStore(collector.DefaultManual())
//	result, err := checker.New(store).CheckProject(ctx, "./my-project")
//	if err != nil {
//	    return err
//	}
//	report, _ := checker.GenerateReport(result, checker.FormatText)
//	fmt.Print(report)
//
// [deps]: https://pkg.go.dev/github.com/julicq/is-deprecated-or-not/pkg/deps
// [deps/python]: https://pkg.go.dev/github.com/julicq/is-deprecated-or-not/pkg/deps/python
// [kb]: https://pkg.go.dev/github.com/julicq/is-deprecated-or-not/pkg/kb
// [checker]: https://pkg.go.dev/github.com/julicq/is-deprecated-or-not/pkg/checker
// [collector]: https://pkg.go.dev/github.com/julicq/is-deprecated-or-not/pkg/collector
// [scheduler]: https://pkg.go.dev/github.com/julicq/is-deprecated-or-not/pkg/scheduler
// [storage]: https://pkg.go.dev/github.com/julicq/is-deprecated-or-not/pkg/storage
// [integrations]: https://pkg.go.dev/github.com/julicq/is-deprecated-or-not/pkg/integrations
// [cache]: https://pkg.go.dev/github.com/julicq/is-deprecated-or-not/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/julicq/is-deprecated-or-not/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/julicq/is-deprecated-or-not/pkg/errors
// [config]: https://pkg.go.dev/github.com/julicq/is-deprecated-or-not/pkg/config
// [observability]: https://pkg.go.dev/github.com/julicq/is-deprecated-or-not/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/julicq/is-deprecated-or-not/pkg/buildinfo
package pkg
