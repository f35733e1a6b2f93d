// Package checker audits a project's declared dependencies against the
// knowledge base and renders the result as a report.
//
// A check parses every manifest in the project, deduplicates the declared
// packages by normalized name (first declaration wins) and partitions them
// into deprecated and safe using a single knowledge base snapshot, so a
// concurrent refresh never mixes two snapshots into one result.
package checker

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"github.com/julicq/is-deprecated-or-not/pkg/deps"
	"github.com/julicq/is-deprecated-or-not/pkg/deps/python"
	"github.com/julicq/is-deprecated-or-not/pkg/kb"
	"github.com/julicq/is-deprecated-or-not/pkg/observability"
)

// SnapshotSource supplies the active knowledge base snapshot.
type SnapshotSource interface {
	Current() *kb.Snapshot
}

// DeprecatedDependency pairs a declared dependency with its knowledge base
// record.
type DeprecatedDependency struct {
	Dependency deps.DependencyRecord
	Record     kb.Record
}

// Result is the outcome of one project check. It is built once and not
// modified afterwards.
type Result struct {
	Deprecated      []DeprecatedDependency
	Safe            []deps.DependencyRecord
	TotalDeprecated int
	TotalSafe       int
	Manifests       []string         // Manifests that were parsed, in discovery order
	Skipped         []deps.FileError // Manifests that could not be parsed
}

// Checker runs project checks. It is safe for concurrent use.
type Checker struct {
	source  SnapshotSource
	parsers []deps.ManifestParser
	logger  *log.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithParsers replaces the default Python manifest parsers.
func WithParsers(parsers ...deps.ManifestParser) Option {
	return func(c *Checker) { c.parsers = parsers }
}

// WithLogger sets the logger used for skipped lines and files.
func WithLogger(l *log.Logger) Option {
	return func(c *Checker) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a Checker reading snapshots from source.
func New(source SnapshotSource, opts ...Option) *Checker {
	c := &Checker{
		source:  source,
		parsers: python.Parsers(),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckProject parses the manifests under path (a project directory or a
// single manifest file) and classifies each declared package. A path that
// cannot be read fails the whole check; no partial result is returned.
func (c *Checker) CheckProject(ctx context.Context, path string) (result *Result, err error) {
	start := time.Now()
	observability.Check().OnCheckStart(ctx, path)
	defer func() {
		var dep, safe int
		if result != nil {
			dep, safe = result.TotalDeprecated, result.TotalSafe
		}
		observability.Check().OnCheckComplete(ctx, path, dep, safe, time.Since(start), err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	project, err := deps.ParseAll(path, deps.Options{
		Logger: func(format string, args ...any) { c.logger.Debugf(format, args...) },
	}, c.parsers...)
	if err != nil {
		return nil, err
	}
	for _, fe := range project.Skipped {
		c.logger.Warn("skipped manifest", "file", fe.Name, "err", fe.Err)
	}

	return Classify(c.source.Current(), project.Records(), project.Names(), project.Skipped), nil
}

// Classify deduplicates records by normalized name, keeping the first
// occurrence, and partitions them against snap. Order is first discovery.
func Classify(snap *kb.Snapshot, records []deps.DependencyRecord, manifests []string, skipped []deps.FileError) *Result {
	unique := lo.UniqBy(records, func(r deps.DependencyRecord) string { return r.Key() })

	res := &Result{
		Deprecated: []DeprecatedDependency{},
		Safe:       []deps.DependencyRecord{},
		Manifests:  append([]string{}, manifests...),
		Skipped:    skipped,
	}
	for _, r := range unique {
		if rec, ok := snap.Lookup(r.Name); ok {
			res.Deprecated = append(res.Deprecated, DeprecatedDependency{Dependency: r, Record: rec})
		} else {
			res.Safe = append(res.Safe, r)
		}
	}
	res.TotalDeprecated = len(res.Deprecated)
	res.TotalSafe = len(res.Safe)
	return res
}

// ExtractVersion strips a leading comparison operator from a constraint:
// "==2.31.0" → "2.31.0". Constraints without a known operator are returned
// unchanged.
func ExtractVersion(constraint string) string {
	if op, ok := deps.LeadingOperator(constraint); ok {
		return constraint[len(op):]
	}
	return constraint
}
