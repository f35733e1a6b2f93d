// Package collector builds knowledge base snapshots from several data
// sources.
//
// # Sources
//
// Each [Source] inspects a list of candidate package names and returns
// records for the ones it considers deprecated:
//
//   - "pypi": package index metadata (inactive classifier, deprecation
//     notices in the summary, fully yanked latest release)
//   - "github": archived source repositories
//   - "security": OSV advisories describing a package as unmaintained
//   - "manual": the curated list, embedded plus an optional file
//
// # Merging
//
// Sources run concurrently, each under its own timeout, and are merged in
// the fixed order pypi, github, security, manual. A later automatic source
// overwrites the non-empty fields of an earlier record; a manual record
// replaces whatever the automatic sources produced.
//
// A failing source does not fail the collection: its records from the
// previous snapshot are carried forward. Only when every source fails (or
// none is enabled) does [Collector.Collect] return COLLECTION_FAILED.
package collector

import (
	"context"
	"io"
	"slices"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/julicq/is-deprecated-or-not/pkg/deps"
	"github.com/julicq/is-deprecated-or-not/pkg/errors"
	"github.com/julicq/is-deprecated-or-not/pkg/kb"
	"github.com/julicq/is-deprecated-or-not/pkg/observability"
)

// Source names.
const (
	SourcePyPI     = "pypi"
	SourceGitHub   = "github"
	SourceSecurity = "security"
	SourceManual   = "manual"
)

// MergeOrder is the order in which source results are layered.
var MergeOrder = []string{SourcePyPI, SourceGitHub, SourceSecurity, SourceManual}

// Source produces deprecation records for a set of candidate packages.
type Source interface {
	Name() string
	Collect(ctx context.Context, candidates []string) (map[string]kb.Record, error)
}

// CandidateSource is implemented by sources that contribute names to the
// candidate list before any source runs.
type CandidateSource interface {
	Candidates() []string
}

// SnapshotSource provides the snapshot currently in service.
type SnapshotSource interface {
	Current() *kb.Snapshot
}

// SourceResult describes one source's part in a collection.
type SourceResult struct {
	Name        string        `json:"name"`
	Count       int           `json:"count"`
	Err         error         `json:"-"`
	CarriedOver int           `json:"carried_over,omitempty"`
	Duration    time.Duration `json:"duration"`
	Skipped     bool          `json:"skipped,omitempty"`
}

// Failed reports whether the source returned an error.
func (r SourceResult) Failed() bool { return r.Err != nil }

// Statistics summarizes the knowledge base built by the collector.
type Statistics struct {
	TotalPackages int            `json:"total_packages" yaml:"total_packages"`
	Sources       map[string]int `json:"sources" yaml:"sources"`
	LastUpdated   *time.Time     `json:"last_updated,omitempty" yaml:"last_updated,omitempty"`
}

// Collector runs sources and merges their output into snapshots.
type Collector struct {
	cfg      Config
	sources  []Source
	previous SnapshotSource
	logger   *log.Logger
	now      func() time.Time

	last    atomic.Pointer[kb.Snapshot]
	mu      sync.Mutex
	results []SourceResult
}

// Option configures a Collector.
type Option func(*Collector)

// WithPrevious sets where the snapshot in service is read from. Its names
// join the candidate list and its records are carried forward for failed
// sources.
func WithPrevious(prev SnapshotSource) Option {
	return func(c *Collector) { c.previous = prev }
}

// WithLogger sets the logger for per-source progress.
func WithLogger(logger *log.Logger) Option {
	return func(c *Collector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the time source used for metadata.
func WithClock(now func() time.Time) Option {
	return func(c *Collector) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a Collector over the given sources. Sources whose
// configuration is disabled are ignored.
func New(cfg Config, sources []Source, opts ...Option) *Collector {
	c := &Collector{
		cfg:    cfg.WithDefaults(),
		logger: log.New(io.Discard),
		now:    time.Now,
	}
	for _, s := range sources {
		if c.cfg.Source(s.Name()).Enabled {
			c.sources = append(c.sources, s)
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sources returns the names of the enabled sources in merge order.
func (c *Collector) Sources() []string {
	names := lo.Map(c.sources, func(s Source, _ int) string { return s.Name() })
	sortByMergeOrder(names)
	return names
}

// Collect runs every enabled source. It satisfies the scheduler's updater
// contract.
func (c *Collector) Collect(ctx context.Context) (*kb.Snapshot, error) {
	return c.CollectOnly(ctx)
}

// CollectOnly runs only the named sources; an empty list runs all of them.
// Sources left out keep their records from the previous snapshot.
func (c *Collector) CollectOnly(ctx context.Context, names ...string) (*kb.Snapshot, error) {
	for _, n := range names {
		if !slices.ContainsFunc(c.sources, func(s Source) bool { return s.Name() == n }) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown or disabled source %q (enabled: %v)", n, c.Sources())
		}
	}
	selected := c.sources
	if len(names) > 0 {
		selected = lo.Filter(c.sources, func(s Source, _ int) bool { return slices.Contains(names, s.Name()) })
	}
	if len(selected) == 0 {
		return nil, errors.CollectionFailed(nil)
	}

	prev := kb.Empty()
	if c.previous != nil {
		if cur := c.previous.Current(); cur != nil {
			prev = cur
		}
	}
	candidates := c.candidates(prev)
	c.logger.Info("collecting", "sources", len(selected), "candidates", len(candidates))

	outputs := make([]map[string]kb.Record, len(selected))
	results := make([]SourceResult, len(selected))

	var g errgroup.Group
	for i, src := range selected {
		g.Go(func() error {
			outputs[i], results[i] = c.runSource(ctx, src, candidates)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var failures []*errors.SourceError
	layers := make(map[string]map[string]kb.Record, len(c.sources))
	for i, res := range results {
		if res.Failed() {
			failures = append(failures, &errors.SourceError{Source: res.Name, Err: res.Err})
			carried := carryForward(prev, res.Name)
			results[i].CarriedOver = len(carried)
			layers[res.Name] = carried
			continue
		}
		layers[res.Name] = outputs[i]
	}
	for _, src := range c.sources {
		if _, ok := layers[src.Name()]; !ok {
			carried := carryForward(prev, src.Name())
			layers[src.Name()] = carried
			results = append(results, SourceResult{Name: src.Name(), Skipped: true, CarriedOver: len(carried)})
		}
	}
	sort.SliceStable(results, func(i, j int) bool { return mergeRank(results[i].Name) < mergeRank(results[j].Name) })
	c.setResults(results)

	if len(failures) == len(selected) {
		return nil, errors.CollectionFailed(failures)
	}

	merged := Merge(layers)
	snap := kb.NewSnapshot(merged, kb.Metadata{
		LastUpdated:  c.now().UTC(),
		SourceCounts: countSources(merged),
	})
	c.last.Store(snap)
	c.logger.Info("collection complete", "packages", snap.Len(), "failed_sources", len(failures))
	return snap, nil
}

func (c *Collector) runSource(ctx context.Context, src Source, candidates []string) (map[string]kb.Record, SourceResult) {
	name := src.Name()
	sc := c.cfg.Source(name)
	hooks := observability.Collector()
	hooks.OnSourceStart(ctx, name, len(candidates))

	sctx, cancel := context.WithTimeout(ctx, sc.Timeout)
	defer cancel()

	start := time.Now()
	records, err := src.Collect(sctx, candidates)
	if err == nil && sctx.Err() != nil {
		err = sctx.Err()
	}
	if err != nil && sctx.Err() == context.DeadlineExceeded {
		err = errors.Wrap(errors.ErrCodeTimeout, err, "source %s timed out after %s", name, sc.Timeout)
	}
	res := SourceResult{Name: name, Count: len(records), Err: err, Duration: time.Since(start)}
	hooks.OnSourceComplete(ctx, name, res.Count, res.Duration, err)

	if err != nil {
		c.logger.Warn("source failed", "source", name, "err", err)
		return nil, res
	}
	for key, r := range records {
		r.Source = name
		records[key] = r
	}
	c.logger.Debug("source complete", "source", name, "records", res.Count, "duration", res.Duration)
	return records, res
}

// candidates is the configured watchlist plus every package already
// known, plus names contributed by candidate sources.
func (c *Collector) candidates(prev *kb.Snapshot) []string {
	names := make([]string, 0, len(c.cfg.Watchlist)+prev.Len())
	names = append(names, c.cfg.Watchlist...)
	names = append(names, prev.Names()...)
	for _, src := range c.sources {
		if cs, ok := src.(CandidateSource); ok {
			names = append(names, cs.Candidates()...)
		}
	}
	names = lo.Uniq(lo.FilterMap(names, func(n string, _ int) (string, bool) {
		n = deps.NormalizeName(n)
		return n, n != ""
	}))
	sort.Strings(names)
	return names
}

func (c *Collector) setResults(results []SourceResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = results
}

// LastResults returns the per-source outcome of the most recent collection.
func (c *Collector) LastResults() []SourceResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.results)
}

// Statistics describes the last successful collection, or the snapshot
// in service when nothing has been collected yet.
func (c *Collector) Statistics() Statistics {
	snap := c.last.Load()
	if snap == nil && c.previous != nil {
		snap = c.previous.Current()
	}
	if snap == nil {
		snap = kb.Empty()
	}
	return StatisticsOf(snap)
}

// StatisticsOf summarizes a snapshot.
func StatisticsOf(snap *kb.Snapshot) Statistics {
	st := Statistics{TotalPackages: snap.Len(), Sources: snap.SourceCounts()}
	if t := snap.Metadata().LastUpdated; !t.IsZero() {
		st.LastUpdated = &t
	}
	return st
}

// carryForward returns the previous records source contributed, as that
// source's layer. Each one is attributed to source alone so the merge
// rebuilds provenance from the layers.
func carryForward(prev *kb.Snapshot, source string) map[string]kb.Record {
	carried := prev.BySource(source)
	for key, r := range carried {
		r.Source = source
		r.Sources = nil
		carried[key] = r
	}
	return carried
}

// Merge layers per-source records in [MergeOrder]. Sources not named in
// MergeOrder are applied after security, alphabetically. Every merged
// record lists the layers that reported it in Sources.
func Merge(layers map[string]map[string]kb.Record) map[string]kb.Record {
	order := lo.Keys(layers)
	sortByMergeOrder(order)

	merged := make(map[string]kb.Record)
	for _, source := range order {
		for key, r := range layers[source] {
			key = deps.NormalizeName(key)
			existing, ok := merged[key]
			sources := append(slices.Clone(existing.Sources), source)
			if ok && source != SourceManual {
				r = overlay(existing, r)
			}
			r.Sources = sources
			merged[key] = r
		}
	}
	return merged
}

// overlay copies the non-empty fields of next over base.
func overlay(base, next kb.Record) kb.Record {
	if next.DeprecatedSince != "" {
		base.DeprecatedSince = next.DeprecatedSince
	}
	if next.Reason != "" {
		base.Reason = next.Reason
	}
	if len(next.Alternatives) > 0 {
		base.Alternatives = next.Alternatives
	}
	if next.Source != "" {
		base.Source = next.Source
	}
	return base
}

func mergeRank(name string) int {
	switch name {
	case SourcePyPI:
		return 0
	case SourceGitHub:
		return 1
	case SourceSecurity:
		return 2
	case SourceManual:
		return 4
	default:
		return 3
	}
}

func sortByMergeOrder(names []string) {
	sort.Slice(names, func(i, j int) bool {
		ri, rj := mergeRank(names[i]), mergeRank(names[j])
		if ri != rj {
			return ri < rj
		}
		return names[i] < names[j]
	})
}

func countSources(records map[string]kb.Record) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Source]++
	}
	return counts
}

// date formats t as a knowledge base date.
func date(t time.Time) string { return t.UTC().Format("2006-01-02") }
