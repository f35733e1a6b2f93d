package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/julicq/is-deprecated-or-not/pkg/integrations/pypi"
	"github.com/julicq/is-deprecated-or-not/pkg/kb"
)

// PackageFetcher fetches package index metadata.
type PackageFetcher interface {
	FetchPackage(ctx context.Context, pkg string, refresh bool) (*pypi.PackageInfo, error)
}

// PyPISource flags packages whose index metadata marks them as abandoned.
type PyPISource struct {
	client      PackageFetcher
	concurrency int
	now         func() time.Time
}

// NewPyPISource creates the "pypi" source.
func NewPyPISource(client PackageFetcher, concurrency int) *PyPISource {
	return &PyPISource{client: client, concurrency: concurrency, now: time.Now}
}

func (s *PyPISource) Name() string { return SourcePyPI }

func (s *PyPISource) Collect(ctx context.Context, candidates []string) (map[string]kb.Record, error) {
	return lookupAll(ctx, SourcePyPI, candidates, s.concurrency, func(ctx context.Context, name string) (kb.Record, bool, error) {
		info, err := s.client.FetchPackage(ctx, name, false)
		if err != nil {
			return kb.Record{}, false, err
		}
		rec, ok := s.assess(info)
		return rec, ok, nil
	})
}

// assess turns package metadata into a record when any deprecation signal
// is present. The strongest signal provides the reason.
func (s *PyPISource) assess(info *pypi.PackageInfo) (kb.Record, bool) {
	since := s.now()
	if info.ReleasedAt != nil {
		since = *info.ReleasedAt
	}

	var reason string
	switch {
	case info.Inactive():
		reason = fmt.Sprintf("Marked inactive on PyPI (%s)", pypi.InactiveClassifier)
	case mentionsDeprecation(info.Summary):
		reason = info.Summary
	case info.Yanked:
		reason = fmt.Sprintf("Every file of the latest release %s was yanked from PyPI", info.Version)
		if info.YankedReason != "" {
			reason += ": " + info.YankedReason
		}
	default:
		return kb.Record{}, false
	}

	return kb.Record{
		DeprecatedSince: date(since),
		Reason:          reason,
		Alternatives:    suggestedAlternatives(info.Name, info.Summary+"\n"+info.YankedReason, "Suggested by the package maintainers"),
	}, true
}
