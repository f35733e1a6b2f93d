package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/julicq/is-deprecated-or-not/pkg/integrations/osv"
	"github.com/julicq/is-deprecated-or-not/pkg/kb"
)

// AdvisoryFetcher lists security advisories for a package.
type AdvisoryFetcher interface {
	Query(ctx context.Context, pkg string, refresh bool) ([]osv.Vulnerability, error)
}

// SecuritySource flags packages with an advisory that declares them
// unmaintained or deprecated. Ordinary vulnerabilities are ignored.
type SecuritySource struct {
	client      AdvisoryFetcher
	concurrency int
	now         func() time.Time
}

// NewSecuritySource creates the "security" source.
func NewSecuritySource(client AdvisoryFetcher, concurrency int) *SecuritySource {
	return &SecuritySource{client: client, concurrency: concurrency, now: time.Now}
}

func (s *SecuritySource) Name() string { return SourceSecurity }

func (s *SecuritySource) Collect(ctx context.Context, candidates []string) (map[string]kb.Record, error) {
	return lookupAll(ctx, SourceSecurity, candidates, s.concurrency, func(ctx context.Context, name string) (kb.Record, bool, error) {
		vulns, err := s.client.Query(ctx, name, false)
		if err != nil {
			return kb.Record{}, false, err
		}
		for _, v := range vulns {
			text := v.Text()
			if !mentionsDeprecation(text) {
				continue
			}
			since := s.now()
			if v.Published != nil {
				since = *v.Published
			}
			reason := v.Summary
			if reason == "" {
				reason = "Declared unmaintained by security advisory " + v.ID
			}
			if url := v.Advisory(); url != "" {
				reason = fmt.Sprintf("%s (%s)", reason, url)
			}
			return kb.Record{
				DeprecatedSince: date(since),
				Reason:          reason,
				Alternatives:    suggestedAlternatives(name, text, "Recommended by advisory "+v.ID),
			}, true, nil
		}
		return kb.Record{}, false, nil
	})
}
