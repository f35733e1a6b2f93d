package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/julicq/is-deprecated-or-not/pkg/integrations"
	"github.com/julicq/is-deprecated-or-not/pkg/integrations/github"
	"github.com/julicq/is-deprecated-or-not/pkg/kb"
)

// RepoFetcher fetches repository metrics.
type RepoFetcher interface {
	Fetch(ctx context.Context, owner, repo string, refresh bool) (*integrations.RepoMetrics, error)
}

// GitHubSource flags packages whose source repository is archived. The
// repository is located through the package's PyPI project URLs.
type GitHubSource struct {
	packages    PackageFetcher
	repos       RepoFetcher
	concurrency int
	now         func() time.Time
}

// NewGitHubSource creates the "github" source.
func NewGitHubSource(packages PackageFetcher, repos RepoFetcher, concurrency int) *GitHubSource {
	return &GitHubSource{packages: packages, repos: repos, concurrency: concurrency, now: time.Now}
}

func (s *GitHubSource) Name() string { return SourceGitHub }

func (s *GitHubSource) Collect(ctx context.Context, candidates []string) (map[string]kb.Record, error) {
	return lookupAll(ctx, SourceGitHub, candidates, s.concurrency, func(ctx context.Context, name string) (kb.Record, bool, error) {
		info, err := s.packages.FetchPackage(ctx, name, false)
		if err != nil {
			return kb.Record{}, false, err
		}
		owner, repo, ok := github.ExtractURL(info.ProjectURLs, info.HomePage)
		if !ok {
			return kb.Record{}, false, nil
		}
		m, err := s.repos.Fetch(ctx, owner, repo, false)
		if err != nil {
			return kb.Record{}, false, err
		}
		if !m.Archived {
			return kb.Record{}, false, nil
		}

		since := s.now()
		if m.PushedAt != nil {
			since = *m.PushedAt
		}
		return kb.Record{
			DeprecatedSince: date(since),
			Reason:          fmt.Sprintf("Source repository %s/%s is archived on GitHub", m.Owner, m.Name),
			Alternatives:    suggestedAlternatives(name, m.Desc, "Named in the archived repository description"),
		}, true, nil
	})
}
