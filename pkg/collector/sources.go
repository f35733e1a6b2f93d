package collector

import (
	"github.com/charmbracelet/log"

	"github.com/julicq/is-deprecated-or-not/pkg/cache"
	"github.com/julicq/is-deprecated-or-not/pkg/integrations/github"
	"github.com/julicq/is-deprecated-or-not/pkg/integrations/osv"
	"github.com/julicq/is-deprecated-or-not/pkg/integrations/pypi"
)

// NewSources builds the standard sources over shared registry clients.
// The PyPI client is shared by the pypi and github sources so each
// package is fetched once per collection. logger may be nil.
func NewSources(cfg Config, backend cache.Cache, logger *log.Logger) []Source {
	cfg = cfg.WithDefaults()

	pypiClient := pypi.NewClient(backend, cfg.CacheTTL)
	pypiClient.SetRateLimit(cfg.PyPI.RateLimit)
	pypiClient.SetLogger(logger)

	githubClient := github.NewClient(backend, cfg.GitHubToken, cfg.CacheTTL)
	githubClient.SetRateLimit(cfg.GitHub.RateLimit)
	githubClient.SetLogger(logger)

	osvClient := osv.NewClient(backend, cfg.CacheTTL)
	osvClient.SetRateLimit(cfg.Security.RateLimit)
	osvClient.SetLogger(logger)

	return []Source{
		NewPyPISource(pypiClient, cfg.Concurrency),
		NewGitHubSource(pypiClient, githubClient, cfg.Concurrency),
		NewSecuritySource(osvClient, cfg.Concurrency),
		NewManualSource(cfg.ManualFile),
	}
}
