package collector

import "time"

// SourceConfig controls one data source.
type SourceConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit" yaml:"rate_limit"` // requests per second, 0 = unlimited
}

// Config holds the collector settings.
type Config struct {
	PyPI     SourceConfig `mapstructure:"pypi" yaml:"pypi"`
	GitHub   SourceConfig `mapstructure:"github" yaml:"github"`
	Security SourceConfig `mapstructure:"security" yaml:"security"`
	Manual   SourceConfig `mapstructure:"manual" yaml:"manual"`

	// ManualFile is an optional YAML document layered over the embedded
	// curated list.
	ManualFile string `mapstructure:"manual_file" yaml:"manual_file,omitempty"`

	// GitHubToken authenticates GitHub API calls.
	GitHubToken string `mapstructure:"github_token" yaml:"-"`

	// Watchlist names packages to inspect even when nothing else mentions them.
	Watchlist []string `mapstructure:"watchlist" yaml:"watchlist,omitempty"`

	// Concurrency bounds the lookups a single source runs in parallel.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`

	// CacheTTL is how long registry responses are cached.
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

const (
	DefaultTimeout     = 30 * time.Second
	DefaultConcurrency = 4
	DefaultCacheTTL    = 6 * time.Hour
)

// DefaultConfig enables every source with conservative rate limits.
func DefaultConfig() Config {
	return Config{
		PyPI:        SourceConfig{Enabled: true, Timeout: DefaultTimeout, RateLimit: 10},
		GitHub:      SourceConfig{Enabled: true, Timeout: DefaultTimeout, RateLimit: 1},
		Security:    SourceConfig{Enabled: true, Timeout: DefaultTimeout, RateLimit: 5},
		Manual:      SourceConfig{Enabled: true, Timeout: 5 * time.Second},
		Watchlist:   []string{},
		Concurrency: DefaultConcurrency,
		CacheTTL:    DefaultCacheTTL,
	}
}

// WithDefaults fills zero timeouts, concurrency and cache TTL.
func (c Config) WithDefaults() Config {
	for _, sc := range []*SourceConfig{&c.PyPI, &c.GitHub, &c.Security, &c.Manual} {
		if sc.Timeout <= 0 {
			sc.Timeout = DefaultTimeout
		}
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	return c
}

// Source returns the settings for the named source. Unknown sources are
// enabled with the default timeout.
func (c Config) Source(name string) SourceConfig {
	switch name {
	case SourcePyPI:
		return c.PyPI
	case SourceGitHub:
		return c.GitHub
	case SourceSecurity:
		return c.Security
	case SourceManual:
		return c.Manual
	default:
		return SourceConfig{Enabled: true, Timeout: DefaultTimeout}
	}
}
