package integrations

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a package or resource doesn't exist in the registry.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// RepoMetrics holds the repository-level signals fetched from GitHub.
type RepoMetrics struct {
	RepoURL   string     `json:"repo_url"`             // Canonical repository URL (https://...)
	Owner     string     `json:"owner"`                // Repository owner username
	Name      string     `json:"name"`                 // Repository name
	Archived  bool       `json:"archived"`             // Whether the repository is archived
	PushedAt  *time.Time `json:"pushed_at,omitempty"`  // Date of most recent push
	Homepage  string     `json:"homepage,omitempty"`   // Homepage configured on the repository
	Stars     int        `json:"stars"`                // Star count
	Desc      string     `json:"description,omitempty"`
}

// NewHTTPClient creates an HTTP client with a standard timeout for registry requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout, Transport: http.DefaultTransport}
}

// NormalizePkgName converts a package name to its canonical form.
// Applies lowercase and replaces underscores and dots with hyphens,
// following PEP 503 normalization rules used by PyPI.
func NormalizePkgName(name string) string {
	return pep503Replacer.Replace(strings.ToLower(strings.TrimSpace(name)))
}

var pep503Replacer = strings.NewReplacer("_", "-", ".", "-")

var repoURLReplacer = strings.NewReplacer(
	"git@github.com:", "https://github.com/",
	"git://github.com/", "https://github.com/",
)

// NormalizeRepoURL converts various repository URL formats to canonical HTTPS form.
// Handles git@, git://, and git+ prefixes, and removes .git suffixes.
// Returns empty string if raw is empty.
func NormalizeRepoURL(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "git+")
	s = repoURLReplacer.Replace(s)
	return strings.TrimSuffix(s, ".git")
}

var repoURLKeys = []string{"Source", "Source Code", "Repository", "Code", "Homepage"}

// ExtractRepoURL finds owner and repo from package URLs.
// It searches through urls using standard keys (Source, Repository, Code, Homepage)
// and falls back to homepage if no match is found. The re parameter should match
// URLs and capture owner (group 1) and repo name (group 2).
// Returns ok=false if no valid repository URL is found.
func ExtractRepoURL(re *regexp.Regexp, urls map[string]string, homepage string) (owner, repo string, ok bool) {
	match := func(u string) bool {
		if strings.Contains(u, "/sponsors/") {
			return false
		}
		if m := re.FindStringSubmatch(NormalizeRepoURL(u)); len(m) >= 3 {
			owner = m[1]
			repo = strings.TrimSuffix(m[2], ".git")
			ok = true
			return true
		}
		return false
	}

	for _, key := range repoURLKeys {
		if u, exists := urls[key]; exists && match(u) {
			return
		}
	}
	for _, u := range urls {
		if match(u) {
			return
		}
	}
	if homepage != "" {
		match(homepage)
	}
	return
}
