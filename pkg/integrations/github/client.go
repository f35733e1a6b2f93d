package github

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/julicq/is-deprecated-or-not/pkg/cache"
	"github.com/julicq/is-deprecated-or-not/pkg/integrations"
)

var repoURLPattern = regexp.MustCompile(`https?://github\.com/([^/]+)/([^/]+?)(?:\.git)?(?:[/?#]|$)`)

// Client provides access to the GitHub API for repository signals.
// It handles HTTP requests with caching, automatic retries, and optional authentication.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitHub API client with optional authentication.
// Pass an empty string for token to use unauthenticated requests (lower rate limits).
func NewClient(backend cache.Cache, token string, cacheTTL time.Duration) *Client {
	headers := map[string]string{"Accept": "application/vnd.github+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	return &Client{
		Client:  integrations.NewClient(backend, "github:", cacheTTL, headers),
		baseURL: "https://api.github.com",
	}
}

// WithBaseURL points the client at another API root (tests, GitHub Enterprise).
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// Fetch retrieves repository metrics (archived flag, activity) from GitHub.
// If refresh is true, cached data is bypassed.
func (c *Client) Fetch(ctx context.Context, owner, repo string, refresh bool) (*integrations.RepoMetrics, error) {
	key := strings.ToLower(owner + "/" + repo)

	var m integrations.RepoMetrics
	err := c.Cached(ctx, key, refresh, &m, func() error {
		return c.fetchMetrics(ctx, owner, repo, &m)
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) fetchMetrics(ctx context.Context, owner, repo string, m *integrations.RepoMetrics) error {
	var data repoResponse
	url := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, repo)
	if err := c.Get(ctx, url, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: github repo %s/%s", err, owner, repo)
		}
		return err
	}

	*m = integrations.RepoMetrics{
		RepoURL:  data.HTMLURL,
		Owner:    data.Owner.Login,
		Name:     data.Name,
		Archived: data.Archived,
		PushedAt: data.PushedAt,
		Homepage: data.Homepage,
		Stars:    data.Stars,
		Desc:     data.Description,
	}
	if m.RepoURL == "" {
		m.RepoURL = fmt.Sprintf("https://github.com/%s/%s", owner, repo)
	}
	if m.Owner == "" {
		m.Owner, m.Name = owner, repo
	}
	return nil
}

// ExtractURL finds the GitHub repository referenced by a package's project
// URLs or homepage.
func ExtractURL(urls map[string]string, homepage string) (owner, repo string, ok bool) {
	return integrations.ExtractRepoURL(repoURLPattern, urls, homepage)
}

type repoResponse struct {
	Name        string     `json:"name"`
	HTMLURL     string     `json:"html_url"`
	Description string     `json:"description"`
	Homepage    string     `json:"homepage"`
	Stars       int        `json:"stargazers_count"`
	PushedAt    *time.Time `json:"pushed_at"`
	Archived    bool       `json:"archived"`
	Owner       struct {
		Login string `json:"login"`
	} `json:"owner"`
}
