package osv

import (
	"context"
	"strings"
	"time"

	"github.com/julicq/is-deprecated-or-not/pkg/cache"
	"github.com/julicq/is-deprecated-or-not/pkg/integrations"
)

// Ecosystem is the OSV ecosystem name for Python packages.
const Ecosystem = "PyPI"

// Vulnerability is one advisory affecting a package.
type Vulnerability struct {
	ID         string      `json:"id"`
	Summary    string      `json:"summary,omitempty"`
	Details    string      `json:"details,omitempty"`
	Aliases    []string    `json:"aliases,omitempty"`
	Published  *time.Time  `json:"published,omitempty"`
	Modified   *time.Time  `json:"modified,omitempty"`
	Withdrawn  *time.Time  `json:"withdrawn,omitempty"`
	References []Reference `json:"references,omitempty"`
}

// Reference is a link attached to an advisory.
type Reference struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// Text returns summary and details joined, for keyword matching.
func (v *Vulnerability) Text() string {
	return strings.TrimSpace(v.Summary + "\n" + v.Details)
}

// Advisory returns the first ADVISORY or WEB reference URL, if any.
func (v *Vulnerability) Advisory() string {
	for _, want := range []string{"ADVISORY", "WEB"} {
		for _, r := range v.References {
			if r.Type == want {
				return r.URL
			}
		}
	}
	return ""
}

// Client queries the OSV API.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates an OSV client with the given cache backend.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "osv:", cacheTTL, nil),
		baseURL: "https://api.osv.dev/v1",
	}
}

// WithBaseURL points the client at another API root (tests, mirrors).
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// Query returns the advisories recorded for a PyPI package. Withdrawn
// advisories are dropped. A package without advisories yields an empty
// slice, not an error.
func (c *Client) Query(ctx context.Context, pkg string, refresh bool) ([]Vulnerability, error) {
	pkg = integrations.NormalizePkgName(pkg)

	var vulns []Vulnerability
	err := c.Cached(ctx, pkg, refresh, &vulns, func() error {
		var resp queryResponse
		req := queryRequest{Package: packageRef{Name: pkg, Ecosystem: Ecosystem}}
		if err := c.PostJSON(ctx, c.baseURL+"/query", req, &resp); err != nil {
			return err
		}
		vulns = vulns[:0]
		for _, v := range resp.Vulns {
			if v.Withdrawn == nil {
				vulns = append(vulns, v)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if vulns == nil {
		vulns = []Vulnerability{}
	}
	return vulns, nil
}

type queryRequest struct {
	Package packageRef `json:"package"`
}

type packageRef struct {
	Name      string `json:"name"`
	Ecosystem string `json:"ecosystem"`
}

type queryResponse struct {
	Vulns []Vulnerability `json:"vulns"`
}
