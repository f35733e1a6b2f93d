package pypi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/julicq/is-deprecated-or-not/pkg/cache"
	"github.com/julicq/is-deprecated-or-not/pkg/integrations"
)

// InactiveClassifier marks a project its maintainers consider abandoned.
const InactiveClassifier = "Development Status :: 7 - Inactive"

const memoSize = 512

// PackageInfo holds metadata for a Python package from PyPI.
//
// Package names are normalized following PEP 503 (lowercase, underscores→hyphens).
// This struct is safe for concurrent reads after construction.
type PackageInfo struct {
	Name         string            `json:"name"`                    // Normalized package name
	Version      string            `json:"version"`                 // Latest version string
	Summary      string            `json:"summary,omitempty"`       // Short package description
	License      string            `json:"license,omitempty"`       // License name or expression
	Classifiers  []string          `json:"classifiers,omitempty"`   // Trove classifiers
	ProjectURLs  map[string]string `json:"project_urls,omitempty"`  // Project URLs ("Source", "Homepage", ...)
	HomePage     string            `json:"home_page,omitempty"`     // Homepage URL
	Yanked       bool              `json:"yanked"`                  // Every file of the latest version is yanked
	YankedReason string            `json:"yanked_reason,omitempty"` // Reason given when yanking
	ReleasedAt   *time.Time        `json:"released_at,omitempty"`   // Upload time of the latest version
}

// Inactive reports whether the package carries the inactive trove classifier.
func (p *PackageInfo) Inactive() bool {
	for _, c := range p.Classifiers {
		if strings.TrimSpace(c) == InactiveClassifier {
			return true
		}
	}
	return false
}

// Client provides access to the PyPI package registry API.
// It handles HTTP requests with caching and automatic retries, and keeps
// recently fetched packages in an in-process memo so one collection run
// never asks twice.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
	memo    *expirable.LRU[string, *PackageInfo]
}

// NewClient creates a PyPI client with the given cache backend.
//
// Parameters:
//   - backend: Cache backend for HTTP response caching (nil disables caching)
//   - cacheTTL: How long responses are cached (typical: 1-24 hours)
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "pypi:", cacheTTL, nil),
		baseURL: "https://pypi.org/pypi",
		memo:    expirable.NewLRU[string, *PackageInfo](memoSize, nil, cacheTTL),
	}
}

// WithBaseURL points the client at another index (tests, mirrors).
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// FetchPackage retrieves metadata for a Python package from PyPI.
//
// The pkg parameter is normalized automatically (case-insensitive, underscores→hyphens).
// If refresh is true, both the memo and the cache are bypassed.
//
// Returns:
//   - PackageInfo populated with metadata on success
//   - [integrations.ErrNotFound] if the package doesn't exist
//   - [integrations.ErrNetwork] for HTTP failures (timeout, 5xx, etc.)
func (c *Client) FetchPackage(ctx context.Context, pkg string, refresh bool) (*PackageInfo, error) {
	pkg = integrations.NormalizePkgName(pkg)
	if !refresh {
		if info, ok := c.memo.Get(pkg); ok {
			return info, nil
		}
	}

	var info PackageInfo
	err := c.Cached(ctx, pkg, refresh, &info, func() error {
		return c.fetch(ctx, pkg, &info)
	})
	if err != nil {
		return nil, err
	}
	c.memo.Add(pkg, &info)
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, pkg string, info *PackageInfo) error {
	var data apiResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/%s/json", c.baseURL, pkg), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: pypi package %s", err, pkg)
		}
		return err
	}

	urls := make(map[string]string, len(data.Info.ProjectURLs))
	for k, v := range data.Info.ProjectURLs {
		if s, ok := v.(string); ok {
			urls[k] = s
		}
	}

	*info = PackageInfo{
		Name:         integrations.NormalizePkgName(data.Info.Name),
		Version:      data.Info.Version,
		Summary:      strings.TrimSpace(data.Info.Summary),
		License:      extractLicenseType(data.Info.License, data.Info.Classifiers),
		Classifiers:  data.Info.Classifiers,
		ProjectURLs:  urls,
		HomePage:     data.Info.HomePage,
		Yanked:       allYanked(data.URLs) || data.Info.Yanked,
		YankedReason: yankedReason(data),
		ReleasedAt:   releasedAt(data.URLs),
	}
	return nil
}

func allYanked(files []apiFile) bool {
	if len(files) == 0 {
		return false
	}
	for _, f := range files {
		if !f.Yanked {
			return false
		}
	}
	return true
}

func yankedReason(data apiResponse) string {
	if s, ok := data.Info.YankedReason.(string); ok && s != "" {
		return s
	}
	for _, f := range data.URLs {
		if f.YankedReason != "" {
			return f.YankedReason
		}
	}
	return ""
}

func releasedAt(files []apiFile) *time.Time {
	var latest *time.Time
	for _, f := range files {
		t, err := time.Parse(time.RFC3339, f.UploadTime)
		if err != nil {
			continue
		}
		if latest == nil || t.After(*latest) {
			latest = &t
		}
	}
	return latest
}

type apiResponse struct {
	Info apiInfo   `json:"info"`
	URLs []apiFile `json:"urls"`
}

type apiInfo struct {
	Name         string         `json:"name"`
	Version      string         `json:"version"`
	Summary      string         `json:"summary"`
	License      string         `json:"license"`
	Classifiers  []string       `json:"classifiers"`
	ProjectURLs  map[string]any `json:"project_urls"`
	HomePage     string         `json:"home_page"`
	Yanked       bool           `json:"yanked"`
	YankedReason any            `json:"yanked_reason"`
}

type apiFile struct {
	Filename     string `json:"filename"`
	UploadTime   string `json:"upload_time_iso_8601"`
	Yanked       bool   `json:"yanked"`
	YankedReason string `json:"yanked_reason"`
}

// extractLicenseType extracts a short license identifier from PyPI data.
// It prefers the classifier (e.g., "License :: OSI Approved :: MIT License" -> "MIT License")
// and falls back to the first line of the license field.
func extractLicenseType(license string, classifiers []string) string {
	for _, c := range classifiers {
		if parts := strings.Split(c, " :: "); len(parts) >= 3 && parts[0] == "License" {
			return parts[len(parts)-1]
		}
	}
	line, _, _ := strings.Cut(strings.TrimSpace(license), "\n")
	if len(line) < 100 {
		return strings.TrimSpace(line)
	}
	return ""
}
