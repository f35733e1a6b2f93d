package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/motemen/go-loghttp"
	"golang.org/x/time/rate"

	"github.com/julicq/is-deprecated-or-not/pkg/cache"
	"github.com/julicq/is-deprecated-or-not/pkg/httputil"
	"github.com/julicq/is-deprecated-or-not/pkg/observability"
)

// Client provides shared HTTP functionality for all registry API clients.
// It handles caching, retry logic, rate limiting and common request headers.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	prefix  string
	ttl     time.Duration
	headers map[string]string
	limiter *rate.Limiter
}

// NewClient creates a Client. Cache keys are stored under prefix (e.g.
// "pypi:") with the given ttl. Headers are applied to all requests made
// through this client; pass nil if none are needed. A nil cache disables
// caching.
func NewClient(c cache.Cache, prefix string, ttl time.Duration, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:    NewHTTPClient(),
		cache:   c,
		prefix:  prefix,
		ttl:     ttl,
		headers: headers,
	}
}

// SetRateLimit limits outgoing requests to rps per second. Zero or
// negative removes the limit.
func (c *Client) SetRateLimit(rps float64) {
	if rps <= 0 {
		c.limiter = nil
		return
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
}

// SetLogger logs every request and response at debug level.
func (c *Client) SetLogger(logger *log.Logger) {
	if logger == nil {
		return
	}
	c.http.Transport = &loghttp.Transport{
		Transport: c.http.Transport,
		LogRequest: func(req *http.Request) {
			logger.Debug("http request", "method", req.Method, "url", req.URL.String())
		},
		LogResponse: func(resp *http.Response) {
			logger.Debug("http response", "method", resp.Request.Method, "url", resp.Request.URL.String(), "status", resp.StatusCode)
		},
	}
}

// SetBaseTransport replaces the underlying round tripper; tests point it
// at an httptest server.
func (c *Client) SetBaseTransport(rt http.RoundTripper) {
	if lt, ok := c.http.Transport.(*loghttp.Transport); ok {
		lt.Transport = rt
		return
	}
	c.http.Transport = rt
}

// Cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache is bypassed and fetch is always called.
// The fetch function should populate v; on success, v is stored in the cache
// as JSON.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	hooks := observability.Cache()
	key = c.prefix + key
	if !refresh {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			if json.Unmarshal(data, v) == nil {
				hooks.OnCacheHit(ctx, c.prefix)
				return nil
			}
		}
		hooks.OnCacheMiss(ctx, c.prefix)
	}
	if err := httputil.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		if c.cache.Set(ctx, key, data, c.ttl) == nil {
			hooks.OnCacheSet(ctx, c.prefix, len(data))
		}
	}
	return nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
// It uses the client's default headers and handles retries automatically.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	body, err := c.doRequest(ctx, http.MethodGet, url, nil, headers)
	if err != nil {
		return err
	}
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

// PostJSON sends payload as a JSON body and decodes the JSON response into v.
func (c *Client) PostJSON(ctx context.Context, url string, payload, v any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	body, err := c.doRequest(ctx, http.MethodPost, url, data, map[string]string{"Content-Type": "application/json"})
	if err != nil {
		return err
	}
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

func (c *Client) doRequest(ctx context.Context, method, url string, payload []byte, headers map[string]string) (io.ReadCloser, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, req.URL.Host, req.URL.Path, err)
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	hooks.OnResponse(ctx, method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests, code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
