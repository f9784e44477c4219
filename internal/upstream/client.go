package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 8 << 20
)

// Observer receives per-request instrumentation.
type Observer interface {
	ObserveFetch(endpoint, outcome string, duration time.Duration)
	ObserveCache(endpoint string, hit bool)
}

// Client issues GET requests against the aggregation API and normalizes every
// failure into a *FetchError.
type Client struct {
	base       *url.URL
	httpClient *http.Client
	cache      *Cache
	observer   Observer
	logger     *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the transport timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithCache enables the Redis response cache.
func WithCache(cache *Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithObserver attaches fetch metrics.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithLogger sets the logger used for cache and request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient validates baseURL and builds a client. An empty base URL returns
// ErrMissingBaseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("upstream: parse base URL: %w", err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("upstream: base URL %q must be an absolute http(s) URL", baseURL)
	}
	c := &Client{
		base:       base,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// URL resolves req against the base URL.
func (c *Client) URL(req Request) string {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + req.Path
	u.RawQuery = req.Query.Encode()
	return u.String()
}

// Fetch performs req and returns the validated JSON body.
func (c *Client) Fetch(ctx context.Context, req Request) (json.RawMessage, error) {
	target := c.URL(req)
	start := time.Now()

	key, err := c.cache.BuildKey(ctx, req.String())
	if err != nil {
		c.logger.Warn("upstream cache key unavailable", slog.String("url", target), slog.Any("error", err))
		key = ""
	}
	var (
		payload []byte
		hit     bool
	)
	if key != "" {
		payload, hit, err = c.cache.Fetch(ctx, key, func(ctx context.Context) ([]byte, error) {
			return c.get(ctx, target)
		})
	} else {
		payload, err = c.get(ctx, target)
	}

	if c.observer != nil {
		if c.cache.enabled() && key != "" {
			c.observer.ObserveCache(req.Path, hit)
		}
		c.observer.ObserveFetch(req.Path, outcomeLabel(err), time.Since(start))
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(payload), nil
}

// HealthStatus is the body of the API health probe.
type HealthStatus struct {
	Status string `json:"status"`
	DB     any    `json:"db,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Health probes the API. A reachable but degraded API returns the status and an error.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	req := Health()
	body, err := c.get(ctx, c.URL(req))
	if err != nil {
		return HealthStatus{}, err
	}
	var status HealthStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return HealthStatus{}, DecodeError(c.URL(req), body, err)
	}
	if !strings.EqualFold(status.Status, "ok") {
		return status, fmt.Errorf("upstream: api %s: %s", status.Status, status.Error)
	}
	return status, nil
}

func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, URL: target, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, URL: target, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, URL: target, Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Kind: KindHTTP, URL: target, Status: resp.StatusCode, Excerpt: excerpt(body)}
	}
	if looksLikeHTML(resp.Header.Get("Content-Type"), body) {
		return nil, &FetchError{Kind: KindHTML, URL: target, Status: resp.StatusCode, Excerpt: excerpt(body)}
	}
	var probe json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, &FetchError{Kind: KindDecode, URL: target, Status: resp.StatusCode, Excerpt: excerpt(body), Err: err}
	}
	return body, nil
}

func outcomeLabel(err error) string {
	if err == nil {
		return "success"
	}
	if fe, ok := AsFetchError(err); ok {
		return string(fe.Kind)
	}
	return "error"
}
