// Package fetch provides the shared HTTP capability used by every
// listing crawl: one client with a request timeout, default headers,
// environment-driven proxy selection and optional response caching.
//
// The client performs exactly one attempt per request. Transfer-level
// retry policy belongs to whoever consumes the snapshot, not here.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mirrorlab/mirrorsnap/pkg/cache"
	"github.com/mirrorlab/mirrorsnap/pkg/observability"
)

var (
	// ErrNotFound is returned when the registry has no document at the
	// requested URL.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures: timeouts, connection
	// errors and non-2xx statuses other than 404.
	ErrNetwork = errors.New("network error")
)

const defaultTimeout = 30 * time.Second

// Config carries the knobs for a Client. The zero value gives a plain
// client with the default timeout, no proxy and no caching.
type Config struct {
	// Timeout bounds each request including body read.
	Timeout time.Duration

	// UserAgent is sent with every request when non-empty.
	UserAgent string

	// Proxy routes requests when non-nil, typically ProxyFromEnv.
	Proxy func(*http.Request) (*url.URL, error)

	// Cache stores response bodies when non-nil; CacheTTL bounds their
	// lifetime, zero meaning no expiration.
	Cache    cache.Cache
	CacheTTL time.Duration
}

// Client fetches text documents over HTTP.
type Client struct {
	http     *http.Client
	cache    cache.Cache
	cacheTTL time.Duration
	caching  bool
	headers  map[string]string
}

// NewClient builds a Client from cfg.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Proxy != nil {
		transport.Proxy = cfg.Proxy
	}

	store := cfg.Cache
	if store == nil {
		store = cache.NewNullCache()
	}

	headers := make(map[string]string)
	if cfg.UserAgent != "" {
		headers["User-Agent"] = cfg.UserAgent
	}

	return &Client{
		http:     &http.Client{Timeout: timeout, Transport: transport},
		cache:    store,
		cacheTTL: cfg.CacheTTL,
		caching:  cfg.Cache != nil,
		headers:  headers,
	}
}

// GetText performs a GET request and returns the response body as a
// string. Responses are served from and stored into the configured
// cache; cache failures are ignored in favor of the network.
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	key := cache.Key("http", url)
	if data, ok, _ := c.cache.Get(ctx, key); ok {
		observability.Cache().OnHit(ctx, "http")
		return string(data), nil
	}
	if c.caching {
		observability.Cache().OnMiss(ctx, "http")
	}

	body, err := c.doRequest(ctx, url)
	if err != nil {
		return "", err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if err := c.cache.Set(ctx, key, data, c.cacheTTL); err == nil && c.caching {
		observability.Cache().OnSet(ctx, "http", len(data))
	}
	return string(data), nil
}

func (c *Client) doRequest(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	observability.HTTP().OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	observability.HTTP().OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

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
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
