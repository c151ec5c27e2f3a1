package pharmacy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// Client is the HTTP client shared by every site adapter. It applies a
// per-host rate limit so that fanning one query out to many adapters never
// hammers a single storefront, and tags requests with a browser-like
// User-Agent (several of the sites reject default Go clients).
type Client struct {
	httpClient *http.Client
	perHost    rate.Limit
	burst      int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewClient builds a client limiting each host to perHostPerSec requests per
// second. The http.Client carries no timeout of its own; per-adapter
// deadlines arrive through the request context.
func NewClient(perHostPerSec float64) *Client {
	if perHostPerSec <= 0 {
		perHostPerSec = 2
	}
	return &Client{
		httpClient: &http.Client{},
		perHost:    rate.Limit(perHostPerSec),
		burst:      2,
		limiters:   make(map[string]*rate.Limiter),
	}
}

func (c *Client) limiter(host string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.limiters[host]
	if !ok {
		l = rate.NewLimiter(c.perHost, c.burst)
		c.limiters[host] = l
	}
	return l
}

// Get fetches a URL, honoring the host's rate limit and the context deadline.
// Non-2xx statuses are returned as errors; the body is fully read so the
// caller gets one buffer to parse.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if err := c.limiter(u.Host).Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "es-PE,es;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("status %d from %s", resp.StatusCode, u.Host)
	}
	return body, nil
}
