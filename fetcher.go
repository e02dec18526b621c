package findash

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	VERSION = "0.1.0"

	// DefaultRateLimit caps outgoing requests per second across all upstreams
	DefaultRateLimit = 10

	// DefaultTimeout bounds a single upstream request
	DefaultTimeout = 30 * time.Second

	maxResponseBytes = 16 << 20
)

// BuildUserAgent creates the User-Agent sent to upstreams
func BuildUserAgent(contact string) string {
	if contact == "" {
		return fmt.Sprintf("go-findash/%s", VERSION)
	}
	return fmt.Sprintf("go-findash/%s (%s)", VERSION, contact)
}

// Client performs rate-limited JSON GET requests against upstream endpoints.
// It does not retry.
type Client struct {
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithUserAgent sets the User-Agent header value
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) { c.userAgent = ua }
}

// WithRateLimit sets the request rate; zero or less disables limiting
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client with a 30s timeout and a 10 req/s limit unless overridden
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  BuildUserAgent(""),
		limiter:    rate.NewLimiter(DefaultRateLimit, 1),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON fetches endpoint with params merged into its query string and
// returns the raw body. Non-2xx statuses return a *StatusError.
func (c *Client) GetJSON(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if endpoint == "" {
		return nil, ErrNotConfigured
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if len(params) > 0 {
		q := u.Query()
		for key, values := range params {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error embeds the full request URL, token included
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = redact(u)
		}
		c.logger.Warn("upstream request failed", "endpoint", redact(u), "error", err)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("upstream response",
		"endpoint", redact(u),
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{
			Endpoint:   redact(u),
			StatusCode: resp.StatusCode,
			Body:       string(snippet),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// redact drops the query token so API keys never reach the logs
func redact(u *url.URL) string {
	clean := *u
	q := clean.Query()
	if q.Has("token") {
		q.Set("token", "REDACTED")
		clean.RawQuery = q.Encode()
	}
	return clean.String()
}
