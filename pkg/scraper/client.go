package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"schedulectl/pkg/cache"
	"schedulectl/pkg/config"
	"schedulectl/pkg/timetable"
)

const maxAttempts = 3

// Client handles HTTP requests to the timetable website
type Client struct {
	baseURL      string
	schedulePath string
	httpClient   *http.Client
	limiter      *rate.Limiter
	cache        cache.Cache
	locator      *timetable.Locator
	log          *zap.Logger
	retryDelay   time.Duration
}

// Option customizes a Client
type Option func(*Client)

// WithBaseURL points the client at another timetable site.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithSchedulePath sets the page template of one subject, %s receives the escaped id.
func WithSchedulePath(p string) Option {
	return func(c *Client) { c.schedulePath = p }
}

// WithCache stores parsed schedules between runs.
func WithCache(ch cache.Cache) Option {
	return func(c *Client) { c.cache = ch }
}

// WithLogger sets the logger used by the client and its parser.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithRateLimit allows n requests per interval towards the site.
func WithRateLimit(n int, per time.Duration) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Every(per), n) }
}

// NewClient creates a new scraper client
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:      config.DefaultBaseURL,
		schedulePath: config.DefaultSchedulePath,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter:    rate.NewLimiter(rate.Every(500*time.Millisecond), 2),
		cache:      cache.Nop{},
		log:        zap.NewNop(),
		retryDelay: time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.locator = &timetable.Locator{Labels: timetable.DefaultLabels, Log: c.log}
	return c
}

// NewClientFromConfig wires a client from the user's settings.
func NewClientFromConfig(cfg *config.AppConfig, opts ...Option) *Client {
	base := []Option{
		WithBaseURL(cfg.BaseURLOrDefault()),
		WithSchedulePath(cfg.SchedulePathOrDefault()),
	}
	return NewClient(append(base, opts...)...)
}

// Get fetches the given path, retrying up to 3 times on 502/503/504 and network errors
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(path, "/"))

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		// Add expected headers
		req.Header.Set("User-Agent", "schedulectl/1.0")

		resp, err := c.httpClient.Do(req)
		switch {
		case err != nil:
			lastErr = fmt.Errorf("failed to fetch %s: %w", url, err)
		case isTransient(resp.StatusCode):
			resp.Body.Close()
			lastErr = fmt.Errorf("transient status code %d when fetching %s", resp.StatusCode, url)
		case resp.StatusCode != http.StatusOK:
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status code %d when fetching %s", resp.StatusCode, url)
		default:
			return resp, nil
		}

		if ctx.Err() != nil {
			return nil, lastErr
		}
		if attempt < maxAttempts {
			c.log.Warn("timetable site unavailable, retrying",
				zap.Int("attempt", attempt),
				zap.Error(lastErr))

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * c.retryDelay):
			}
		}
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", maxAttempts, lastErr)
}

func isTransient(code int) bool {
	return code == http.StatusBadGateway || code == http.StatusServiceUnavailable || code == http.StatusGatewayTimeout
}
