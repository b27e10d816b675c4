// Package fpl fetches player, club and squad data from the public Fantasy
// Premier League API.
package fpl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/fplhelper/pkg/logger"
	"github.com/okian/fplhelper/pkg/metrics"
)

// Default client configuration constants.
const (
	DefaultBaseURL   = "https://fantasy.premierleague.com/api"
	defaultUserAgent = "fplhelper/1.0"
	defaultTimeout   = 20 * time.Second
	defaultRPS       = 4
	defaultRetries   = 3
	initialBackoff   = 500 * time.Millisecond
	maxBackoff       = 8 * time.Second
	maxErrorBody     = 512
)

// Client talks to the FPL API with rate limiting and retries.
type Client struct {
	httpClient     *http.Client
	limiter        *rate.Limiter
	baseURL        string
	userAgent      string
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	log            logger.Logger
}

// NewClient creates a client with configuration options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:     &http.Client{Timeout: defaultTimeout},
		limiter:        rate.NewLimiter(rate.Limit(defaultRPS), 1),
		baseURL:        DefaultBaseURL,
		userAgent:      defaultUserAgent,
		maxRetries:     defaultRetries,
		initialBackoff: initialBackoff,
		maxBackoff:     maxBackoff,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.log == nil {
		c.log = logger.Get().Named("fpl")
	}
	return c
}

// get fetches path and returns the response body. Network errors, 429 and
// 5xx responses are retried with exponential backoff; other non-2xx
// statuses fail at once with ErrUnexpectedStatus.
func (c *Client) get(ctx context.Context, endpoint, path string) ([]byte, error) {
	url := c.baseURL + path
	backoff := c.initialBackoff
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			metrics.RecordFetchRetry()
			c.log.Warn(ctx, "retrying upstream request",
				logger.String("endpoint", endpoint),
				logger.Int("attempt", attempt),
				logger.Error(lastErr),
			)
			if err := sleep(ctx, backoff); err != nil {
				return nil, fmt.Errorf("%s: %w", endpoint, err)
			}
			backoff = min(backoff*2, c.maxBackoff)
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, retry, err := c.do(ctx, endpoint, url)
		if err == nil {
			return body, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// do performs one attempt. The bool reports whether the failure may be
// retried.
func (c *Client) do(ctx context.Context, endpoint, url string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.RecordFetch(endpoint, "network_error", elapsed)
		if ctx.Err() != nil {
			return nil, false, fmt.Errorf("HTTP request failed: %w", ctx.Err())
		}
		return nil, true, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.RecordFetch(endpoint, strconv.Itoa(resp.StatusCode), elapsed)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, true, fmt.Errorf("failed to read response body: %w", err)
		}
		return body, false, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, true, fmt.Errorf("%w: %s", ErrRateLimited, endpoint)
	default:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		err := fmt.Errorf("%w: %s returned %d: %s", ErrUnexpectedStatus, endpoint, resp.StatusCode, snippet)
		return nil, resp.StatusCode >= http.StatusInternalServerError, err
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
