package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"content_ingester/internal/config"
	"content_ingester/internal/metrics"
)

// ErrUnexpectedStatus is returned for non-2xx responses that are not retried
// or that keep failing after all attempts.
var ErrUnexpectedStatus = errors.New("unexpected status")

// StatusError carries the status code of a failed upstream response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status: %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status: %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// Authenticator decorates an outgoing request with credentials.
type Authenticator func(req *http.Request)

// BearerAuth sets an Authorization: Bearer header.
func BearerAuth(token string) Authenticator {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// HeaderAuth sets a static API key header.
func HeaderAuth(name, key string) Authenticator {
	return func(req *http.Request) {
		req.Header.Set(name, key)
	}
}

// QueryAuth adds the key as a query parameter.
func QueryAuth(param, key string) Authenticator {
	return func(req *http.Request) {
		q := req.URL.Query()
		q.Set(param, key)
		req.URL.RawQuery = q.Encode()
	}
}

// Client is a rate-limited JSON client for one upstream platform API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	auth           Authenticator
	limiter        *rate.Limiter
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	platform       string
	logger         *slog.Logger
}

// New creates a client for platform from its configuration.
func New(platform string, cfg config.PlatformConfig, auth Authenticator, logger *slog.Logger) *Client {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	attempts := cfg.Retry.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		auth:           auth,
		limiter:        rate.NewLimiter(limit, burst),
		maxAttempts:    attempts,
		initialBackoff: cfg.Retry.InitialBackoff,
		maxBackoff:     cfg.Retry.MaxBackoff,
		platform:       platform,
		logger:         logger,
	}
}

// GetJSON issues GET baseURL+path?query and decodes the JSON body into out.
// 429 and 5xx responses and transport errors are retried with exponential
// backoff; other statuses fail immediately.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var err error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		var wait time.Duration
		var retry bool
		wait, retry, err = c.attempt(ctx, u, out)
		if err == nil {
			return nil
		}
		if !retry || attempt == c.maxAttempts || ctx.Err() != nil {
			break
		}

		if wait == 0 {
			wait = c.calculateBackoff(attempt)
		}
		metrics.IncAPIRetry(c.platform)
		c.logger.Warn("request failed, retrying",
			"attempt", attempt,
			"backoff", wait,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return err
}

func (c *Client) attempt(ctx context.Context, u string, out any) (time.Duration, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, false, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, false, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ContentIngester/1.0")
	if c.auth != nil {
		c.auth(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, true, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return retryAfter(resp.Header.Get("Retry-After"), c.maxBackoff), retryable, statusErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return 0, false, fmt.Errorf("decode response: %w", err)
	}

	return 0, false, nil
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if c.maxBackoff > 0 && backoff > c.maxBackoff {
		backoff = c.maxBackoff
	}
	return backoff
}

func retryAfter(header string, ceiling time.Duration) time.Duration {
	if header == "" {
		return 0
	}
	var wait time.Duration
	if secs, err := strconv.Atoi(header); err == nil {
		wait = time.Duration(secs) * time.Second
	} else if t, err := http.ParseTime(header); err == nil {
		wait = time.Until(t)
	}
	if wait < 0 {
		return 0
	}
	if ceiling > 0 && wait > ceiling {
		return ceiling
	}
	return wait
}
