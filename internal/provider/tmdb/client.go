// Package tmdb provides the HTTP client for the TMDb API.
//
// TMDb uses api_key query-parameter auth and page-based pagination. All
// calls go through a shared concurrency pool so per-movie enrichment
// fan-out cannot exceed the parallelism TMDb tolerates.
package tmdb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/streamlist/streamlist-data/internal/limiter"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	posterBase     = "https://image.tmdb.org/t/p/w500"
	backdropBase   = "https://image.tmdb.org/t/p/w1280"
)

// Client is the HTTP client for TMDb endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	pool       *limiter.Pool
	attempts   int
	pageDelay  time.Duration
	logger     *slog.Logger
}

// NewClient creates a TMDb client whose calls are bounded by pool.
func NewClient(apiKey string, pool *limiter.Pool, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		pool:       pool,
		attempts:   1,
		pageDelay:  discoverPageDelay,
		logger:     logger,
	}
}

// WithRetries enables bounded retries with backoff for transport errors and
// 5xx responses. attempts includes the first try, so 1 keeps the default
// single-attempt behavior. Client errors (4xx) are never retried.
func (c *Client) WithRetries(attempts int) *Client {
	if attempts > 1 {
		c.attempts = attempts
	}
	return c
}

// get performs a pool-bounded GET and returns the final status code and
// body. Transport failures surface as errors; non-2xx statuses are handed
// back for the caller to interpret.
func (c *Client) get(ctx context.Context, path string, params url.Values) (status int, body []byte, err error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	u := c.baseURL + path + "?" + params.Encode()

	err = c.pool.Do(ctx, func(ctx context.Context) error {
		return retry.Do(
			func() error {
				var rerr error
				status, body, rerr = c.doOnce(ctx, path, u)
				if rerr != nil {
					return rerr
				}
				if status >= http.StatusInternalServerError {
					return fmt.Errorf("tmdb %s returned %d: %s", path, status, truncate(body, 200))
				}
				return nil
			},
			retry.Attempts(uint(c.attempts)),
			retry.Context(ctx),
			retry.LastErrorOnly(true),
		)
	})
	if err != nil && status >= http.StatusInternalServerError {
		// A 5xx that survived the retry budget is a non-success status,
		// not a transport failure. Hand it back like any other bad status.
		return status, body, nil
	}
	return status, body, err
}

func (c *Client) doOnce(ctx context.Context, path, u string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("http request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}

// PosterURL builds the full w500 poster URL for a TMDb image path.
// Returns "" when the path is empty.
func PosterURL(path string) string {
	if path == "" {
		return ""
	}
	return posterBase + path
}

// BackdropURL builds the full w1280 backdrop URL for a TMDb image path.
// Returns "" when the path is empty.
func BackdropURL(path string) string {
	if path == "" {
		return ""
	}
	return backdropBase + path
}
