// Package omdb provides the HTTP client for the OMDb ratings API.
//
// OMDb enforces a hard requests-per-second cap on top of its concurrency
// tolerance, so the pool handed to this client carries a minimum inter-call
// interval in addition to the in-flight bound.
package omdb

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

const defaultBaseURL = "https://www.omdbapi.com"

// Client is the HTTP client for the OMDb API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	pool       *limiter.Pool
	attempts   int
	logger     *slog.Logger
}

// NewClient creates an OMDb client whose calls are bounded by pool.
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
		logger:     logger,
	}
}

// WithRetries enables bounded retries with backoff for transport errors and
// 5xx responses. attempts includes the first try, so 1 keeps the default
// single-attempt behavior.
func (c *Client) WithRetries(attempts int) *Client {
	if attempts > 1 {
		c.attempts = attempts
	}
	return c
}

// get performs a pool-bounded GET and returns the final status code and
// body. Transport failures surface as errors; non-2xx statuses are handed
// back for the caller to interpret.
func (c *Client) get(ctx context.Context, params url.Values) (status int, body []byte, err error) {
	params.Set("apikey", c.apiKey)
	u := c.baseURL + "/?" + params.Encode()

	err = c.pool.Do(ctx, func(ctx context.Context) error {
		return retry.Do(
			func() error {
				var rerr error
				status, body, rerr = c.doOnce(ctx, u)
				if rerr != nil {
					return rerr
				}
				if status >= http.StatusInternalServerError {
					return fmt.Errorf("omdb returned %d", status)
				}
				return nil
			},
			retry.Attempts(uint(c.attempts)),
			retry.Context(ctx),
			retry.LastErrorOnly(true),
		)
	})
	if err != nil && status >= http.StatusInternalServerError {
		return status, body, nil
	}
	return status, body, err
}

func (c *Client) doOnce(ctx context.Context, u string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("http request omdb: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}
