package wappalyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxBodySize caps how much of a response body is read. The largest
// bucket file upstream is under 2MB.
const maxBodySize = 10 * 1024 * 1024

// FetchError reports a fetch that failed after exhausting its retries.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client fetches JSON documents with retries. Each attempt is bounded
// by the HTTP client timeout; after a failed attempt N the client waits
// N backoff units before trying again. There is no jitter and no
// distinction between retryable and non-retryable failures, a 404 is
// retried the same as a timeout.
type Client struct {
	httpClient  *http.Client
	userAgent   string
	retries     int
	backoffUnit time.Duration
}

// NewClient returns a Client with the given per-attempt timeout, retry
// count, and User-Agent header value.
func NewClient(timeout time.Duration, retries int, userAgent string) *Client {
	if retries < 1 {
		retries = 1
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        32,
				MaxIdleConnsPerHost: 32,
			},
		},
		userAgent:   userAgent,
		retries:     retries,
		backoffUnit: 2 * time.Second,
	}
}

// FetchJSON GETs url and decodes the body as a JSON object. Arrays and
// primitives are rejected. On failure it retries up to the configured
// limit and then returns a *FetchError wrapping the last error.
func (c *Client) FetchJSON(ctx context.Context, url string) (map[string]json.RawMessage, error) {
	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		data, err := c.fetchOnce(ctx, url)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if attempt == c.retries {
			break
		}
		select {
		case <-time.After(time.Duration(attempt) * c.backoffUnit):
		case <-ctx.Done():
			return nil, &FetchError{URL: url, Attempts: attempt, Err: ctx.Err()}
		}
	}
	return nil, &FetchError{URL: url, Attempts: c.retries, Err: lastErr}
}

func (c *Client) fetchOnce(ctx context.Context, url string) (map[string]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("bad status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("response body is not a JSON object: %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("response body is not a JSON object")
	}
	return data, nil
}
