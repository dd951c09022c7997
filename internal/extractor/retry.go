package extractor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultMaxAttempts is the total number of tries per API call when the
	// provider config leaves max_retries unset.
	DefaultMaxAttempts = 3
	// DefaultRetryDelay is the pause between tries.
	DefaultRetryDelay = 2 * time.Second
)

// Response carries the pieces of an HTTP reply the providers need after the
// body has been drained and the connection closed.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// DoWithRetry executes the request produced by build, retrying transport
// errors and 5xx responses up to attempts times with delay between tries.
// build runs once per attempt because request bodies are consumed on send.
// Any other status, including 429, returns immediately so the caller can map
// it; burning retries against a rate limit only extends the limit.
func DoWithRetry(ctx context.Context, client *http.Client, attempts int, delay time.Duration, build func() (*http.Request, error)) (*Response, error) {
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := build()
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("reading response: %w", err)
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error (status %d): %s", resp.StatusCode, truncateBody(string(body), 200))
			continue
		}

		return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", attempts, lastErr)
}

func truncateBody(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
