// Package fetcher retrieves the remote testing dataset over HTTP and decodes
// it into a RawDataset.
package fetcher

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"nycovid/internal/config"
)

// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// Client performs the dataset fetch with a bounded timeout and a
// config-driven retry policy. It is constructed per run and discarded.
type Client struct {
	client       *http.Client
	policy       *config.FetchPolicy
	bufferSizeKb int
}

// NewClient creates a fetch client with default policy.
func NewClient() *Client {
	return NewClientWithPolicy(&config.FetchPolicy{
		MaxAttempts:       3,
		InitialDelayMs:    500,
		MaxDelayMs:        30000,
		BackoffMultiplier: 2.0,
		TimeoutSec:        30,
		BufferSizeKb:      8192,
	})
}

// NewClientWithPolicy creates a fetch client with a custom policy.
func NewClientWithPolicy(policy *config.FetchPolicy) *Client {
	return &Client{
		client: &http.Client{
			Timeout: policy.GetTimeout(),
		},
		policy:       policy,
		bufferSizeKb: policy.BufferSizeKb,
	}
}

// FetchWithMetrics returns (body, statusCode, totalDuration, error).
func (c *Client) FetchWithMetrics(url string) ([]byte, int, time.Duration, error) {
	var lastErr error

	var lastStatusCode int

	totalDuration := time.Duration(0)

	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		startTime := time.Now()

		req, err := http.NewRequest(http.MethodGet, url, http.NoBody)
		if err != nil {
			lastErr = fmt.Errorf("failed to create request: %w", err)

			continue
		}

		req.Header.Set("User-Agent", "nycovid-explorer/1.0")
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		duration := time.Since(startTime)
		totalDuration += duration

		if err != nil {
			lastErr = fmt.Errorf("request failed (attempt %d/%d): %w", attempt, c.policy.MaxAttempts, err)

			if attempt < c.policy.MaxAttempts {
				delay := c.policy.GetRetryDelay(attempt)
				if delay > 0 {
					time.Sleep(delay)
				}
			}

			continue
		}

		defer func() {
			if closeErr := resp.Body.Close(); closeErr != nil {
				lastErr = fmt.Errorf("failed to close response body: %w", closeErr)
			}
		}()
		lastStatusCode = resp.StatusCode

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)

			if attempt < c.policy.MaxAttempts && isRetryableStatus(resp.StatusCode) {
				delay := c.policy.GetRetryDelay(attempt)
				if delay > 0 {
					time.Sleep(delay)
				}
			}

			continue
		}

		// bufferSizeKb is in KB, convert to bytes
		limit := int64(c.bufferSizeKb) * 1024
		reader := io.LimitReader(resp.Body, limit)

		body, err := io.ReadAll(reader)
		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)

			continue
		}

		return body, resp.StatusCode, totalDuration, nil
	}

	return nil, lastStatusCode, totalDuration, lastErr
}

// Fetch fetches and returns the response body from the given URL.
func (c *Client) Fetch(url string) ([]byte, error) {
	body, _, _, err := c.FetchWithMetrics(url)

	return body, err
}

// ReadCacheWithMetrics returns (body, fileSize, duration, error) for a cached
// dataset file.
func (c *Client) ReadCacheWithMetrics(filePath string) ([]byte, int64, time.Duration, error) {
	startTime := time.Now()

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, 0, time.Since(startTime), fmt.Errorf("failed to stat cache file %s: %w", filePath, err)
	}

	body, err := os.ReadFile(filePath)
	duration := time.Since(startTime)

	if err != nil {
		return nil, 0, duration, fmt.Errorf("failed to read cache file %s: %w", filePath, err)
	}

	return body, fileInfo.Size(), duration, nil
}

// isRetryableStatus determines if we should retry based on HTTP status code.
func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusServiceUnavailable: // 503
		return true
	case http.StatusGatewayTimeout: // 504
		return true
	case http.StatusTooManyRequests: // 429
		return true
	case http.StatusRequestTimeout: // 408
		return true
	}

	return false
}
