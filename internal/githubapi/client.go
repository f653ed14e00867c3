package githubapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sukruthimodem/expertiza/pkg/logger"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const defaultGraphQLEndpoint = "https://api.github.com/graphql"

// ClientOptions configures the GraphQL client. Zero values fall back to
// sensible defaults.
type ClientOptions struct {
	Endpoint        string
	Timeout         time.Duration
	MaxRetries      int
	MaxPages        int
	RequestsPerHour int
}

// Client executes GitHub GraphQL queries with bearer authentication,
// client-side rate limiting, and bounded retries on transient failures.
type Client struct {
	httpClient *http.Client
	endpoint   string
	maxRetries int
	maxPages   int
	limiter    *rate.Limiter
}

// NewClient creates an authenticated GraphQL client for the given token
func NewClient(token string, opts ClientOptions) *Client {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = defaultGraphQLEndpoint
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	requestsPerHour := opts.RequestsPerHour
	if requestsPerHour <= 0 {
		requestsPerHour = 4500
	}

	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), source)
	httpClient.Timeout = timeout

	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		maxRetries: maxRetries,
		maxPages:   opts.MaxPages,
		limiter:    rate.NewLimiter(rate.Limit(float64(requestsPerHour)/3600.0), 10),
	}
}

// Execute posts one GraphQL query and decodes the response body into out.
// Network errors, 429s, and 5xx responses are retried with exponential
// backoff up to the configured attempt count; other non-200 statuses fail
// immediately.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(map[string]interface{}{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal query: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			logger.WithFields(map[string]interface{}{
				"attempt": attempt,
				"backoff": backoff.String(),
			}).Warn("Retrying GitHub GraphQL request")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		payload, retryable, err := c.post(ctx, body)
		if err != nil {
			lastErr = err
			if retryable {
				continue
			}
			return err
		}

		return json.Unmarshal(payload, out)
	}

	return fmt.Errorf("github graphql request failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

// post performs a single request, returning the raw body and whether a
// failure is worth retrying.
func (c *Client) post(ctx context.Context, body []byte) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return payload, false, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("github api returned status %d", resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("github api returned status %d", resp.StatusCode)
	}
}
