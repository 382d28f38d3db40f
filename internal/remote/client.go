package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/taskboardhq/pulse/internal/model"
)

// Client is a thin HTTP client for the task-board backend's activity
// API. It handles Bearer token authentication, JSON decoding, and
// automatic retry with exponential backoff on HTTP 429.
type Client struct {
	baseURL    string
	token      string
	sessionID  string
	httpClient *http.Client
	validator  *Validator
	maxRetries int
}

// NewClient creates a new activity API client. The baseURL should be
// the root URL of the backend (e.g. https://board.corp.example.com).
// Every request carries a per-process session ID so the backend can
// correlate the historical query with the live subscription.
func NewClient(baseURL, token string, validator *Validator) *Client {
	return &Client{
		baseURL:   trimBaseURL(baseURL),
		token:     token,
		sessionID: uuid.NewString(),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		validator:  validator,
		maxRetries: 3,
	}
}

// activityResponse is the wire shape of the historical query result.
// Events are kept raw until they have passed schema validation.
type activityResponse struct {
	Events []json.RawMessage `json:"events"`
}

// FetchActivity retrieves a page of activity events, newest first.
// Records failing schema validation are dropped; everything else is
// decoded and returned in delivery order.
func (c *Client) FetchActivity(
	ctx context.Context,
	opts FetchOptions,
) ([]model.ActivityEvent, error) {
	q := url.Values{}
	if opts.Identity != "" {
		q.Set("identity", opts.Identity)
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}

	var resp activityResponse
	if err := c.get(ctx, "/v1/activity?"+q.Encode(), &resp); err != nil {
		return nil, err
	}

	events := make([]model.ActivityEvent, 0, len(resp.Events))
	for _, raw := range resp.Events {
		if c.validator != nil && !c.validator.Check(raw) {
			continue
		}
		var e model.ActivityEvent
		if err := json.Unmarshal(raw, &e); err != nil {
			continue
		}
		events = append(events, e)
	}

	return events, nil
}

// get performs an HTTP GET, handling auth, rate limiting with
// exponential backoff, and JSON decoding.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	requestURL := c.baseURL + path

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(
			ctx, http.MethodGet, requestURL, nil,
		)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Pulse-Session", c.sessionID)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("executing request GET %s: %w", path, err)
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return fmt.Errorf("reading response body: %w", readErr)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			waitDuration := retryAfterDuration(resp, attempt)
			lastErr = fmt.Errorf("rate limited (429) on GET %s", path)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitDuration):
				continue
			}
		}

		if resp.StatusCode == http.StatusUnauthorized {
			return &AuthError{
				Message: fmt.Sprintf(
					"authentication failed (401): check your API token for %s",
					c.baseURL,
				),
			}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf(
				"unexpected status %d on GET %s: %s",
				resp.StatusCode, path, string(respBody),
			)
		}

		if result == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}

		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf(
				"unmarshaling response from GET %s: %w", path, err,
			)
		}

		return nil
	}

	return fmt.Errorf(
		"max retries (%d) exceeded: %w", c.maxRetries, lastErr,
	)
}

// retryAfterDuration reads the Retry-After header and computes a wait
// duration. Falls back to exponential backoff if the header is missing.
func retryAfterDuration(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	// Exponential backoff: 1s, 2s, 4s, ...
	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}

// trimBaseURL strips a trailing slash so path joins stay predictable.
func trimBaseURL(baseURL string) string {
	for len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	return baseURL
}
