package jira

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Client is a thin HTTP client for the Jira REST API.
// It handles authentication, JSON marshaling, error classification and
// retry with exponential backoff on HTTP 429 and 503.
type Client struct {
	baseURL    string
	email      string
	token      string
	httpClient *http.Client
	maxRetries uint64
	maxWait    time.Duration
	logger     *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRetries sets the retry budget for throttled requests. maxWait caps a
// single wait, including waits requested through Retry-After.
func WithRetries(n uint64, maxWait time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = n
		c.maxWait = maxWait
	}
}

// NewClient creates a new Jira HTTP client. The baseURL should be the root
// URL of the Jira site. A non-empty email selects Basic auth (Jira Cloud
// API tokens); otherwise the token is sent as a Bearer Personal Access Token.
func NewClient(baseURL, email, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		email:   email,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: 3,
		maxWait:    30 * time.Second,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the site root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get performs an HTTP GET request and unmarshals the JSON response.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// Post performs an HTTP POST request with a JSON body and unmarshals the
// JSON response.
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// Put performs an HTTP PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPut, path, body, result)
}

// Delete performs an HTTP DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// throttledError marks a response worth retrying.
type throttledError struct {
	err *APIError
}

func (e *throttledError) Error() string { return e.err.Error() }

// retryAfterBackOff prefers the server's Retry-After hint over the
// exponential schedule.
type retryAfterBackOff struct {
	backoff.BackOff
	hint    time.Duration
	maxWait time.Duration
}

func (b *retryAfterBackOff) NextBackOff() time.Duration {
	next := b.BackOff.NextBackOff()
	if next == backoff.Stop {
		return backoff.Stop
	}
	if b.hint > 0 {
		next = b.hint
		b.hint = 0
	}
	if next > b.maxWait {
		next = b.maxWait
	}
	return next
}

// do builds the request, handles auth, retries throttled responses and
// decodes JSON. Non-2xx responses come back as *APIError.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body any,
	result any,
) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		payload = data
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = time.Second
	exp.MaxInterval = c.maxWait
	exp.MaxElapsedTime = 0
	bo := &retryAfterBackOff{
		BackOff: backoff.WithMaxRetries(exp, c.maxRetries),
		maxWait: c.maxWait,
	}

	attempt := 0
	var respBody []byte
	var status int
	notify := func(err error, wait time.Duration) {
		c.logger.Debug("retrying jira request",
			"method", method, "path", path, "attempt", attempt, "wait", wait, "err", err)
	}

	err := backoff.RetryNotify(func() error {
		attempt++
		var wait time.Duration
		var err error
		respBody, status, wait, err = c.roundTrip(ctx, method, path, payload)
		if err != nil {
			return backoff.Permanent(err)
		}
		if status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable {
			bo.hint = wait
			return &throttledError{err: newAPIError(method, path, status, respBody)}
		}
		return nil
	}, backoff.WithContext(bo, ctx), notify)

	var te *throttledError
	if errors.As(err, &te) {
		return fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, te.err)
	}
	if err != nil {
		return err
	}

	if status < 200 || status >= 300 {
		return newAPIError(method, path, status, respBody)
	}

	// No content to parse (e.g. 204).
	if result == nil || status == http.StatusNoContent || len(respBody) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
	}
	return nil
}

// roundTrip performs one HTTP exchange and returns the body, the status and
// the Retry-After hint.
func (c *Client) roundTrip(
	ctx context.Context,
	method string,
	path string,
	payload []byte,
) ([]byte, int, time.Duration, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("creating request: %w", err)
	}

	c.setAuth(req)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "jira-skills/1.0")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("executing request %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("reading response body: %w", err)
	}

	c.logger.Debug("jira request",
		"method", method, "path", path, "status", resp.StatusCode,
		"elapsed", time.Since(start))

	return respBody, resp.StatusCode, retryAfter(resp), nil
}

// setAuth sets Basic auth when an email is configured, Bearer otherwise.
func (c *Client) setAuth(req *http.Request) {
	if c.email != "" {
		creds := base64.StdEncoding.EncodeToString([]byte(c.email + ":" + c.token))
		req.Header.Set("Authorization", "Basic "+creds)
		return
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
}

// retryAfter reads the Retry-After header in seconds. Zero means absent.
func retryAfter(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
