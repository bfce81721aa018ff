// Package httpapi implements the repository contracts against the roster
// administration REST API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cristianoliveira/rosterdesk/internal/domain"
	"github.com/cristianoliveira/rosterdesk/internal/logging"
)

const (
	// CorrelationHeader carries the per-request id.
	CorrelationHeader = "X-Correlation-Id"

	defaultBaseURL    = "http://127.0.0.1:8080/api"
	defaultMaxRetries = 3
)

// HTTPError is a non-success response that was not retried.
type HTTPError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("http %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

// Is maps status codes onto the domain sentinels so callers can use
// errors.Is(err, domain.ErrNotFound).
func (e *HTTPError) Is(target error) bool {
	switch target {
	case domain.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case domain.ErrConflict:
		return e.StatusCode == http.StatusConflict
	case domain.ErrValidation:
		return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity
	}
	return false
}

// Client talks to the REST API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	logger     logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRetries sets how many times a failed request is retried.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithBackoff sets the first retry delay and the delay cap.
func WithBackoff(base, max time.Duration) Option {
	return func(c *Client) {
		c.baseDelay = base
		c.maxDelay = max
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a client for baseURL, e.g. https://roster.example.com/api.
func New(baseURL, token string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	c := &Client{
		baseURL:    baseURL,
		token:      strings.TrimSpace(token),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		maxRetries: defaultMaxRetries,
		baseDelay:  100 * time.Millisecond,
		maxDelay:   2 * time.Second,
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "httpapi")
	return c
}

// retryable reports whether a response status may be retried for method.
// 429 means the server refused the request, so any method may retry it;
// other failures are retried only for idempotent methods.
func retryable(method string, status int) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	return idempotent(method) && status >= 500 && status <= 599
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// do sends one API call with retries and returns the success body.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var bodyBytes []byte
	if body != nil {
		var err error
		if bodyBytes, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
	}

	for attempt := 0; ; attempt++ {
		var bodyReader io.Reader
		if bodyBytes != nil {
			bodyReader = bytes.NewReader(bodyBytes)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
		if err != nil {
			return nil, err
		}
		correlationID := uuid.NewString()
		req.Header.Set("Accept", "application/json")
		req.Header.Set(CorrelationHeader, correlationID)
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		log := c.logger.With("method", method, "path", path, "attempt", attempt, "correlation_id", correlationID)
		if err != nil {
			if ctx.Err() == nil && idempotent(method) && attempt < c.maxRetries {
				log.Debug("request failed, retrying", "error", err)
				if waitErr := wait(ctx, c.retryDelay(attempt+1, "")); waitErr != nil {
					return nil, waitErr
				}
				continue
			}
			return nil, fmt.Errorf("%s %s: %w", method, path, err)
		}
		payload, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("%s %s: read body: %w", method, path, readErr)
		}
		log.Debug("request done", "status", resp.StatusCode, "elapsed_ms", time.Since(start).Milliseconds())

		if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
			return payload, nil
		}
		if retryable(method, resp.StatusCode) && attempt < c.maxRetries {
			if waitErr := wait(ctx, c.retryDelay(attempt+1, resp.Header.Get("Retry-After"))); waitErr != nil {
				return nil, waitErr
			}
			continue
		}
		return nil, decodeError(resp.StatusCode, payload)
	}
}

// decodeError reads either {"error": {"code", "message"}} or a flat
// {"code", "message"} body.
func decodeError(status int, payload []byte) error {
	var nested struct {
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	e := &HTTPError{StatusCode: status}
	if err := json.Unmarshal(payload, &nested); err == nil {
		if nested.Error != nil {
			e.Code, e.Message = nested.Error.Code, nested.Error.Message
		} else {
			e.Code, e.Message = nested.Code, nested.Message
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

func (c *Client) retryDelay(attempt int, retryAfterHeader string) time.Duration {
	maxDelay := c.maxDelay
	if maxDelay <= 0 {
		maxDelay = 2 * time.Second
	}
	if retryAfter := parseRetryAfter(retryAfterHeader); retryAfter > 0 {
		return min(retryAfter, maxDelay)
	}
	delay := c.baseDelay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= maxDelay {
			return maxDelay
		}
	}
	return min(delay, maxDelay)
}

// parseRetryAfter accepts delta-seconds or an HTTP date.
func parseRetryAfter(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

func wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// userPath builds /users/{id} and refuses temporary ids.
func userPath(id domain.ID, suffix string) (string, error) {
	n, ok := id.Int()
	if !ok || n <= 0 {
		return "", fmt.Errorf("user id %s: %w", id, domain.ErrInvalidID)
	}
	return "/users/" + strconv.FormatInt(n, 10) + suffix, nil
}

func notificationPath(id int64, suffix string) string {
	return "/notifications/" + strconv.FormatInt(id, 10) + suffix
}

