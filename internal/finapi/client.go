// Package finapi is the typed HTTP boundary to the finance tracker backend.
package finapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultTimeout = 15 * time.Second
	loginPath      = "/api/auth/login"
)

// maxBodySize caps every response body, exports included. Larger bodies
// fail instead of being cut short.
var maxBodySize int64 = 64 << 20

var (
	// ErrRequestFailed covers transport failures and non-2xx responses.
	ErrRequestFailed = errors.New("finapi: request failed")
	// ErrUnauthorized indicates the session token is missing, expired or invalid.
	ErrUnauthorized = errors.New("finapi: unauthorized")
	// ErrEmptyPayload indicates an envelope whose data was null on a call that needs it.
	ErrEmptyPayload = errors.New("finapi: response carried no data")
)

// APIError is a response the backend rejected, by HTTP status or envelope errors.
type APIError struct {
	Method string
	Path   string
	Status int
	Errors []string
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("finapi: %s %s failed with status %d: %s", e.Method, e.Path, e.Status, strings.Join(e.Errors, "; "))
	}
	return fmt.Sprintf("finapi: %s %s failed with status %d", e.Method, e.Path, e.Status)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return ErrRequestFailed
}

// Client talks to the /api endpoints of one backend origin.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokenSource    func() string
	onUnauthorized func()
	logger         *slog.Logger
	newRequestID   func() string
}

type Option func(*Client)

// WithTokenSource supplies the bearer token read before every request.
func WithTokenSource(fn func() string) Option {
	return func(c *Client) { c.tokenSource = fn }
}

// WithUnauthorizedHandler registers the callback run on a 401 from any
// endpoint other than login.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client for the given origin, e.g. https://finance.example.com.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		tokenSource:  func() string { return "" },
		logger:       slog.Default(),
		newRequestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the origin the client was built for.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type envelope[T any] struct {
	Status int      `json:"status"`
	Errors []string `json:"errors"`
	Data   *T       `json:"data"`
}

func (e envelope[T]) failed() bool {
	return len(e.Errors) > 0 || e.Status >= 400
}

// call performs a JSON request whose envelope must carry data.
func call[T any](ctx context.Context, c *Client, method, path string, query url.Values, in any) (T, error) {
	var zero T
	body, err := c.doJSON(ctx, method, path, query, in)
	if err != nil {
		return zero, err
	}

	var env envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return zero, fmt.Errorf("%w: decode %s %s response: %v", ErrRequestFailed, method, path, err)
	}
	if env.failed() {
		return zero, &APIError{Method: method, Path: path, Status: env.Status, Errors: env.Errors}
	}
	if env.Data == nil {
		return zero, fmt.Errorf("%s %s: %w", method, path, ErrEmptyPayload)
	}
	return *env.Data, nil
}

// exec performs a JSON request whose envelope carries no data on success.
func (c *Client) exec(ctx context.Context, method, path string, in any) error {
	body, err := c.doJSON(ctx, method, path, nil, in)
	if err != nil {
		return err
	}
	return checkVoidEnvelope(method, path, body)
}

func checkVoidEnvelope(method, path string, body []byte) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	var env envelope[json.RawMessage]
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: decode %s %s response: %v", ErrRequestFailed, method, path, err)
	}
	if env.failed() {
		return &APIError{Method: method, Path: path, Status: env.Status, Errors: env.Errors}
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, in any) ([]byte, error) {
	var reader io.Reader
	contentType := ""
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, query, reader, contentType)
}

// do sends the request and returns the body of a 2xx response.
func (c *Client) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body io.Reader,
	contentType string,
) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}

	requestID := c.newRequestID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := strings.TrimSpace(c.tokenSource()); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "api request failed",
			"method", method, "path", path, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("%w: %s %s: %v", ErrRequestFailed, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.DebugContext(ctx, "api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(started).Round(time.Millisecond),
	)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s %s response: %v", ErrRequestFailed, method, path, err)
	}
	if int64(len(raw)) > maxBodySize {
		return nil, fmt.Errorf("%w: %s %s response exceeds %d bytes", ErrRequestFailed, method, path, maxBodySize)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if !(method == http.MethodPost && path == loginPath) && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return nil, &APIError{Method: method, Path: path, Status: resp.StatusCode, Errors: envelopeErrors(raw)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Method: method, Path: path, Status: resp.StatusCode, Errors: envelopeErrors(raw)}
	}
	return raw, nil
}

// envelopeErrors pulls the errors list out of a failure body when it has one.
func envelopeErrors(raw []byte) []string {
	var env envelope[json.RawMessage]
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil
	}
	return env.Errors
}
