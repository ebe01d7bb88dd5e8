package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	errUtils "github.com/mablhq/github-run-tests-action/errors"
	"github.com/mablhq/github-run-tests-action/pkg/retry"
	"github.com/mablhq/github-run-tests-action/pkg/schema"
)

const (
	// DefaultUserAgent identifies the action to the mabl API.
	DefaultUserAgent = "mabl-github-run-tests-action"

	// BasicAuthUsername is the fixed username paired with an API key.
	BasicAuthUsername = "key"

	// ReadTimeout bounds GET requests.
	ReadTimeout = 60 * time.Second

	// WriteTimeout bounds POST requests. Deployment creation is slow server side.
	WriteTimeout = 15 * time.Minute

	defaultTimeout = 30 * time.Second
)

// Client defines the interface for making HTTP requests.
// This interface allows for easy mocking in tests.
type Client interface {
	// Do performs an HTTP request and returns the response.
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption is a functional option for configuring the DefaultClient.
type ClientOption func(*DefaultClient)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *DefaultClient) {
		c.client.Timeout = timeout
	}
}

// WithTransport sets a custom HTTP transport.
// Authentication options applied afterwards wrap it.
func WithTransport(transport http.RoundTripper) ClientOption {
	return func(c *DefaultClient) {
		c.client.Transport = transport
	}
}

// WithBasicAuth authenticates every request with the given credentials.
func WithBasicAuth(username, password string) ClientOption {
	return func(c *DefaultClient) {
		t := c.authTransport()
		t.Username = username
		t.Password = password
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *DefaultClient) {
		c.authTransport().UserAgent = userAgent
	}
}

// DefaultClient is the default HTTP client implementation.
type DefaultClient struct {
	client *http.Client
}

// NewDefaultClient creates a new DefaultClient with optional configuration.
func NewDefaultClient(opts ...ClientOption) *DefaultClient {
	client := &DefaultClient{
		client: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

func (c *DefaultClient) authTransport() *AuthenticatedTransport {
	if t, ok := c.client.Transport.(*AuthenticatedTransport); ok {
		return t
	}
	t := &AuthenticatedTransport{Base: c.client.Transport}
	c.client.Transport = t
	return t
}

// Timeout returns the overall request timeout of the client.
func (c *DefaultClient) Timeout() time.Duration {
	return c.client.Timeout
}

// Do implements Client.Do.
func (c *DefaultClient) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}

// AuthenticatedTransport adds basic auth and JSON headers to outgoing requests.
type AuthenticatedTransport struct {
	Base      http.RoundTripper
	Username  string
	Password  string
	UserAgent string
}

// RoundTrip implements http.RoundTripper interface.
func (t *AuthenticatedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrip must not modify the caller's request.
	req = req.Clone(req.Context())

	if t.Password != "" {
		req.SetBasicAuth(t.Username, t.Password)
	}
	if t.UserAgent != "" {
		req.Header.Set("User-Agent", t.UserAgent)
	}
	req.Header.Set("Accept", "application/json")
	if req.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("mabl transport roundtrip: %w", err)
	}

	return resp, nil
}

// StatusError is returned for responses with a status code of 400 or above.
type StatusError struct {
	Code int
	Text string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("[%d - %s]", e.Code, e.Text)
}

func newStatusError(resp *http.Response) *StatusError {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return &StatusError{Code: resp.StatusCode, Text: text}
}

// RequestOption tunes a single GetJSON or PostJSON call.
type RequestOption func(*requestConfig)

type requestConfig struct {
	retry schema.RetryConfig
}

// WithRetryConfig overrides the retry policy of a request.
func WithRetryConfig(config schema.RetryConfig) RequestOption {
	return func(c *requestConfig) {
		c.retry = config
	}
}

func newRequestConfig(opts []RequestOption) requestConfig {
	cfg := requestConfig{retry: retry.DefaultConfig()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// GetJSON performs a retried GET and decodes the JSON response into out.
func GetJSON(ctx context.Context, client Client, url string, out any, opts ...RequestOption) error {
	cfg := newRequestConfig(opts)
	_, err := retry.Do(ctx, &cfg.retry, func() (struct{}, error) {
		return struct{}{}, doJSON(ctx, client, http.MethodGet, url, nil, out)
	})
	return err
}

// PostJSON marshals body, performs a retried POST and decodes the JSON response into out.
func PostJSON(ctx context.Context, client Client, url string, body any, out any, opts ...RequestOption) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf(errUtils.ErrWrappingFormat, errUtils.ErrFailedToMarshalPayload, err)
	}

	cfg := newRequestConfig(opts)
	_, err = retry.Do(ctx, &cfg.retry, func() (struct{}, error) {
		return struct{}{}, doJSON(ctx, client, http.MethodPost, url, payload, out)
	})
	return err
}

func doJSON(ctx context.Context, client Client, method, url string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf(errUtils.ErrWrappingFormat, errUtils.ErrFailedToCreateRequest, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf(errUtils.ErrWrappingFormat, errUtils.ErrFailedToMakeRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf(errUtils.ErrWrappingFormat, errUtils.ErrHTTPRequestFailed, newStatusError(resp))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf(errUtils.ErrWrappingFormat, errUtils.ErrFailedToReadResponseBody, err)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf(errUtils.ErrWrappingFormat, errUtils.ErrFailedToUnmarshalJSON, err)
	}

	return nil
}

// Humanized messages for status codes that usually mean a configuration mistake.
const (
	UnauthorizedMessage = `Unauthorized API error, are you sure you passed the correct API key? Is the key "enabled"?`
	ForbiddenMessage    = `Forbidden API error, are you sure you used a "CI/CD Integration" type API key? Ensure this key is for the same workspace you're testing.`
	NotFoundMessage     = "Not Found API error, please ensure any environment or application IDs in your Action config are correct."
)

// Humanize replaces 401, 403 and 404 status errors with actionable messages.
// Other errors are returned unchanged.
func Humanize(err error) error {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return err
	}

	switch statusErr.Code {
	case http.StatusUnauthorized:
		return errUtils.Build(errors.New(UnauthorizedMessage)).
			WithSentinel(errUtils.ErrHTTPRequestFailed).
			WithHint("Check the MABL_API_KEY secret and that the key is enabled in the mabl workspace settings").
			WithContext("status", statusErr.Code).
			Err()
	case http.StatusForbidden:
		return errUtils.Build(errors.New(ForbiddenMessage)).
			WithSentinel(errUtils.ErrHTTPRequestFailed).
			WithHint("Create a key of type CI/CD Integration in the workspace that owns the application or environment").
			WithContext("status", statusErr.Code).
			Err()
	case http.StatusNotFound:
		return errUtils.Build(errors.New(NotFoundMessage)).
			WithSentinel(errUtils.ErrHTTPRequestFailed).
			WithHint("Copy the application-id and environment-id values from the mabl app").
			WithContext("status", statusErr.Code).
			Err()
	default:
		return statusErr
	}
}
