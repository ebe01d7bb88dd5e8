package mabl

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	errUtils "github.com/mablhq/github-run-tests-action/errors"
	httpClient "github.com/mablhq/github-run-tests-action/pkg/http"
	log "github.com/mablhq/github-run-tests-action/pkg/logger"
	"github.com/mablhq/github-run-tests-action/pkg/mabl/dtos"
	"github.com/mablhq/github-run-tests-action/pkg/schema"
)

const (
	// DefaultAPIBaseURL is the public mabl API.
	DefaultAPIBaseURL = "https://api.mabl.com"

	// DefaultAppBaseURL is the mabl web app used for output links.
	DefaultAppBaseURL = "https://app.mabl.com"
)

// APIClient is the set of mabl API operations used by the action.
type APIClient interface {
	PostDeploymentEvent(ctx context.Context, opts DeploymentOptions) (*dtos.Deployment, error)
	GetApplication(ctx context.Context, id string) (*dtos.Application, error)
	GetEnvironment(ctx context.Context, id string) (*dtos.Environment, error)
	GetExecutionResults(ctx context.Context, eventID string) (*dtos.ExecutionResult, error)
}

// ClientConfig is resolved once by the caller and injected into the client.
type ClientConfig struct {
	BaseURL      string
	APIKey       string
	UserAgent    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Retry        *schema.RetryConfig
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces both the read and write HTTP clients.
func WithHTTPClient(client httpClient.Client) ClientOption {
	return func(c *Client) {
		c.reader = client
		c.writer = client
	}
}

// Client talks to the mabl REST API.
type Client struct {
	baseURL string
	reader  httpClient.Client
	writer  httpClient.Client
	retry   []httpClient.RequestOption
}

var _ APIClient = (*Client)(nil)

// NewClient creates a mabl API client from cfg.
func NewClient(cfg ClientConfig, opts ...ClientOption) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q", errUtils.ErrInvalidBaseURL, baseURL)
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = httpClient.DefaultUserAgent
	}
	readTimeout := cfg.ReadTimeout
	if readTimeout == 0 {
		readTimeout = httpClient.ReadTimeout
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = httpClient.WriteTimeout
	}

	auth := []httpClient.ClientOption{
		httpClient.WithBasicAuth(httpClient.BasicAuthUsername, cfg.APIKey),
		httpClient.WithUserAgent(userAgent),
	}

	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		reader:  httpClient.NewDefaultClient(append([]httpClient.ClientOption{httpClient.WithTimeout(readTimeout)}, auth...)...),
		writer:  httpClient.NewDefaultClient(append([]httpClient.ClientOption{httpClient.WithTimeout(writeTimeout)}, auth...)...),
	}
	if cfg.Retry != nil {
		c.retry = []httpClient.RequestOption{httpClient.WithRetryConfig(*cfg.Retry)}
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// PostDeploymentEvent triggers a deployment event and returns the created deployment.
func (c *Client) PostDeploymentEvent(ctx context.Context, opts DeploymentOptions) (*dtos.Deployment, error) {
	endpoint := c.baseURL + "/events/deployment/"
	log.Debug("Creating deployment event", "url", endpoint)

	var deployment dtos.Deployment
	if err := httpClient.PostJSON(ctx, c.writer, endpoint, BuildRequestBody(opts), &deployment, c.retry...); err != nil {
		return nil, fmt.Errorf(errUtils.ErrWrappingFormat, errUtils.ErrFailedToCreateDeployment, httpClient.Humanize(err))
	}

	return &deployment, nil
}

// GetApplication fetches an application by id.
func (c *Client) GetApplication(ctx context.Context, id string) (*dtos.Application, error) {
	endpoint := fmt.Sprintf("%s/v1/applications/%s", c.baseURL, url.PathEscape(id))

	var application dtos.Application
	if err := httpClient.GetJSON(ctx, c.reader, endpoint, &application, c.retry...); err != nil {
		return nil, fmt.Errorf("%w (%s): %w", errUtils.ErrFailedToGetApplication, id, httpClient.Humanize(err))
	}

	return &application, nil
}

// GetEnvironment fetches an environment by id.
func (c *Client) GetEnvironment(ctx context.Context, id string) (*dtos.Environment, error) {
	endpoint := fmt.Sprintf("%s/v1/environments/%s", c.baseURL, url.PathEscape(id))

	var environment dtos.Environment
	if err := httpClient.GetJSON(ctx, c.reader, endpoint, &environment, c.retry...); err != nil {
		return nil, fmt.Errorf("%w (%s): %w", errUtils.ErrFailedToGetEnvironment, id, httpClient.Humanize(err))
	}

	return &environment, nil
}

// GetExecutionResults fetches the aggregate results of a deployment event.
func (c *Client) GetExecutionResults(ctx context.Context, eventID string) (*dtos.ExecutionResult, error) {
	endpoint := fmt.Sprintf("%s/execution/result/event/%s", c.baseURL, url.PathEscape(eventID))

	var result dtos.ExecutionResult
	if err := httpClient.GetJSON(ctx, c.reader, endpoint, &result, c.retry...); err != nil {
		return nil, fmt.Errorf("%w (event %s): %w", errUtils.ErrFailedToGetExecutionResults, eventID, httpClient.Humanize(err))
	}

	return &result, nil
}
