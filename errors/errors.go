package errors

import (
	"errors"
)

const (
	// ErrWrappingFormat wraps a sentinel with its cause so both stay visible to errors.Is.
	ErrWrappingFormat = "%w: %w"

	// ErrStringWrappingFormat wraps a sentinel with extra free-form text.
	ErrStringWrappingFormat = "%w: %s"
)

// Configuration errors. These are returned before any network call is made.
var (
	ErrMissingAPIKey              = errors.New("env var MABL_API_KEY required")
	ErrMissingApplicationOrEnv    = errors.New(`invalid configuration. Valid "application-id" or "environment-id" must be set. No tests started`)
	ErrInvalidEventTime           = errors.New("invalid event-time, expected epoch milliseconds")
	ErrInvalidHTTPHeader          = errors.New(`invalid http-headers entry, expected "Name:Value"`)
	ErrInvalidLogLevel            = errors.New("invalid log level")
	ErrInvalidBaseURL             = errors.New("invalid base URL")
	ErrInvalidDuration            = errors.New("invalid duration")
	ErrUnsupportedBackoffStrategy = errors.New("unsupported backoff strategy")
)

// HTTP and API errors.
var (
	ErrHTTPRequestFailed           = errors.New("HTTP request failed")
	ErrFailedToCreateRequest       = errors.New("failed to create request")
	ErrFailedToMarshalPayload      = errors.New("failed to marshal payload")
	ErrFailedToMakeRequest         = errors.New("failed to make request")
	ErrFailedToReadResponseBody    = errors.New("error reading response body")
	ErrFailedToUnmarshalJSON       = errors.New("error unmarshaling JSON")
	ErrFailedToCreateDeployment    = errors.New("failed to create deployment through mabl API")
	ErrFailedToGetApplication      = errors.New("failed to get mabl application from the API")
	ErrFailedToGetEnvironment      = errors.New("failed to get mabl environment from the API")
	ErrFailedToGetExecutionResults = errors.New("failed to get mabl execution results from the API")
)

// Retry and polling errors.
var (
	ErrMaxAttemptsExceeded   = errors.New("max attempts exceeded")
	ErrRetryTimeout          = errors.New("retry timeout exceeded")
	ErrRetryCancelled        = errors.New("context cancelled during retry")
	ErrAwaitTimedOut         = errors.New("timed out waiting for mabl plans to complete")
	ErrAwaitCancelled        = errors.New("cancelled while waiting for mabl plans to complete")
	ErrNoExecutionsTriggered = errors.New("no mabl plans were triggered by the deployment")
)

// CI and output errors.
var (
	ErrFailedToWriteOutput  = errors.New("failed to write pipeline output")
	ErrFailedToWriteSummary = errors.New("failed to write job summary")
	ErrFailedToWriteReport  = errors.New("failed to write JUnit report")
	ErrFailedToReadEvent    = errors.New("failed to read CI event payload")
	ErrGitRevisionNotFound  = errors.New("failed to resolve git revision")
	ErrTestsFailed          = errors.New("mabl test(s) failed")
	ErrDeploymentTaskFailed = errors.New("mabl deployment task failed for the following reason")
)
