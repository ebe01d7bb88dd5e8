package config

// Configuration keys. Each key doubles as the CLI flag name and, where the pipeline exposes it,
// the CI input name.
const (
	ApplicationIDKey     = "application-id"
	EnvironmentIDKey     = "environment-id"
	BrowserTypesKey      = "browser-types"
	URIKey               = "uri"
	WebURLKey            = "web-url"
	APIURLKey            = "api-url"
	HTTPHeadersKey       = "http-headers"
	PlanLabelsKey        = "plan-labels"
	MablBranchKey        = "mabl-branch"
	RebaselineImagesKey  = "rebaseline-images"
	SetStaticBaselineKey = "set-static-baseline"
	ContinueOnFailureKey = "continue-on-failure"
	EventTimeKey         = "event-time"
	RevisionKey          = "revision"
	JUnitReportKey       = "junit-report"

	APIKeyKey         = "api-key"
	MablAPIBaseURLKey = "mabl-api-url"
	MablAppBaseURLKey = "mabl-app-url"
	GitHubTokenKey    = "github-token"
	GitHubAPIURLKey   = "github-api-url"
	LogsLevelKey      = "logs-level"
	PollIntervalKey   = "poll-interval"
	AwaitTimeoutKey   = "await-timeout"
)

const (
	DefaultMablAPIBaseURL = "https://api.mabl.com"
	DefaultMablAppBaseURL = "https://app.mabl.com"
	DefaultGitHubAPIURL   = "https://api.github.com"
	DefaultLogsLevel      = "Info"
)
