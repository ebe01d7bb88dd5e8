package schema

import "time"

// RunTestsConfig is the fully resolved configuration of one run-tests invocation.
// It is assembled once by pkg/config and passed down explicitly.
type RunTestsConfig struct {
	// Credentials and endpoints.
	APIKey     string
	APIBaseURL string
	AppBaseURL string
	UserAgent  string

	// Deployment target.
	ApplicationID string
	EnvironmentID string

	// Plan overrides.
	BrowserTypes []string
	HTTPHeaders  []string
	URI          string
	WebURL       string
	APIURL       string
	PlanLabels   []string
	BranchTag    string

	// Deployment actions.
	RebaselineImages  bool
	SetStaticBaseline bool

	// Behaviour.
	ContinueOnFailure bool
	EventTime         int64
	Revision          string

	// Optional outputs.
	JUnitReportPath string

	// Polling.
	PollInterval time.Duration
	AwaitTimeout time.Duration

	// Related pull request lookup.
	GitHubToken  string
	GitHubAPIURL string

	Logs Logs
}

// Logs configures pkg/logger.
type Logs struct {
	Level string `yaml:"level" json:"level" mapstructure:"level"`
}
