// Package ci provides CI/CD provider abstractions and integrations.
package ci

// Provider represents a CI/CD provider (GitHub Actions, Azure Pipelines, etc.).
type Provider interface {
	// Name returns the provider name (e.g., "github-actions", "generic").
	Name() string

	// Detect returns true if this provider is active in the current environment.
	Detect() bool

	// Context returns CI metadata (run ID, commit, PR info, etc.).
	Context() (*Context, error)

	// Input returns the raw value of an action input, or "" when unset.
	Input(name string) string

	// OutputWriter returns a writer for CI outputs ($GITHUB_OUTPUT, etc.).
	OutputWriter() OutputWriter

	// StartGroup opens a collapsible log group.
	StartGroup(name string)

	// EndGroup closes the current log group.
	EndGroup()

	// Fail marks the pipeline step as failed with msg.
	Fail(msg string)

	// Warn surfaces msg as a pipeline warning annotation.
	Warn(msg string)
}

// OutputWriter writes CI outputs (step outputs, job summaries, etc.).
type OutputWriter interface {
	// WriteOutput writes a key-value pair to CI outputs (e.g., $GITHUB_OUTPUT).
	WriteOutput(key, value string) error

	// WriteSummary writes content to the job summary (e.g., $GITHUB_STEP_SUMMARY).
	WriteSummary(content string) error
}

// Context holds the metadata of the current pipeline run.
type Context struct {
	Provider string

	RunID     string
	Actor     string
	EventName string
	Action    string

	Ref    string
	Branch string
	SHA    string

	// Revision is the commit under test. For pull request events it is the PR head commit.
	Revision string

	Repository    string
	RepoOwner     string
	RepoName      string
	RepositoryURL string

	// APIURL is the provider API base URL, used for GitHub Enterprise.
	APIURL string

	PullRequest *PRInfo
}

// PRInfo contains pull request metadata known to the pipeline.
type PRInfo struct {
	Number  int
	HeadRef string
	HeadSHA string
	BaseRef string
	URL     string
}
