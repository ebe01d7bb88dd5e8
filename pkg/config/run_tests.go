package config

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	errUtils "github.com/mablhq/github-run-tests-action/errors"
	httpClient "github.com/mablhq/github-run-tests-action/pkg/http"
	log "github.com/mablhq/github-run-tests-action/pkg/logger"
	"github.com/mablhq/github-run-tests-action/pkg/mabl"
	"github.com/mablhq/github-run-tests-action/pkg/schema"
)

// RunTestsOptions lists every parameter of the run-tests command.
func RunTestsOptions() []ConfigOptions {
	return []ConfigOptions{
		{Key: ApplicationIDKey, Input: ApplicationIDKey, DefaultValue: "", Description: "mabl application ID to run tests for"},
		{Key: EnvironmentIDKey, Input: EnvironmentIDKey, DefaultValue: "", Description: "mabl environment ID to run tests for"},
		{Key: BrowserTypesKey, Input: BrowserTypesKey, DefaultValue: "", Description: "Comma or newline separated browser overrides, e.g. chrome,firefox"},
		{Key: URIKey, Input: URIKey, DefaultValue: "", Description: "Base URI override for the tested plans"},
		{Key: WebURLKey, Input: WebURLKey, DefaultValue: "", Description: "Web app URL override for the tested plans"},
		{Key: APIURLKey, Input: APIURLKey, DefaultValue: "", Description: "API URL override for the tested plans"},
		{Key: HTTPHeadersKey, Input: HTTPHeadersKey, DefaultValue: "", Description: `Newline separated "Name:Value" headers added to every request`},
		{Key: PlanLabelsKey, Input: PlanLabelsKey, DefaultValue: "", Description: "Comma or newline separated plan labels to run"},
		{Key: MablBranchKey, Input: MablBranchKey, DefaultValue: "", Description: "mabl branch to run tests against"},
		{Key: RebaselineImagesKey, Input: RebaselineImagesKey, DefaultValue: false, Description: "Reset the visual baseline to the current deployment"},
		{Key: SetStaticBaselineKey, Input: SetStaticBaselineKey, DefaultValue: false, Description: "Use the current deployment as the static visual baseline"},
		{Key: ContinueOnFailureKey, Input: ContinueOnFailureKey, DefaultValue: false, Description: "Pass the step even when tests fail"},
		{Key: EventTimeKey, Input: EventTimeKey, DefaultValue: "", Description: "Deployment event time in epoch milliseconds, defaults to now"},
		{Key: RevisionKey, Input: RevisionKey, DefaultValue: "", Description: "Git revision of the deployment, defaults to the CI or local HEAD revision"},
		{Key: JUnitReportKey, Input: JUnitReportKey, DefaultValue: "", Description: "Write a JUnit XML report to this path"},
		{Key: APIKeyKey, EnvVars: []string{"MABL_API_KEY"}, DefaultValue: "", Description: "mabl API key of type CI/CD Integration"},
		{Key: MablAPIBaseURLKey, EnvVars: []string{"MABL_API_URL", "APP_URL"}, DefaultValue: DefaultMablAPIBaseURL, Description: "mabl API base URL"},
		{Key: MablAppBaseURLKey, EnvVars: []string{"MABL_APP_URL"}, DefaultValue: DefaultMablAppBaseURL, Description: "mabl app base URL used for output links"},
		{Key: GitHubTokenKey, Input: GitHubTokenKey, EnvVars: []string{"GITHUB_TOKEN"}, DefaultValue: "", Description: "GitHub token used to look up the related pull request"},
		{Key: GitHubAPIURLKey, EnvVars: []string{"GITHUB_API_URL"}, DefaultValue: DefaultGitHubAPIURL, Description: "GitHub API base URL"},
		{Key: LogsLevelKey, Input: LogsLevelKey, EnvVars: []string{"MABL_LOGS_LEVEL"}, DefaultValue: DefaultLogsLevel, Description: "Log level: Trace, Debug, Info, Warning, Error, Off"},
		{Key: PollIntervalKey, EnvVars: []string{"MABL_POLL_INTERVAL"}, DefaultValue: mabl.DefaultPollInterval, Description: "Interval between execution result checks"},
		{Key: AwaitTimeoutKey, Input: AwaitTimeoutKey, EnvVars: []string{"MABL_AWAIT_TIMEOUT"}, DefaultValue: time.Duration(0), Description: "Give up waiting for the plans after this long, 0 waits forever"},
	}
}

// BindRunTestsFlags registers every run-tests parameter on cmd.
func (c *ConfigHandler) BindRunTestsFlags(cmd *cobra.Command) error {
	return c.AddConfigs(cmd, RunTestsOptions())
}

// LoadRunTestsConfig resolves and validates the configuration.
// Every configuration error is reported here, before any network call.
func (c *ConfigHandler) LoadRunTestsConfig(inputs InputSource) (*schema.RunTestsConfig, error) {
	cfg := &schema.RunTestsConfig{
		APIKey:            c.GetString(APIKeyKey, inputs),
		APIBaseURL:        c.GetString(MablAPIBaseURLKey, inputs),
		AppBaseURL:        c.GetString(MablAppBaseURLKey, inputs),
		UserAgent:         httpClient.DefaultUserAgent,
		ApplicationID:     c.GetString(ApplicationIDKey, inputs),
		EnvironmentID:     c.GetString(EnvironmentIDKey, inputs),
		BrowserTypes:      c.GetList(BrowserTypesKey, inputs),
		HTTPHeaders:       c.GetLines(HTTPHeadersKey, inputs),
		URI:               c.GetString(URIKey, inputs),
		WebURL:            c.GetString(WebURLKey, inputs),
		APIURL:            c.GetString(APIURLKey, inputs),
		PlanLabels:        c.GetList(PlanLabelsKey, inputs),
		BranchTag:         c.GetString(MablBranchKey, inputs),
		RebaselineImages:  c.GetBool(RebaselineImagesKey, inputs),
		SetStaticBaseline: c.GetBool(SetStaticBaselineKey, inputs),
		ContinueOnFailure: c.GetBool(ContinueOnFailureKey, inputs),
		Revision:          c.GetString(RevisionKey, inputs),
		JUnitReportPath:   c.GetString(JUnitReportKey, inputs),
		GitHubToken:       c.GetString(GitHubTokenKey, inputs),
		GitHubAPIURL:      c.GetString(GitHubAPIURLKey, inputs),
		Logs:              schema.Logs{Level: c.GetString(LogsLevelKey, inputs)},
	}

	if _, err := log.ParseLogLevel(cfg.Logs.Level); err != nil {
		return nil, err
	}

	if cfg.APIKey == "" {
		return nil, errUtils.Build(errUtils.ErrMissingAPIKey).
			WithHint("Add the API key as a secret and expose it to the step as MABL_API_KEY").
			Err()
	}

	if cfg.ApplicationID == "" && cfg.EnvironmentID == "" {
		return nil, errUtils.Build(errUtils.ErrMissingApplicationOrEnv).
			WithHint("Set application-id, environment-id or both").
			Err()
	}

	for _, header := range cfg.HTTPHeaders {
		if _, err := mabl.ParseHTTPHeader(header); err != nil {
			return nil, err
		}
	}

	eventTime, err := ParseEventTime(c.GetString(EventTimeKey, inputs), c.now())
	if err != nil {
		return nil, err
	}
	cfg.EventTime = eventTime

	if cfg.PollInterval, err = c.GetDuration(PollIntervalKey, inputs); err != nil {
		return nil, err
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = mabl.DefaultPollInterval
	}

	if cfg.AwaitTimeout, err = c.GetDuration(AwaitTimeoutKey, inputs); err != nil {
		return nil, err
	}
	if cfg.AwaitTimeout < 0 {
		return nil, fmt.Errorf("invalid %s: must not be negative", AwaitTimeoutKey)
	}

	return cfg, nil
}
