package exec

import (
	"context"
	"fmt"
	"io"
	"os"

	errUtils "github.com/mablhq/github-run-tests-action/errors"
	"github.com/mablhq/github-run-tests-action/pkg/ci"
	"github.com/mablhq/github-run-tests-action/pkg/config"
	"github.com/mablhq/github-run-tests-action/pkg/git"
	"github.com/mablhq/github-run-tests-action/pkg/github"
	httpClient "github.com/mablhq/github-run-tests-action/pkg/http"
	log "github.com/mablhq/github-run-tests-action/pkg/logger"
	"github.com/mablhq/github-run-tests-action/pkg/mabl"
	"github.com/mablhq/github-run-tests-action/pkg/mabl/dtos"
	"github.com/mablhq/github-run-tests-action/pkg/report"
	"github.com/mablhq/github-run-tests-action/pkg/schema"

	// Register the supported CI providers.
	_ "github.com/mablhq/github-run-tests-action/pkg/ci/providers/azure"
	_ "github.com/mablhq/github-run-tests-action/pkg/ci/providers/generic"
	_ "github.com/mablhq/github-run-tests-action/pkg/ci/providers/github"
)

// Log group names.
const (
	groupGatherInputs     = "Gathering inputs"
	groupCreateDeployment = "Creating deployment event"
	groupAwaitCompletion  = "Await completion of tests"
	groupFetchResults     = "Fetch execution results"
)

// PullRequestLookup finds the pull request related to a commit. It returns nil when there is none.
type PullRequestLookup func(ctx context.Context, opts github.RelatedPullRequestOptions) *dtos.PullRequest

// RunTests triggers a mabl deployment event and waits for its test results.
type RunTests struct {
	Config   *schema.RunTestsConfig
	Provider ci.Provider
	Client   mabl.APIClient

	// FindPullRequest defaults to github.RelatedPullRequest.
	FindPullRequest PullRequestLookup

	// WorkDir is searched for a git repository when no revision is known.
	WorkDir string

	// Out receives the result tables.
	Out io.Writer
}

// ExecuteRunTests resolves the configuration from the detected CI provider and runs the tests.
// Every failure is also reported to the pipeline through the provider.
func ExecuteRunTests(ctx context.Context, handler *config.ConfigHandler) error {
	provider := ci.Detect()
	log.Debug("Detected CI provider", "provider", provider.Name())

	provider.StartGroup(groupGatherInputs)
	cfg, err := handler.LoadRunTestsConfig(provider)
	if err != nil {
		provider.EndGroup()
		provider.Fail(err.Error())
		return err
	}

	if level, err := log.ParseLogLevel(cfg.Logs.Level); err == nil {
		log.SetLevel(level)
	}

	client, err := mabl.NewClient(mabl.ClientConfig{
		BaseURL:      cfg.APIBaseURL,
		APIKey:       cfg.APIKey,
		UserAgent:    cfg.UserAgent,
		ReadTimeout:  httpClient.ReadTimeout,
		WriteTimeout: httpClient.WriteTimeout,
	})
	if err != nil {
		provider.EndGroup()
		provider.Fail(err.Error())
		return err
	}

	run := &RunTests{
		Config:   cfg,
		Provider: provider,
		Client:   client,
	}
	// The inputs group is still open; run closes it.
	return run.execute(ctx)
}

func (r *RunTests) execute(ctx context.Context) error {
	failed, err := r.run(ctx)
	if err != nil {
		err = fmt.Errorf(errUtils.ErrWrappingFormat, errUtils.ErrDeploymentTaskFailed, err)
		r.Provider.Fail(err.Error())
		return err
	}

	switch {
	case failed == 0:
		log.Debug("Deployment plans passed")
		return nil
	case r.Config.ContinueOnFailure:
		r.Provider.Warn(fmt.Sprintf(
			"There were %d test failures but the continueOnPlanFailure flag is set so the task has been marked as passing",
			failed))
		return nil
	default:
		err := errUtils.Build(fmt.Errorf("%d %w", failed, errUtils.ErrTestsFailed)).
			WithHint("Open the output link above to inspect the failed tests in mabl").
			WithExitCode(1).
			Err()
		r.Provider.Fail(err.Error())
		return err
	}
}

// run performs the deployment and returns the number of failed tests.
// It expects the inputs group to be open.
func (r *RunTests) run(ctx context.Context) (int, error) {
	opts, err := r.deploymentOptions(ctx)
	r.Provider.EndGroup()
	if err != nil {
		return 0, err
	}

	r.Provider.StartGroup(groupCreateDeployment)
	deployment, outputLink, err := r.createDeployment(ctx, opts)
	r.Provider.EndGroup()
	if err != nil {
		return 0, err
	}

	r.Provider.StartGroup(groupAwaitCompletion)
	result, err := mabl.NewAwaiter(r.Client,
		mabl.WithInterval(r.Config.PollInterval),
		mabl.WithTimeout(r.Config.AwaitTimeout),
	).Await(ctx, deployment.ID)
	r.Provider.EndGroup()
	if err != nil {
		return 0, err
	}
	if result == nil {
		result = &dtos.ExecutionResult{}
	}

	r.Provider.StartGroup(groupFetchResults)
	defer r.Provider.EndGroup()
	if err := r.reportResults(result, deployment.ID, outputLink); err != nil {
		return 0, err
	}

	return result.JourneyExecutionMetrics.Failed, nil
}

func (r *RunTests) deploymentOptions(ctx context.Context) (mabl.DeploymentOptions, error) {
	cfg := r.Config

	ciContext, err := r.Provider.Context()
	if err != nil {
		return mabl.DeploymentOptions{}, err
	}

	properties := &dtos.DeploymentProperties{
		TriggeringEventName:      ciContext.EventName,
		RepositoryCommitUsername: ciContext.Actor,
		RepositoryAction:         ciContext.Action,
		RepositoryBranchName:     ciContext.Ref,
		RepositoryName:           ciContext.Repository,
		RepositoryURL:            ciContext.RepositoryURL,
	}

	findPullRequest := r.FindPullRequest
	if findPullRequest == nil {
		findPullRequest = github.RelatedPullRequest
	}
	pullRequest := findPullRequest(ctx, github.RelatedPullRequestOptions{
		Token:      cfg.GitHubToken,
		APIURL:     cfg.GitHubAPIURL,
		Repository: ciContext.Repository,
		SHA:        ciContext.SHA,
	})
	pullRequest.ApplyTo(properties)

	if ciContext.Repository == "" {
		r.applyLocalRepository(properties)
	}

	revision := r.revision(ciContext)

	if cfg.BranchTag != "" {
		log.Info(fmt.Sprintf("Using mabl branch [%s]", cfg.BranchTag))
	}
	log.Info(fmt.Sprintf("Using git revision [%s]", revision))

	return mabl.DeploymentOptions{
		ApplicationID:     cfg.ApplicationID,
		EnvironmentID:     cfg.EnvironmentID,
		SourceControlTag:  cfg.BranchTag,
		BrowserTypes:      cfg.BrowserTypes,
		URI:               cfg.URI,
		WebURL:            cfg.WebURL,
		APIURL:            cfg.APIURL,
		HTTPHeaders:       cfg.HTTPHeaders,
		PlanLabels:        cfg.PlanLabels,
		Revision:          revision,
		EventTime:         cfg.EventTime,
		Properties:        properties,
		RebaselineImages:  cfg.RebaselineImages,
		SetStaticBaseline: cfg.SetStaticBaseline,
	}, nil
}

// revision prefers the configured revision, then the pipeline, then the local HEAD.
func (r *RunTests) revision(ciContext *ci.Context) string {
	if r.Config.Revision != "" {
		return r.Config.Revision
	}
	if ciContext.Revision != "" {
		return ciContext.Revision
	}
	// A pull request event without a payload has no head commit to fall back on.
	if ciContext.PullRequest != nil || ciContext.EventName == "pull_request" {
		return ""
	}

	revision, err := git.HeadRevision(r.workDir())
	if err != nil {
		log.Debug("No git revision available", "error", err)
		return ""
	}
	return revision
}

// applyLocalRepository fills the source control properties from the checkout in WorkDir.
func (r *RunTests) applyLocalRepository(properties *dtos.DeploymentProperties) {
	info, err := git.GetRepoInfo(r.workDir())
	if err != nil {
		log.Debug("No local git repository", "error", err)
		return
	}

	if info.Branch != "" {
		properties.RepositoryBranchName = "refs/heads/" + info.Branch
	}
	if info.RepoURL != "" {
		properties.RepositoryURL = info.RepoURL
	}
	if info.RepoOwner != "" && info.RepoName != "" {
		properties.RepositoryName = info.RepoOwner + "/" + info.RepoName
	}
}

func (r *RunTests) workDir() string {
	if r.WorkDir == "" {
		return "."
	}
	return r.WorkDir
}

func (r *RunTests) createDeployment(ctx context.Context, opts mabl.DeploymentOptions) (*dtos.Deployment, string, error) {
	deployment, err := r.Client.PostDeploymentEvent(ctx, opts)
	if err != nil {
		return nil, "", err
	}

	outputs := ci.NewOutputHelpers(r.Provider.OutputWriter())
	if err := outputs.WriteDeploymentID(deployment.ID); err != nil {
		return nil, "", err
	}

	if len(deployment.TriggeredPlanRunSummaries) == 0 {
		log.Debug(errUtils.ErrNoExecutionsTriggered.Error(), "deployment", deployment.ID)
	}

	organizationID, err := r.organizationID(ctx)
	if err != nil {
		return nil, "", err
	}

	outputLink := fmt.Sprintf("%s/workspaces/%s/events/%s", r.Config.AppBaseURL, organizationID, deployment.ID)
	log.Info(fmt.Sprintf("Deployment triggered. View output at: %s", outputLink))

	return deployment, outputLink, nil
}

// organizationID resolves the workspace of the application, or else the environment.
func (r *RunTests) organizationID(ctx context.Context) (string, error) {
	switch {
	case r.Config.ApplicationID != "":
		app, err := r.Client.GetApplication(ctx, r.Config.ApplicationID)
		if err != nil {
			return "", err
		}
		return app.OrganizationID, nil
	case r.Config.EnvironmentID != "":
		env, err := r.Client.GetEnvironment(ctx, r.Config.EnvironmentID)
		if err != nil {
			return "", err
		}
		return env.OrganizationID, nil
	default:
		return "", errUtils.ErrMissingApplicationOrEnv
	}
}

func (r *RunTests) reportResults(result *dtos.ExecutionResult, eventID, outputLink string) error {
	out := r.Out
	if out == nil {
		out = os.Stdout
	}
	for i := range result.Executions {
		fmt.Fprintln(out, report.FormatExecution(&result.Executions[i]))
	}

	writer := r.Provider.OutputWriter()
	err := ci.NewOutputHelpers(writer).WriteResultOutputs(ci.ResultOutputOptions{
		PlansRun:    result.PlanExecutionMetrics.Total,
		PlansPassed: result.PlanExecutionMetrics.Passed,
		PlansFailed: result.PlanExecutionMetrics.Failed,
		TestsRun:    result.JourneyExecutionMetrics.Total,
		TestsPassed: result.JourneyExecutionMetrics.Passed,
		TestsFailed: result.JourneyExecutionMetrics.Failed,
	})
	if err != nil {
		return err
	}

	if err := writer.WriteSummary(report.Summary(result, outputLink)); err != nil {
		log.Warn("Unable to write job summary", "error", err)
	}

	if path := r.Config.JUnitReportPath; path != "" {
		if err := report.WriteJUnit(path, result, eventID, outputLink); err != nil {
			return err
		}
		log.Info("Wrote JUnit report", "path", path)
	}

	return nil
}
