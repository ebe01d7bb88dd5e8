package github

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/mablhq/github-run-tests-action/errors"
)

const pullRequestEvent = `{
	"action": "synchronize",
	"number": 42,
	"pull_request": {
		"number": 42,
		"html_url": "https://github.com/mablhq/repo/pull/42",
		"head": {"ref": "feature", "sha": "headsha123"},
		"base": {"ref": "main", "sha": "basesha456"}
	}
}`

func setGitHubEnv(t *testing.T) {
	t.Helper()

	t.Setenv("GITHUB_ACTIONS", "true")
	t.Setenv("GITHUB_RUN_ID", "1001")
	t.Setenv("GITHUB_ACTOR", "gcooney")
	t.Setenv("GITHUB_EVENT_NAME", "push")
	t.Setenv("GITHUB_ACTION", "mabl-tests")
	t.Setenv("GITHUB_REF", "refs/heads/master")
	t.Setenv("GITHUB_REF_NAME", "master")
	t.Setenv("GITHUB_HEAD_REF", "")
	t.Setenv("GITHUB_SHA", "mergesha789")
	t.Setenv("GITHUB_REPOSITORY", "mablhq/github-mabl-actions")
	t.Setenv("GITHUB_API_URL", "https://api.github.com")
	t.Setenv("GITHUB_EVENT_PATH", "")
}

func TestProvider_Detect(t *testing.T) {
	p := NewProvider()

	t.Setenv("GITHUB_ACTIONS", "true")
	assert.True(t, p.Detect())

	t.Setenv("GITHUB_ACTIONS", "")
	assert.False(t, p.Detect())
	assert.Equal(t, "github-actions", p.Name())
}

func TestProvider_Input(t *testing.T) {
	p := NewProvider()

	t.Setenv("INPUT_APPLICATION-ID", "baz ")
	assert.Equal(t, "baz", p.Input("application-id"))

	t.Setenv("INPUT_BROWSER-TYPES", "chrome\nfirefox\n")
	assert.Equal(t, "chrome\nfirefox", p.Input("browser-types"))

	t.Setenv("INPUT_MY_INPUT", "spaced")
	assert.Equal(t, "spaced", p.Input("my input"))

	assert.Empty(t, p.Input("not-set"))
}

func TestProvider_Context_Push(t *testing.T) {
	setGitHubEnv(t)

	ctx, err := NewProvider().Context()
	require.NoError(t, err)

	assert.Equal(t, ProviderName, ctx.Provider)
	assert.Equal(t, "gcooney", ctx.Actor)
	assert.Equal(t, "push", ctx.EventName)
	assert.Equal(t, "mabl-tests", ctx.Action)
	assert.Equal(t, "refs/heads/master", ctx.Ref)
	assert.Equal(t, "master", ctx.Branch)
	assert.Equal(t, "mergesha789", ctx.Revision)
	assert.Equal(t, "mablhq", ctx.RepoOwner)
	assert.Equal(t, "github-mabl-actions", ctx.RepoName)
	assert.Equal(t, "git@github.com:mablhq/github-mabl-actions.git", ctx.RepositoryURL)
	assert.Nil(t, ctx.PullRequest)
}

func TestProvider_Context_PullRequestUsesHeadSHA(t *testing.T) {
	setGitHubEnv(t)

	eventPath := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(eventPath, []byte(pullRequestEvent), 0o600))
	t.Setenv("GITHUB_EVENT_NAME", "pull_request")
	t.Setenv("GITHUB_EVENT_PATH", eventPath)
	t.Setenv("GITHUB_HEAD_REF", "feature")

	ctx, err := NewProvider().Context()
	require.NoError(t, err)

	assert.Equal(t, "headsha123", ctx.Revision)
	assert.Equal(t, "mergesha789", ctx.SHA)
	assert.Equal(t, "feature", ctx.Branch)
	require.NotNil(t, ctx.PullRequest)
	assert.Equal(t, 42, ctx.PullRequest.Number)
	assert.Equal(t, "main", ctx.PullRequest.BaseRef)
	assert.Equal(t, "https://github.com/mablhq/repo/pull/42", ctx.PullRequest.URL)
}

func TestProvider_Context_PullRequestWithoutPayload(t *testing.T) {
	setGitHubEnv(t)
	t.Setenv("GITHUB_EVENT_NAME", "pull_request")

	ctx, err := NewProvider().Context()
	require.NoError(t, err)
	assert.Empty(t, ctx.Revision)
}

func TestProvider_Context_InvalidPayload(t *testing.T) {
	setGitHubEnv(t)

	eventPath := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(eventPath, []byte("{not json"), 0o600))
	t.Setenv("GITHUB_EVENT_NAME", "pull_request")
	t.Setenv("GITHUB_EVENT_PATH", eventPath)

	_, err := NewProvider().Context()
	assert.ErrorIs(t, err, errUtils.ErrFailedToReadEvent)
}

func TestProvider_WorkflowCommands(t *testing.T) {
	var out bytes.Buffer
	p := NewProviderWithWriter(&out)

	p.StartGroup("Gathering inputs")
	p.Warn("2 test failures\nmarked as passing")
	p.Fail("100% failed")
	p.EndGroup()

	assert.Equal(t,
		"::group::Gathering inputs\n"+
			"::warning::2 test failures%0Amarked as passing\n"+
			"::error::100%25 failed\n"+
			"::endgroup::\n",
		out.String())
}

func TestProvider_OutputWriter(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "output")
	t.Setenv("GITHUB_OUTPUT", outputPath)
	t.Setenv("GITHUB_STEP_SUMMARY", "")

	require.NoError(t, NewProvider().OutputWriter().WriteOutput("tests_run", "3"))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, "tests_run=3\n", string(data))
}
