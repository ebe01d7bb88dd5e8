package github

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/go-github/v59/github"

	errUtils "github.com/mablhq/github-run-tests-action/errors"
	"github.com/mablhq/github-run-tests-action/pkg/ci"
)

const (
	// ProviderName is the name of the GitHub Actions provider.
	ProviderName = "github-actions"

	eventPullRequest = "pull_request"
)

// Provider implements ci.Provider for GitHub Actions.
type Provider struct {
	out io.Writer
}

// NewProvider creates a new GitHub Actions provider writing workflow commands to stdout.
func NewProvider() *Provider {
	return &Provider{out: os.Stdout}
}

// NewProviderWithWriter creates a GitHub Actions provider writing workflow commands to w.
func NewProviderWithWriter(w io.Writer) *Provider {
	return &Provider{out: w}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return ProviderName
}

// Detect returns true if running in GitHub Actions.
func (p *Provider) Detect() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true"
}

// Input returns the trimmed value of an action input from INPUT_<NAME>.
func (p *Provider) Input(name string) string {
	key := "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
	return strings.TrimSpace(os.Getenv(key))
}

// Context returns CI metadata from GitHub Actions environment variables.
func (p *Provider) Context() (*ci.Context, error) {
	ctx := &ci.Context{
		Provider:   ProviderName,
		RunID:      os.Getenv("GITHUB_RUN_ID"),
		Actor:      os.Getenv("GITHUB_ACTOR"),
		EventName:  os.Getenv("GITHUB_EVENT_NAME"),
		Action:     os.Getenv("GITHUB_ACTION"),
		Ref:        os.Getenv("GITHUB_REF"),
		SHA:        os.Getenv("GITHUB_SHA"),
		Repository: os.Getenv("GITHUB_REPOSITORY"),
		APIURL:     os.Getenv("GITHUB_API_URL"),
	}

	// Parse owner and repo from GITHUB_REPOSITORY.
	if repo := ctx.Repository; repo != "" {
		ctx.RepositoryURL = fmt.Sprintf("git@github.com:%s.git", repo)
		if owner, name, found := strings.Cut(repo, "/"); found {
			ctx.RepoOwner = owner
			ctx.RepoName = name
		}
	}

	// Set branch name (prefer GITHUB_HEAD_REF for PRs, fall back to GITHUB_REF_NAME).
	branch := os.Getenv("GITHUB_HEAD_REF")
	if branch == "" {
		branch = os.Getenv("GITHUB_REF_NAME")
	}
	ctx.Branch = branch

	ctx.Revision = ctx.SHA
	if ctx.EventName == eventPullRequest {
		pr, err := readPullRequestEvent(os.Getenv("GITHUB_EVENT_PATH"))
		if err != nil {
			return nil, err
		}
		ctx.PullRequest = pr
		// GITHUB_SHA is the merge commit for pull requests.
		ctx.Revision = ""
		if pr != nil {
			ctx.Revision = pr.HeadSHA
		}
	}

	return ctx, nil
}

// readPullRequestEvent decodes the webhook payload GitHub writes to GITHUB_EVENT_PATH.
func readPullRequestEvent(path string) (*ci.PRInfo, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf(errUtils.ErrWrappingFormat, errUtils.ErrFailedToReadEvent, err)
	}

	var event github.PullRequestEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf(errUtils.ErrWrappingFormat, errUtils.ErrFailedToReadEvent, err)
	}

	pr := event.GetPullRequest()
	if pr == nil {
		return nil, nil
	}

	number := event.GetNumber()
	if number == 0 {
		number = pr.GetNumber()
	}

	return &ci.PRInfo{
		Number:  number,
		HeadRef: pr.GetHead().GetRef(),
		HeadSHA: pr.GetHead().GetSHA(),
		BaseRef: pr.GetBase().GetRef(),
		URL:     pr.GetHTMLURL(),
	}, nil
}

// OutputWriter returns an OutputWriter for GitHub Actions.
func (p *Provider) OutputWriter() ci.OutputWriter {
	return ci.NewFileOutputWriter(
		os.Getenv("GITHUB_OUTPUT"),
		os.Getenv("GITHUB_STEP_SUMMARY"),
	)
}

// StartGroup implements ci.Provider.
func (p *Provider) StartGroup(name string) {
	p.command("group", name)
}

// EndGroup implements ci.Provider.
func (p *Provider) EndGroup() {
	p.command("endgroup", "")
}

// Fail implements ci.Provider.
func (p *Provider) Fail(msg string) {
	p.command("error", msg)
}

// Warn implements ci.Provider.
func (p *Provider) Warn(msg string) {
	p.command("warning", msg)
}

func (p *Provider) command(name, message string) {
	fmt.Fprintf(p.out, "::%s::%s\n", name, escapeData(message))
}

// escapeData escapes workflow command data so multi-line messages stay one command.
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}

func init() {
	ci.Register(NewProvider())
}
