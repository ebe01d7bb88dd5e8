package azure

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	errUtils "github.com/mablhq/github-run-tests-action/errors"
	"github.com/mablhq/github-run-tests-action/pkg/ci"
)

const (
	// ProviderName is the name of the Azure Pipelines provider.
	ProviderName = "azure-pipelines"

	reasonPullRequest = "PullRequest"
	summaryFileName   = "mabl-summary.md"
)

// Provider implements ci.Provider for Azure Pipelines.
type Provider struct {
	out io.Writer
}

// NewProvider creates a new Azure Pipelines provider writing logging commands to stdout.
func NewProvider() *Provider {
	return &Provider{out: os.Stdout}
}

// NewProviderWithWriter creates an Azure Pipelines provider writing logging commands to w.
func NewProviderWithWriter(w io.Writer) *Provider {
	return &Provider{out: w}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return ProviderName
}

// Detect returns true if running in Azure Pipelines.
func (p *Provider) Detect() bool {
	return strings.EqualFold(os.Getenv("TF_BUILD"), "true")
}

// Input returns the trimmed value of a task input. Azure drops hyphens from input variable names.
func (p *Provider) Input(name string) string {
	key := strings.ToUpper(strings.NewReplacer("-", "", " ", "_", ".", "_").Replace(name))
	return strings.TrimSpace(os.Getenv("INPUT_" + key))
}

// Context returns CI metadata from Azure Pipelines predefined variables.
func (p *Provider) Context() (*ci.Context, error) {
	ctx := &ci.Context{
		Provider:      ProviderName,
		RunID:         os.Getenv("BUILD_BUILDID"),
		Actor:         os.Getenv("BUILD_REQUESTEDFOR"),
		EventName:     os.Getenv("BUILD_REASON"),
		Action:        os.Getenv("SYSTEM_DEFINITIONNAME"),
		Ref:           os.Getenv("BUILD_SOURCEBRANCH"),
		Branch:        os.Getenv("BUILD_SOURCEBRANCHNAME"),
		SHA:           os.Getenv("BUILD_SOURCEVERSION"),
		Repository:    os.Getenv("BUILD_REPOSITORY_NAME"),
		RepositoryURL: os.Getenv("BUILD_REPOSITORY_URI"),
	}
	ctx.Revision = ctx.SHA

	if owner, name, found := strings.Cut(ctx.Repository, "/"); found {
		ctx.RepoOwner = owner
		ctx.RepoName = name
	} else {
		ctx.RepoName = ctx.Repository
	}

	if ctx.EventName == reasonPullRequest {
		number, _ := strconv.Atoi(os.Getenv("SYSTEM_PULLREQUEST_PULLREQUESTNUMBER"))
		if number == 0 {
			number, _ = strconv.Atoi(os.Getenv("SYSTEM_PULLREQUEST_PULLREQUESTID"))
		}
		ctx.PullRequest = &ci.PRInfo{
			Number:  number,
			HeadRef: os.Getenv("SYSTEM_PULLREQUEST_SOURCEBRANCH"),
			HeadSHA: os.Getenv("SYSTEM_PULLREQUEST_SOURCECOMMITID"),
			BaseRef: os.Getenv("SYSTEM_PULLREQUEST_TARGETBRANCH"),
		}
		if ctx.PullRequest.HeadSHA != "" {
			ctx.Revision = ctx.PullRequest.HeadSHA
		}
	}

	return ctx, nil
}

// OutputWriter returns an OutputWriter emitting Azure logging commands.
func (p *Provider) OutputWriter() ci.OutputWriter {
	return &OutputWriter{out: p.out, tempDir: os.Getenv("AGENT_TEMPDIRECTORY")}
}

// StartGroup implements ci.Provider.
func (p *Provider) StartGroup(name string) {
	fmt.Fprintf(p.out, "##[group]%s\n", name)
}

// EndGroup implements ci.Provider.
func (p *Provider) EndGroup() {
	fmt.Fprintln(p.out, "##[endgroup]")
}

// Fail implements ci.Provider.
func (p *Provider) Fail(msg string) {
	fmt.Fprintf(p.out, "##vso[task.logissue type=error]%s\n", escapeData(msg))
	fmt.Fprintf(p.out, "##vso[task.complete result=Failed;]%s\n", escapeData(msg))
}

// Warn implements ci.Provider.
func (p *Provider) Warn(msg string) {
	fmt.Fprintf(p.out, "##vso[task.logissue type=warning]%s\n", escapeData(msg))
}

// OutputWriter sets output variables with task.setvariable and uploads summaries as markdown.
type OutputWriter struct {
	out     io.Writer
	tempDir string
}

// WriteOutput implements ci.OutputWriter.
func (w *OutputWriter) WriteOutput(key, value string) error {
	_, err := fmt.Fprintf(w.out, "##vso[task.setvariable variable=%s;isOutput=true]%s\n", key, escapeData(value))
	if err != nil {
		return fmt.Errorf(errUtils.ErrWrappingFormat, errUtils.ErrFailedToWriteOutput, err)
	}
	return nil
}

// WriteSummary writes content to a markdown file in the agent temp directory and attaches it to the run.
func (w *OutputWriter) WriteSummary(content string) error {
	if w.tempDir == "" {
		return nil
	}

	path := filepath.Join(w.tempDir, summaryFileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf(errUtils.ErrWrappingFormat, errUtils.ErrFailedToWriteSummary, err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf(errUtils.ErrWrappingFormat, errUtils.ErrFailedToWriteSummary, err)
	}

	fmt.Fprintf(w.out, "##vso[task.uploadsummary]%s\n", path)
	return nil
}

func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%AZP25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}

func init() {
	ci.Register(NewProvider())
}
