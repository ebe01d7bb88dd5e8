package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v59/github"

	log "github.com/mablhq/github-run-tests-action/pkg/logger"
	"github.com/mablhq/github-run-tests-action/pkg/mabl/dtos"
)

// ErrPRNotFound indicates GitHub returned 404 for the commit or repository.
var ErrPRNotFound = errors.New("pull request not found")

// PullRequestService defines the pull request operations used by the finder.
// This allows for mocking in tests.
//
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -source=pulls.go -destination=mock_pulls_test.go -package=github
type PullRequestService interface {
	ListPullRequestsWithCommit(ctx context.Context, owner, repo, sha string, opts *github.ListOptions) ([]*github.PullRequest, *github.Response, error)
}

// PullRequestFinder looks up the pull request associated with a commit.
type PullRequestFinder struct {
	pullRequests PullRequestService
}

// NewPullRequestFinder creates a PullRequestFinder with a custom service.
func NewPullRequestFinder(prs PullRequestService) *PullRequestFinder {
	return &PullRequestFinder{pullRequests: prs}
}

// Find returns the first pull request containing sha, or nil if there is none.
func (f *PullRequestFinder) Find(ctx context.Context, owner, repo, sha string) (*dtos.PullRequest, error) {
	prs, resp, err := f.pullRequests.ListPullRequestsWithCommit(ctx, owner, repo, sha, &github.ListOptions{PerPage: 1})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s in %s/%s", ErrPRNotFound, sha, owner, repo)
		}
		return nil, err
	}
	if len(prs) == 0 || prs[0] == nil {
		return nil, nil
	}

	return toPullRequest(prs[0]), nil
}

func toPullRequest(pr *github.PullRequest) *dtos.PullRequest {
	result := &dtos.PullRequest{
		Title:  pr.GetTitle(),
		Number: pr.GetNumber(),
		URL:    pr.GetURL(),
	}
	if pr.CreatedAt != nil {
		result.CreatedAt = pr.CreatedAt.UTC().Format(time.RFC3339)
	}
	if pr.MergedAt != nil {
		result.MergedAt = pr.MergedAt.UTC().Format(time.RFC3339)
	}
	return result
}

// RelatedPullRequestOptions identifies the commit to look up.
type RelatedPullRequestOptions struct {
	Token  string
	APIURL string
	// Repository is "owner/name".
	Repository string
	SHA        string
}

// RelatedPullRequest returns the pull request associated with the commit, or nil.
// The lookup is best effort: without a token nothing is requested, a 404 is ignored
// and any other failure is logged as a warning.
func RelatedPullRequest(ctx context.Context, opts RelatedPullRequestOptions) *dtos.PullRequest {
	if opts.Token == "" || opts.SHA == "" {
		return nil
	}

	owner, repo, found := strings.Cut(opts.Repository, "/")
	if !found {
		log.Debug("Skipping pull request lookup", "repository", opts.Repository)
		return nil
	}

	client, err := newGitHubClientWithToken(ctx, opts.Token, opts.APIURL)
	if err != nil {
		log.Warn(err.Error())
		return nil
	}

	return relatedPullRequest(ctx, NewPullRequestFinder(client.PullRequests), owner, repo, opts.SHA)
}

func relatedPullRequest(ctx context.Context, finder *PullRequestFinder, owner, repo, sha string) *dtos.PullRequest {
	pr, err := finder.Find(ctx, owner, repo, sha)
	if err != nil {
		if !errors.Is(err, ErrPRNotFound) {
			log.Warn(err.Error())
		}
		return nil
	}
	return pr
}
