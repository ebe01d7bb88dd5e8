package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-github/v59/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestPullRequestFinder_Find(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockPRS := NewMockPullRequestService(ctrl)

	created := github.Timestamp{Time: time.Date(2019, 5, 1, 12, 0, 0, 0, time.UTC)}
	mockPRS.EXPECT().
		ListPullRequestsWithCommit(gomock.Any(), "mablhq", "repo", "abc123", gomock.Any()).
		Return([]*github.PullRequest{{
			Title:     github.String("good pr"),
			Number:    github.Int(5),
			URL:       github.String("https://api.github.com/repos/mablhq/repo/pulls/5"),
			HTMLURL:   github.String("https://github.com/mablhq/repo/pull/5"),
			CreatedAt: &created,
		}}, nil, nil)

	pr, err := NewPullRequestFinder(mockPRS).Find(context.Background(), "mablhq", "repo", "abc123")

	require.NoError(t, err)
	require.NotNil(t, pr)
	assert.Equal(t, "good pr", pr.Title)
	assert.Equal(t, 5, pr.Number)
	assert.Equal(t, "https://api.github.com/repos/mablhq/repo/pulls/5", pr.URL)
	assert.Equal(t, "2019-05-01T12:00:00Z", pr.CreatedAt)
	assert.Empty(t, pr.MergedAt)
}

func TestPullRequestFinder_Find_NoPullRequests(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockPRS := NewMockPullRequestService(ctrl)
	mockPRS.EXPECT().
		ListPullRequestsWithCommit(gomock.Any(), "mablhq", "repo", "abc123", gomock.Any()).
		Return([]*github.PullRequest{}, nil, nil)

	pr, err := NewPullRequestFinder(mockPRS).Find(context.Background(), "mablhq", "repo", "abc123")

	require.NoError(t, err)
	assert.Nil(t, pr)
}

func TestPullRequestFinder_Find_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockPRS := NewMockPullRequestService(ctrl)
	resp := &github.Response{Response: &http.Response{StatusCode: http.StatusNotFound}}
	mockPRS.EXPECT().
		ListPullRequestsWithCommit(gomock.Any(), "mablhq", "repo", "abc123", gomock.Any()).
		Return(nil, resp, errors.New("not found"))

	pr, err := NewPullRequestFinder(mockPRS).Find(context.Background(), "mablhq", "repo", "abc123")

	assert.Nil(t, pr)
	assert.ErrorIs(t, err, ErrPRNotFound)
}

func TestRelatedPullRequest_SwallowsErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "not found", status: http.StatusNotFound},
		{name: "server error", status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockPRS := NewMockPullRequestService(ctrl)
			resp := &github.Response{Response: &http.Response{StatusCode: tt.status}}
			mockPRS.EXPECT().
				ListPullRequestsWithCommit(gomock.Any(), "mablhq", "repo", "abc123", gomock.Any()).
				Return(nil, resp, errors.New("request failed"))

			pr := relatedPullRequest(context.Background(), NewPullRequestFinder(mockPRS), "mablhq", "repo", "abc123")
			assert.Nil(t, pr)
		})
	}
}

func TestRelatedPullRequest_NoToken(t *testing.T) {
	pr := RelatedPullRequest(context.Background(), RelatedPullRequestOptions{Repository: "mablhq/repo", SHA: "abc123"})
	assert.Nil(t, pr)
}

func TestRelatedPullRequest_EnterpriseServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/repos/mablhq/repo/commits/abc123/pulls", r.URL.Path)
		assert.Equal(t, "Bearer gh-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"number": 7, "title": "ship it", "url": "https://ghe.example.com/api/v3/repos/mablhq/repo/pulls/7", "html_url": "https://ghe.example.com/mablhq/repo/pull/7", "merged_at": "2024-01-02T03:04:05Z"}]`))
	}))
	defer server.Close()

	pr := RelatedPullRequest(context.Background(), RelatedPullRequestOptions{
		Token:      "gh-token",
		APIURL:     server.URL + "/api/v3",
		Repository: "mablhq/repo",
		SHA:        "abc123",
	})

	require.NotNil(t, pr)
	assert.Equal(t, 7, pr.Number)
	assert.Equal(t, "ship it", pr.Title)
	assert.Equal(t, "https://ghe.example.com/api/v3/repos/mablhq/repo/pulls/7", pr.URL)
	assert.Equal(t, "2024-01-02T03:04:05Z", pr.MergedAt)
}

func TestNewGitHubClientWithToken_DefaultURL(t *testing.T) {
	client, err := newGitHubClientWithToken(context.Background(), "token", "")
	require.NoError(t, err)
	assert.Equal(t, "https://api.github.com/", client.BaseURL.String())
}
