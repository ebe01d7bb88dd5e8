package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/mablhq/github-run-tests-action/errors"
)

// Helper function to create an initial commit in a repository.
func createInitialCommit(t *testing.T, repo *git.Repository, dir string) string {
	t.Helper()

	worktree, err := repo.Worktree()
	require.NoError(t, err)

	err = os.WriteFile(filepath.Join(dir, "test.txt"), []byte("test content"), 0o644)
	require.NoError(t, err)

	_, err = worktree.Add("test.txt")
	require.NoError(t, err)

	hash, err := worktree.Commit("Initial commit", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test User",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)

	return hash.String()
}

func TestHeadRevision(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	sha := createInitialCommit(t, repo, dir)

	subdir := filepath.Join(dir, "nested", "deeper")
	require.NoError(t, os.MkdirAll(subdir, 0o755))

	revision, err := HeadRevision(subdir)
	require.NoError(t, err)
	assert.Equal(t, sha, revision)
	assert.Len(t, revision, 40)
}

func TestHeadRevision_NotARepository(t *testing.T) {
	_, err := HeadRevision(t.TempDir())
	assert.ErrorIs(t, err, errUtils.ErrGitRevisionNotFound)
}

func TestHeadRevision_NoCommits(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = HeadRevision(dir)
	assert.ErrorIs(t, err, errUtils.ErrGitRevisionNotFound)
}

func TestGetRepoInfo(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://github.com/mablhq/github-run-tests-action.git"},
	})
	require.NoError(t, err)
	sha := createInitialCommit(t, repo, dir)

	info, err := GetRepoInfo(dir)
	require.NoError(t, err)

	assert.Equal(t, sha, info.Revision)
	assert.Equal(t, "master", info.Branch)
	assert.Equal(t, "https://github.com/mablhq/github-run-tests-action.git", info.RepoURL)
	assert.Equal(t, "mablhq", info.RepoOwner)
	assert.Equal(t, "github-run-tests-action", info.RepoName)
	assert.Equal(t, "github.com", info.RepoHost)
}

func TestGetRepoInfo_NoRemote(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	createInitialCommit(t, repo, dir)

	info, err := GetRepoInfo(dir)
	require.NoError(t, err)
	assert.NotEmpty(t, info.Revision)
	assert.Empty(t, info.RepoURL)
	assert.Empty(t, info.RepoName)
}
