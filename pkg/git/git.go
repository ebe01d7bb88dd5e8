package git

import (
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
	giturl "github.com/kubescape/go-git-url"

	errUtils "github.com/mablhq/github-run-tests-action/errors"
)

// GetLocalRepo opens the repository containing path, searching parent directories.
func GetLocalRepo(path string) (*git.Repository, error) {
	localRepo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, err
	}

	return localRepo, nil
}

// HeadRevision returns the commit SHA checked out in the repository containing dir.
func HeadRevision(dir string) (string, error) {
	repo, err := GetLocalRepo(dir)
	if err != nil {
		return "", fmt.Errorf(errUtils.ErrWrappingFormat, errUtils.ErrGitRevisionNotFound, err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf(errUtils.ErrWrappingFormat, errUtils.ErrGitRevisionNotFound, err)
	}

	return head.Hash().String(), nil
}

type RepoInfo struct {
	Revision  string
	Branch    string
	RepoURL   string
	RepoOwner string
	RepoName  string
	RepoHost  string
}

// GetRepoInfo describes HEAD and the first remote of the repository containing dir.
// Remote fields stay empty when the repository has no remote.
func GetRepoInfo(dir string) (RepoInfo, error) {
	repo, err := GetLocalRepo(dir)
	if err != nil {
		return RepoInfo{}, fmt.Errorf(errUtils.ErrWrappingFormat, errUtils.ErrGitRevisionNotFound, err)
	}

	head, err := repo.Head()
	if err != nil {
		return RepoInfo{}, fmt.Errorf(errUtils.ErrWrappingFormat, errUtils.ErrGitRevisionNotFound, err)
	}

	info := RepoInfo{Revision: head.Hash().String()}
	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}

	repoConfig, err := repo.Config()
	if err != nil {
		return info, err
	}

	// Prefer origin, otherwise take the first remote by name.
	names := make([]string, 0, len(repoConfig.Remotes))
	for name := range repoConfig.Remotes {
		names = append(names, name)
	}
	if len(names) == 0 {
		return info, nil
	}
	sort.Strings(names)
	remote, ok := repoConfig.Remotes["origin"]
	if !ok {
		remote = repoConfig.Remotes[names[0]]
	}
	if len(remote.URLs) == 0 || remote.URLs[0] == "" {
		return info, nil
	}

	info.RepoURL = remote.URLs[0]
	gitURL, err := giturl.NewGitURL(info.RepoURL)
	if err != nil {
		// Unknown hosts are fine; keep the raw URL.
		return info, nil
	}
	info.RepoOwner = gitURL.GetOwnerName()
	info.RepoName = gitURL.GetRepoName()
	info.RepoHost = gitURL.GetHostName()

	return info, nil
}
