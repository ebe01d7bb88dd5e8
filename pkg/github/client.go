package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v59/github"
	"golang.org/x/oauth2"
)

const defaultAPIURL = "https://api.github.com"

// newGitHubClientWithToken creates a GitHub client authenticated with token.
// A non-default apiURL targets GitHub Enterprise Server.
func newGitHubClientWithToken(ctx context.Context, token, apiURL string) (*github.Client, error) {
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := github.NewClient(oauth2.NewClient(ctx, tokenSource))

	apiURL = strings.TrimSuffix(apiURL, "/")
	if apiURL == "" || apiURL == defaultAPIURL {
		return client, nil
	}

	client, err := client.WithEnterpriseURLs(apiURL+"/", apiURL+"/")
	if err != nil {
		return nil, fmt.Errorf("cannot create github client for %s: %w", apiURL, err)
	}
	return client, nil
}
