package publish

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v68/github"

	"github.com/lucas-albers-lz4/shipit/pkg/log"
)

// VisibilityClient makes a published package publicly visible.
type VisibilityClient interface {
	MakePublic(ctx context.Context, encodedName string) error
}

// GitHubVisibilityClient implements VisibilityClient against the GitHub
// packages API. Owner is the user or organization the packages belong to;
// BaseURL overrides the API endpoint for tests.
type GitHubVisibilityClient struct {
	Owner   string
	Token   string
	BaseURL string
}

// MakePublic flips the container package named by encodedName (slashes
// percent-encoded as %2F) to public visibility. Already-public packages are
// accepted, keeping the operation idempotent across reruns.
func (c *GitHubVisibilityClient) MakePublic(ctx context.Context, encodedName string) error {
	client := github.NewClient(nil).WithAuthToken(c.Token)
	if c.BaseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(c.BaseURL, c.BaseURL)
		if err != nil {
			return fmt.Errorf("invalid API base URL: %w", err)
		}
	}

	u := fmt.Sprintf("users/%s/packages/container/%s", c.Owner, encodedName)
	req, err := client.NewRequest(http.MethodPatch, u, map[string]string{"visibility": "public"})
	if err != nil {
		return fmt.Errorf("failed to build visibility request: %w", err)
	}

	if _, err := client.Do(ctx, req, nil); err != nil {
		return fmt.Errorf("failed to update visibility for %s: %w", encodedName, err)
	}

	log.Info("Package made public", "package", encodedName)
	return nil
}
