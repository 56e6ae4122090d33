package github

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/relpipe/relpipe/internal/config"
)

// Client wraps the GitHub API for branch protection operations.
type Client struct {
	apiClient *github.Client
	logger    *zap.Logger
}

// NewClient creates a new GitHub client.
func NewClient(creds config.GitHubCredentials, logger *zap.Logger) *Client {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: creds.Token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		apiClient: github.NewClient(tc),
		logger:    logger,
	}
}

// Protection fetches the branch protection record for a branch. An absent
// record is not an error: it returns nil, meaning "no protection,
// unlocked".
func (c *Client) Protection(ctx context.Context, owner, repo, branch string) (*github.Protection, error) {
	protection, _, err := c.apiClient.Repositories.GetBranchProtection(ctx, owner, repo, branch)
	if err != nil {
		if errors.Is(err, github.ErrBranchNotProtected) {
			c.logger.Warn("no branch protection found", zap.String("branch", branch))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get branch protection for %s/%s@%s: %w", owner, repo, branch, err)
	}
	return protection, nil
}

// EnsureLocked brings a branch's lock flag to the requested state and
// returns the state found before the call. A branch already in the requested
// state is left untouched and no update is sent.
func (c *Client) EnsureLocked(ctx context.Context, owner, repo, branch string, lock bool) (bool, error) {
	protection, err := c.Protection(ctx, owner, repo, branch)
	if err != nil {
		return false, err
	}

	previous := Locked(protection)
	c.logger.Info("lock state", zap.Bool("current", previous), zap.Bool("requested", lock))
	if previous == lock {
		c.logger.Info("branch is already in the requested state, no action needed", zap.String("branch", branch))
		return previous, nil
	}

	if err := c.SetLocked(ctx, owner, repo, branch, lock, protection); err != nil {
		return previous, err
	}
	return previous, nil
}

// SetLocked replaces the branch protection record with one that preserves
// every current sub-setting and sets the lock flag to the requested value.
// The API resets unspecified fields on update, so the full payload is
// rebuilt from the prior record.
func (c *Client) SetLocked(ctx context.Context, owner, repo, branch string, lock bool, prior *github.Protection) error {
	payload := LockRequest(prior, lock)

	action := "unlocking"
	if lock {
		action = "locking"
	}
	c.logger.Info(action+" branch", zap.String("repo", owner+"/"+repo), zap.String("branch", branch))

	_, resp, err := c.apiClient.Repositories.UpdateBranchProtection(ctx, owner, repo, branch, payload)
	if err != nil {
		body := ""
		if resp != nil {
			body = fmt.Sprintf(" (status %d)", resp.StatusCode)
		}
		return fmt.Errorf("failed to update branch protection for %s/%s@%s%s: %w", owner, repo, branch, body, err)
	}
	return nil
}
