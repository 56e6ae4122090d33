package jira

import (
	"fmt"
	"strings"

	jira "github.com/andygrunwald/go-jira"
	"go.uber.org/zap"

	"github.com/relpipe/relpipe/internal/config"
)

// Client wraps the Jira API for the release-pipeline stages.
type Client struct {
	client    *jira.Client
	logger    *zap.Logger
	serverURL string
}

// NewClient builds an authenticated client and verifies the credentials with
// an initial request, so that a bad token fails here rather than halfway
// through a mutation.
func NewClient(creds config.JiraCredentials, serverURL string, logger *zap.Logger) (*Client, error) {
	tp := jira.BasicAuthTransport{
		Username: creds.User,
		Password: creds.Token,
	}

	client, err := jira.NewClient(tp.Client(), serverURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create jira client: %w", err)
	}

	logger.Info("connecting to jira", zap.String("server", serverURL), zap.String("user", creds.User))

	if _, resp, err := client.User.GetSelf(); err != nil {
		return nil, fmt.Errorf("jira authentication failed: %w", jira.NewJiraError(resp, err))
	}
	logger.Info("jira authentication successful")

	return &Client{
		client:    client,
		logger:    logger,
		serverURL: strings.TrimRight(serverURL, "/"),
	}, nil
}

// ServerURL returns the base URL the client was built with, without a
// trailing slash.
func (c *Client) ServerURL() string {
	return c.serverURL
}

// BrowseURL returns the permalink for an issue key.
func (c *Client) BrowseURL(key string) string {
	return c.serverURL + "/browse/" + key
}
