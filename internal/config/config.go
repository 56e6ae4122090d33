package config

import (
	"errors"

	"github.com/spf13/viper"
)

// Jira server URLs. The sandbox instance mirrors production and is used by
// pipeline dry runs. Both can be overridden through the environment.
const (
	defaultProdURL    = "https://sonarsource.atlassian.net/"
	defaultSandboxURL = "https://sonarsource-sandbox-608.atlassian.net/"
)

// Project and issue-type constants for the release workflow.
const (
	ReleaseProjectKey    = "REL"
	ReleaseIssueType     = "Ask for release"
	SQSProjectKey        = "SONAR"
	SonarCloudProjectKey = "SC"
	DefaultIssueLinkType = "relates to"
)

// JiraCredentials is the basic-auth pair for the issue tracker.
type JiraCredentials struct {
	User  string
	Token string
}

// GitHubCredentials holds the API token for branch operations.
type GitHubCredentials struct {
	Token string
}

// SlackCredentials holds the bot token for chat notifications.
type SlackCredentials struct {
	Token string
}

func env() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	return v
}

// LoadJira reads JIRA_USER and JIRA_TOKEN from the environment. Both must be
// present before any network call is attempted.
func LoadJira() (JiraCredentials, error) {
	v := env()
	creds := JiraCredentials{
		User:  v.GetString("JIRA_USER"),
		Token: v.GetString("JIRA_TOKEN"),
	}
	if creds.User == "" || creds.Token == "" {
		return JiraCredentials{}, errors.New("JIRA_USER and JIRA_TOKEN environment variables must be set")
	}
	return creds, nil
}

// LoadGitHub reads GITHUB_TOKEN from the environment.
func LoadGitHub() (GitHubCredentials, error) {
	token := env().GetString("GITHUB_TOKEN")
	if token == "" {
		return GitHubCredentials{}, errors.New("GITHUB_TOKEN environment variable must be set")
	}
	return GitHubCredentials{Token: token}, nil
}

// LoadSlack reads SLACK_TOKEN from the environment.
func LoadSlack() (SlackCredentials, error) {
	token := env().GetString("SLACK_TOKEN")
	if token == "" {
		return SlackCredentials{}, errors.New("SLACK_TOKEN environment variable must be set")
	}
	return SlackCredentials{Token: token}, nil
}

// ServerURL returns the Jira server to talk to. JIRA_PROD_URL and
// JIRA_SANDBOX_URL override the built-in defaults when set.
func ServerURL(useSandbox bool) string {
	v := env()
	v.SetDefault("JIRA_PROD_URL", defaultProdURL)
	v.SetDefault("JIRA_SANDBOX_URL", defaultSandboxURL)
	if useSandbox {
		return v.GetString("JIRA_SANDBOX_URL")
	}
	return v.GetString("JIRA_PROD_URL")
}

// ReleaseTicketFields maps the release ticket's custom fields to the IDs the
// tracker assigned them. The IDs are instance-specific and fixed for the
// lifetime of the process.
type ReleaseTicketFields struct {
	ShortDescription    string
	SQCompatibility     string
	TargetedProduct     string
	LinkToReleaseNotes  string
	DocumentationStatus string
	RulePropsChanged    string
	SonarLintChangelog  string
}

// DefaultReleaseTicketFields returns the custom-field table for the REL
// project.
func DefaultReleaseTicketFields() ReleaseTicketFields {
	return ReleaseTicketFields{
		ShortDescription:    "customfield_10146",
		SQCompatibility:     "customfield_10148",
		TargetedProduct:     "customfield_10163",
		LinkToReleaseNotes:  "customfield_10145",
		DocumentationStatus: "customfield_10147",
		RulePropsChanged:    "customfield_11263",
		SonarLintChangelog:  "customfield_11264",
	}
}
