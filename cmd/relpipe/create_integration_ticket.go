package main

import (
	gojira "github.com/andygrunwald/go-jira"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/relpipe/relpipe/internal/config"
	"github.com/relpipe/relpipe/internal/jira"
)

var createIntegrationTicketCmd = &cobra.Command{
	Use:   "create-integration-ticket",
	Short: "Create an integration ticket and link it to an existing one",
	RunE:  runCreateIntegrationTicket,
}

func init() {
	rootCmd.AddCommand(createIntegrationTicketCmd)

	f := createIntegrationTicketCmd.Flags()
	f.String("ticket-summary", "", "The summary/title for the integration ticket")
	f.String("project-name", "", "Project name used to generate the summary when --ticket-summary is not given")
	f.String("release-version", "", "Release version used to generate the summary when --ticket-summary is not given")
	f.String("linked-ticket-key", "", "The key of the ticket to link to (e.g. REL-123)")
	f.String("jira-project-key", "", "The key of the project where the ticket will be created (e.g. SQS)")
	f.String("jira-url", "", "The Jira server URL to connect to")
	f.String("ticket-description", "", "The description for the integration ticket")
	f.String("link-type", config.DefaultIssueLinkType, "The type of link to create (e.g. 'relates to', 'depends on')")
}

func runCreateIntegrationTicket(cmd *cobra.Command, args []string) error {
	linkedTicketKey, err := requireString(cmd, "linked-ticket-key")
	if err != nil {
		return err
	}
	jiraProjectKey, err := requireString(cmd, "jira-project-key")
	if err != nil {
		return err
	}
	jiraURL, err := requireString(cmd, "jira-url")
	if err != nil {
		return err
	}
	summary, _ := cmd.Flags().GetString("ticket-summary")
	description, _ := cmd.Flags().GetString("ticket-description")
	linkType, _ := cmd.Flags().GetString("link-type")

	if summary == "" {
		projectName, _ := cmd.Flags().GetString("project-name")
		releaseVersion, _ := cmd.Flags().GetString("release-version")
		if projectName == "" || releaseVersion == "" {
			return usagef("either --ticket-summary must be provided, or both --project-name and --release-version")
		}
		summary = "Integration for " + projectName + " " + releaseVersion
		logger.Info("generated ticket summary", zap.String("summary", summary))
	}

	creds, err := config.LoadJira()
	if err != nil {
		return err
	}
	client, err := jira.NewClient(creds, jiraURL, logger)
	if err != nil {
		return err
	}

	linked, err := client.Issue(linkedTicketKey, "")
	if err != nil {
		return err
	}
	logger.Info("found linked ticket",
		zap.String("key", linked.Key),
		zap.String("summary", linked.Fields.Summary),
	)

	issueType, err := client.PickIssueType(jiraProjectKey)
	if err != nil {
		return err
	}
	logger.Info("using issue type", zap.String("type", issueType))

	ticket, err := client.CreateIssue(&gojira.Issue{
		Fields: &gojira.IssueFields{
			Project:     gojira.Project{Key: jiraProjectKey},
			Type:        gojira.IssueType{Name: issueType},
			Summary:     summary,
			Description: description,
		},
	})
	if err != nil {
		return err
	}

	// The ticket exists at this point; a failed link is reported but does
	// not fail the stage.
	if err := client.LinkIssues(linkType, ticket.Key, linked.Key); err != nil {
		logger.Warn("ticket was created but linking failed", zap.Error(err))
	}

	ticketURL := client.BrowseURL(ticket.Key)
	logger.Info("successfully created integration ticket",
		zap.String("key", ticket.Key),
		zap.String("url", ticketURL),
		zap.String("linked_to", linked.Key),
	)

	out.Set("ticket_key", ticket.Key)
	out.Set("ticket_url", ticketURL)
	return nil
}
