package main

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/relpipe/relpipe/internal/config"
	"github.com/relpipe/relpipe/internal/jira"
)

var updateIntegrationTicketsCmd = &cobra.Command{
	Use:   "update-integration-tickets",
	Short: "Find the SQS and SC tickets linked to a release ticket",
	Long: `Find the integration tickets linked to a release ticket: exactly one
in the SonarQube Server project and exactly one in the SonarCloud project.

When --sqs-fix-versions is given, the SQS ticket's fix versions are updated
to the listed names; a failed update is a warning, not a failure, and both
keys are still emitted.`,
	RunE: runUpdateIntegrationTickets,
}

func init() {
	rootCmd.AddCommand(updateIntegrationTicketsCmd)

	f := updateIntegrationTicketsCmd.Flags()
	f.String("release-ticket-key", "", "The key of the release ticket")
	f.String("sqs-fix-versions", "", "Comma-separated list of fix versions for the SQS ticket")
	f.Bool("use-sandbox", false, "Use the sandbox Jira server")
}

func runUpdateIntegrationTickets(cmd *cobra.Command, args []string) error {
	releaseTicketKey, err := requireString(cmd, "release-ticket-key")
	if err != nil {
		return err
	}
	fixVersions, _ := cmd.Flags().GetString("sqs-fix-versions")
	useSandbox, _ := cmd.Flags().GetBool("use-sandbox")

	creds, err := config.LoadJira()
	if err != nil {
		return err
	}
	client, err := jira.NewClient(creds, config.ServerURL(useSandbox), logger)
	if err != nil {
		return err
	}

	logger.Info("fetching release ticket to find linked issues", zap.String("key", releaseTicketKey))
	releaseIssue, err := client.Issue(releaseTicketKey, "issuelinks")
	if err != nil {
		return err
	}

	sqsTicketKey, err := jira.LinkedIssueKey(releaseIssue, config.SQSProjectKey)
	if err != nil {
		return err
	}
	logger.Info("found linked ticket", zap.String("key", sqsTicketKey))

	scTicketKey, err := jira.LinkedIssueKey(releaseIssue, config.SonarCloudProjectKey)
	if err != nil {
		return err
	}
	logger.Info("found linked ticket", zap.String("key", scTicketKey))

	// Best effort: the lookup result is emitted even when the update fails.
	if fixVersions != "" {
		names := strings.Split(fixVersions, ",")
		if err := client.UpdateFixVersions(sqsTicketKey, names); err != nil {
			logger.Warn("could not update fix versions", zap.String("key", sqsTicketKey), zap.Error(err))
		}
	}

	out.Set("sqs_ticket_key", sqsTicketKey)
	out.Set("sc_ticket_key", scTicketKey)
	return nil
}
