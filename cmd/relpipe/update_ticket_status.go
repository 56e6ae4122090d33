package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/relpipe/relpipe/internal/config"
	"github.com/relpipe/relpipe/internal/jira"
)

var updateTicketStatusCmd = &cobra.Command{
	Use:   "update-ticket-status",
	Short: "Transition a release ticket and optionally reassign it",
	Long: `Apply the named transition to a ticket. When --assignee is given,
the reassignment happens first and a failed reassignment aborts the stage
before the transition is attempted.`,
	RunE: runUpdateTicketStatus,
}

func init() {
	rootCmd.AddCommand(updateTicketStatusCmd)

	f := updateTicketStatusCmd.Flags()
	f.String("ticket-key", "", "The key of the Jira ticket to update (e.g. REL-1234)")
	f.String("status", "", "The transition to apply ('Start Progress' or 'Technical Release Done')")
	f.String("assignee", "", "The email of the user to assign the ticket to")
	f.Bool("use-sandbox", false, "Use the sandbox server instead of the production Jira")
}

func runUpdateTicketStatus(cmd *cobra.Command, args []string) error {
	ticketKey, err := requireString(cmd, "ticket-key")
	if err != nil {
		return err
	}
	status, err := requireChoice(cmd, "status", "Start Progress", "Technical Release Done")
	if err != nil {
		return err
	}
	assignee, _ := cmd.Flags().GetString("assignee")
	useSandbox, _ := cmd.Flags().GetBool("use-sandbox")

	creds, err := config.LoadJira()
	if err != nil {
		return err
	}
	client, err := jira.NewClient(creds, config.ServerURL(useSandbox), logger)
	if err != nil {
		return err
	}

	if _, err := client.Issue(ticketKey, ""); err != nil {
		return err
	}

	if assignee != "" {
		if err := client.Assign(ticketKey, assignee); err != nil {
			return err
		}
	}

	if err := client.Transition(ticketKey, status); err != nil {
		return err
	}

	logger.Info("successfully updated ticket",
		zap.String("key", ticketKey),
		zap.String("status", status),
	)
	return nil
}
