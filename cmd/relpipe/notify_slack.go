package main

import (
	"github.com/spf13/cobra"

	"github.com/relpipe/relpipe/internal/config"
	"github.com/relpipe/relpipe/internal/slack"
)

var notifySlackCmd = &cobra.Command{
	Use:   "notify-slack",
	Short: "Notify a Slack channel about a branch lock state change",
	RunE:  runNotifySlack,
}

func init() {
	rootCmd.AddCommand(notifySlackCmd)

	f := notifySlackCmd.Flags()
	f.String("channel", "", "Slack channel to send the notification to")
	f.String("branch", "", "The branch name that was locked/unlocked")
	f.String("repository", "", "The repository as owner/repo (defaults to the origin remote of the current checkout)")
	f.String("freeze", "", "Set to 'true' if the branch was locked, 'false' if unlocked")
	f.String("run-url", "", "URL of the workflow run that changed the lock state")
}

func runNotifySlack(cmd *cobra.Command, args []string) error {
	channel, err := requireString(cmd, "channel")
	if err != nil {
		return err
	}
	branch, err := requireString(cmd, "branch")
	if err != nil {
		return err
	}
	freezeArg, err := requireString(cmd, "freeze")
	if err != nil {
		return err
	}
	runURL, err := requireString(cmd, "run-url")
	if err != nil {
		return err
	}
	repository, err := resolveRepository(cmd)
	if err != nil {
		return err
	}
	freeze := parseBool(freezeArg)

	creds, err := config.LoadSlack()
	if err != nil {
		return err
	}
	client := slack.NewClient(creds, logger)

	return client.NotifyLockChange(channel, branch, repository, freeze, runURL)
}
