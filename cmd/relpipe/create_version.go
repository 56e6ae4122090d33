package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/relpipe/relpipe/internal/config"
	"github.com/relpipe/relpipe/internal/jira"
)

var createVersionCmd = &cobra.Command{
	Use:   "create-version",
	Short: "Create a version in a Jira project",
	RunE:  runCreateVersion,
}

func init() {
	rootCmd.AddCommand(createVersionCmd)

	f := createVersionCmd.Flags()
	f.String("project-key", "", "The key of the Jira project (e.g. SONARIAC)")
	f.String("version-name", "", "The name for the new version")
	f.Bool("use-sandbox", false, "Use the sandbox Jira server")
}

func runCreateVersion(cmd *cobra.Command, args []string) error {
	projectKey, err := requireString(cmd, "project-key")
	if err != nil {
		return err
	}
	versionName, err := requireString(cmd, "version-name")
	if err != nil {
		return err
	}
	useSandbox, _ := cmd.Flags().GetBool("use-sandbox")

	creds, err := config.LoadJira()
	if err != nil {
		return err
	}
	client, err := jira.NewClient(creds, config.ServerURL(useSandbox), logger)
	if err != nil {
		return err
	}

	version, err := client.CreateVersion(projectKey, versionName)
	if errors.Is(err, jira.ErrVersionExists) {
		logger.Warn("version already exists, skipping creation", zap.String("version", versionName))

		versions, err := client.ProjectVersions(projectKey)
		if err != nil {
			return err
		}
		existing, ok := jira.FindVersion(versions, versionName)
		if !ok {
			return fmt.Errorf("could not find existing version %q in project %q", versionName, projectKey)
		}
		version = &existing
	} else if err != nil {
		return err
	}

	out.Set("new_version_id", version.ID)
	out.Set("new_version_name", version.Name)
	return nil
}
