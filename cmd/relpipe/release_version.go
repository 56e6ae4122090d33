package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/relpipe/relpipe/internal/config"
	"github.com/relpipe/relpipe/internal/jira"
)

var releaseVersionCmd = &cobra.Command{
	Use:   "release-version",
	Short: "Release a Jira version and create the next one",
	Long: `Release the named Jira version with today's date, then create the
following version.

The next version's name is --new-version-name when given, otherwise the
released name with its final numeric component incremented. A version that
is already released, or a next version that already exists, is skipped with
a warning.`,
	RunE: runReleaseVersion,
}

func init() {
	rootCmd.AddCommand(releaseVersionCmd)

	f := releaseVersionCmd.Flags()
	f.String("project-key", "", "The key of the Jira project (e.g. SONARIAC)")
	f.String("jira-release-name", "", "The name of the version to release")
	f.String("new-version-name", "", "The name for the next version")
	f.Bool("use-sandbox", false, "Use the sandbox Jira server")
}

func runReleaseVersion(cmd *cobra.Command, args []string) error {
	projectKey, err := requireString(cmd, "project-key")
	if err != nil {
		return err
	}
	releaseName, err := requireString(cmd, "jira-release-name")
	if err != nil {
		return err
	}
	newVersionName, _ := cmd.Flags().GetString("new-version-name")
	useSandbox, _ := cmd.Flags().GetBool("use-sandbox")

	creds, err := config.LoadJira()
	if err != nil {
		return err
	}
	client, err := jira.NewClient(creds, config.ServerURL(useSandbox), logger)
	if err != nil {
		return err
	}

	versions, err := client.ProjectVersions(projectKey)
	if err != nil {
		return err
	}
	version, ok := jira.FindVersion(versions, releaseName)
	if !ok {
		return fmt.Errorf("version %q not found in project %q", releaseName, projectKey)
	}

	if jira.Released(version) {
		logger.Warn("version is already released, skipping release step", zap.String("version", version.Name))
	} else {
		if err := client.ReleaseVersion(version); err != nil {
			return err
		}
	}

	nextName := newVersionName
	if nextName == "" {
		nextName, err = jira.IncrementVersion(releaseName)
		if err != nil {
			return err
		}
		logger.Info("auto-incremented version name", zap.String("next", nextName))
	} else {
		logger.Info("using provided name for new version", zap.String("next", nextName))
	}

	if _, err := client.CreateVersion(projectKey, nextName); err != nil {
		if !errors.Is(err, jira.ErrVersionExists) {
			return err
		}
		logger.Warn("version already exists, skipping creation", zap.String("version", nextName))
	}

	out.Set("new_version_name", nextName)
	return nil
}
