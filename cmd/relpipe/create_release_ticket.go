package main

import (
	"fmt"

	gojira "github.com/andygrunwald/go-jira"
	"github.com/spf13/cobra"
	"github.com/trivago/tgo/tcontainer"
	"go.uber.org/zap"

	"github.com/relpipe/relpipe/internal/config"
	"github.com/relpipe/relpipe/internal/jira"
)

var createReleaseTicketCmd = &cobra.Command{
	Use:   "create-release-ticket",
	Short: "Create an 'Ask for release' ticket for a project version",
	Long: `Create an 'Ask for release' ticket in the REL project.

The ticket links to the release report of the targeted Jira version: either
the one named with --jira-release-name (which must be unreleased), or the
project's single unreleased version.`,
	RunE: runCreateReleaseTicket,
}

func init() {
	rootCmd.AddCommand(createReleaseTicketCmd)

	f := createReleaseTicketCmd.Flags()
	f.String("project-key", "", "The key of the project (e.g. SONARIAC)")
	f.String("project-name", "", "The display name of the project (e.g. SonarIaC)")
	f.String("version", "", "The version being released (e.g. 11.44.2)")
	f.String("short-description", "", "A short description for the release")
	f.String("sq-compatibility", "", "SonarQube compatibility version (e.g. 2025.3)")
	f.String("targeted-product", "", "The targeted product version (e.g. 11.0)")
	f.String("documentation-status", "N/A", "Status of the documentation")
	f.String("rule-props-changed", "No", "Whether rule properties have changed (Yes or No)")
	f.String("jira-release-name", "", "The specific Jira release version to use")
	f.String("sonarlint-changelog", "", "The SonarLint changelog content")
	f.Bool("use-sandbox", false, "Use the sandbox server instead of the production Jira")
}

func runCreateReleaseTicket(cmd *cobra.Command, args []string) error {
	projectKey, err := requireString(cmd, "project-key")
	if err != nil {
		return err
	}
	projectName, err := requireString(cmd, "project-name")
	if err != nil {
		return err
	}
	version, err := requireString(cmd, "version")
	if err != nil {
		return err
	}
	shortDescription, err := requireString(cmd, "short-description")
	if err != nil {
		return err
	}
	sqCompatibility, err := requireString(cmd, "sq-compatibility")
	if err != nil {
		return err
	}
	rulePropsChanged, err := requireChoice(cmd, "rule-props-changed", "Yes", "No")
	if err != nil {
		return err
	}
	targetedProduct, _ := cmd.Flags().GetString("targeted-product")
	documentationStatus, _ := cmd.Flags().GetString("documentation-status")
	jiraReleaseName, _ := cmd.Flags().GetString("jira-release-name")
	sonarlintChangelog, _ := cmd.Flags().GetString("sonarlint-changelog")
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

	var target gojira.Version
	if jiraReleaseName != "" {
		logger.Info("searching for specified release version", zap.String("name", jiraReleaseName))
		found, ok := jira.FindVersion(versions, jiraReleaseName)
		if !ok {
			return fmt.Errorf("specified Jira release %q not found for project %q", jiraReleaseName, projectKey)
		}
		if jira.Released(found) {
			return fmt.Errorf("the specified version %q has already been released: provide an unreleased version or omit --jira-release-name", jiraReleaseName)
		}
		target = found
	} else {
		logger.Info("no release version specified, searching for unreleased versions")
		target, err = jira.UnreleasedVersion(projectKey, versions)
		if err != nil {
			return err
		}
	}
	releaseNotesLink := client.ReleaseReportURL(projectKey, target.ID)
	logger.Info("found unreleased version",
		zap.String("version", target.Name),
		zap.String("release_notes", releaseNotesLink),
	)

	fields := config.DefaultReleaseTicketFields()
	unknowns := tcontainer.NewMarshalMap()
	unknowns[fields.ShortDescription] = shortDescription
	unknowns[fields.SQCompatibility] = sqCompatibility
	unknowns[fields.LinkToReleaseNotes] = releaseNotesLink
	unknowns[fields.DocumentationStatus] = documentationStatus
	unknowns[fields.RulePropsChanged] = map[string]string{"value": rulePropsChanged}
	unknowns[fields.SonarLintChangelog] = sonarlintChangelog
	if targetedProduct != "" {
		unknowns[fields.TargetedProduct] = map[string]string{"value": targetedProduct}
	}

	ticket, err := client.CreateIssue(&gojira.Issue{
		Fields: &gojira.IssueFields{
			Project:  gojira.Project{Key: config.ReleaseProjectKey},
			Type:     gojira.IssueType{Name: config.ReleaseIssueType},
			Summary:  projectName + " " + version,
			Unknowns: unknowns,
		},
	})
	if err != nil {
		return err
	}

	ticketURL := client.BrowseURL(ticket.Key)
	logger.Info("successfully created release ticket",
		zap.String("key", ticket.Key),
		zap.String("url", ticketURL),
	)

	out.Set("ticket_key", ticket.Key)
	out.Set("ticket_url", ticketURL)
	return nil
}
