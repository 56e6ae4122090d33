package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/relpipe/relpipe/internal/config"
	"github.com/relpipe/relpipe/internal/jira"
	"github.com/relpipe/relpipe/internal/notes"
)

var releaseNotesCmd = &cobra.Command{
	Use:   "release-notes",
	Short: "Fetch and format the release notes for a Jira version",
	Long: `Fetch every issue attached to a fixVersion and render them as a
categorized report, together with the URL of the tracker's own release
report page.

The report groups issues by type in the order given by --issue-types (or a
default ordering) and can be rendered as Markdown or as Jira wiki markup.`,
	RunE: runReleaseNotes,
}

func init() {
	rootCmd.AddCommand(releaseNotesCmd)

	f := releaseNotesCmd.Flags()
	f.String("project-key", "", "The Jira project key (e.g. PROJ)")
	f.String("version-name", "", "The name of the fixVersion; also used as the version in the title")
	f.String("issue-types", "", "Comma-separated list of issue types to include, in order")
	f.String("jira-url", "", "The Jira server URL (defaults to the production or sandbox server)")
	f.String("format", "markdown", "Output format: markdown or jira")
	f.Bool("use-sandbox", false, "Use the sandbox Jira server when --jira-url is not given")
}

func runReleaseNotes(cmd *cobra.Command, args []string) error {
	projectKey, err := requireString(cmd, "project-key")
	if err != nil {
		return err
	}
	versionName, err := requireString(cmd, "version-name")
	if err != nil {
		return err
	}
	format, err := requireChoice(cmd, "format", "markdown", "jira")
	if err != nil {
		return err
	}
	issueTypes, _ := cmd.Flags().GetString("issue-types")
	jiraURL, _ := cmd.Flags().GetString("jira-url")
	useSandbox, _ := cmd.Flags().GetBool("use-sandbox")

	order := notes.ParseCategoryOrder(issueTypes)
	logger.Info("using issue type order", zap.Strings("order", order))

	if jiraURL == "" {
		jiraURL = config.ServerURL(useSandbox)
	}

	creds, err := config.LoadJira()
	if err != nil {
		return err
	}
	client, err := jira.NewClient(creds, jiraURL, logger)
	if err != nil {
		return err
	}

	versions, err := client.ProjectVersions(projectKey)
	if err != nil {
		return err
	}
	version, ok := jira.FindVersion(versions, versionName)
	if !ok {
		return fmt.Errorf("version %q not found in project %q", versionName, projectKey)
	}
	reportURL := client.ReleaseReportURL(projectKey, version.ID)

	project, err := client.Project(projectKey)
	if err != nil {
		return err
	}

	issues, err := client.SearchReleaseIssues(projectKey, versionName)
	if err != nil {
		return err
	}

	report := notes.Report{
		ProjectName: project.Name,
		Version:     versionName,
		ServerURL:   client.ServerURL(),
	}
	for _, issue := range issues {
		report.Issues = append(report.Issues, notes.Issue{
			Key:     issue.Key,
			Type:    issue.Fields.Type.Name,
			Summary: issue.Fields.Summary,
		})
	}

	var rendered string
	switch format {
	case "jira":
		rendered = report.JiraMarkup(order)
	default:
		rendered = report.Markdown(order)
	}

	out.Set("jira-release-url", reportURL)
	out.SetMultiline("release-notes", rendered)
	return nil
}
