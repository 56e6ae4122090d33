// Package notes renders the release-notes report for a version: issues
// grouped by type, in a caller-chosen category order, in either portable
// Markdown or the tracker's own wiki markup.
package notes

import (
	"fmt"
	"strings"
)

// Issue is the slice of an issue the report needs.
type Issue struct {
	Key     string
	Type    string
	Summary string
}

// Report holds the inputs of a rendered release-notes document. Issues must
// already be in tracker order; grouping preserves it within each category.
type Report struct {
	ProjectName string
	Version     string
	ServerURL   string
	Issues      []Issue
}

// DefaultCategoryOrder is the issue-type ordering used when the caller does
// not supply one.
func DefaultCategoryOrder() []string {
	return []string{
		"New Feature",
		"False Positive",
		"False Negative",
		"Bug",
		"Improvement",
	}
}

// ParseCategoryOrder splits a comma-separated issue-type list, trimming
// whitespace around each entry. An empty input yields the default order.
func ParseCategoryOrder(s string) []string {
	if s == "" {
		return DefaultCategoryOrder()
	}
	parts := strings.Split(s, ",")
	order := make([]string, 0, len(parts))
	for _, p := range parts {
		order = append(order, strings.TrimSpace(p))
	}
	return order
}

// Markdown renders the report in Markdown, matching the tracker's own
// export format.
func (r Report) Markdown(order []string) string {
	return r.render(order, mdDialect)
}

// JiraMarkup renders the report in Jira wiki markup.
func (r Report) JiraMarkup(order []string) string {
	return r.render(order, jiraDialect)
}

type dialect struct {
	title   func(project, version string) string
	heading func(category string) string
	line    func(key, url, summary string) string
}

var mdDialect = dialect{
	title:   func(p, v string) string { return fmt.Sprintf("# Release notes - %s - %s\n", p, v) },
	heading: func(c string) string { return "### " + c },
	line:    func(key, url, summary string) string { return fmt.Sprintf("[%s](%s) %s", key, url, summary) },
}

var jiraDialect = dialect{
	title:   func(p, v string) string { return fmt.Sprintf("h1. Release notes - %s - %s\n", p, v) },
	heading: func(c string) string { return "h3. " + c },
	line:    func(key, url, summary string) string { return fmt.Sprintf("[%s|%s] %s", key, url, summary) },
}

func (r Report) render(order []string, d dialect) string {
	if len(r.Issues) == 0 {
		return d.title(r.ProjectName, r.Version) + "\nNo issues found for this release."
	}

	categorized := make(map[string][]Issue)
	for _, issue := range r.Issues {
		categorized[issue.Type] = append(categorized[issue.Type], issue)
	}

	base := strings.TrimRight(r.ServerURL, "/")
	lines := []string{d.title(r.ProjectName, r.Version)}
	for _, category := range order {
		issues, ok := categorized[category]
		if !ok {
			continue
		}
		lines = append(lines, d.heading(category))
		for _, issue := range issues {
			lines = append(lines, d.line(issue.Key, base+"/browse/"+issue.Key, issue.Summary))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
