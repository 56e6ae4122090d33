package jira

import (
	"fmt"
	"net/http"
	"strings"

	jira "github.com/andygrunwald/go-jira"
	"go.uber.org/zap"
)

// Issue fetches an issue by key. The fields parameter restricts the response
// to the named fields; pass "" for the default set. A 404 is reported as a
// targeted not-found error.
func (c *Client) Issue(key, fields string) (*jira.Issue, error) {
	var opts *jira.GetQueryOptions
	if fields != "" {
		opts = &jira.GetQueryOptions{Fields: fields}
	}

	issue, resp, err := c.client.Issue.Get(key, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("ticket %q not found", key)
		}
		return nil, fmt.Errorf("failed to fetch ticket %q: %w", key, jira.NewJiraError(resp, err))
	}
	return issue, nil
}

// CreateIssue creates an issue. Creation failures surface the remote error
// body verbatim.
func (c *Client) CreateIssue(issue *jira.Issue) (*jira.Issue, error) {
	created, resp, err := c.client.Issue.Create(issue)
	if err != nil {
		return nil, fmt.Errorf("failed to create jira ticket: %w", jira.NewJiraError(resp, err))
	}

	c.logger.Info("created ticket", zap.String("key", created.Key))
	return created, nil
}

// preferredIssueTypes is the first-match order used when picking an issue
// type for generic tickets.
var preferredIssueTypes = []string{"task", "story"}

// PickIssueType selects an issue type for a project from its create
// metadata: a preferred name first, then the first type the project offers.
func (c *Client) PickIssueType(projectKey string) (string, error) {
	meta, resp, err := c.client.Issue.GetCreateMetaWithOptions(&jira.GetQueryOptions{ProjectKeys: projectKey})
	if err != nil {
		return "", fmt.Errorf("failed to fetch create metadata for project %q: %w", projectKey, jira.NewJiraError(resp, err))
	}

	project := meta.GetProjectWithKey(projectKey)
	if project == nil {
		return "", fmt.Errorf("project with key %q not found", projectKey)
	}

	name := pickIssueType(project.IssueTypes)
	if name == "" {
		return "", fmt.Errorf("no available issue types found for project %q", projectKey)
	}
	return name, nil
}

func pickIssueType(types []*jira.MetaIssueType) string {
	for _, preferred := range preferredIssueTypes {
		for _, t := range types {
			if strings.EqualFold(t.Name, preferred) {
				return t.Name
			}
		}
	}
	if len(types) > 0 {
		return types[0].Name
	}
	return ""
}

// LinkIssues creates a link of the given type between two issues.
func (c *Client) LinkIssues(linkType, inwardKey, outwardKey string) error {
	resp, err := c.client.Issue.AddLink(&jira.IssueLink{
		Type:         jira.IssueLinkType{Name: linkType},
		InwardIssue:  &jira.Issue{Key: inwardKey},
		OutwardIssue: &jira.Issue{Key: outwardKey},
	})
	if err != nil {
		return fmt.Errorf("failed to link %s to %s: %w", inwardKey, outwardKey, jira.NewJiraError(resp, err))
	}

	c.logger.Info("linked tickets", zap.String("inward", inwardKey), zap.String("outward", outwardKey))
	return nil
}

// LinkedIssueKey returns the key of the one issue linked to the given issue
// whose key belongs to the target project. Zero matches and multiple matches
// are both errors; the latter lists every candidate.
func LinkedIssueKey(issue *jira.Issue, targetProjectKey string) (string, error) {
	prefix := targetProjectKey + "-"

	var found []string
	for _, link := range issue.Fields.IssueLinks {
		linked := link.OutwardIssue
		if linked == nil {
			linked = link.InwardIssue
		}
		if linked != nil && strings.HasPrefix(linked.Key, prefix) {
			found = append(found, linked.Key)
		}
	}

	switch len(found) {
	case 0:
		return "", fmt.Errorf("no linked ticket found in project %q for ticket %q", targetProjectKey, issue.Key)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("found multiple linked tickets in project %q for ticket %q, ensure only one is linked: %s",
			targetProjectKey, issue.Key, strings.Join(found, ", "))
	}
}

// Transition applies the named transition to an issue. The name is resolved
// against the transitions available from the issue's current state, by the
// transition's own name first and by its target status as a fallback; an
// unavailable name is an invalid-transition error listing the valid ones.
func (c *Client) Transition(key, transitionName string) error {
	transitions, resp, err := c.client.Issue.GetTransitions(key)
	if err != nil {
		return fmt.Errorf("failed to fetch transitions for %q: %w", key, jira.NewJiraError(resp, err))
	}

	var transitionID string
	for _, t := range transitions {
		if strings.EqualFold(t.Name, transitionName) {
			transitionID = t.ID
			break
		}
	}
	if transitionID == "" {
		for _, t := range transitions {
			if strings.EqualFold(t.To.Name, transitionName) {
				transitionID = t.ID
				break
			}
		}
	}
	if transitionID == "" {
		available := make([]string, 0, len(transitions))
		for _, t := range transitions {
			available = append(available, t.Name)
		}
		return fmt.Errorf("transition %q is not valid from the ticket's current status (available: %s)",
			transitionName, strings.Join(available, ", "))
	}

	if resp, err := c.client.Issue.DoTransition(key, transitionID); err != nil {
		return fmt.Errorf("failed to transition %q with %q: %w", key, transitionName, jira.NewJiraError(resp, err))
	}

	c.logger.Info("transitioned ticket", zap.String("key", key), zap.String("transition", transitionName))
	return nil
}

// Assign assigns an issue to the user matching the given email address.
func (c *Client) Assign(key, email string) error {
	users, resp, err := c.client.User.Find(email)
	if err != nil {
		return fmt.Errorf("failed to look up user %q: %w", email, jira.NewJiraError(resp, err))
	}
	if len(users) == 0 {
		return fmt.Errorf("no assignable user found for %q: ensure the user exists and has assignable permissions", email)
	}

	if resp, err := c.client.Issue.UpdateAssignee(key, &users[0]); err != nil {
		return fmt.Errorf("failed to assign %q to %q: %w", key, email, jira.NewJiraError(resp, err))
	}

	c.logger.Info("assigned ticket", zap.String("key", key), zap.String("assignee", email))
	return nil
}

// UpdateFixVersions replaces an issue's fixVersions with the named versions.
func (c *Client) UpdateFixVersions(key string, names []string) error {
	versions := make([]map[string]string, 0, len(names))
	for _, name := range names {
		versions = append(versions, map[string]string{"name": strings.TrimSpace(name)})
	}

	data := map[string]interface{}{
		"fields": map[string]interface{}{
			"fixVersions": versions,
		},
	}
	if resp, err := c.client.Issue.UpdateIssue(key, data); err != nil {
		return fmt.Errorf("failed to update fix versions for %q: %w", key, jira.NewJiraError(resp, err))
	}

	c.logger.Info("updated fix versions", zap.String("key", key), zap.Strings("versions", names))
	return nil
}

// SearchReleaseIssues returns every issue attached to a fixVersion, in the
// tracker's query order: issue type ascending, then key ascending.
func (c *Client) SearchReleaseIssues(projectKey, versionName string) ([]jira.Issue, error) {
	jql := fmt.Sprintf("project = \"%s\" AND fixVersion = \"%s\" ORDER BY issuetype ASC, key ASC", projectKey, versionName)

	var issues []jira.Issue
	err := c.client.Issue.SearchPages(jql, &jira.SearchOptions{MaxResults: 100}, func(issue jira.Issue) error {
		issues = append(issues, issue)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search issues with %q: %w", jql, err)
	}

	c.logger.Info("found release issues", zap.String("version", versionName), zap.Int("count", len(issues)))
	return issues, nil
}
