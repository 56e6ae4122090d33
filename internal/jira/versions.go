package jira

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	jira "github.com/andygrunwald/go-jira"
	"go.uber.org/zap"
)

// ErrVersionExists is returned by CreateVersion when the project already has
// a version with the requested name.
var ErrVersionExists = errors.New("version already exists")

// Released reports whether a version carries the released flag.
func Released(v jira.Version) bool {
	return v.Released != nil && *v.Released
}

// NormalizeVersionName strips a trailing ".0" component from a version name:
// "1.2.0" becomes "1.2". Names without the suffix are returned unchanged.
func NormalizeVersionName(name string) string {
	if trimmed, ok := strings.CutSuffix(name, ".0"); ok && trimmed != "" {
		return trimmed
	}
	return name
}

// IncrementVersion bumps the final dot-separated component of a version name:
// "1.2.3" becomes "1.2.4". A non-numeric final component is an input error.
func IncrementVersion(name string) (string, error) {
	parts := strings.Split(name, ".")
	last, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return "", fmt.Errorf("could not auto-increment version %q: it does not follow a standard x.y.z format", name)
	}
	parts[len(parts)-1] = strconv.Itoa(last + 1)
	return strings.Join(parts, "."), nil
}

// ReleaseReportURL returns the tracker's release-report page for a version.
func (c *Client) ReleaseReportURL(projectKey, versionID string) string {
	return fmt.Sprintf("%s/projects/%s/versions/%s/tab/release-report-all-issues", c.serverURL, projectKey, versionID)
}

// Project fetches a project by key. A 404 is reported as a targeted
// not-found error.
func (c *Client) Project(projectKey string) (*jira.Project, error) {
	project, resp, err := c.client.Project.Get(projectKey)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("project with key %q not found", projectKey)
		}
		return nil, fmt.Errorf("failed to fetch project %q: %w", projectKey, jira.NewJiraError(resp, err))
	}
	return project, nil
}

// ProjectVersions lists the versions of a project in the tracker's order.
func (c *Client) ProjectVersions(projectKey string) ([]jira.Version, error) {
	project, err := c.Project(projectKey)
	if err != nil {
		return nil, err
	}
	return project.Versions, nil
}

// FindVersion selects a version by exact name, falling back to the
// ".0"-normalized name. The first match in tracker order wins when names are
// duplicated.
func FindVersion(versions []jira.Version, name string) (jira.Version, bool) {
	for _, v := range versions {
		if v.Name == name {
			return v, true
		}
	}
	if normalized := NormalizeVersionName(name); normalized != name {
		for _, v := range versions {
			if v.Name == normalized {
				return v, true
			}
		}
	}
	return jira.Version{}, false
}

// UnreleasedVersion returns the single unreleased version of a project.
// Zero candidates is a not-found error; more than one requires the caller to
// disambiguate and the error lists every candidate.
func UnreleasedVersion(projectKey string, versions []jira.Version) (jira.Version, error) {
	var unreleased []jira.Version
	for _, v := range versions {
		if !Released(v) {
			unreleased = append(unreleased, v)
		}
	}

	switch len(unreleased) {
	case 0:
		return jira.Version{}, fmt.Errorf("no unreleased versions found for project %q: ensure there is at least one unreleased version in Jira", projectKey)
	case 1:
		return unreleased[0], nil
	default:
		names := make([]string, 0, len(unreleased))
		for _, v := range unreleased {
			names = append(names, v.Name)
		}
		return jira.Version{}, fmt.Errorf("multiple unreleased versions found for project %q, specify one with --jira-release-name: %s",
			projectKey, strings.Join(names, ", "))
	}
}

// CreateVersion creates a version in a project. A name collision is reported
// as ErrVersionExists so callers can treat it as non-fatal.
func (c *Client) CreateVersion(projectKey, name string) (*jira.Version, error) {
	project, err := c.Project(projectKey)
	if err != nil {
		return nil, err
	}
	projectID, err := strconv.Atoi(project.ID)
	if err != nil {
		return nil, fmt.Errorf("unexpected project id %q: %w", project.ID, err)
	}

	version, resp, err := c.client.Version.Create(&jira.Version{
		Name:      name,
		ProjectID: projectID,
	})
	if err != nil {
		jerr := jira.NewJiraError(resp, err)
		if strings.Contains(jerr.Error(), "A version with this name already exists") {
			return nil, ErrVersionExists
		}
		return nil, fmt.Errorf("failed to create version %q: %w", name, jerr)
	}

	c.logger.Info("created version", zap.String("project", projectKey), zap.String("version", version.Name))
	return version, nil
}

// ReleaseVersion marks a version as released with today's date.
func (c *Client) ReleaseVersion(version jira.Version) error {
	released := true
	_, resp, err := c.client.Version.Update(&jira.Version{
		ID:          version.ID,
		Released:    &released,
		ReleaseDate: time.Now().Format("2006-01-02"),
	})
	if err != nil {
		return fmt.Errorf("failed to release version %q: %w", version.Name, jira.NewJiraError(resp, err))
	}

	c.logger.Info("released version", zap.String("version", version.Name))
	return nil
}
