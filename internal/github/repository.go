package github

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
)

// SplitRepository parses an "owner/repo" reference.
func SplitRepository(repository string) (owner, repo string, err error) {
	parts := strings.Split(repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q: expected owner/repo", repository)
	}
	return parts[0], parts[1], nil
}

// InferRepository derives "owner/repo" from the origin remote of the
// checkout at dir. The pipeline stages run inside a workflow checkout, so
// the local clone knows which repository they operate on.
func InferRepository(dir string) (string, error) {
	r, err := git.PlainOpen(dir)
	if err != nil {
		return "", fmt.Errorf("failed to open repository at %q: %w", dir, err)
	}

	remote, err := r.Remote("origin")
	if err != nil {
		return "", fmt.Errorf("failed to get origin remote: %w", err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("origin remote has no URL")
	}
	return parseRemoteURL(urls[0])
}

// parseRemoteURL extracts "owner/repo" from the https and ssh remote URL
// forms.
func parseRemoteURL(url string) (string, error) {
	trimmed := url
	switch {
	case strings.HasPrefix(trimmed, "https://github.com/"):
		trimmed = strings.TrimPrefix(trimmed, "https://github.com/")
	case strings.HasPrefix(trimmed, "git@github.com:"):
		trimmed = strings.TrimPrefix(trimmed, "git@github.com:")
	case strings.HasPrefix(trimmed, "ssh://git@github.com/"):
		trimmed = strings.TrimPrefix(trimmed, "ssh://git@github.com/")
	default:
		return "", fmt.Errorf("unrecognized remote URL %q", url)
	}
	trimmed = strings.TrimSuffix(trimmed, ".git")
	trimmed = strings.TrimSuffix(trimmed, "/")

	if _, _, err := SplitRepository(trimmed); err != nil {
		return "", fmt.Errorf("unrecognized remote URL %q", url)
	}
	return trimmed, nil
}
