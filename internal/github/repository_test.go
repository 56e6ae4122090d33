package github

import (
	"testing"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitRepository(t *testing.T) {
	owner, repo, err := SplitRepository("acme/widget")
	require.NoError(t, err)
	assert.Equal(t, "acme", owner)
	assert.Equal(t, "widget", repo)
}

func TestSplitRepositoryInvalid(t *testing.T) {
	for _, in := range []string{"", "acme", "acme/widget/extra", "/widget", "acme/"} {
		_, _, err := SplitRepository(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://github.com/acme/widget.git", "acme/widget"},
		{"https://github.com/acme/widget", "acme/widget"},
		{"git@github.com:acme/widget.git", "acme/widget"},
		{"ssh://git@github.com/acme/widget.git", "acme/widget"},
	}
	for _, tt := range tests {
		got, err := parseRemoteURL(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseRemoteURLUnrecognized(t *testing.T) {
	for _, in := range []string{"https://gitlab.com/acme/widget.git", "acme/widget", "git@github.com:acme.git"} {
		_, err := parseRemoteURL(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestInferRepository(t *testing.T) {
	dir := t.TempDir()
	r, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = r.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:acme/widget.git"},
	})
	require.NoError(t, err)

	repository, err := InferRepository(dir)
	require.NoError(t, err)
	assert.Equal(t, "acme/widget", repository)
}

func TestInferRepositoryNoCheckout(t *testing.T) {
	_, err := InferRepository(t.TempDir())
	assert.Error(t, err)
}

func TestInferRepositoryNoOrigin(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = InferRepository(dir)
	assert.Error(t, err)
}
