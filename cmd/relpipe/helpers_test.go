package main

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("status", "", "")
	return cmd
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "True", "TRUE", "1", "yes", "YES"} {
		assert.True(t, parseBool(s), "input %q", s)
	}
	for _, s := range []string{"false", "0", "no", "", "maybe"} {
		assert.False(t, parseBool(s), "input %q", s)
	}
}

func TestRequireString(t *testing.T) {
	cmd := newFlagCommand()
	require.NoError(t, cmd.Flags().Set("status", "Start Progress"))

	v, err := requireString(cmd, "status")
	require.NoError(t, err)
	assert.Equal(t, "Start Progress", v)
}

func TestRequireStringMissing(t *testing.T) {
	cmd := newFlagCommand()

	_, err := requireString(cmd, "status")
	require.Error(t, err)

	var uerr *usageError
	assert.True(t, errors.As(err, &uerr))
	assert.Contains(t, err.Error(), "--status")
}

func TestRequireChoice(t *testing.T) {
	cmd := newFlagCommand()
	require.NoError(t, cmd.Flags().Set("status", "Technical Release Done"))

	v, err := requireChoice(cmd, "status", "Start Progress", "Technical Release Done")
	require.NoError(t, err)
	assert.Equal(t, "Technical Release Done", v)
}

func TestRequireChoiceInvalid(t *testing.T) {
	cmd := newFlagCommand()
	require.NoError(t, cmd.Flags().Set("status", "Done"))

	_, err := requireChoice(cmd, "status", "Start Progress", "Technical Release Done")
	require.Error(t, err)

	var uerr *usageError
	assert.True(t, errors.As(err, &uerr))
	assert.Contains(t, err.Error(), "Start Progress")
}
