package main

import (
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/relpipe/relpipe/internal/config"
	"github.com/relpipe/relpipe/internal/github"
)

var lockBranchCmd = &cobra.Command{
	Use:   "lock-branch",
	Short: "Lock or unlock a branch through its protection settings",
	Long: `Lock or unlock a branch by flipping the lock flag of its branch
protection record.

The update sends a full replacement payload that carries forward every
currently-enabled protection sub-setting, because the API resets fields it
does not receive. A branch already in the requested state is left
untouched.`,
	RunE: runLockBranch,
}

func init() {
	rootCmd.AddCommand(lockBranchCmd)

	f := lockBranchCmd.Flags()
	f.String("branch", "", "The branch name to lock/unlock")
	f.String("freeze", "", "Set to 'true' to lock (freeze), 'false' to unlock (unfreeze)")
	f.String("repository", "", "The repository as owner/repo (defaults to the origin remote of the current checkout)")
}

func runLockBranch(cmd *cobra.Command, args []string) error {
	branch, err := requireString(cmd, "branch")
	if err != nil {
		return err
	}
	freezeArg, err := requireString(cmd, "freeze")
	if err != nil {
		return err
	}
	freeze := parseBool(freezeArg)

	repository, err := resolveRepository(cmd)
	if err != nil {
		return err
	}
	owner, repo, err := github.SplitRepository(repository)
	if err != nil {
		return err
	}

	creds, err := config.LoadGitHub()
	if err != nil {
		return err
	}
	client := github.NewClient(creds, logger)

	logger.Info("fetching branch protection",
		zap.String("repository", repository),
		zap.String("branch", branch),
	)
	previousLocked, err := client.EnsureLocked(cmd.Context(), owner, repo, branch, freeze)
	if err != nil {
		return err
	}

	out.Set("previous_state", strconv.FormatBool(previousLocked))
	out.Set("current_state", strconv.FormatBool(freeze))
	out.Set("branch", branch)
	return nil
}

// resolveRepository returns the --repository flag, or derives owner/repo
// from the working directory's origin remote when the flag is omitted.
func resolveRepository(cmd *cobra.Command) (string, error) {
	repository, _ := cmd.Flags().GetString("repository")
	if repository != "" {
		return repository, nil
	}

	inferred, err := github.InferRepository(".")
	if err != nil {
		return "", usagef("--repository not set and it could not be inferred from the current checkout: %v", err)
	}
	logger.Info("inferred repository from origin remote", zap.String("repository", inferred))
	return inferred, nil
}
