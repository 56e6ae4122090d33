// relpipe is a collection of release-pipeline stages behind one binary.
// Each subcommand performs a single task against the issue tracker, the
// source-control host, or the chat service, prints machine-readable
// key=value output to stdout, and logs diagnostics to stderr.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/relpipe/relpipe/internal/gha"
)

var (
	logger *zap.Logger
	out    *gha.Writer
)

var rootCmd = &cobra.Command{
	Use:           "relpipe",
	Short:         "Release pipeline automation stages",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var uerr *usageError
		if errors.As(err, &uerr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run() error {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true

	var err error
	logger, err = cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	out = gha.NewWriter(os.Stdout)

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})

	return rootCmd.Execute()
}
