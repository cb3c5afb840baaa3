// Package cli implements the chlog command line: drafting, checking and
// extracting the living changelog entry of a GitHub project.
package cli

import (
	"log/slog"
	"os"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/chlog/internal/build"
	clierrors "github.com/ariel-frischer/chlog/internal/errors"
	"github.com/ariel-frischer/chlog/internal/git"
)

// Command group IDs for organizing help output
const (
	GroupRelease       = "release"
	GroupConfiguration = "configuration"
)

var rootCmd = &cobra.Command{
	Use:   "chlog",
	Short: "Keep a living changelog entry for the next release",
	Long: `chlog keeps the entry for the next release of a GitHub project inside
CHANGELOG.md, between two marker lines:

  <!-- <START NEW CHANGELOG ENTRY> -->
  <!-- <END NEW CHANGELOG ENTRY> -->

The entry is generated from the PRs merged since the most recent tag on the
release branch. Hand edits to PR lines survive re-drafting, and 'check'
verifies the finalized entry before the release is cut.

Source: https://github.com/ariel-frischer/chlog`,
	Example: `  # Draft the entry for the upcoming release
  chlog draft 1.2.0

  # Draft against a fork's origin remote, resolving backports
  chlog draft 1.2.0 --remote origin --branch 1.x --resolve-backports

  # Verify the finalized entry in CI and save it for the release notes
  chlog check 1.2.0 --output entry.md

  # Print the current entry
  chlog extract`,
	Version:       build.Info(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		setupLogging(cmd, debug)
		return nil
	},
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupRelease, Title: "Release Commands:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"},
	)

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to config file (default: .chlog/config.yml)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine(),
			"Run '"+cmd.CommandPath()+" --help' to list the flags")
	})
}

// setupLogging stores a clog logger writing to stderr in the command context
// and routes git debug output through it.
func setupLogging(cmd *cobra.Command, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := clog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	cmd.SetContext(clog.WithLogger(cmd.Context(), logger))

	if debug {
		git.SetDebugLogger(logger.Debugf)
	} else {
		git.SetDebugLogger(nil)
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Main runs chlog and returns the process exit code. Errors are printed to
// stderr with their remediation steps.
func Main() int {
	err := Execute()
	if err == nil {
		return ExitSuccess
	}
	printError(os.Stderr, err)
	return ExitCode(err)
}
