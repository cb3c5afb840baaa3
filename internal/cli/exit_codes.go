package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ariel-frischer/chlog/internal/changelog"
	clierrors "github.com/ariel-frischer/chlog/internal/errors"
)

// Exit codes for the chlog CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitValidationFailed indicates the changelog entry failed validation
	ExitValidationFailed = 1

	// ExitInvalidArguments indicates invalid command arguments or configuration
	ExitInvalidArguments = 3

	// ExitMissingDependencies indicates a missing prerequisite such as a
	// malformed changelog or a branch without tags
	ExitMissingDependencies = 4

	// ExitTimeout indicates command execution timed out
	ExitTimeout = 5
)

// ExitCode maps err onto the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ExitTimeout
	}
	if changelog.IsMissingVersionHeading(err) || changelog.IsPRSetMismatch(err) {
		return ExitValidationFailed
	}

	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		switch cliErr.Category {
		case clierrors.Argument, clierrors.Configuration:
			return ExitInvalidArguments
		case clierrors.Prerequisite:
			return ExitMissingDependencies
		}
	}
	return ExitValidationFailed
}

// printError writes err with its remediation steps.
func printError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprint(w, clierrors.FormatSimpleError(err, clierrors.Runtime))
}
