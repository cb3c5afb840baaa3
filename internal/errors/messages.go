package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"

	"github.com/ariel-frischer/chlog/internal/changelog"
	"github.com/ariel-frischer/chlog/internal/git"
	"github.com/ariel-frischer/chlog/internal/github"
)

// Common error messages for the chlog CLI.
// These templates ensure consistent, actionable error messages.

// MissingVersion creates an error for a missing version argument.
func MissingVersion(command string) *CLIError {
	return NewArgumentErrorWithUsage(
		"version is required",
		fmt.Sprintf("chlog %s <version>", command),
		"Pass the upcoming release version, e.g. 1.2.0",
		fmt.Sprintf("Example: chlog %s 1.2.0 --branch main", command),
	)
}

// MalformedChangelog creates an error for a changelog whose entry markers
// are missing, duplicated or out of order.
func MalformedChangelog(path string, err error) *CLIError {
	return WrapWithMessage(err, Prerequisite,
		fmt.Sprintf("cannot update %s", path),
		fmt.Sprintf("Add exactly one %s line followed by one %s line", changelog.StartMarker, changelog.EndMarker),
		"Place them where the next release entry belongs, usually below the title",
	)
}

// ChangelogNotFound creates an error for a missing changelog document.
func ChangelogNotFound(path string, err error) *CLIError {
	return WrapWithMessage(err, Prerequisite,
		fmt.Sprintf("changelog not found: %s", path),
		"Create it with the entry markers, or point --changelog at the right file",
		"Set changelog_path in .chlog/config.yml to change the default",
	)
}

// InvalidPRReference creates an error for a [#<n>] token whose number
// cannot be read.
func InvalidPRReference(path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("cannot read PR references in %s", path),
		"Fix the PR number in the [#<n>] link",
	)
}

// MissingVersionEntry creates an error when the marked entry has no heading
// for the version being released.
func MissingVersionEntry(version, path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("%s has no entry for %s", path, version),
		fmt.Sprintf("Run 'chlog draft %s' to create the entry", version),
		fmt.Sprintf("Or rename the entry heading to '## %s'", version),
	)
}

// PRSetMismatch creates an error when the finalized entry disagrees with the
// PRs merged since the last release.
func PRSetMismatch(err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		"changelog entry does not match merged PRs",
		"Re-run 'chlog draft <version>' to pick up newly merged PRs",
		"Remove lines for PRs that were not merged into this release",
	)
}

// NoTagOnBranch creates an error when the release branch has no tag to
// compare against.
func NoTagOnBranch(err error) *CLIError {
	return WrapWithMessage(err, Prerequisite,
		"cannot find the previous release",
		"Fetch tags from the remote: chlog draft <version> --fetch",
		"Check --remote and --branch point at the release branch",
		"Tag the previous release if it was never tagged",
	)
}

// RepoNotDetected creates an error when owner/name cannot be derived from
// the remote.
func RepoNotDetected(remote string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("cannot determine GitHub repository from remote %q", remote),
		"Pass it explicitly: --repo owner/name",
		"Or set repo in .chlog/config.yml",
	)
}

// BranchNotDetected creates an error when HEAD is detached and no branch was
// given.
func BranchNotDetected() *CLIError {
	return NewArgumentError(
		"cannot determine the release branch (detached HEAD)",
		"Pass it explicitly: --branch main",
		"Or check out the release branch",
	)
}

// ConfigParseError creates an error for invalid config file format.
func ConfigParseError(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"failed to load configuration",
		"Check .chlog/config.yml for YAML syntax errors",
		"List valid keys with: chlog config keys",
	)
}

// GitHubRequestFailed creates an error when the GitHub API cannot be reached
// or rejects a request.
func GitHubRequestFailed(err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		"GitHub request failed",
		"Check your network connection",
		"Set a token to raise the rate limit: export GITHUB_ACCESS_TOKEN=<token>",
	)
}

// TimeoutError creates an error when a command times out.
func TimeoutError(duration string, command string, err error) *CLIError {
	cliErr := NewRuntimeError(
		fmt.Sprintf("command timed out after %s: %s", duration, command),
		"Increase timeout in config: CHLOG_TIMEOUT=300",
		"Or edit .chlog/config.yml and set timeout: 300",
		"Set timeout to 0 to disable timeout",
	)
	cliErr.Err = err
	return cliErr
}

// GitNotRepository creates an error when not in a git repository.
func GitNotRepository(err error) *CLIError {
	return WrapWithMessage(err, Prerequisite,
		"not a git repository",
		"Run chlog from inside the project checkout",
		"Or clone the repository first",
	)
}

// Classify maps a workflow error onto a CLIError with remediation.
// Errors that already carry a CLIError are returned unchanged.
func Classify(err error, version, path string) *CLIError {
	if err == nil {
		return nil
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return cliErr
	}

	switch {
	case changelog.IsMalformedDocument(err):
		return MalformedChangelog(path, err)
	case changelog.IsMissingVersionHeading(err):
		return MissingVersionEntry(version, path, err)
	case changelog.IsPRSetMismatch(err):
		return PRSetMismatch(err)
	case changelog.IsInvalidPRReference(err):
		return InvalidPRReference(path, err)
	case git.IsNoTagOnBranch(err):
		return NoTagOnBranch(err)
	case git.IsNotRepository(err):
		return GitNotRepository(err)
	case github.IsRequestError(err):
		return GitHubRequestFailed(err)
	case stderrors.Is(err, fs.ErrNotExist):
		return ChangelogNotFound(path, err)
	case stderrors.Is(err, context.DeadlineExceeded):
		return Wrap(err, Runtime, "Increase the timeout setting or set it to 0")
	default:
		return Wrap(err, Runtime)
	}
}
