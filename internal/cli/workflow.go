package cli

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/chlog/internal/config"
	clierrors "github.com/ariel-frischer/chlog/internal/errors"
	"github.com/ariel-frischer/chlog/internal/git"
	"github.com/ariel-frischer/chlog/internal/github"
	"github.com/ariel-frischer/chlog/internal/progress"
	"github.com/ariel-frischer/chlog/internal/release"
)

// flagKeys maps command line flags onto the config keys they override.
var flagKeys = map[string]string{
	"branch":            "branch",
	"remote":            "remote",
	"repo":              "repo",
	"changelog":         "changelog_path",
	"resolve-backports": "resolve_backports",
	"backport-bot":      "backport_bot",
	"debug":             "debug",
}

// addReleaseFlags registers the flags shared by draft and check.
func addReleaseFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("branch", "b", "", "Release branch (default: the checked out branch)")
	f.StringP("remote", "r", "", "Remote whose branch is searched for tags (default: upstream)")
	f.String("repo", "", "GitHub repository as owner/name (default: parsed from the remote URL)")
	f.String("changelog", "", "Changelog file (default: CHANGELOG.md)")
	f.Bool("resolve-backports", false, "Replace backport bot PRs with the PRs they backport")
	f.String("backport-bot", "", "Login of the backport bot (default: meeseeksmachine)")
	f.Bool("fetch", false, "Fetch the remote's branches and tags before looking up the last tag")
}

// versionArg requires exactly one non-empty version argument.
func versionArg(command string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
			return clierrors.MissingVersion(command)
		}
		if len(args) > 1 {
			return clierrors.NewArgumentErrorWithUsage("expected a single version argument",
				cmd.UseLine(), "Pass only the upcoming release version, e.g. 1.2.0")
		}
		return nil
	}
}

// flagString returns the value of a string flag, or "" when the command
// does not define it.
func flagString(cmd *cobra.Command, name string) string {
	if cmd.Flags().Lookup(name) == nil {
		return ""
	}
	v, _ := cmd.Flags().GetString(name)
	return v
}

func flagBool(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Lookup(name) == nil {
		return false
	}
	v, _ := cmd.Flags().GetBool(name)
	return v
}

// configOverrides collects the flags set on the command line as config
// overrides.
func configOverrides(cmd *cobra.Command) (map[string]any, error) {
	overrides := make(map[string]any)
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		v, err := config.ParseValue(key, f.Value.String())
		if err != nil {
			return nil, clierrors.NewArgumentError("--" + name + ": " + err.Error())
		}
		overrides[key] = v
	}
	return overrides, nil
}

// loadConfig loads the layered configuration with the command's flags on top.
func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	overrides, err := configOverrides(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectConfigPath: flagString(cmd, "config"),
		Overrides:         overrides,
		WarningWriter:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, clierrors.ConfigParseError(err)
	}
	if cfg.Debug && !flagBool(cmd, "debug") {
		setupLogging(cmd, true)
	}
	return cfg, nil
}

// workflow is one draft or check run: its configuration, the resolved
// options and the service wired to git and GitHub.
type workflow struct {
	cmd     *cobra.Command
	cfg     *config.Configuration
	opts    release.Options
	svc     *release.Service
	ctx     context.Context
	cancel  context.CancelFunc
	spinner *progress.Spinner
}

// newWorkflow resolves the branch and repository for version and wires the
// release service. The caller must call cancel.
func newWorkflow(cmd *cobra.Command, version string) (*workflow, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if cfg.Timeout > 0 {
		ctx, cancel = context.WithTimeout(cmd.Context(), time.Duration(cfg.Timeout)*time.Second)
	} else {
		ctx, cancel = context.WithCancel(cmd.Context())
	}

	w := &workflow{
		cmd:     cmd,
		cfg:     cfg,
		opts:    release.Options{Version: version},
		ctx:     ctx,
		cancel:  cancel,
		spinner: progress.NewSpinner(cmd.ErrOrStderr(), progress.DetectTerminalCapabilities(os.Stderr)),
	}
	if err := w.resolve(version); err != nil {
		cancel()
		return nil, err
	}
	return w, nil
}

func (w *workflow) resolve(version string) error {
	repo := git.Repository{}

	branch := w.cfg.Branch
	if branch == "" {
		current, err := repo.CurrentBranch()
		if err != nil {
			return w.fail(err)
		}
		if current == "" {
			return clierrors.BranchNotDetected()
		}
		branch = current
	}

	name := w.cfg.Repo
	if name == "" {
		parsed, err := repo.RemoteRepository(w.cfg.Remote)
		if err != nil {
			if git.IsNotRepository(err) {
				return w.fail(err)
			}
			return clierrors.RepoNotDetected(w.cfg.Remote, err)
		}
		name = parsed
	}

	if flagBool(w.cmd, "fetch") {
		err := w.spinner.Run("Fetching "+w.cfg.Remote, func() error {
			return repo.Fetch(w.ctx, w.cfg.Remote)
		})
		if err != nil {
			return w.fail(err)
		}
	}

	client, err := github.NewClient(w.ctx, w.cfg.Auth, w.cfg.APIURL)
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Configuration, "invalid api_url",
			"Set api_url to the REST endpoint, e.g. https://ghe.example.com/api/v3/")
	}

	w.opts = release.Options{
		Version:          version,
		Branch:           w.cfg.Remote + "/" + branch,
		Repo:             name,
		ChangelogPath:    w.cfg.ChangelogPath,
		ResolveBackports: w.cfg.ResolveBackports,
		BackportBot:      w.cfg.BackportBot,
	}
	w.svc = &release.Service{
		Activity: spinnerActivity{inner: client, spinner: w.spinner},
		Tags:     repo,
		Lookup:   client,
		Store:    release.FileStore{},
	}
	return nil
}

// fail classifies err for display. A deadline hit under the configured
// timeout becomes a timeout error.
func (w *workflow) fail(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) && w.cfg.Timeout > 0 {
		timeout := time.Duration(w.cfg.Timeout) * time.Second
		return clierrors.TimeoutError(timeout.String(), w.cmd.Name(), err)
	}
	return clierrors.Classify(err, w.opts.Version, w.cfg.ChangelogPath)
}

// spinnerActivity shows a spinner while the merged PRs are fetched.
type spinnerActivity struct {
	inner   release.ActivityProvider
	spinner *progress.Spinner
}

func (a spinnerActivity) MergedPRActivity(ctx context.Context, repo, since string) (string, error) {
	var md string
	err := a.spinner.Run("Fetching PRs merged into "+repo+" since "+since, func() error {
		var err error
		md, err = a.inner.MergedPRActivity(ctx, repo, since)
		return err
	})
	return md, err
}
