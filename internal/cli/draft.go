package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/chlog/internal/output"
	"github.com/ariel-frischer/chlog/internal/progress"
)

var draftCmd = &cobra.Command{
	Use:   "draft <version>",
	Short: "Draft the changelog entry for an upcoming version",
	Long: `Draft the changelog entry for an upcoming version.

The entry lists the PRs merged since the most recent tag on
<remote>/<branch> and is written between the entry markers of the
changelog. Running draft again for the same version keeps every PR line
already in the entry, including hand edits, and only adds newly merged PRs.
Drafting a new version moves the previous entry below the end marker.`,
	Example: `  # Draft 1.2.0 from upstream/<current branch>
  chlog draft 1.2.0

  # Draft a maintenance release from origin/1.x after fetching
  chlog draft 1.1.3 --remote origin --branch 1.x --fetch

  # Replace backport bot PRs with the PRs they backport
  chlog draft 1.1.3 --branch 1.x --resolve-backports`,
	Args: versionArg("draft"),
	RunE: runDraft,
}

func init() {
	draftCmd.GroupID = GroupRelease
	addReleaseFlags(draftCmd)
	rootCmd.AddCommand(draftCmd)
}

func runDraft(cmd *cobra.Command, args []string) error {
	w, err := newWorkflow(cmd, args[0])
	if err != nil {
		return err
	}
	defer w.cancel()

	result, err := w.svc.Draft(w.ctx, w.opts)
	if err != nil {
		return w.fail(err)
	}

	symbols := progress.SelectSymbols(progress.DetectTerminalCapabilities(os.Stdout))
	output.PrintDraftSummary(cmd.OutOrStdout(), symbols, result, w.opts.Version, w.opts.ChangelogPath)
	return nil
}
