package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/chlog/internal/output"
	"github.com/ariel-frischer/chlog/internal/progress"
)

var checkCmd = &cobra.Command{
	Use:   "check <version>",
	Short: "Verify the finalized entry lists exactly the merged PRs",
	Long: `Verify the finalized changelog entry for a version.

The entry between the markers must have a heading for the version and must
mention exactly the PRs merged since the most recent tag on
<remote>/<branch>. A PR whose line mentions "changelog" may be left out.
Every missing and unexpected PR is reported at once.

Exit codes:
  0  the entry is complete
  1  the heading is missing or the PR sets differ
  4  the markers are missing or the branch has no tag`,
	Example: `  # Check before tagging
  chlog check 1.2.0

  # Check and save the entry for the release notes
  chlog check 1.2.0 --output release-notes.md`,
	Args: versionArg("check"),
	RunE: runCheck,
}

func init() {
	checkCmd.GroupID = GroupRelease
	addReleaseFlags(checkCmd)
	checkCmd.Flags().StringP("output", "o", "", "Write the final entry to this file when the check passes")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	w, err := newWorkflow(cmd, args[0])
	if err != nil {
		return err
	}
	defer w.cancel()

	outputPath := flagString(cmd, "output")
	if err := w.svc.Check(w.ctx, w.opts, outputPath); err != nil {
		return w.fail(err)
	}

	symbols := progress.SelectSymbols(progress.DetectTerminalCapabilities(os.Stdout))
	output.PrintSuccess(cmd.OutOrStdout(), symbols,
		fmt.Sprintf("%s entry for %s matches the merged PRs", w.opts.ChangelogPath, w.opts.Version))
	if outputPath != "" {
		output.PrintWrote(cmd.OutOrStdout(), "entry", outputPath)
	}
	return nil
}
