package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	clierrors "github.com/ariel-frischer/chlog/internal/errors"
	"github.com/ariel-frischer/chlog/internal/release"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Print the current changelog entry",
	Long: `Print the text between the entry markers of the changelog.

A missing changelog or missing markers print nothing and are not an error,
so extract is safe to run in release scripts before the first draft.`,
	Example: `  # Print the entry
  chlog extract

  # Save it to a file
  chlog extract --output entry.md`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	extractCmd.GroupID = GroupRelease
	extractCmd.Flags().String("changelog", "", "Changelog file (default: CHANGELOG.md)")
	extractCmd.Flags().StringP("output", "o", "", "Write the entry to this file instead of stdout")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store := release.FileStore{}
	svc := &release.Service{Store: store}
	entry, err := svc.ExtractCurrent(cfg.ChangelogPath)
	if err != nil {
		return clierrors.Classify(err, "", cfg.ChangelogPath)
	}

	if output := flagString(cmd, "output"); output != "" {
		if err := store.Write(output, entry); err != nil {
			return clierrors.Wrap(err, clierrors.Runtime)
		}
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), entry)
	return nil
}
