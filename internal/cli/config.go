package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/chlog/internal/config"
	clierrors "github.com/ariel-frischer/chlog/internal/errors"
	"github.com/ariel-frischer/chlog/internal/release"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage chlog configuration",
	Long: `Manage chlog configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Command line flags
  2. Environment variables (CHLOG_*)
  3. Project config (.chlog/config.yml or .chlog/config.json)
  4. User config (~/.config/chlog/config.yml)
  5. Built-in defaults

The GitHub token is read from GITHUB_ACCESS_TOKEN when auth is not set.`,
	Example: `  # Show the effective configuration and where each value comes from
  chlog config show

  # Create .chlog/config.yml with every option documented
  chlog config init

  # Release from a fork
  chlog config set remote origin`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the configuration keys",
	Args:  cobra.NoArgs,
	RunE:  runConfigKeys,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented config file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a value in the project or user config file",
	Example: `  chlog config set timeout 120
  chlog config set resolve_backports true --user`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.GroupID = GroupConfiguration
	configShowCmd.Flags().Bool("json", false, "Output in JSON format")
	configInitCmd.Flags().Bool("user", false, "Write the user config instead of the project config")
	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")
	configSetCmd.Flags().Bool("user", false, "Set the value in the user config")

	configCmd.AddCommand(configShowCmd, configKeysCmd, configInitCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configEntry is one key of the effective configuration.
type configEntry struct {
	Key    string              `json:"key"`
	Value  any                 `json:"value"`
	Source config.ConfigSource `json:"source"`
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	entries := make([]configEntry, 0, len(config.KnownKeys))
	for _, key := range config.SortedKeys() {
		entries = append(entries, configEntry{Key: key, Value: cfg.Value(key), Source: cfg.Source(key)})
	}

	out := cmd.OutOrStdout()
	if flagBool(cmd, "json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintln(out, "Configuration Sources:")
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(tw, "  %s:\t%v\t%s\n", e.Key, e.Value, dim("("+string(e.Source)+")"))
	}
	return tw.Flush()
}

func runConfigKeys(cmd *cobra.Command, _ []string) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tTYPE\tDEFAULT\tDESCRIPTION")
	for _, key := range config.SortedKeys() {
		schema := config.KnownKeys[key]
		fmt.Fprintf(tw, "%s\t%s\t%v\t%s\n", key, schema.Type, schema.Default, schema.Description)
	}
	return tw.Flush()
}

// configFilePath returns the user config path when --user is set and the
// project config path otherwise.
func configFilePath(cmd *cobra.Command) (string, error) {
	if !flagBool(cmd, "user") {
		return config.ProjectConfigPath(), nil
	}
	path, err := config.UserConfigPath()
	if err != nil {
		return "", clierrors.WrapWithMessage(err, clierrors.Prerequisite, "cannot locate the user config directory")
	}
	return path, nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path, err := configFilePath(cmd)
	if err != nil {
		return err
	}

	store := release.FileStore{}
	if store.Exists(path) && !flagBool(cmd, "force") {
		return clierrors.NewPrerequisiteError(
			fmt.Sprintf("config file already exists: %s", path),
			"Pass --force to overwrite it",
			"Or change single values with: chlog config set <key> <value>",
		)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return clierrors.Wrap(fmt.Errorf("creating config directory: %w", err), clierrors.Runtime)
	}
	if err := store.Write(path, config.GetDefaultConfigTemplate()); err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	path, err := configFilePath(cmd)
	if err != nil {
		return err
	}

	if err := config.SetConfigValue(path, key, value); err != nil {
		return clierrors.NewArgumentError(err.Error(), "List valid keys with: chlog config keys")
	}

	scope := "project"
	if flagBool(cmd, "user") {
		scope = "user"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s config (%s)\n", key, value, scope, path)
	return nil
}
