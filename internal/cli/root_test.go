// Package cli tests root command and global flags for chlog.
// Related: internal/cli/root.go
// Tags: cli, root, commands, global-flags

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Structure(t *testing.T) {
	assert.Equal(t, "chlog", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.Contains(t, rootCmd.Long, "<!-- <START NEW CHANGELOG ENTRY> -->")
	assert.Contains(t, rootCmd.Long, "github.com")
	assert.Contains(t, rootCmd.Example, "chlog draft 1.2.0")
	assert.Contains(t, rootCmd.Example, "chlog check 1.2.0")
	assert.NotEmpty(t, rootCmd.Version)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	tests := map[string]struct {
		flagName     string
		wantShortcut string
	}{
		"config has shortcut c": {flagName: "config", wantShortcut: "c"},
		"debug has shortcut d":  {flagName: "debug", wantShortcut: "d"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			flag := rootCmd.PersistentFlags().Lookup(tt.flagName)
			require.NotNil(t, flag, "Flag %s should exist", tt.flagName)
			assert.Equal(t, tt.wantShortcut, flag.Shorthand)
		})
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	tests := map[string]struct {
		group     string
		wantFlags []string
	}{
		"draft":   {group: GroupRelease, wantFlags: []string{"branch", "remote", "repo", "changelog", "resolve-backports", "backport-bot", "fetch"}},
		"check":   {group: GroupRelease, wantFlags: []string{"branch", "remote", "repo", "changelog", "output", "fetch"}},
		"extract": {group: GroupRelease, wantFlags: []string{"changelog", "output"}},
		"config":  {group: GroupConfiguration},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{name})
			require.NoError(t, err)
			require.Equal(t, name, cmd.Name())
			assert.Equal(t, tt.group, cmd.GroupID)
			for _, flag := range tt.wantFlags {
				assert.NotNil(t, cmd.Flags().Lookup(flag), "%s should have --%s", name, flag)
			}
		})
	}
}

func TestRootCmd_Version(t *testing.T) {
	stdout, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "chlog version")
}

func TestRootCmd_UnknownFlag(t *testing.T) {
	_, _, err := execute(t, "extract", "--no-such-flag")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
	assert.Contains(t, err.Error(), "unknown flag")
}

func TestGroupConstants(t *testing.T) {
	assert.Equal(t, "release", GroupRelease)
	assert.Equal(t, "configuration", GroupConfiguration)
}
