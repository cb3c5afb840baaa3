package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetConfigValue(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		initialContent string
		key            string
		value          string
		wantContains   []string
		errContains    string
	}{
		"set new value": {
			key:          "timeout",
			value:        "5",
			wantContains: []string{"timeout: 5"},
		},
		"update existing value keeps comments": {
			initialContent: "# release settings\nremote: upstream # fork setup\ntimeout: 60\n",
			key:            "remote",
			value:          "origin",
			wantContains:   []string{"# release settings", "remote: origin # fork setup", "timeout: 60"},
		},
		"bool value": {
			initialContent: "debug: false\n",
			key:            "resolve_backports",
			value:          "true",
			wantContains:   []string{"debug: false", "resolve_backports: true"},
		},
		"unknown key": {
			key:         "max_retries",
			value:       "3",
			errContains: "unknown configuration key",
		},
		"invalid value type": {
			key:         "timeout",
			value:       "not-a-number",
			errContains: "invalid integer",
		},
		"not a mapping": {
			initialContent: "- a\n- b\n",
			key:            "remote",
			value:          "origin",
			errContains:    "top level is not a mapping",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "config.yml")
			if tt.initialContent != "" {
				writeFile(t, path, tt.initialContent)
			}

			err := SetConfigValue(path, tt.key, tt.value)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)

			content, err := os.ReadFile(path)
			require.NoError(t, err)
			for _, want := range tt.wantContains {
				assert.Contains(t, string(content), want)
			}
		})
	}
}

func TestSetConfigValue_CreatesDirectory(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), ".chlog", "config.yml")

	require.NoError(t, SetConfigValue(path, "backport_bot", "backport-bot"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "backport_bot: backport-bot\n", string(content))
}
