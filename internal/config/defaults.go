package config

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# chlog Configuration
# See 'chlog config keys' for all options

# Changelog settings
changelog_path: CHANGELOG.md          # Document holding the entry markers

# Repository settings
branch: ""                            # Release branch (empty = checked out branch)
remote: upstream                      # Remote searched for the last tag
repo: ""                              # GitHub owner/name (empty = parsed from remote URL)

# Backports
resolve_backports: false              # Replace backport bot lines with the original PR
backport_bot: meeseeksmachine         # Login of the backport bot

# GitHub API
api_url: ""                           # REST endpoint override (GitHub Enterprise)
timeout: 60                           # Timeout in seconds (0 = no timeout)

# Diagnostics
debug: false                          # Verbose logging
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"changelog_path": "CHANGELOG.md",
		"branch":         "", // Resolved from HEAD when empty
		"remote":         "upstream",
		"repo":           "", // Parsed from the remote URL when empty
		// resolve_backports: Off by default since every backport costs one API call.
		"resolve_backports": false,
		"backport_bot":      "meeseeksmachine",
		"api_url":           "",
		"timeout":           60,
		"debug":             false,
		// auth: Never written to config templates. GITHUB_ACCESS_TOKEN fills it.
		"auth": "",
	}
}
