package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeInt
	TypeString
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	default:
		return "unknown"
	}
}

// ConfigKeySchema defines a known configuration key with its expected type.
type ConfigKeySchema struct {
	Path        string          // Key name (e.g., "changelog_path")
	Type        ConfigValueType // Expected value type for validation
	Description string          // Human-readable description for help text
	Default     interface{}     // Default value
}

// KnownKeys is the registry of all known configuration keys with their schemas.
var KnownKeys = map[string]ConfigKeySchema{
	"changelog_path": {
		Path:        "changelog_path",
		Type:        TypeString,
		Description: "Changelog document holding the entry markers",
		Default:     "CHANGELOG.md",
	},
	"branch": {
		Path:        "branch",
		Type:        TypeString,
		Description: "Release branch (empty = checked out branch)",
		Default:     "",
	},
	"remote": {
		Path:        "remote",
		Type:        TypeString,
		Description: "Git remote whose branch is searched for the last tag",
		Default:     "upstream",
	},
	"repo": {
		Path:        "repo",
		Type:        TypeString,
		Description: "GitHub owner/name (empty = parsed from the remote URL)",
		Default:     "",
	},
	"resolve_backports": {
		Path:        "resolve_backports",
		Type:        TypeBool,
		Description: "Replace backport bot lines with the original PR",
		Default:     false,
	},
	"backport_bot": {
		Path:        "backport_bot",
		Type:        TypeString,
		Description: "Login of the bot that opens backport PRs",
		Default:     "meeseeksmachine",
	},
	"api_url": {
		Path:        "api_url",
		Type:        TypeString,
		Description: "GitHub REST endpoint override (GitHub Enterprise)",
		Default:     "",
	},
	"timeout": {
		Path:        "timeout",
		Type:        TypeInt,
		Description: "Command timeout in seconds (0-3600, 0 = no timeout)",
		Default:     60,
	},
	"debug": {
		Path:        "debug",
		Type:        TypeBool,
		Description: "Enable debug logging",
		Default:     false,
	},
	"auth": {
		Path:        "auth",
		Type:        TypeString,
		Description: "GitHub token (falls back to GITHUB_ACCESS_TOKEN)",
		Default:     "",
	},
}

// ErrUnknownKey is returned when trying to access an unknown configuration key.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema returns the schema for a known configuration key.
// Returns ErrUnknownKey if the key is not in the registry.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// SortedKeys returns the known keys in alphabetical order.
func SortedKeys() []string {
	keys := make([]string, 0, len(KnownKeys))
	for key := range KnownKeys {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// ParseValue converts a string value for key to its schema type.
func ParseValue(key, value string) (interface{}, error) {
	schema, err := GetKeySchema(key)
	if err != nil {
		return nil, err
	}

	switch schema.Type {
	case TypeBool:
		switch strings.ToLower(value) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, fmt.Errorf("invalid boolean: %q (expected true or false)", value)
	case TypeInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid integer: %q", value)
		}
		return n, nil
	default:
		return value, nil
	}
}
