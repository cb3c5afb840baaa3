// chlog - Living changelog entries for GitHub projects
// Author: Ariel Frischer
// Source: https://github.com/ariel-frischer/chlog

// Package config provides hierarchical configuration management for chlog using koanf.
// Configuration is loaded with priority: flags > environment variables (CHLOG_*)
// > project config (.chlog/config.yml or .chlog/config.json)
// > user config (~/.config/chlog/config.yml) > defaults.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConfigSource tracks where a configuration value came from
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceUser    ConfigSource = "user"
	SourceProject ConfigSource = "project"
	SourceEnv     ConfigSource = "env"
	SourceFlag    ConfigSource = "flag"
)

// EnvPrefix is the prefix of environment variables read as configuration.
const EnvPrefix = "CHLOG_"

// TokenEnvVar holds the GitHub token when auth is not configured.
const TokenEnvVar = "GITHUB_ACCESS_TOKEN"

// Configuration represents the chlog CLI tool configuration
type Configuration struct {
	// ChangelogPath is the changelog document holding the entry markers.
	ChangelogPath string `koanf:"changelog_path" validate:"required"`
	// Branch is the release branch. Empty means the checked out branch.
	Branch string `koanf:"branch"`
	// Remote is the git remote whose branch is searched for tags.
	Remote string `koanf:"remote" validate:"required"`
	// Repo is the GitHub "owner/name". Empty means parsed from the remote URL.
	Repo string `koanf:"repo" validate:"omitempty,repo"`

	ResolveBackports bool   `koanf:"resolve_backports"`
	BackportBot      string `koanf:"backport_bot" validate:"required"`

	// APIURL overrides the GitHub REST endpoint (GitHub Enterprise).
	APIURL string `koanf:"api_url" validate:"omitempty,url"`
	// Timeout bounds a whole command, in seconds. 0 disables it.
	Timeout int  `koanf:"timeout" validate:"min=0,max=3600"`
	Debug   bool `koanf:"debug"`
	// Auth is the GitHub token. Falls back to GITHUB_ACCESS_TOKEN.
	Auth string `koanf:"auth"`

	// Sources maps each key to the layer that set it last.
	Sources map[string]ConfigSource `koanf:"-"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .chlog/config.yml)
	ProjectConfigPath string
	// UserConfigPath overrides the user config path (default: ~/.config/chlog/config.yml)
	UserConfigPath string
	// Overrides are applied last, typically from command-line flags.
	Overrides map[string]any
	// WarningWriter receives warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses warnings
	SkipWarnings bool
}

// Load loads configuration from user, project, and environment sources.
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	l := &loader{
		k:       koanf.New("."),
		sources: make(map[string]ConfigSource),
		warn:    getWarningWriter(opts.WarningWriter),
		quiet:   opts.SkipWarnings,
	}

	l.loadDefaults()

	if err := l.loadUserConfig(opts.UserConfigPath); err != nil {
		return nil, err
	}

	if err := l.loadProjectConfig(opts.ProjectConfigPath); err != nil {
		return nil, err
	}

	if err := l.loadEnvironmentConfig(); err != nil {
		return nil, err
	}

	l.loadOverrides(opts.Overrides)

	return l.finalize()
}

// loader merges configuration layers and remembers which layer set each key.
type loader struct {
	k       *koanf.Koanf
	sources map[string]ConfigSource
	warn    io.Writer
	quiet   bool
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// merge loads one layer into the main koanf instance and records its keys.
func (l *loader) merge(layer *koanf.Koanf, source ConfigSource) error {
	for _, key := range layer.Keys() {
		if _, known := KnownKeys[key]; !known {
			l.warnf("Warning: ignoring unknown config key %q from %s config\n", key, source)
			continue
		}
		l.sources[key] = source
		if err := l.k.Set(key, layer.Get(key)); err != nil {
			return fmt.Errorf("merging %s config: %w", source, err)
		}
	}
	return nil
}

func (l *loader) warnf(format string, args ...any) {
	if !l.quiet {
		fmt.Fprintf(l.warn, format, args...)
	}
}

// loadDefaults applies default configuration values
func (l *loader) loadDefaults() {
	for key, value := range GetDefaults() {
		l.k.Set(key, value)
		l.sources[key] = SourceDefault
	}
}

// loadUserConfig loads the user-level YAML config when it exists.
func (l *loader) loadUserConfig(customPath string) error {
	path := customPath
	if path == "" {
		path, _ = UserConfigPath()
	}
	if !fileExists(path) {
		return nil
	}
	if err := l.loadFile(path, SourceUser); err != nil {
		return fmt.Errorf("loading user config: %w", err)
	}
	return nil
}

// loadProjectConfig loads project-level config. YAML is preferred; the JSON
// file is read only when no YAML file exists. A custom path picks its parser
// from the extension.
func (l *loader) loadProjectConfig(customPath string) error {
	if customPath != "" {
		if !fileExists(customPath) {
			return fmt.Errorf("config file %s not found", customPath)
		}
		if err := l.loadFile(customPath, SourceProject); err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		return nil
	}

	yamlPath, jsonPath := ProjectConfigPath(), ProjectJSONConfigPath()
	switch {
	case fileExists(yamlPath):
		if fileExists(jsonPath) {
			l.warnf("Warning: both %s and %s exist (using %s)\n", yamlPath, jsonPath, yamlPath)
		}
		if err := l.loadFile(yamlPath, SourceProject); err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
	case fileExists(jsonPath):
		if err := l.loadFile(jsonPath, SourceProject); err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
	}
	return nil
}

// loadFile validates and loads a YAML or JSON config file
func (l *loader) loadFile(path string, source ConfigSource) error {
	layer := koanf.New(".")
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := layer.Load(file.Provider(path), json.Parser()); err != nil {
			return fmt.Errorf("failed to load %s config %s: %w", source, path, err)
		}
	} else {
		if err := ValidateYAMLSyntax(path); err != nil {
			return fmt.Errorf("validating YAML syntax for %s config: %w", source, err)
		}
		if err := layer.Load(file.Provider(path), yaml.Parser()); err != nil {
			return fmt.Errorf("failed to load %s config %s: %w", source, path, err)
		}
	}
	return l.merge(layer, source)
}

// loadEnvironmentConfig loads environment variable overrides
func (l *loader) loadEnvironmentConfig() error {
	layer := koanf.New(".")
	if err := layer.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return l.merge(layer, SourceEnv)
}

// loadOverrides applies flag values on top of every other layer.
func (l *loader) loadOverrides(overrides map[string]any) {
	for key, value := range overrides {
		l.k.Set(key, value)
		l.sources[key] = SourceFlag
	}
}

// finalize unmarshals, validates, and applies final transformations
func (l *loader) finalize() (*Configuration, error) {
	var cfg Configuration
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.ChangelogPath = expandHomePath(cfg.ChangelogPath)

	if cfg.Auth == "" {
		if token := os.Getenv(TokenEnvVar); token != "" {
			cfg.Auth = token
			l.sources["auth"] = SourceEnv
		}
	}

	cfg.Sources = l.sources
	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: CHLOG_CHANGELOG_PATH -> changelog_path
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}

// Source returns the layer that set key, or SourceDefault.
func (c *Configuration) Source(key string) ConfigSource {
	if s, ok := c.Sources[key]; ok {
		return s
	}
	return SourceDefault
}

// Value returns the configured value of key for display. The token is
// masked.
func (c *Configuration) Value(key string) any {
	switch key {
	case "changelog_path":
		return c.ChangelogPath
	case "branch":
		return c.Branch
	case "remote":
		return c.Remote
	case "repo":
		return c.Repo
	case "resolve_backports":
		return c.ResolveBackports
	case "backport_bot":
		return c.BackportBot
	case "api_url":
		return c.APIURL
	case "timeout":
		return c.Timeout
	case "debug":
		return c.Debug
	case "auth":
		if c.Auth == "" {
			return ""
		}
		return "********"
	default:
		return nil
	}
}
