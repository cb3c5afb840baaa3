package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateYAMLSyntax(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content  string
		wantErr  bool
		wantLine int
	}{
		"valid":         {content: "remote: origin\ntimeout: 5\n"},
		"empty":         {content: "  \n"},
		"bad indent":    {content: "remote: origin\n  timeout: 5\n", wantErr: true, wantLine: 2},
		"unclosed flow": {content: "remote: [origin\n", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			path := writeFile(t, filepath.Join(t.TempDir(), "config.yml"), tt.content)

			err := ValidateYAMLSyntax(path)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, path, verr.FilePath)
			if tt.wantLine > 0 {
				assert.Equal(t, tt.wantLine, verr.Line)
			}
		})
	}
}

func TestValidateYAMLSyntax_MissingFile(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateYAMLSyntax(filepath.Join(t.TempDir(), "missing.yml")))
}

func TestValidateYAMLSyntax_DefaultTemplate(t *testing.T) {
	t.Parallel()
	path := writeFile(t, filepath.Join(t.TempDir(), "config.yml"), GetDefaultConfigTemplate())
	assert.NoError(t, ValidateYAMLSyntax(path))
}

func TestValidateConfigValues(t *testing.T) {
	t.Parallel()

	valid := func() *Configuration {
		return &Configuration{ChangelogPath: "CHANGELOG.md", Remote: "upstream", BackportBot: "bot", Timeout: 60}
	}

	tests := map[string]struct {
		mutate     func(c *Configuration)
		wantFields []string
	}{
		"valid":        {mutate: func(c *Configuration) {}},
		"valid repo":   {mutate: func(c *Configuration) { c.Repo = "acme/widget" }},
		"nested repo":  {mutate: func(c *Configuration) { c.Repo = "acme/widget/extra" }, wantFields: []string{"repo"}},
		"empty owner":  {mutate: func(c *Configuration) { c.Repo = "/widget" }, wantFields: []string{"repo"}},
		"several keys": {mutate: func(c *Configuration) { c.Remote = ""; c.Timeout = -1 }, wantFields: []string{"remote", "timeout"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			tt.mutate(cfg)

			err := ValidateConfigValues(cfg, "config")
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, field := range tt.wantFields {
				assert.Contains(t, err.Error(), "field '"+field+"'")
			}
			var verr *ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  ValidationError
		want string
	}{
		"line": {
			err:  ValidationError{FilePath: "c.yml", Line: 3, Message: "bad"},
			want: "c.yml:3: bad",
		},
		"field": {
			err:  ValidationError{FilePath: "config", Field: "timeout", Message: "must be at most 3600"},
			want: "config: field 'timeout': must be at most 3600",
		},
		"plain": {
			err:  ValidationError{FilePath: "c.yml", Message: "permission denied"},
			want: "c.yml: permission denied",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestParseValue(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		key     string
		value   string
		want    any
		wantErr bool
	}{
		"bool":         {key: "debug", value: "TRUE", want: true},
		"bad bool":     {key: "debug", value: "yes", wantErr: true},
		"int":          {key: "timeout", value: "90", want: 90},
		"bad int":      {key: "timeout", value: "soon", wantErr: true},
		"string":       {key: "remote", value: "origin", want: "origin"},
		"unknown key":  {key: "max_retries", value: "1", wantErr: true},
		"empty string": {key: "repo", value: "", want: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseValue(tt.key, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortedKeys(t *testing.T) {
	t.Parallel()
	keys := SortedKeys()
	assert.Len(t, keys, len(KnownKeys))
	assert.Equal(t, "api_url", keys[0])
	assert.IsIncreasing(t, keys)
}
