package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/chlog/internal/changelog"
)

func TestDraftCommand_FirstDraftThenRedraft(t *testing.T) {
	p := newProject(t, templateChangelog)

	stdout, _, err := execute(t, "draft", "1.1.0")
	require.NoError(t, err)
	assert.Contains(t, stdout, "first-draft of 1.1.0 in CHANGELOG.md (0 PRs kept, 2 added)")

	doc := p.read(t, "CHANGELOG.md")
	entry, err := changelog.FinalEntry(doc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(entry), "## 1.1.0\n"))
	assert.Contains(t, entry, "- Fix parser [#7](https://github.com/acme/widget/pull/7)")
	assert.Contains(t, entry, "- Add flag [#9](https://github.com/acme/widget/pull/9)")
	assert.Contains(t, doc, "## 1.0.0\n\nFirst release")

	edited := strings.Replace(doc, "- Fix parser", "- Fix the markdown parser", 1)
	require.NoError(t, os.WriteFile(filepath.Join(p.dir, "CHANGELOG.md"), []byte(edited), 0o644))

	stdout, _, err = execute(t, "draft", "1.1.0")
	require.NoError(t, err)
	assert.Contains(t, stdout, "re-draft of 1.1.0 in CHANGELOG.md (2 PRs kept, 0 added)")
	assert.Equal(t, edited, p.read(t, "CHANGELOG.md"))
}

func TestDraftCommand_Flags(t *testing.T) {
	p := newProject(t, "")
	custom := "# Changes\n\n" + changelog.StartMarker + "\n" + changelog.EndMarker + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(p.dir, "CHANGES.md"), []byte(custom), 0o644))

	_, _, err := execute(t, "draft", "2.0.0", "--changelog", "CHANGES.md", "--repo", "acme/widget", "--remote", "upstream")
	require.NoError(t, err)
	assert.Contains(t, p.read(t, "CHANGES.md"), "## 2.0.0")
}

func TestDraftCommand_Errors(t *testing.T) {
	tests := map[string]struct {
		changelog    string
		args         []string
		wantExit     int
		wantContains string
	}{
		"missing version": {
			changelog:    templateChangelog,
			args:         []string{"draft"},
			wantExit:     ExitInvalidArguments,
			wantContains: "version is required",
		},
		"missing markers": {
			changelog:    "# Changelog\n",
			args:         []string{"draft", "1.1.0"},
			wantExit:     ExitMissingDependencies,
			wantContains: "cannot update CHANGELOG.md",
		},
		"missing changelog": {
			args:         []string{"draft", "1.1.0"},
			wantExit:     ExitMissingDependencies,
			wantContains: "changelog not found",
		},
		"unknown remote": {
			changelog:    templateChangelog,
			args:         []string{"draft", "1.1.0", "--remote", "origin"},
			wantExit:     ExitInvalidArguments,
			wantContains: `cannot determine GitHub repository from remote "origin"`,
		},
		"branch without remote tracking ref": {
			changelog:    templateChangelog,
			args:         []string{"draft", "1.1.0", "--branch", "release-9"},
			wantExit:     ExitValidationFailed,
			wantContains: "release-9",
		},
		"bad flag value": {
			changelog:    templateChangelog,
			args:         []string{"draft", "1.1.0", "--backport-bot", ""},
			wantExit:     ExitInvalidArguments,
			wantContains: "backport_bot",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p := newProject(t, tt.changelog)

			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantExit, ExitCode(err))
			assert.Contains(t, err.Error(), tt.wantContains)
			assert.Zero(t, p.requests.Load(), "no GitHub request expected")
		})
	}
}

func TestCheckCommand(t *testing.T) {
	p := newProject(t, templateChangelog)
	_, _, err := execute(t, "draft", "1.1.0")
	require.NoError(t, err)

	stdout, _, err := execute(t, "check", "1.1.0", "--output", "entry.md")
	require.NoError(t, err)
	assert.Contains(t, stdout, "CHANGELOG.md entry for 1.1.0 matches the merged PRs")
	assert.Contains(t, stdout, "Wrote entry to entry.md")

	final, err := changelog.FinalEntry(p.read(t, "CHANGELOG.md"))
	require.NoError(t, err)
	assert.Equal(t, final, p.read(t, "entry.md"))
}

func TestCheckCommand_Failures(t *testing.T) {
	tests := map[string]struct {
		edit         func(doc string) string
		version      string
		wantContains []string
	}{
		"wrong version": {
			edit:         func(doc string) string { return doc },
			version:      "1.2.0",
			wantContains: []string{"CHANGELOG.md has no entry for 1.2.0"},
		},
		"missing and unexpected PRs": {
			edit: func(doc string) string {
				doc = strings.Replace(doc, "- Add flag", "- Add flag (see [#12](https://github.com/acme/widget/pull/12))", 1)
				lines := strings.Split(doc, "\n")
				kept := lines[:0]
				for _, line := range lines {
					if !strings.Contains(line, "[#7]") {
						kept = append(kept, line)
					}
				}
				return strings.Join(kept, "\n")
			},
			version:      "1.1.0",
			wantContains: []string{"missing PR #7 in changelog", "PR #12 does not belong in changelog for 1.1.0"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p := newProject(t, templateChangelog)
			_, _, err := execute(t, "draft", "1.1.0")
			require.NoError(t, err)
			path := filepath.Join(p.dir, "CHANGELOG.md")
			require.NoError(t, os.WriteFile(path, []byte(tt.edit(p.read(t, "CHANGELOG.md"))), 0o644))

			_, _, err = execute(t, "check", tt.version, "--output", "entry.md")
			require.Error(t, err)
			assert.Equal(t, ExitValidationFailed, ExitCode(err))
			for _, want := range tt.wantContains {
				assert.Contains(t, err.Error(), want)
			}
			assert.NoFileExists(t, filepath.Join(p.dir, "entry.md"))
		})
	}
}

func TestExtractCommand(t *testing.T) {
	tests := map[string]struct {
		changelog string
		want      string
	}{
		"missing file": {},
		"no markers": {
			changelog: "# Changelog\n",
		},
		"entry": {
			changelog: changelog.StartMarker + "\n## 1.1.0\n\n* Fix parser\n" + changelog.EndMarker + "\n",
			want:      "\n## 1.1.0\n\n* Fix parser\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			newProject(t, tt.changelog)

			stdout, _, err := execute(t, "extract")
			require.NoError(t, err)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestExtractCommand_Output(t *testing.T) {
	p := newProject(t, changelog.StartMarker+"\nhello\n"+changelog.EndMarker+"\n")

	stdout, _, err := execute(t, "extract", "-o", "entry.md")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Equal(t, "\nhello\n", p.read(t, "entry.md"))
}
