package changelog

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryWith(version string, lines ...string) string {
	return "## " + version + "\n\n" + strings.Join(lines, "\n")
}

func TestValidate_Scenarios(t *testing.T) {
	truth := entryWith("1.0.0",
		"- One [#1](u) [@a](p)",
		"- Two [#2](u) [@a](p)",
		"- Update changelog for 1.0.0 [#3](u) [@a](p)",
	)

	tests := map[string]struct {
		final          string
		truth          string
		wantMissing    []int
		wantExtraneous []int
	}{
		"exact match": {
			final: truth,
			truth: truth,
		},
		"changelog PR may be missing from its own entry": {
			final: entryWith("1.0.0", "- One [#1](u)", "- Two [#2](u)"),
			truth: truth,
		},
		"extraneous PR": {
			final:          entryWith("1.0.0", "- One [#1](u)", "- Two [#2](u)", "- Typo [#3](u)"),
			truth:          entryWith("1.0.0", "- One [#1](u)", "- Two [#2](u)"),
			wantExtraneous: []int{3},
		},
		"missing regular PR": {
			final:       entryWith("1.0.0", "- One [#1](u)"),
			truth:       truth,
			wantMissing: []int{2},
		},
		"both directions reported together": {
			final:          entryWith("1.0.0", "- One [#1](u)", "- Ghost [#9](u)", "- Ghost again [#9](u)"),
			truth:          entryWith("1.0.0", "- One [#1](u)", "- Two [#2](u)", "- Four [#4](u)"),
			wantMissing:    []int{2, 4},
			wantExtraneous: []int{9},
		},
		"changelog keyword is case insensitive": {
			final: entryWith("1.0.0", "- One [#1](u)"),
			truth: entryWith("1.0.0", "- One [#1](u)", "- Prep CHANGELOG [#5](u)"),
		},
		"no merged PRs on either side": {
			final: "\n\n## 1.0.0\n\nNo merged PRs\n\n",
			truth: "## 1.0.0\n\nNo merged PRs",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := Validate(tt.final, tt.truth, "1.0.0")
			if tt.wantMissing == nil && tt.wantExtraneous == nil {
				assert.NoError(t, err)
				return
			}

			var mismatch *PRSetMismatchError
			require.True(t, errors.As(err, &mismatch), "expected PRSetMismatchError, got %v", err)
			assert.Equal(t, tt.wantMissing, mismatch.Missing)
			assert.Equal(t, tt.wantExtraneous, mismatch.Extraneous)
		})
	}
}

func TestValidate_MissingHeading(t *testing.T) {
	err := Validate(entryWith("0.9.0", "- One [#1](u)"), entryWith("1.0.0", "- One [#1](u)"), "1.0.0")
	require.Error(t, err)
	assert.True(t, IsMissingVersionHeading(err))
	assert.False(t, IsPRSetMismatch(err))
	assert.Equal(t, "did not find entry for 1.0.0", err.Error())
}

func TestValidate_OversizedPRReference(t *testing.T) {
	tests := map[string]struct {
		final string
		truth string
	}{
		"in final entry": {
			final: entryWith("1.0.0", "- One [#1](u)", "- Typo [#99999999999999999999](u)"),
			truth: entryWith("1.0.0", "- One [#1](u)"),
		},
		"in truth entry": {
			final: entryWith("1.0.0", "- One [#1](u)"),
			truth: entryWith("1.0.0", "- One [#1](u)", "- Huge [#99999999999999999999](u)"),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := Validate(tt.final, tt.truth, "1.0.0")
			require.Error(t, err)
			assert.True(t, IsInvalidPRReference(err))
			assert.Contains(t, err.Error(), "[#99999999999999999999]")
		})
	}
}

func TestPRSetMismatchError_Message(t *testing.T) {
	err := &PRSetMismatchError{Version: "1.0.0", Missing: []int{2}, Extraneous: []int{3}}
	assert.Equal(t, "missing PR #2 in changelog; PR #3 does not belong in changelog for 1.0.0", err.Error())
}

// TestValidate_Symmetry checks every pair of subsets of a small PR universe:
// validation passes iff truth\final only holds changelog PRs and
// final\truth is empty.
func TestValidate_Symmetry(t *testing.T) {
	universe := []int{1, 2, 3, 4}
	changelogPR := 4

	render := func(mask int) string {
		var lines []string
		for i, n := range universe {
			if mask&(1<<i) == 0 {
				continue
			}
			title := fmt.Sprintf("Change %d", n)
			if n == changelogPR {
				title = "Update changelog"
			}
			lines = append(lines, fmt.Sprintf("- %s [#%d](u)", title, n))
		}
		return entryWith("1.0.0", lines...)
	}

	for finalMask := 0; finalMask < 1<<len(universe); finalMask++ {
		for truthMask := 0; truthMask < 1<<len(universe); truthMask++ {
			extraneous := finalMask &^ truthMask
			missing := truthMask &^ finalMask
			changelogBit := 1 << 3
			wantOK := extraneous == 0 && missing&^changelogBit == 0

			err := Validate(render(finalMask), render(truthMask), "1.0.0")
			assert.Equal(t, wantOK, err == nil, "final=%04b truth=%04b err=%v", finalMask, truthMask, err)
		}
	}
}
