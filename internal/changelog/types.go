package changelog

import "strings"

// Marker lines delimiting the mutable draft region of a changelog.
const (
	StartMarker = "<!-- <START NEW CHANGELOG ENTRY> -->"
	EndMarker   = "<!-- <END NEW CHANGELOG ENTRY> -->"
)

// DefaultBackportBot is the login of the bot that opens backport PRs.
const DefaultBackportBot = "meeseeksmachine"

// noMergedPRs is the body of an entry with nothing merged since the last tag.
const noMergedPRs = "No merged PRs"

// VersionEntry is the changelog section for one release.
// Body holds the lines following the "## Merged PRs" heading of the
// activity report, before normalization.
type VersionEntry struct {
	Version       string
	FullChangelog string
	Body          []string
}

// IsEmpty returns true if the entry has no merged PR lines.
func (e *VersionEntry) IsEmpty() bool {
	return strings.TrimSpace(strings.Join(e.Body, "\n")) == ""
}

// Line is one parsed line of a changelog entry.
// It is one of PlainLine, PullRequestLine or BackportLine.
type Line interface {
	Text() string
	isLine()
}

// PlainLine is a line without a PR reference (heading, link, prose).
type PlainLine struct {
	Raw string
}

// PullRequestLine is a line carrying one or more [#<n>] references.
// Numbers lists them in order; the first one identifies the line.
type PullRequestLine struct {
	Raw     string
	Numbers []int
}

// BackportLine is a PR line written by the backport bot that names the
// PR it reapplies.
type BackportLine struct {
	PullRequestLine
	Original int
}

func (l PlainLine) Text() string       { return l.Raw }
func (l PullRequestLine) Text() string { return l.Raw }

func (PlainLine) isLine()       {}
func (PullRequestLine) isLine() {}

// Number returns the PR number identifying the line, or 0 if the line
// has no reference.
func (l PullRequestLine) Number() int {
	if len(l.Numbers) == 0 {
		return 0
	}
	return l.Numbers[0]
}

// References reports whether the line mentions PR n.
func (l PullRequestLine) References(n int) bool {
	for _, num := range l.Numbers {
		if num == n {
			return true
		}
	}
	return false
}

// HasVersionHeading reports whether text contains a heading for version.
func HasVersionHeading(text, version string) bool {
	return strings.Contains(text, "# "+version)
}
