package changelog

import (
	"fmt"
	"strings"
)

const (
	mergedPRsHeading    = "## Merged PRs"
	fullChangelogToken  = "[full changelog]"
	contributorsHeading = "## Contributors"
	unorderedStarPrefix = "* "
	unorderedDashPrefix = "- "
)

// ParseActivity builds an entry for version from merged-PR activity
// markdown. The "[full changelog]" line becomes the comparison link and the
// lines after "## Merged PRs" become the body. Markdown without a merged PRs
// section yields an empty entry.
func ParseActivity(version, markdown string) *VersionEntry {
	entry := &VersionEntry{Version: version}
	if strings.TrimSpace(markdown) == "" {
		return entry
	}

	lines := strings.Split(markdown, "\n")
	start := -1
	for i, line := range lines {
		if strings.Contains(line, fullChangelogToken) {
			entry.FullChangelog = strings.ReplaceAll(line, "full changelog", "Full Changelog")
		} else if strings.HasPrefix(strings.TrimSpace(line), mergedPRsHeading) {
			start = i + 1
		}
	}

	if start >= 0 {
		entry.Body = append([]string(nil), lines[start:]...)
	}
	return entry
}

// String renders the entry as
//
//	## <version>
//
//	<full changelog link>
//
//	<PR list>
//
// The link block is omitted when there is no link. An entry without PRs
// renders as "## <version>\n\nNo merged PRs".
func (e *VersionEntry) String() string {
	heading := "## " + e.Version
	if e.IsEmpty() {
		return heading + "\n\n" + noMergedPRs
	}

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n\n")
	if link := strings.TrimSpace(e.FullChangelog); link != "" {
		b.WriteString(link)
		b.WriteString("\n\n")
	}
	b.WriteString(normalizeBody(e.Body))
	return b.String()
}

// FormatEntry renders the entry for version from activity markdown.
func FormatEntry(version, markdown string) string {
	return ParseActivity(version, markdown).String()
}

// normalizeBody trims the PR section, demotes the contributors heading
// below the version heading and rewrites "*" bullets to "-".
func normalizeBody(body []string) string {
	lines := strings.Split(strings.TrimSpace(strings.Join(body, "\n")), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, contributorsHeading):
			lines[i] = "#" + line
		case strings.HasPrefix(line, unorderedStarPrefix):
			lines[i] = unorderedDashPrefix + strings.TrimPrefix(line, unorderedStarPrefix)
		}
	}
	return strings.Join(lines, "\n")
}

// FormatPullRequestLine renders a single PR bullet in the changelog style.
func FormatPullRequestLine(pr *PullRequest) string {
	return fmt.Sprintf("- %s [#%d](%s) [@%s](%s)",
		pr.Title, pr.Number, pr.URL, pr.Author.Login, pr.Author.ProfileURL)
}
