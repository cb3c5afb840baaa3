package github

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/ariel-frischer/chlog/internal/changelog"
)

const dayFormat = "2006-01-02"

type activity struct {
	repo   string
	since  string
	webURL string
	start  time.Time
	end    time.Time
	prs    []*changelog.PullRequest
}

// renderActivity writes the activity report:
//
//	# <since>...HEAD
//
//	([full changelog](<web>/<repo>/compare/<since>...HEAD))
//
//	## Merged PRs
//
//	* <title> [#<n>](<url>) ([@<login>](<profile>))
//
//	## Contributors to this release
//
//	[@<login>](<search url>) | ...
func renderActivity(a activity) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s...HEAD\n\n", a.since)
	fmt.Fprintf(&b, "([full changelog](%s%s/compare/%s...HEAD))\n\n", a.webURL, a.repo, a.since)

	b.WriteString("## Merged PRs\n\n")
	for _, pr := range a.prs {
		fmt.Fprintf(&b, "* %s [#%d](%s) ([@%s](%s))\n",
			pr.Title, pr.Number, pr.URL, pr.Author.Login, pr.Author.ProfileURL)
	}

	b.WriteString("\n## Contributors to this release\n\n")
	fmt.Fprintf(&b, "([GitHub contributors page for this release](%s%s/graphs/contributors?from=%s&to=%s&type=c))\n\n",
		a.webURL, a.repo, a.start.Format(dayFormat), a.end.Format(dayFormat))

	logins := contributors(a.prs)
	links := make([]string, len(logins))
	for i, login := range logins {
		links[i] = fmt.Sprintf("[@%s](%s)", login, a.searchURL(login))
	}
	b.WriteString(strings.Join(links, " | "))
	b.WriteString("\n")

	return b.String()
}

// searchURL links the issues and PRs login was involved in during the window.
func (a activity) searchURL(login string) string {
	q := fmt.Sprintf("repo:%s involves:%s updated:%s..%s",
		a.repo, login, a.start.Format(dayFormat), a.end.Format(dayFormat))
	return a.webURL + "search?q=" + url.QueryEscape(q) + "&type=Issues"
}

// contributors returns the distinct PR authors, sorted case-insensitively.
func contributors(prs []*changelog.PullRequest) []string {
	seen := make(map[string]bool)
	var logins []string
	for _, pr := range prs {
		login := pr.Author.Login
		if login == "" || seen[login] {
			continue
		}
		seen[login] = true
		logins = append(logins, login)
	}
	slices.SortFunc(logins, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return logins
}
