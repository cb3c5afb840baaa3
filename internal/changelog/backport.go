package changelog

import (
	"context"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
)

// PullRequest is the PR metadata needed to render a changelog line.
type PullRequest struct {
	Number int
	Title  string
	URL    string
	Author Author
}

// Author identifies the PR author on the hosting provider.
type Author struct {
	Login      string
	ProfileURL string
}

// PullRequestLookup fetches a single PR from the hosting provider.
type PullRequestLookup interface {
	PullRequest(ctx context.Context, owner, name string, number int) (*PullRequest, error)
}

// BackportOptions configures ResolveBackports.
type BackportOptions struct {
	// Repo is the "owner/name" repository the original PRs live in.
	Repo string
	// Bot is the login of the backport bot (DefaultBackportBot if empty).
	Bot string
	// Lookup resolves original PR metadata.
	Lookup PullRequestLookup
}

func (o BackportOptions) bot() string {
	if o.Bot == "" {
		return DefaultBackportBot
	}
	return o.Bot
}

// ResolveBackports replaces every bot-authored backport line with a freshly
// formatted line for the original PR. Lines that are not backports, and bot
// lines without a parseable "Backport PR #<n>", are returned unchanged.
func ResolveBackports(ctx context.Context, lines []string, opts BackportOptions) ([]string, error) {
	if opts.Lookup == nil {
		return nil, fmt.Errorf("resolving backports: no pull request lookup configured")
	}
	owner, name, err := SplitRepo(opts.Repo)
	if err != nil {
		return nil, fmt.Errorf("resolving backports: %w", err)
	}

	log := clog.FromContext(ctx)
	bot := opts.bot()
	resolved := make([]string, len(lines))
	for i, s := range lines {
		bl, ok := ParseLine(s, bot).(BackportLine)
		if !ok {
			resolved[i] = s
			continue
		}

		pr, err := opts.Lookup.PullRequest(ctx, owner, name, bl.Original)
		if err != nil {
			return nil, fmt.Errorf("looking up original PR #%d: %w", bl.Original, err)
		}
		log.Debugf("resolved backport of PR #%d", bl.Original)
		resolved[i] = FormatPullRequestLine(pr)
	}
	return resolved, nil
}

// ResolveBackports rewrites the entry body in place; see the package-level
// ResolveBackports.
func (e *VersionEntry) ResolveBackports(ctx context.Context, opts BackportOptions) error {
	body, err := ResolveBackports(ctx, e.Body, opts)
	if err != nil {
		return err
	}
	e.Body = body
	return nil
}

// SplitRepo splits an "owner/name" repository identifier.
func SplitRepo(repo string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid repository %q (expected owner/name)", repo)
	}
	return owner, name, nil
}
