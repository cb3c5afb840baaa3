// Package github talks to the GitHub REST API: it renders the merged-PR
// activity of a repository since a tag and looks up single pull requests
// for backport resolution.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
	gh "github.com/google/go-github/v75/github"
	"github.com/jonboulle/clockwork"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/ariel-frischer/chlog/internal/changelog"
)

const (
	defaultWebURL = "https://github.com/"
	searchPerPage = 100
)

// DefaultLimit paces API calls below the authenticated search quota of
// 30 requests per minute.
var DefaultLimit = rate.Every(2 * time.Second)

// Client wraps a go-github client with request pacing and a clock used to
// bound the activity window.
type Client struct {
	gh      *gh.Client
	webURL  string
	limiter *rate.Limiter
	clock   clockwork.Clock
}

// Option configures a Client.
type Option func(*Client)

// WithClock sets the clock that bounds the activity window.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Client) { c.clock = clock }
}

// WithLimiter replaces the request limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// NewClient returns a client authenticated with token. An empty token makes
// unauthenticated requests. apiURL overrides the REST endpoint, e.g.
// "https://ghe.example.com/api/v3/"; empty means api.github.com.
func NewClient(ctx context.Context, token, apiURL string, opts ...Option) (*Client, error) {
	var inner *gh.Client
	if token != "" {
		inner = gh.NewClient(oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})))
	} else {
		inner = gh.NewClient(nil)
	}

	c := &Client{
		gh:      inner,
		webURL:  defaultWebURL,
		limiter: rate.NewLimiter(DefaultLimit, 5),
		clock:   clockwork.NewRealClock(),
	}

	if apiURL != "" {
		base, err := url.Parse(strings.TrimSuffix(apiURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parsing api_url %q: %w", apiURL, err)
		}
		c.gh.BaseURL = base
		c.webURL = strings.TrimSuffix(base.String(), "api/v3/")
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// IsRequestError returns true if err comes from a rejected GitHub API
// request, including rate limiting.
func IsRequestError(err error) bool {
	var (
		respErr  *gh.ErrorResponse
		rateErr  *gh.RateLimitError
		abuseErr *gh.AbuseRateLimitError
	)
	return errors.As(err, &respErr) || errors.As(err, &rateErr) || errors.As(err, &abuseErr)
}

func (c *Client) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for rate limiter: %w", err)
	}
	return nil
}

// PullRequest fetches a single pull request.
func (c *Client) PullRequest(ctx context.Context, owner, name string, number int) (*changelog.PullRequest, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	pr, _, err := c.gh.PullRequests.Get(ctx, owner, name, number)
	if err != nil {
		return nil, fmt.Errorf("getting PR %s/%s#%d: %w", owner, name, number, err)
	}

	return &changelog.PullRequest{
		Number: pr.GetNumber(),
		Title:  pr.GetTitle(),
		URL:    pr.GetHTMLURL(),
		Author: changelog.Author{
			Login:      pr.GetUser().GetLogin(),
			ProfileURL: pr.GetUser().GetHTMLURL(),
		},
	}, nil
}

// MergedPRActivity renders the PRs of repo merged after the commit tagged
// since, up to now. It returns an empty string when nothing was merged.
func (c *Client) MergedPRActivity(ctx context.Context, repo, since string) (string, error) {
	owner, name, err := changelog.SplitRepo(repo)
	if err != nil {
		return "", err
	}
	log := clog.FromContext(ctx)

	start, err := c.tagDate(ctx, owner, name, since)
	if err != nil {
		return "", err
	}
	end := c.clock.Now().UTC()
	log.Debugf("searching PRs merged in %s between %s and %s", repo, start.Format(time.RFC3339), end.Format(time.RFC3339))

	prs, err := c.searchMerged(ctx, repo, start, end)
	if err != nil {
		return "", err
	}
	log.Debugf("found %d merged PRs", len(prs))
	if len(prs) == 0 {
		return "", nil
	}

	return renderActivity(activity{
		repo:   repo,
		since:  since,
		webURL: c.webURL,
		start:  start,
		end:    end,
		prs:    prs,
	}), nil
}

// tagDate returns the committer date of the commit a tag points at.
func (c *Client) tagDate(ctx context.Context, owner, name, tag string) (time.Time, error) {
	if err := c.wait(ctx); err != nil {
		return time.Time{}, err
	}

	commit, _, err := c.gh.Repositories.GetCommit(ctx, owner, name, tag, nil)
	if err != nil {
		return time.Time{}, fmt.Errorf("getting commit for %s: %w", tag, err)
	}

	date := commit.GetCommit().GetCommitter().GetDate()
	if date.IsZero() {
		return time.Time{}, fmt.Errorf("commit for %s has no committer date", tag)
	}
	return date.UTC(), nil
}

// searchMerged returns the PRs of repo merged after start and up to end,
// ordered by number.
func (c *Client) searchMerged(ctx context.Context, repo string, start, end time.Time) ([]*changelog.PullRequest, error) {
	query := fmt.Sprintf("repo:%s is:pr is:merged merged:%s..%s",
		repo, start.Format(time.RFC3339), end.Format(time.RFC3339))
	opts := &gh.SearchOptions{ListOptions: gh.ListOptions{PerPage: searchPerPage}}

	var prs []*changelog.PullRequest
	for {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}

		result, resp, err := c.gh.Search.Issues(ctx, query, opts)
		if err != nil {
			return nil, fmt.Errorf("searching merged PRs in %s: %w", repo, err)
		}

		for _, issue := range result.Issues {
			// The range qualifier includes start, which is the tagged
			// commit's own merge.
			if merged := issue.GetPullRequestLinks().GetMergedAt(); !merged.IsZero() && !merged.After(start) {
				clog.FromContext(ctx).Debugf("skipping PR #%d merged at the tagged commit", issue.GetNumber())
				continue
			}
			prs = append(prs, &changelog.PullRequest{
				Number: issue.GetNumber(),
				Title:  strings.TrimSpace(issue.GetTitle()),
				URL:    issue.GetHTMLURL(),
				Author: changelog.Author{
					Login:      issue.GetUser().GetLogin(),
					ProfileURL: issue.GetUser().GetHTMLURL(),
				},
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	slices.SortFunc(prs, func(a, b *changelog.PullRequest) int { return a.Number - b.Number })
	return prs, nil
}
