// Package git provides the repository queries chlog needs: the current branch,
// the most recent tag reachable from a branch, the hosting repository of a
// remote, and fetching a remote's branches and tags. It uses the go-git
// library, so no git CLI is required.
package git

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging. The logger function should format
// and output the message (similar to log.Printf signature).
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// NoTagOnBranchError is returned when no tag is reachable from a branch,
// so there is no baseline for the merged-PR query.
type NoTagOnBranchError struct {
	Branch string
}

func (e *NoTagOnBranchError) Error() string {
	return fmt.Sprintf("no tags found on branch %s", e.Branch)
}

// IsNoTagOnBranch returns true if err is a NoTagOnBranchError.
func IsNoTagOnBranch(err error) bool {
	var ne *NoTagOnBranchError
	return errors.As(err, &ne)
}

// IsNotRepository returns true if err reports that no git repository was
// found.
func IsNotRepository(err error) bool {
	return errors.Is(err, git.ErrRepositoryNotExists)
}

// openRepo opens a git repository at the specified path or current working directory.
// It uses go-git's PlainOpenWithOptions with DetectDotGit enabled to traverse
// up the directory tree to find the repository root.
// If path is empty, the current working directory is used.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	return repo, nil
}

// Repository answers repository queries for a working directory.
// An empty Path means the current working directory.
type Repository struct {
	Path string
}

// CurrentBranch returns the name of the checked out branch.
// Returns empty string if in detached HEAD state.
func (r Repository) CurrentBranch() (string, error) {
	repo, err := openRepo(r.Path)
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}

	if !head.Name().IsBranch() {
		logDebug("[git] CurrentBranch: detached HEAD state")
		return "", nil
	}

	branch := head.Name().Short()
	logDebug("[git] CurrentBranch: %s", branch)
	return branch, nil
}

// MostRecentTag returns the tag on the nearest tagged ancestor of branch.
// branch may be any revision go-git resolves, e.g. "main" or "upstream/main".
// History is walked newest first by committer time; when several tags point
// at the same commit, the lexically greatest name wins.
// Returns a NoTagOnBranchError if no tag is reachable.
func (r Repository) MostRecentTag(branch string) (string, error) {
	repo, err := openRepo(r.Path)
	if err != nil {
		return "", err
	}

	head, err := repo.ResolveRevision(plumbing.Revision(branch))
	if err != nil {
		return "", fmt.Errorf("resolving branch %s: %w", branch, err)
	}

	tags, err := tagsByCommit(repo)
	if err != nil {
		return "", err
	}
	if len(tags) == 0 {
		return "", &NoTagOnBranchError{Branch: branch}
	}

	commits, err := repo.Log(&git.LogOptions{From: *head, Order: git.LogOrderCommitterTime})
	if err != nil {
		return "", fmt.Errorf("walking history of %s: %w", branch, err)
	}
	defer commits.Close()

	var found string
	err = commits.ForEach(func(c *object.Commit) error {
		names, ok := tags[c.Hash]
		if !ok {
			return nil
		}
		found = greatest(names)
		return storer.ErrStop
	})
	if err != nil {
		return "", fmt.Errorf("walking history of %s: %w", branch, err)
	}

	if found == "" {
		return "", &NoTagOnBranchError{Branch: branch}
	}
	logDebug("[git] MostRecentTag(%s): %s", branch, found)
	return found, nil
}

// tagsByCommit maps commit hashes to the names of the tags pointing at them.
// Annotated tags are peeled to their target commit.
func tagsByCommit(repo *git.Repository) (map[plumbing.Hash][]string, error) {
	iter, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer iter.Close()

	tags := make(map[plumbing.Hash][]string)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		hash := ref.Hash()
		tag, err := repo.TagObject(hash)
		switch {
		case err == nil:
			commit, err := tag.Commit()
			if err != nil {
				logDebug("[git] skipping tag %s: %v", ref.Name().Short(), err)
				return nil
			}
			hash = commit.Hash
		case !errors.Is(err, plumbing.ErrObjectNotFound):
			return fmt.Errorf("reading tag %s: %w", ref.Name().Short(), err)
		}
		tags[hash] = append(tags[hash], ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func greatest(names []string) string {
	best := names[0]
	for _, n := range names[1:] {
		if n > best {
			best = n
		}
	}
	return best
}

// RemoteRepository returns the "owner/name" hosting repository of remote,
// parsed from its first URL.
func (r Repository) RemoteRepository(remote string) (string, error) {
	repo, err := openRepo(r.Path)
	if err != nil {
		return "", err
	}

	rem, err := repo.Remote(remote)
	if err != nil {
		return "", fmt.Errorf("looking up remote %s: %w", remote, err)
	}

	urls := rem.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %s has no URL", remote)
	}
	return ParseRepository(urls[0])
}

// ParseRepository extracts "owner/name" from a remote URL.
// Handles https://, ssh:// and SCP-style (git@host:owner/name.git) URLs.
func ParseRepository(remoteURL string) (string, error) {
	path := remoteURL
	if strings.Contains(remoteURL, "://") {
		u, err := url.Parse(remoteURL)
		if err != nil {
			return "", fmt.Errorf("parsing remote URL %q: %w", remoteURL, err)
		}
		path = u.Path
	} else if _, after, ok := strings.Cut(remoteURL, ":"); ok {
		path = after
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[len(parts)-2] == "" || parts[len(parts)-1] == "" {
		return "", fmt.Errorf("cannot determine owner/name from remote URL %q", remoteURL)
	}
	return parts[len(parts)-2] + "/" + parts[len(parts)-1], nil
}

// DefaultFetchTimeout is the default timeout for fetch operations.
const DefaultFetchTimeout = 60 * time.Second

// Fetch updates the remote-tracking branches and tags of remote.
// SSH remotes are skipped when no SSH agent is available.
// An up-to-date remote is not an error.
func (r Repository) Fetch(ctx context.Context, remote string) error {
	repo, err := openRepo(r.Path)
	if err != nil {
		return err
	}

	rem, err := repo.Remote(remote)
	if err != nil {
		return fmt.Errorf("looking up remote %s: %w", remote, err)
	}

	urls := rem.Config().URLs
	if len(urls) == 0 {
		return nil
	}
	remoteURL := urls[0]

	if isSSHURL(remoteURL) && !isSSHAgentAvailable() {
		logDebug("[git] skipping fetch from remote '%s': SSH URL without SSH agent available", remote)
		return nil
	}

	logDebug("[git] fetching from remote '%s' (%s)", remote, remoteURL)
	err = repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: remote,
		Auth:       getAuthForURL(remoteURL),
		Tags:       git.AllTags,
		RefSpecs:   []config.RefSpec{config.RefSpec("+refs/heads/*:refs/remotes/" + remote + "/*")},
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetching remote %s: %w", remote, err)
	}
	return nil
}

// getAuthForURL returns the appropriate authentication method for a remote URL.
// SSH URLs use SSH agent auth, HTTPS URLs use environment credentials.
func getAuthForURL(url string) transport.AuthMethod {
	if isSSHURL(url) {
		auth, err := ssh.NewSSHAgentAuth("git")
		if err != nil {
			logDebug("[git] SSH agent auth failed: %v", err)
			return nil
		}
		return auth
	}

	username := os.Getenv("GIT_USERNAME")
	password := os.Getenv("GIT_PASSWORD")
	if username == "" {
		username = os.Getenv("GITHUB_ACCESS_TOKEN")
		if username != "" {
			password = "" // GitHub token can be used as username with empty password
		}
	}

	if username != "" {
		return &http.BasicAuth{
			Username: username,
			Password: password,
		}
	}

	return nil
}

// isSSHURL checks if a URL is an SSH URL.
// Detects git@ (SCP-style), ssh://, and git+ssh:// schemes.
func isSSHURL(url string) bool {
	return strings.HasPrefix(url, "git@") ||
		strings.HasPrefix(url, "ssh://") ||
		strings.HasPrefix(url, "git+ssh://")
}

// isSSHAgentAvailable checks if an SSH agent is available.
// Returns true only if SSH_AUTH_SOCK is set and non-empty.
func isSSHAgentAvailable() bool {
	sock := strings.TrimSpace(os.Getenv("SSH_AUTH_SOCK"))
	return sock != ""
}
