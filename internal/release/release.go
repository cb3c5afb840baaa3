// Package release runs the changelog workflows: drafting the entry for an
// upcoming version, checking the finalized entry against the merged PRs,
// and extracting the current entry.
package release

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"

	"github.com/ariel-frischer/chlog/internal/changelog"
)

// ActivityProvider renders the merged-PR activity of repo since a tag.
// An empty result means nothing was merged.
type ActivityProvider interface {
	MergedPRActivity(ctx context.Context, repo, since string) (string, error)
}

// TagFinder finds the most recent tag reachable from a branch.
type TagFinder interface {
	MostRecentTag(branch string) (string, error)
}

// Service wires the collaborators of the workflows.
type Service struct {
	Activity ActivityProvider
	Tags     TagFinder
	// Lookup is only needed when backports are resolved.
	Lookup changelog.PullRequestLookup
	Store  Store
}

// Options describe one workflow run.
type Options struct {
	// Version is the upcoming release, e.g. "1.0.0".
	Version string
	// Branch is the revision tags are looked up on, e.g. "upstream/main".
	Branch string
	// Repo is the "owner/name" repository PRs are merged into.
	Repo string
	// ChangelogPath is the changelog document.
	ChangelogPath string
	// ResolveBackports replaces backport bot lines with their original PR.
	ResolveBackports bool
	// BackportBot is the login of the backport bot.
	BackportBot string
}

func (o Options) validate() error {
	switch {
	case o.Version == "":
		return fmt.Errorf("version is required")
	case o.Branch == "":
		return fmt.Errorf("branch is required")
	case o.ChangelogPath == "":
		return fmt.Errorf("changelog path is required")
	}
	if _, _, err := changelog.SplitRepo(o.Repo); err != nil {
		return err
	}
	return nil
}

// VersionEntry builds the entry for opts.Version from the PRs merged since
// the most recent tag on opts.Branch.
func (s *Service) VersionEntry(ctx context.Context, opts Options) (string, error) {
	log := clog.FromContext(ctx)

	since, err := s.Tags.MostRecentTag(opts.Branch)
	if err != nil {
		return "", err
	}
	log.Infof("Getting changes to %s since %s...", opts.Repo, since)

	md, err := s.Activity.MergedPRActivity(ctx, opts.Repo, since)
	if err != nil {
		return "", fmt.Errorf("getting activity since %s: %w", since, err)
	}

	entry := changelog.ParseActivity(opts.Version, md)
	if entry.IsEmpty() {
		log.Infof("No PRs found")
		return entry.String(), nil
	}

	if opts.ResolveBackports {
		err := entry.ResolveBackports(ctx, changelog.BackportOptions{
			Repo:   opts.Repo,
			Bot:    opts.BackportBot,
			Lookup: s.Lookup,
		})
		if err != nil {
			return "", err
		}
	}
	return entry.String(), nil
}

// Draft writes the entry for opts.Version into the changelog. The marker
// region is validated before any network call. The document is written
// once, atomically.
func (s *Service) Draft(ctx context.Context, opts Options) (*changelog.MergeResult, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	doc, err := s.Store.Read(opts.ChangelogPath)
	if err != nil {
		return nil, err
	}
	if _, err := changelog.LocateMarkers(doc); err != nil {
		return nil, err
	}

	entry, err := s.VersionEntry(ctx, opts)
	if err != nil {
		return nil, err
	}

	result, err := changelog.Merge(doc, entry, opts.Version)
	if err != nil {
		return nil, err
	}
	clog.FromContext(ctx).Debugf("%s of %s: kept %d PR lines, added %d",
		result.Mode, opts.Version, len(result.Preserved), len(result.Added))

	if result.Document == doc {
		clog.FromContext(ctx).Debugf("%s is unchanged", opts.ChangelogPath)
		return result, nil
	}
	if err := s.Store.Write(opts.ChangelogPath, result.Document); err != nil {
		return nil, err
	}
	return result, nil
}

// Check verifies that the finalized entry lists exactly the PRs merged
// since the last tag. The version heading is checked before the entry is
// regenerated. When output is set the final entry is written there on
// success.
func (s *Service) Check(ctx context.Context, opts Options, output string) error {
	if err := opts.validate(); err != nil {
		return err
	}

	doc, err := s.Store.Read(opts.ChangelogPath)
	if err != nil {
		return err
	}
	final, err := changelog.FinalEntry(doc)
	if err != nil {
		return err
	}
	if err := changelog.CheckVersionHeading(final, opts.Version); err != nil {
		return err
	}

	truth, err := s.VersionEntry(ctx, opts)
	if err != nil {
		return err
	}
	if err := changelog.Validate(final, truth, opts.Version); err != nil {
		return err
	}

	if output != "" {
		if err := s.Store.Write(output, final); err != nil {
			return err
		}
		clog.FromContext(ctx).Debugf("wrote final entry to %s", output)
	}
	return nil
}

// ExtractCurrent returns the text between the markers of the changelog at
// path, or "" when the file or the markers are missing.
func (s *Service) ExtractCurrent(path string) (string, error) {
	if path == "" || !s.Store.Exists(path) {
		return "", nil
	}
	doc, err := s.Store.Read(path)
	if err != nil {
		return "", err
	}
	return changelog.CurrentEntry(doc), nil
}
