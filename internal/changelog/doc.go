// Package changelog implements the changelog entry reconciliation engine.
//
// This package implements:
//   - Marker lookup for the mutable draft region of a CHANGELOG.md
//   - PR reference extraction and typed line parsing
//   - Entry formatting from merged-PR activity markdown
//   - Backport resolution to the originating PR
//   - Idempotent merging of a fresh entry into the marked region
//   - Validation of a finalized entry against the merged PR history
//
// Everything here is pure text processing except ResolveBackports, which
// calls through an injected PullRequestLookup.
package changelog
