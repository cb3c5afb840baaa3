package changelog

import (
	"errors"
	"fmt"
	"strings"
)

// MalformedDocumentError reports a missing, duplicated or misplaced marker.
type MalformedDocumentError struct {
	Marker  string
	Problem string
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed changelog: marker %q %s", e.Marker, e.Problem)
}

// MissingVersionHeadingError is returned when the finalized entry has no
// heading for the version being released.
type MissingVersionHeadingError struct {
	Version string
}

func (e *MissingVersionHeadingError) Error() string {
	return fmt.Sprintf("did not find entry for %s", e.Version)
}

// PRSetMismatchError lists the differences between the finalized entry and
// the merged PR history. Missing PRs were merged but are not listed;
// Extraneous PRs are listed but were never merged for the version.
type PRSetMismatchError struct {
	Version    string
	Missing    []int
	Extraneous []int
}

func (e *PRSetMismatchError) Error() string {
	var parts []string
	for _, n := range e.Missing {
		parts = append(parts, fmt.Sprintf("missing PR #%d in changelog", n))
	}
	for _, n := range e.Extraneous {
		parts = append(parts, fmt.Sprintf("PR #%d does not belong in changelog for %s", n, e.Version))
	}
	return strings.Join(parts, "; ")
}

// InvalidPRReferenceError reports a [#<n>] token whose number cannot be
// parsed.
type InvalidPRReferenceError struct {
	Token string
}

func (e *InvalidPRReferenceError) Error() string {
	return fmt.Sprintf("invalid PR reference %s: number out of range", e.Token)
}

// IsInvalidPRReference returns true if err is an InvalidPRReferenceError.
func IsInvalidPRReference(err error) bool {
	var ie *InvalidPRReferenceError
	return errors.As(err, &ie)
}

// IsMalformedDocument returns true if err is a MalformedDocumentError.
func IsMalformedDocument(err error) bool {
	var me *MalformedDocumentError
	return errors.As(err, &me)
}

// IsMissingVersionHeading returns true if err is a MissingVersionHeadingError.
func IsMissingVersionHeading(err error) bool {
	var me *MissingVersionHeadingError
	return errors.As(err, &me)
}

// IsPRSetMismatch returns true if err is a PRSetMismatchError.
func IsPRSetMismatch(err error) bool {
	var pe *PRSetMismatchError
	return errors.As(err, &pe)
}
