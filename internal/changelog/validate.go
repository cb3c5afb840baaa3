package changelog

import "strings"

// changelogPRKeyword marks the PR that updates the changelog itself; it may
// be absent from its own entry.
const changelogPRKeyword = "changelog"

// Validate checks a finalized entry against the truth entry regenerated
// from merge history.
//
// It fails with a MissingVersionHeadingError if finalEntry has no heading
// for version. Otherwise every truth PR must appear in the final entry,
// unless its truth line mentions "changelog", and every final PR must appear
// in the truth entry. Differences are reported together as a
// PRSetMismatchError. A PR token that cannot be parsed in either entry
// fails with an InvalidPRReferenceError.
func Validate(finalEntry, truthEntry, version string) error {
	if err := CheckVersionHeading(finalEntry, version); err != nil {
		return err
	}
	for _, text := range []string{finalEntry, truthEntry} {
		if err := CheckPRReferences(text); err != nil {
			return err
		}
	}

	finalPRs := numberSet(ExtractPRNumbers(finalEntry))
	truthLines := ParseLines(truthEntry, "")
	truthNumbers := uniqueNumbers(ExtractPRNumbers(truthEntry))
	truthPRs := numberSet(truthNumbers)

	mismatch := &PRSetMismatchError{Version: version}
	for _, n := range truthNumbers {
		if finalPRs[n] || isChangelogPR(truthLines, n) {
			continue
		}
		mismatch.Missing = append(mismatch.Missing, n)
	}
	for _, n := range uniqueNumbers(ExtractPRNumbers(finalEntry)) {
		if !truthPRs[n] {
			mismatch.Extraneous = append(mismatch.Extraneous, n)
		}
	}

	if len(mismatch.Missing) > 0 || len(mismatch.Extraneous) > 0 {
		return mismatch
	}
	return nil
}

// CheckVersionHeading returns a MissingVersionHeadingError if entry has no
// heading for version.
func CheckVersionHeading(entry, version string) error {
	if !HasVersionHeading(entry, version) {
		return &MissingVersionHeadingError{Version: version}
	}
	return nil
}

// isChangelogPR reports whether any line referencing PR n mentions the
// changelog.
func isChangelogPR(lines []Line, n int) bool {
	for _, l := range lines {
		pl, ok := prLine(l)
		if !ok || !pl.References(n) {
			continue
		}
		if strings.Contains(strings.ToLower(pl.Raw), changelogPRKeyword) {
			return true
		}
	}
	return false
}

func numberSet(numbers []int) map[int]bool {
	set := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		set[n] = true
	}
	return set
}
