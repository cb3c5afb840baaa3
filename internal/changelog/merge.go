package changelog

import "strings"

// MergeMode tells how Merge combined the fresh entry with the document.
type MergeMode int

const (
	// FirstDraft inserts the entry because the marked region had no
	// heading for the version.
	FirstDraft MergeMode = iota
	// Redraft reconciles the entry with an earlier draft for the same
	// version, keeping previously written PR lines.
	Redraft
)

// String returns a human-readable name for the merge mode.
func (m MergeMode) String() string {
	switch m {
	case FirstDraft:
		return "first-draft"
	case Redraft:
		return "re-draft"
	default:
		return "unknown"
	}
}

// MergeResult is the outcome of Merge.
type MergeResult struct {
	Document string
	Mode     MergeMode
	// Preserved lists PRs whose previous line was kept verbatim.
	Preserved []int
	// Added lists PRs taken from the fresh entry.
	Added []int
}

// Merge writes entry, the freshly formatted entry for version, into the
// marked region of document.
//
// When the region has no heading for version the entry is inserted and any
// previous region content is moved below the end marker. Otherwise every
// fresh PR line is replaced by the previous line mentioning the same PR, so
// hand edits survive regeneration; a retitled PR keeps its previous line.
// An unparseable PR token in the region or the entry fails the merge.
func Merge(document, entry, version string) (*MergeResult, error) {
	r, err := LocateMarkers(document)
	if err != nil {
		return nil, err
	}
	if err := CheckPRReferences(r.Inner(document)); err != nil {
		return nil, err
	}
	if err := CheckPRReferences(entry); err != nil {
		return nil, err
	}

	if HasVersionHeading(r.Inner(document), version) {
		return redraft(document, r, entry), nil
	}
	return firstDraft(document, r, entry), nil
}

func firstDraft(document string, r Region, entry string) *MergeResult {
	block := wrap(entry)
	if previous := strings.Trim(r.Inner(document), "\n"); strings.TrimSpace(previous) != "" {
		block += "\n\n" + previous
	}

	return &MergeResult{
		Document: r.ReplaceSpan(document, block),
		Mode:     FirstDraft,
		Added:    uniqueNumbers(ExtractPRNumbers(entry)),
	}
}

func redraft(document string, r Region, entry string) *MergeResult {
	previous := indexByPR(ParseLines(r.Span(document), ""))

	result := &MergeResult{Mode: Redraft}
	fresh := ParseLines(wrap(entry), "")
	for i, l := range fresh {
		pl, ok := prLine(l)
		if !ok || pl.Number() == 0 {
			continue
		}
		if old, found := previous[pl.Number()]; found {
			fresh[i] = old
			result.Preserved = append(result.Preserved, pl.Number())
		} else {
			result.Added = append(result.Added, pl.Number())
		}
	}

	result.Document = r.ReplaceSpan(document, JoinLines(fresh))
	return result
}

// indexByPR maps every PR number to the last line mentioning it.
func indexByPR(lines []Line) map[int]Line {
	index := make(map[int]Line)
	for _, l := range lines {
		pl, ok := prLine(l)
		if !ok {
			continue
		}
		for _, n := range pl.Numbers {
			index[n] = l
		}
	}
	return index
}

func uniqueNumbers(numbers []int) []int {
	seen := make(map[int]bool, len(numbers))
	var unique []int
	for _, n := range numbers {
		if seen[n] {
			continue
		}
		seen[n] = true
		unique = append(unique, n)
	}
	return unique
}
