package changelog

import "strings"

// Region locates the marker pair inside a document.
// Start and End are byte offsets of StartMarker and EndMarker.
type Region struct {
	Start int
	End   int
}

// LocateMarkers finds the single marker pair in doc.
// Returns a MalformedDocumentError if either marker is missing, appears more
// than once, or END comes before START.
func LocateMarkers(doc string) (Region, error) {
	if err := checkMarkerCount(doc, StartMarker); err != nil {
		return Region{}, err
	}
	if err := checkMarkerCount(doc, EndMarker); err != nil {
		return Region{}, err
	}

	r := Region{
		Start: strings.Index(doc, StartMarker),
		End:   strings.Index(doc, EndMarker),
	}
	if r.End < r.Start+len(StartMarker) {
		return Region{}, &MalformedDocumentError{Marker: EndMarker, Problem: "appears before the start marker"}
	}
	return r, nil
}

func checkMarkerCount(doc, marker string) error {
	switch strings.Count(doc, marker) {
	case 0:
		return &MalformedDocumentError{Marker: marker, Problem: "is missing"}
	case 1:
		return nil
	default:
		return &MalformedDocumentError{Marker: marker, Problem: "appears more than once"}
	}
}

// Inner returns the text strictly between the markers.
func (r Region) Inner(doc string) string {
	return doc[r.Start+len(StartMarker) : r.End]
}

// Before returns the text preceding the start marker.
func (r Region) Before(doc string) string {
	return doc[:r.Start]
}

// After returns the text following the end marker.
func (r Region) After(doc string) string {
	return doc[r.End+len(EndMarker):]
}

// Span returns the marked region including both markers.
func (r Region) Span(doc string) string {
	return doc[r.Start : r.End+len(EndMarker)]
}

// ReplaceSpan substitutes replacement for the marked span, markers
// included, leaving the rest of doc untouched.
func (r Region) ReplaceSpan(doc, replacement string) string {
	return r.Before(doc) + replacement + r.After(doc)
}

// FinalEntry returns the finalized entry text between the markers.
func FinalEntry(doc string) (string, error) {
	r, err := LocateMarkers(doc)
	if err != nil {
		return "", err
	}
	return r.Inner(doc), nil
}

// CurrentEntry returns the text between the first start marker and the
// first end marker of doc. Unlike FinalEntry it tolerates duplicated
// markers; it returns "" when either marker is missing or END comes first.
func CurrentEntry(doc string) string {
	start := strings.Index(doc, StartMarker)
	end := strings.Index(doc, EndMarker)
	if start == -1 || end < start+len(StartMarker) {
		return ""
	}
	return doc[start+len(StartMarker) : end]
}

// wrap surrounds an entry with the marker lines.
func wrap(entry string) string {
	return StartMarker + "\n\n" + entry + "\n\n" + EndMarker
}
