package changelog

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	prTokenPattern     = regexp.MustCompile(`\[#(\d+)\]`)
	backportRefPattern = regexp.MustCompile(`Backport PR #(\d+)`)
)

// CheckPRReferences returns an InvalidPRReferenceError for the first
// [#<n>] token of text whose number does not fit an int.
func CheckPRReferences(text string) error {
	for _, m := range prTokenPattern.FindAllStringSubmatch(text, -1) {
		if _, err := strconv.Atoi(m[1]); err != nil {
			return &InvalidPRReferenceError{Token: m[0]}
		}
	}
	return nil
}

// ExtractPRNumbers returns the PR numbers referenced as [#<n>] in text,
// in document order with duplicates preserved. Tokens rejected by
// CheckPRReferences are not returned; callers check text first.
func ExtractPRNumbers(text string) []int {
	matches := prTokenPattern.FindAllStringSubmatch(text, -1)
	numbers := make([]int, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}
	return numbers
}

// ParseLines splits text into typed lines.
// A line containing [@bot] and a "Backport PR #<n>" reference becomes a
// BackportLine; pass an empty bot to disable backport detection.
func ParseLines(text, bot string) []Line {
	raw := strings.Split(text, "\n")
	lines := make([]Line, 0, len(raw))
	for _, s := range raw {
		lines = append(lines, ParseLine(s, bot))
	}
	return lines
}

// ParseLine classifies a single line.
func ParseLine(s, bot string) Line {
	numbers := ExtractPRNumbers(s)

	if bot != "" && strings.Contains(s, "[@"+bot+"]") {
		if original, ok := backportReference(s); ok {
			return BackportLine{
				PullRequestLine: PullRequestLine{Raw: s, Numbers: numbers},
				Original:        original,
			}
		}
	}

	if len(numbers) == 0 {
		return PlainLine{Raw: s}
	}
	return PullRequestLine{Raw: s, Numbers: numbers}
}

func backportReference(s string) (int, bool) {
	m := backportRefPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// JoinLines renders typed lines back to text.
func JoinLines(lines []Line) string {
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text()
	}
	return strings.Join(texts, "\n")
}

// prLine returns the PR view of a line, if it has one.
func prLine(l Line) (PullRequestLine, bool) {
	switch v := l.(type) {
	case BackportLine:
		return v.PullRequestLine, true
	case PullRequestLine:
		return v, true
	default:
		return PullRequestLine{}, false
	}
}
