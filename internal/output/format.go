// Package output formats the result lines chlog prints after a command.
package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/ariel-frischer/chlog/internal/changelog"
	"github.com/ariel-frischer/chlog/internal/progress"
)

// PrintSuccess prints a green checkmark followed by message.
func PrintSuccess(out io.Writer, symbols progress.ProgressSymbols, message string) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", green(symbols.Checkmark), message)
}

// PrintDraftSummary reports how a draft merged into the changelog at path.
// The path is printed in cyan.
func PrintDraftSummary(out io.Writer, symbols progress.ProgressSymbols, result *changelog.MergeResult, version, path string) {
	cyan := color.New(color.FgCyan).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	PrintSuccess(out, symbols, fmt.Sprintf("%s of %s in %s %s", result.Mode, version, cyan(path),
		dim(fmt.Sprintf("(%d PRs kept, %d added)", len(result.Preserved), len(result.Added)))))
}

// PrintWrote reports a file written next to the main result.
func PrintWrote(out io.Writer, what, path string) {
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", dim("Wrote "+what+" to"), path)
}
