package errors

import (
	"strings"

	"github.com/fatih/color"
)

// Styles follow color.NoColor, so output is plain when stderr is not a
// terminal or NO_COLOR is set.
var (
	errorStyle    = color.New(color.FgRed, color.Bold)
	messageStyle  = color.New(color.FgRed)
	categoryStyle = color.New(color.FgYellow)
	usageStyle    = color.New(color.FgCyan, color.Bold)
	usageText     = color.New(color.FgCyan)
	fixStyle      = color.New(color.FgGreen, color.Bold)
	bulletStyle   = color.New(color.FgGreen)
)

// FormatError renders err as
//
//	Error [Category]: message
//
//	Usage: ...
//
//	To fix this:
//	  • step
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(errorStyle.Sprint("Error") + " [" + categoryStyle.Sprint(err.Category.String()) + "]: ")
	sb.WriteString(messageStyle.Sprint(err.Message) + "\n")

	if err.Usage != "" {
		sb.WriteString("\n" + usageStyle.Sprint("Usage: ") + usageText.Sprint(err.Usage) + "\n")
	}

	if len(err.Remediation) > 0 {
		sb.WriteString("\n" + fixStyle.Sprint("To fix this:") + "\n")
		for _, step := range err.Remediation {
			sb.WriteString("  " + bulletStyle.Sprint("•") + " " + step + "\n")
		}
	}
	return sb.String()
}

// FormatSimpleError renders any error. A CLIError in err's chain is
// rendered with its own category; anything else gets category.
func FormatSimpleError(err error, category ErrorCategory) string {
	if err == nil {
		return ""
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return FormatError(cliErr)
	}
	return FormatError(&CLIError{Category: category, Message: err.Error()})
}
