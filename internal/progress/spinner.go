package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

const spinnerDelay = 100 * time.Millisecond

// Spinner animates while a step runs and leaves a status line behind. It is
// silent when the output is not a terminal.
type Spinner struct {
	out     io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	s       *spinner.Spinner
}

// NewSpinner returns a spinner writing to out.
func NewSpinner(out io.Writer, caps TerminalCapabilities) *Spinner {
	symbols := SelectSymbols(caps)
	sp := &Spinner{out: out, caps: caps, symbols: symbols}
	if caps.IsTTY {
		opts := []spinner.Option{spinner.WithWriter(out)}
		if f, ok := out.(*os.File); ok {
			opts = []spinner.Option{spinner.WithWriterFile(f)}
		}
		if caps.SupportsColor {
			opts = append(opts, spinner.WithColor("cyan"))
		}
		sp.s = spinner.New(spinner.CharSets[symbols.SpinnerSet], spinnerDelay, opts...)
	}
	return sp
}

// Run shows msg with a spinner while fn runs, then prints a success or
// failure line. fn's error is returned unchanged.
func (sp *Spinner) Run(msg string, fn func() error) error {
	if sp.s == nil {
		return fn()
	}

	sp.s.Suffix = " " + msg
	sp.s.Start()
	err := fn()
	sp.s.Stop()

	if err != nil {
		fmt.Fprintf(sp.out, "%s %s\n", sp.symbols.Failure, msg)
		return err
	}
	fmt.Fprintf(sp.out, "%s %s\n", sp.symbols.Checkmark, msg)
	return nil
}
