// Package console writes the user-facing output of a run: colored messages
// and a single status line that is rewritten in place on interactive
// terminals.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Console formats output for one run.
type Console struct {
	out         io.Writer
	errOut      io.Writer
	interactive bool

	red    *color.Color
	green  *color.Color
	yellow *color.Color
	cyan   *color.Color
}

// New returns a Console writing to out and errOut. Colors and in-place line
// updates are only produced when interactive is set.
func New(out, errOut io.Writer, interactive bool) *Console {
	c := &Console{
		out:         out,
		errOut:      errOut,
		interactive: interactive,
		red:         color.New(color.FgRed),
		green:       color.New(color.FgGreen),
		yellow:      color.New(color.FgYellow),
		cyan:        color.New(color.FgCyan),
	}
	for _, col := range []*color.Color{c.red, c.green, c.yellow, c.cyan} {
		if interactive {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
	return c
}

// Interactive reports whether the console targets a terminal.
func (c *Console) Interactive() bool { return c.interactive }

// Out returns the standard output writer.
func (c *Console) Out() io.Writer { return c.out }

// Printf writes to standard output.
func (c *Console) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(c.out, format, a...)
}

// Errorf writes to standard error.
func (c *Console) Errorf(format string, a ...any) {
	_, _ = fmt.Fprintf(c.errOut, format, a...)
}

// UpdateLine clears the current terminal line and writes s in its place.
// It does nothing on non-interactive output.
func (c *Console) UpdateLine(s string) {
	if !c.interactive {
		return
	}
	_, _ = fmt.Fprint(c.out, "\r\x1b[2K"+s)
}

// FinishLine clears the status line on interactive output and writes s in
// its place. Unlike UpdateLine, s is written on every output.
func (c *Console) FinishLine(s string) {
	if c.interactive {
		_, _ = fmt.Fprint(c.out, "\r\x1b[2K")
	}
	_, _ = fmt.Fprint(c.out, s)
}

func (c *Console) Red(s string) string    { return c.red.Sprint(s) }
func (c *Console) Green(s string) string  { return c.green.Sprint(s) }
func (c *Console) Yellow(s string) string { return c.yellow.Sprint(s) }
func (c *Console) Cyan(s string) string   { return c.cyan.Sprint(s) }

// FormatSize renders a byte count with binary units, e.g. "1.5 KiB".
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}

// NewLogger returns the diagnostics logger. It logs warnings and errors, and
// debug messages too when verbose is set.
func NewLogger(w io.Writer, prefix string, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: prefix,
		Level:  level,
	})
}
