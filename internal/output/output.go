// Package output provides formatted console output for respect.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Writer handles console output formatting.
type Writer struct {
	out   io.Writer
	err   io.Writer
	color bool
	quiet bool
}

// New creates a Writer on stdout/stderr, colored when stderr is a terminal.
func New() *Writer {
	return &Writer{
		out:   os.Stdout,
		err:   os.Stderr,
		color: isTerminal(os.Stderr),
	}
}

// NewWithWriters creates a Writer with custom io.Writers (for testing).
func NewWithWriters(out, err io.Writer, color bool) *Writer {
	return &Writer{
		out:   out,
		err:   err,
		color: color,
	}
}

// Stdout returns the writer behind Println.
func (w *Writer) Stdout() io.Writer { return w.out }

// Stderr returns the writer behind Errorln.
func (w *Writer) Stderr() io.Writer { return w.err }

// SetQuiet enables or disables quiet mode.
func (w *Writer) SetQuiet(quiet bool) {
	w.quiet = quiet
}

// Println writes a line to stdout.
func (w *Writer) Println(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Errorln writes a line to stderr.
func (w *Writer) Errorln(format string, args ...interface{}) {
	fmt.Fprintf(w.err, format+"\n", args...)
}

// Info prints an info message (skipped in quiet mode).
func (w *Writer) Info(format string, args ...interface{}) {
	if w.quiet {
		return
	}
	w.Println(format, args...)
}

// Success prints a success message.
func (w *Writer) Success(format string, args ...interface{}) {
	w.Println("%s", w.paint(color.FgGreen, fmt.Sprintf(format, args...)))
}

// Warning prints a warning message to stderr. Warnings ignore quiet mode.
func (w *Writer) Warning(format string, args ...interface{}) {
	w.Errorln("%s %s", w.paint(color.FgYellow, "warning:"), fmt.Sprintf(format, args...))
}

// Logf reports a notice that must not go unnoticed, such as a baseline
// written in accept mode. It prints like Warning.
func (w *Writer) Logf(format string, args ...any) {
	w.Warning(format, args...)
}

// ErrorPrefix prints an error message with the respect prefix to stderr.
func (w *Writer) ErrorPrefix(format string, args ...interface{}) {
	w.Errorln("%s %s", w.paint(color.FgRed, "respect:"), fmt.Sprintf(format, args...))
}

// Failure prints a failed item to stdout.
func (w *Writer) Failure(format string, args ...interface{}) {
	w.Println("%s", w.paint(color.FgRed, fmt.Sprintf(format, args...)))
}

// Hint prints a dimmed hint message.
func (w *Writer) Hint(format string, args ...interface{}) {
	if w.quiet {
		return
	}
	w.Println("%s", w.paint(color.Faint, fmt.Sprintf(format, args...)))
}

func (w *Writer) paint(attr color.Attribute, s string) string {
	c := color.New(attr)
	if w.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(s)
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
