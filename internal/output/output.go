// Package output prints styled, human-facing messages for the CLI.
//
// Diagnostics go through the logging package; this package is for what the
// user is meant to read. Styling uses lipgloss and degrades to plain text when
// the writer is not a terminal.
package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Printer writes styled messages to an output and an error stream.
type Printer struct {
	out io.Writer
	err io.Writer
}

// New creates a printer. Errors and warnings go to errOut.
func New(out, errOut io.Writer) *Printer {
	return &Printer{out: out, err: errOut}
}

// Success prints a completed operation.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.out, successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints a failure that needs user attention.
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintln(p.err, errorStyle.Render("Error: "+fmt.Sprintf(format, args...)))
}

// Warn prints a non-fatal problem.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.err, warnStyle.Render(fmt.Sprintf(format, args...)))
}

// Notice prints a non-fatal notice on the output stream, e.g. a skipped file.
func (p *Printer) Notice(format string, args ...any) {
	fmt.Fprintln(p.out, warnStyle.Render(fmt.Sprintf(format, args...)))
}

// Info prints a status update or heading.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintln(p.out, infoStyle.Render(fmt.Sprintf(format, args...)))
}

// Plain prints an unstyled line.
func (p *Printer) Plain(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Step prints an indented sub-item.
//
//	p.Step("- %s", name)
func (p *Printer) Step(format string, args ...any) {
	fmt.Fprintln(p.out, stepStyle.Render("  "+fmt.Sprintf(format, args...)))
}
