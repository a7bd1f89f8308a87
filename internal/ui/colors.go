// Package ui formats status lines for the terminal.
package ui

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ANSI color codes
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
	Gray   = "\033[90m"
	Bold   = "\033[1m"
)

// IsTTY reports whether w is a terminal. NO_COLOR disables colors.
func IsTTY(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Paint wraps msg in color when enabled.
func Paint(enabled bool, color, msg string) string {
	if !enabled {
		return msg
	}
	return color + msg + Reset
}

// Printer writes prefixed status lines, colored only on a terminal.
type Printer struct {
	w     io.Writer
	color bool
}

// NewPrinter creates a printer for w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, color: IsTTY(w)}
}

// Color reports whether the printer emits ANSI codes.
func (p *Printer) Color() bool {
	return p.color
}

func (p *Printer) line(color, prefix, msg string) {
	fmt.Fprintf(p.w, "%s %s\n", Paint(p.color, color, prefix), msg)
}

// OK prints a success message with [OK] prefix in green
func (p *Printer) OK(msg string) {
	p.line(Green, "[OK]", msg)
}

// Error prints an error message with [ERROR] prefix in red
func (p *Printer) Error(msg string) {
	p.line(Red, "[ERROR]", msg)
}

// Warn prints a warning message with [WARN] prefix in yellow
func (p *Printer) Warn(msg string) {
	p.line(Yellow, "[WARN]", msg)
}

// Info prints an info message with [INFO] prefix in blue
func (p *Printer) Info(msg string) {
	p.line(Blue, "[INFO]", msg)
}

// Title prints a section title in bold cyan with a description.
func (p *Printer) Title(title, desc string) {
	p.line(Bold+Cyan, fmt.Sprintf("[%s]", title), desc)
}

// Done prints a completion message with [DONE] prefix in green
func (p *Printer) Done(msg string) {
	p.line(Green+Bold, "[DONE]", msg)
}

// Indent prints an indented message
func (p *Printer) Indent(msg string) {
	fmt.Fprintln(p.w, Indent(msg))
}

// Indent returns the message with indentation
func Indent(msg string) string {
	return "     " + msg
}

// SeverityColor returns the color of a violation severity.
func SeverityColor(severity string) string {
	switch severity {
	case "error":
		return Red
	case "warning":
		return Yellow
	default:
		return Blue
	}
}
