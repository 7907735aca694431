// Package ui renders the small amount of styled terminal output the CLI
// produces: echoed commands, success lines, and warnings. Styles degrade to
// plain text when the destination writer is not a terminal.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const (
	colorCommand = lipgloss.Color("8")
	colorSuccess = lipgloss.Color("2")
	colorWarning = lipgloss.Color("3")
	colorError   = lipgloss.Color("1")
	colorAccent  = lipgloss.Color("6")
)

// style builds a style bound to w so color support is detected per writer.
func style(w io.Writer) lipgloss.Style {
	return lipgloss.NewRenderer(w).NewStyle()
}

// PrintCommand echoes a command line before it runs, e.g. "$ npm install".
func PrintCommand(w io.Writer, cmdline string) {
	fmt.Fprintln(w, style(w).Foreground(colorCommand).Render("$ "+cmdline))
}

// Success prints a highlighted success line.
func Success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, style(w).Foreground(colorSuccess).Bold(true).Render(fmt.Sprintf(format, args...)))
}

// Warn prints a warning line prefixed with "warning:".
func Warn(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, style(w).Foreground(colorWarning).Render("warning: "+fmt.Sprintf(format, args...)))
}

// Error prints an error line prefixed with "Error:".
func Error(w io.Writer, err error) {
	fmt.Fprintln(w, style(w).Foreground(colorError).Render("Error: "+err.Error()))
}

// Accent renders s in the accent color without printing it.
func Accent(w io.Writer, s string) string {
	return style(w).Foreground(colorAccent).Render(s)
}

// IsTerminal reports whether v is an *os.File attached to a terminal.
func IsTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
