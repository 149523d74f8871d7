// Package ui renders diagnostics for a terminal: colorized when writing to
// one, plain text otherwise.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/saint0x/jello/internal/types"
)

var (
	errorColor    = color.New(color.FgRed, color.Bold)
	warningColor  = color.New(color.FgYellow, color.Bold)
	infoColor     = color.New(color.FgCyan)
	hintColor     = color.New(color.FgBlue)
	codeColor     = color.New(color.FgWhite, color.Faint)
	fixHighColor  = color.New(color.FgGreen)
	fixOtherColor = color.New(color.FgWhite, color.Faint)

	evidenceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).PaddingLeft(4)
)

// IsTerminal reports whether w is attached to a terminal. Diagnostic
// rendering falls back to plain text when it isn't.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// PrintDiagnostics writes every diagnostic in diags to w, colorized if w is
// a terminal, plain otherwise.
func PrintDiagnostics(w io.Writer, diags []types.Diagnostic) {
	tty := IsTerminal(w)
	for _, d := range diags {
		fmt.Fprintln(w, formatDiagnostic(d, tty))
	}
}

func formatDiagnostic(d types.Diagnostic, tty bool) string {
	var b strings.Builder
	sev := severityLabel(d.Severity, tty)
	code := d.Code
	if tty {
		code = codeColor.Sprint(code)
	}
	fmt.Fprintf(&b, "%s [%s] %s", sev, code, d.Message)
	for _, e := range d.Evidence {
		b.WriteString("\n")
		if tty {
			b.WriteString(evidenceStyle.Render(e))
		} else {
			b.WriteString("    " + e)
		}
	}
	for _, f := range d.Fixes {
		b.WriteString("\n")
		b.WriteString(formatFix(f, tty))
	}
	return b.String()
}

func formatFix(f types.Fix, tty bool) string {
	prefix := fmt.Sprintf("  fix (%s): %s", f.Confidence, f.Description)
	if !tty {
		return prefix
	}
	if f.IsHighConfidence() {
		return fixHighColor.Sprint(prefix)
	}
	return fixOtherColor.Sprint(prefix)
}

func severityLabel(sev types.Severity, tty bool) string {
	label := strings.ToUpper(sev.String())
	if !tty {
		return label
	}
	switch sev {
	case types.SevError:
		return errorColor.Sprint(label)
	case types.SevWarning:
		return warningColor.Sprint(label)
	case types.SevHint:
		return hintColor.Sprint(label)
	default:
		return infoColor.Sprint(label)
	}
}
