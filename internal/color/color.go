// Package color provides color detection and theming for report output.
package color

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Profile detects whether color output should be enabled based on
// environment variables and the --no-color flag.
//
// Color is disabled when any of:
//   - NO_COLOR env is set (any value, per https://no-color.org)
//   - CLICOLOR=0
//   - TERM=dumb
//   - noColorFlag is true
func Profile(noColorFlag bool) bool {
	if noColorFlag {
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	if os.Getenv("CLICOLOR") == "0" {
		return false
	}

	if os.Getenv("TERM") == "dumb" {
		return false
	}

	return true
}

// Enabled resolves the effective color setting. An explicit config value
// wins over detection; detection also requires f to be a terminal.
func Enabled(f *os.File, noColorFlag bool, configured, set bool) bool {
	if noColorFlag {
		return false
	}

	if set {
		return configured
	}

	return Profile(false) && IsTerminal(f)
}

// IsTerminal returns true if the given file is a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}

	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits int
}

// Width returns the terminal width of f, or 0 when f is not a terminal.
func Width(f *os.File) int {
	if f == nil {
		return 0
	}

	w, _, err := term.GetSize(int(f.Fd())) //nolint:gosec // fd fits int
	if err != nil || w <= 0 {
		return 0
	}

	return w
}

// Theme holds lipgloss styles for report output.
type Theme struct {
	Header  lipgloss.Style
	Index   lipgloss.Style
	Name    lipgloss.Style
	Value   lipgloss.Style
	Hot     lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
}

// NewTheme creates a Theme. When color is false, all styles are empty (no ANSI codes).
func NewTheme(color bool) Theme {
	if !color {
		return Theme{}
	}

	return Theme{
		Header:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Index:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Name:    lipgloss.NewStyle().Bold(true),
		Value:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")), // bright blue
		Hot:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")), // bright yellow
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}
