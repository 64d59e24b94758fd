package tui

import (
	"io"
	"os"

	"golang.org/x/term"
)

// New creates a Viewer based on terminal capabilities.
// If stdout is a terminal, it returns an InteractiveViewer.
// Otherwise, it returns a FallbackViewer. Both render to out.
func New(opts Options, out io.Writer) Viewer {
	if IsTerminal() {
		return NewInteractiveViewer(opts, out)
	}

	return NewFallbackViewer(opts, out)
}

// NewWithFallback creates a Viewer with explicit fallback preference.
// If noTUI is true, it returns a FallbackViewer regardless of terminal capabilities.
func NewWithFallback(opts Options, noTUI bool, out io.Writer) Viewer {
	if noTUI {
		return NewFallbackViewer(opts, out)
	}

	return New(opts, out)
}

// IsTerminal checks if stdin and stdout are connected to a terminal.
func IsTerminal() bool {
	//nolint:gosec // G115: file descriptors are always small positive integers; uintptr→int is safe
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
