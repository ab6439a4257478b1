// Package terminal provides terminal detection and capabilities.
//
// This package handles:
//   - TTY detection for stdout/stdin
//   - NO_COLOR environment variable and TERM=dumb support
//   - Terminal dimensions
//   - Color profile selection for the renderer
package terminal

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Info holds terminal capability information.
type Info struct {
	IsTTY     bool
	NoColor   bool
	Width     int
	Height    int
	ForceFlag bool // Set when --no-color flag is used
}

// Detect returns terminal information for the current environment.
func Detect() *Info {
	stdoutFD := int(os.Stdout.Fd())
	isTTY := term.IsTerminal(stdoutFD)

	width, height := 80, 24 // sensible defaults

	if isTTY {
		if w, h, err := term.GetSize(stdoutFD); err == nil {
			width, height = w, h
		}
	}

	// Check NO_COLOR environment variable (https://no-color.org/)
	_, noColor := os.LookupEnv("NO_COLOR")

	// Treat TERM=dumb and an unset TERM as no-color (no escape sequence support)
	if t := os.Getenv("TERM"); t == "dumb" || t == "" {
		noColor = true
	}

	return &Info{
		IsTTY:   isTTY,
		NoColor: noColor,
		Width:   width,
		Height:  height,
	}
}

// ColorEnabled returns true if colored output should be used.
func (t *Info) ColorEnabled() bool {
	if t.ForceFlag {
		return false
	}

	return t.IsTTY && !t.NoColor
}

// InteractiveEnabled returns true if interactive prompts are allowed.
func (t *Info) InteractiveEnabled() bool {
	return t.IsTTY
}

// SpinnersEnabled returns true if animated spinners should be used.
func (t *Info) SpinnersEnabled() bool {
	return t.IsTTY && !t.NoColor
}

// Profile returns the termenv color profile matching the detected
// capabilities. Styled content degrades to plain text under Ascii.
func (t *Info) Profile() termenv.Profile {
	if !t.ColorEnabled() {
		return termenv.Ascii
	}

	return termenv.ColorProfile()
}
