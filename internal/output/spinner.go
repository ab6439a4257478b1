package output

import (
	"time"

	"github.com/briandowns/spinner"
)

// Spinner creates a standalone spinner for long operations outside a
// running frontend (plain CLI paths). Returns a disabled fallback when
// spinners cannot animate (non-TTY or quiet mode).
func (w *Writer) Spinner(message string) *Spinner {
	if w.Quiet || !w.terminal.SpinnersEnabled() {
		return &Spinner{disabled: true, message: message, writer: w}
	}

	s := spinner.New(w.renderer.Theme().SpinnerFrames, 80*time.Millisecond)
	s.Writer = w.Out
	s.Suffix = " " + message
	_ = s.Color("cyan")

	return &Spinner{
		spinner: s,
		message: message,
		writer:  w,
	}
}

// Spinner wraps briandowns/spinner with graceful fallback.
type Spinner struct {
	spinner  *spinner.Spinner
	message  string
	writer   *Writer
	disabled bool
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	if s.disabled {
		s.writer.Printf("%s... ", s.message)
		return
	}

	s.spinner.Start()
}

// Stop stops the spinner animation.
func (s *Spinner) Stop() {
	if s.disabled {
		return
	}

	s.spinner.Stop()
}

// StopWithSuccess stops the spinner and prints a success badge.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	s.writer.Success("%s", message)
}

// StopWithFailure stops the spinner and prints an error badge.
func (s *Spinner) StopWithFailure(message string) {
	s.Stop()
	s.writer.Failure("%s", message)
}

// UpdateMessage changes the text shown next to the spinner.
func (s *Spinner) UpdateMessage(message string) {
	s.message = message
	if s.disabled {
		return
	}

	s.spinner.Suffix = " " + message
}
