package ui

import (
	"strings"
	"sync"
)

// Stream is the handle passed to a Stream body. Appended text shows
// live, accumulating in place.
type Stream struct {
	u *UI

	mu  sync.Mutex
	buf strings.Builder
}

// Write appends text to the stream and redraws.
func (s *Stream) Write(text string) {
	s.mu.Lock()
	s.buf.WriteString(text)
	content := s.buf.String()
	s.mu.Unlock()

	s.u.out.SetLive(content)
}

// Writeln appends text followed by a newline.
func (s *Stream) Writeln(text string) {
	s.Write(text + "\n")
}

// Text returns everything written so far.
func (s *Stream) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.buf.String()
}

// Stream shows accumulating text live while fn runs. On exit the full
// accumulated text is printed once to scrollback and the live region is
// cleared, so the text survives verbatim. Errors from fn propagate.
func (u *UI) Stream(fn func(*Stream) error) error {
	if err := u.out.AcquireBody("stream"); err != nil {
		return err
	}

	st := &Stream{u: u}

	err, panicked := runBody(func() error {
		return fn(st)
	})

	u.out.ReleaseBody("stream")

	if text := st.Text(); text != "" {
		u.out.Print(text)
	}

	if panicked != nil {
		panic(panicked)
	}

	return err
}
