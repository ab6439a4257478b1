package ui

import (
	"sync"

	"github.com/replkit/replkit/internal/render"
)

// Status is the handle passed to a Status body.
type Status struct {
	u *UI

	mu      sync.Mutex
	message string
	frame   int
}

// Update replaces the status message and redraws immediately.
func (s *Status) Update(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()

	s.redraw()
}

// Message returns the current status message.
func (s *Status) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.message
}

func (s *Status) tick(frame int) {
	s.mu.Lock()
	s.frame = frame
	s.mu.Unlock()

	s.redraw()
}

func (s *Status) redraw() {
	s.mu.Lock()
	line := render.SpinnerLine{Frame: s.frame, Message: s.message}
	s.mu.Unlock()

	s.u.out.SetLive(line)
}

// Status shows an animated spinner with a message while fn runs, then
// prints a permanent ✓/✗ line carrying the final message. An error from
// fn (including cancellation) marks the line failed and propagates.
func (u *UI) Status(message string, fn func(*Status) error) error {
	if err := u.out.AcquireBody("status"); err != nil {
		return err
	}

	st := &Status{u: u, message: message}
	st.redraw()

	stop := u.startTicker(st.tick)

	err, panicked := runBody(func() error {
		return fn(st)
	})

	stop()
	u.out.ReleaseBody("status")

	kind := render.Success
	if err != nil || panicked != nil {
		kind = render.Error
	}

	u.out.Print(render.Badge{Kind: kind, Text: st.Message()})

	if panicked != nil {
		panic(panicked)
	}

	return err
}
