package ui

import (
	"errors"

	"github.com/replkit/replkit/internal/cancel"
)

// Cancelable runs fn inside a cancelable scope. While fn runs the footer
// shows "(esc to interrupt)" and RequestCancel targets the scope.
//
// On every exit path the scope is marked completed, the mode returns to
// idle and the live region is cleared. Cancellation is absorbed here: an
// ErrCancelled result prints an "Interrupted" badge and returns nil.
// Any other error propagates, and a panic in fn resumes after cleanup.
func (u *UI) Cancelable(fn func(*cancel.Scope) error) error {
	scope := cancel.NewScope("cancelable")

	if err := u.enterState("cancelable", cancelableState{scope: scope}); err != nil {
		return err
	}

	u.out.SetLiveFooter(u.interruptHint())

	err, panicked := runBody(func() error {
		return fn(scope)
	})

	// Completion must be signalled before state resets so WaitCompleted
	// callers observe it as soon as the mode leaves cancelable.
	scope.MarkCompleted()
	u.exitState()
	u.out.ClearAllLive()

	if panicked != nil {
		panic(panicked)
	}

	if errors.Is(err, cancel.ErrCancelled) {
		u.out.Failure("Interrupted")
		return nil
	}

	return err
}
