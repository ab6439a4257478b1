// Package cancel implements cooperative cancellation scopes.
//
// A Scope is cancelled at most once; cancellation closes a channel so any
// number of waiters wake immediately without polling. Work inside a scope
// observes cancellation only at checkpoints (Checkpoint, Sleep, Iter,
// Chan), never preemptively.
package cancel

import (
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrCancelled is returned from checkpoints once a scope is cancelled.
// Match it with errors.Is; it is swallowed only at the boundary that
// owns the scope.
var ErrCancelled = errors.New("operation cancelled")

// Scope is a cooperative cancellation scope.
type Scope struct {
	id    string
	label string

	mu         sync.Mutex
	cancelled  bool
	cancelTime time.Time

	done      chan struct{}
	completed chan struct{}
}

// NewScope creates an active scope.
func NewScope(label string) *Scope {
	return &Scope{
		id:        uuid.NewString(),
		label:     label,
		done:      make(chan struct{}),
		completed: make(chan struct{}),
	}
}

// ID returns the scope's unique identifier.
func (s *Scope) ID() string { return s.id }

// Label returns the diagnostic label given at construction.
func (s *Scope) Label() string { return s.label }

// Cancel requests cancellation. It is idempotent and safe to call from
// any goroutine; only the first call records the cancel time.
func (s *Scope) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelled {
		return
	}

	s.cancelled = true
	s.cancelTime = time.Now()
	close(s.done)
}

// Cancelled reports whether cancellation was requested.
func (s *Scope) Cancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cancelled
}

// CancelTime returns when Cancel was first called.
func (s *Scope) CancelTime() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cancelTime, s.cancelled
}

// Done returns a channel closed on cancellation, for select integration.
func (s *Scope) Done() <-chan struct{} {
	return s.done
}

// Err returns ErrCancelled if the scope is cancelled, nil otherwise.
func (s *Scope) Err() error {
	if s.Cancelled() {
		return ErrCancelled
	}

	return nil
}

// Checkpoint is a yield point for tight loops. It returns ErrCancelled
// when the scope is cancelled and otherwise lets other goroutines run.
func (s *Scope) Checkpoint() error {
	if s.Cancelled() {
		return ErrCancelled
	}

	runtime.Gosched()

	return nil
}

// Sleep pauses for d but wakes immediately on cancellation. It never
// polls; a concurrent Cancel interrupts the wait at once.
func (s *Scope) Sleep(d time.Duration) error {
	if s.Cancelled() {
		return ErrCancelled
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-s.done:
		return ErrCancelled
	case <-timer.C:
		return nil
	}
}

// MarkCompleted signals that the scope's cleanup has finished. Called by
// the owning boundary; idempotent.
func (s *Scope) MarkCompleted() {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.completed:
	default:
		close(s.completed)
	}
}

// Completed reports whether MarkCompleted has been called.
func (s *Scope) Completed() bool {
	select {
	case <-s.completed:
		return true
	default:
		return false
	}
}

// WaitCompleted blocks until the scope's cleanup has finished.
func (s *Scope) WaitCompleted() {
	<-s.completed
}
