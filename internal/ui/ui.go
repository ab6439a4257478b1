// Package ui coordinates live terminal interaction for REPL handlers.
//
// A UI owns a mode state machine with exactly three modes: idle,
// cancelable (a scope is interruptible via RequestCancel) and confirming
// (a y/n prompt is pending via RespondConfirm). The modes are a tagged
// union; holding both at once is unrepresentable. Display helpers
// (Status, Progress, Stream, Group, Confirm) acquire the live body slot
// for their lifetime and always restore it, including on panic.
package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/replkit/replkit/internal/cancel"
	"github.com/replkit/replkit/internal/output"
	"github.com/replkit/replkit/internal/render"
)

// DefaultTickInterval drives spinner animation and the slow-cancel check.
const DefaultTickInterval = 80 * time.Millisecond

// slowCancelThreshold is how long after a cancel request the footer
// starts warning that the operation is slow to stop.
const slowCancelThreshold = 3 * time.Second

// StateError reports an attempt to enter an exclusive mode while
// another one is active.
type StateError struct {
	Op      string
	Current string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot enter %s: already in state %s; ensure the previous helper has returned", e.Op, e.Current)
}

// modeState is the tagged union of active UI modes. nil means idle.
type modeState interface {
	mode() string
}

type cancelableState struct {
	scope *cancel.Scope
}

func (cancelableState) mode() string { return "cancelable" }

type confirmingState struct {
	prompt *confirmPrompt
}

func (confirmingState) mode() string { return "confirming" }

// UI is the coordination point between handlers and the frontend.
type UI struct {
	out        *output.Writer
	tick       time.Duration
	slowCancel time.Duration

	mu    sync.Mutex
	state modeState // nil = idle (guarded by mu)
}

// New creates a UI writing through the given output writer.
func New(out *output.Writer) *UI {
	return &UI{out: out, tick: DefaultTickInterval, slowCancel: slowCancelThreshold}
}

// SetTickInterval overrides the animation interval.
func (u *UI) SetTickInterval(d time.Duration) {
	if d > 0 {
		u.tick = d
	}
}

// SetSlowCancelThreshold overrides how long a requested cancellation may
// run before the footer escalates.
func (u *UI) SetSlowCancelThreshold(d time.Duration) {
	if d > 0 {
		u.slowCancel = d
	}
}

// Out returns the underlying output writer.
func (u *UI) Out() *output.Writer {
	return u.out
}

// Mode returns the current mode: "idle", "cancelable" or "confirming".
func (u *UI) Mode() string {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state == nil {
		return "idle"
	}

	return u.state.mode()
}

func (u *UI) enterState(op string, s modeState) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state != nil {
		return &StateError{Op: op, Current: u.state.mode()}
	}

	u.state = s

	return nil
}

func (u *UI) exitState() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.state = nil
}

// currentScope returns the active cancelable scope, or nil.
func (u *UI) currentScope() *cancel.Scope {
	u.mu.Lock()
	defer u.mu.Unlock()

	if cs, ok := u.state.(cancelableState); ok {
		return cs.scope
	}

	return nil
}

// checkpoint yields to cancellation when a cancelable scope is active.
func (u *UI) checkpoint() error {
	scope := u.currentScope()
	if scope == nil {
		return nil
	}

	return scope.Checkpoint()
}

// RequestCancel cancels the active cancelable scope. It reports whether
// anything was cancelled; with strict set, a false result is an error.
// The "(cancelling...)" footer appears before the scope observes the
// cancellation, so feedback is immediate.
func (u *UI) RequestCancel(strict bool) (bool, error) {
	u.mu.Lock()
	cs, ok := u.state.(cancelableState)
	current := "idle"
	if u.state != nil {
		current = u.state.mode()
	}

	if ok {
		// Footer write stays under the mode lock: a Cancelable block
		// exiting concurrently resets the mode before clearing the live
		// region, so a late footer can never outlive the block.
		u.out.SetLiveFooter(u.cancellingHint())
		cs.scope.Cancel()
		u.mu.Unlock()

		return true, nil
	}
	u.mu.Unlock()

	if strict {
		return false, fmt.Errorf("nothing to cancel: ui mode is %q", current)
	}

	return false, nil
}

// RespondConfirm answers the pending confirmation prompt. It reports
// whether a prompt was pending; with strict set, a false result is an
// error.
func (u *UI) RespondConfirm(value bool, strict bool) (bool, error) {
	u.mu.Lock()
	cs, ok := u.state.(confirmingState)
	current := "idle"
	if u.state != nil {
		current = u.state.mode()
	}
	u.mu.Unlock()

	if ok {
		cs.prompt.respond(value)
		return true, nil
	}

	if strict {
		return false, fmt.Errorf("no pending confirm: ui mode is %q", current)
	}

	return false, nil
}

func (u *UI) interruptHint() string {
	return u.out.Renderer().Muted().Render("(esc to interrupt)")
}

func (u *UI) cancellingHint() string {
	return u.out.Renderer().Warning().Faint(true).Render("(cancelling...)")
}

func (u *UI) slowCancelHint() string {
	return u.out.Renderer().Warning().Faint(true).Render("(operation slow to cancel...)")
}

// checkSlowCancel escalates the footer when a requested cancellation has
// not completed within the threshold. Called from animation tickers.
func (u *UI) checkSlowCancel() {
	scope := u.currentScope()
	if scope == nil {
		return
	}

	if ct, ok := scope.CancelTime(); ok && time.Since(ct) >= u.slowCancel {
		u.out.SetLiveFooter(u.slowCancelHint())
	}
}

// startTicker runs fn with an increasing frame counter every tick until
// the returned stop function is called. stop waits for the ticker
// goroutine to finish, so no frame is drawn after cleanup.
func (u *UI) startTicker(fn func(frame int)) (stop func()) {
	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)

		ticker := time.NewTicker(u.tick)
		defer ticker.Stop()

		frame := 0

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				frame++
				fn(frame)
				u.checkSlowCancel()
			}
		}
	}()

	var once sync.Once

	return func() {
		once.Do(func() {
			close(done)
			<-stopped
		})
	}
}

// runBody invokes fn, converting a panic into a saved value so cleanup
// can run before the panic resumes.
func runBody(fn func() error) (err error, panicked any) {
	defer func() {
		if p := recover(); p != nil {
			panicked = p
		}
	}()

	return fn(), nil
}

// Facade printing methods used by handlers.

// Print writes content to scrollback.
func (u *UI) Print(content any) { u.out.Print(content) }

// Success prints a success badge.
func (u *UI) Success(message string) { u.out.Success("%s", message) }

// Error prints an error badge.
func (u *UI) Error(message string) { u.out.Failure("%s", message) }

// Warning prints a warning badge.
func (u *UI) Warning(message string) { u.out.Warning("%s", message) }

// Info prints an info badge.
func (u *UI) Info(message string) { u.out.Info("%s", message) }

// Echo prints user input with a "> " prefix.
func (u *UI) Echo(text string) { u.out.Echo(text) }

// Code prints a syntax-highlighted code block.
func (u *UI) Code(code, language, title string) {
	u.out.Print(render.CodeBlock{Code: code, Language: language, Title: title})
}

// Markdown prints a rendered markdown document.
func (u *UI) Markdown(source string) {
	u.out.Print(render.Markdown{Source: source})
}

// Collapsed prints a titled body with truncation. See render.Collapsed
// for the maxChars convention.
func (u *UI) Collapsed(title, body string, maxChars int) {
	u.out.Print(render.Collapsed{Title: title, Body: body, MaxChars: maxChars})
}
