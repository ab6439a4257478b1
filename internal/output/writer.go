// Package output provides terminal output handling for REPL sessions.
//
// A Writer owns two output paths that must never interleave badly:
//   - scrollback: permanent content, printed once and never touched again
//   - live region: a body slot (spinner, progress bar, task tree) and a
//     footer slot (key hints), both overwritten in place on every change
//
// Content components know nothing about spacing; the Writer owns every
// spacing decision. Slot changes fire an invalidate hook so a frontend
// can repaint.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/replkit/replkit/internal/render"
	"github.com/replkit/replkit/internal/terminal"
)

// SlotBusyError reports a body slot acquisition while another helper
// still holds it.
type SlotBusyError struct {
	Owner     string
	Requested string
}

func (e *SlotBusyError) Error() string {
	return fmt.Sprintf("live body slot held by %q, cannot acquire for %q", e.Owner, e.Requested)
}

// Writer handles all REPL output.
type Writer struct {
	Out     io.Writer
	Err     io.Writer
	Quiet   bool
	Verbose bool

	terminal *terminal.Info
	renderer *render.Renderer

	mu           sync.Mutex
	liveBody     string
	liveFooter   string
	bodyOwner    string
	blockSpacing int
	invalidate   func()
	printHook    func(string)
}

// Default returns a Writer for stdout/stderr with the default theme.
func Default() *Writer {
	term := terminal.Detect()
	return NewWriter(os.Stdout, os.Stderr, term, render.DefaultTheme())
}

// NewWriter creates a Writer with custom sinks, terminal info and theme.
func NewWriter(out, errOut io.Writer, term *terminal.Info, theme *render.Theme) *Writer {
	return &Writer{
		Out:          out,
		Err:          errOut,
		terminal:     term,
		renderer:     render.NewRenderer(out, term.Profile(), theme, term.Width),
		blockSpacing: 1,
	}
}

// Renderer returns the writer's renderer.
func (w *Writer) Renderer() *render.Renderer {
	return w.renderer
}

// Terminal returns the terminal info.
func (w *Writer) Terminal() *terminal.Info {
	return w.terminal
}

// SetBlockSpacing sets the number of blank lines between output blocks.
func (w *Writer) SetBlockSpacing(n int) {
	if n < 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.blockSpacing = n
}

// SetInvalidate installs the hook fired whenever a live slot changes.
func (w *Writer) SetInvalidate(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.invalidate = fn
}

// SetPrintHook routes scrollback printing through a frontend while it is
// running, so permanent lines land above the live region. Pass nil to
// restore direct writes.
func (w *Writer) SetPrintHook(fn func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.printHook = fn
}

// SetWidth updates the render width on terminal resize.
func (w *Writer) SetWidth(width int) {
	w.renderer.SetWidth(width)
}

// render trims trailing newlines; the writer re-adds spacing itself.
func (w *Writer) renderTrimmed(content any) string {
	return strings.TrimRight(w.renderer.Render(content), "\n")
}

// Print writes content to scrollback with the configured block spacing.
func (w *Writer) Print(content any) {
	w.print(content, false)
}

func (w *Writer) print(content any, force bool) {
	if w.Quiet && !force {
		return
	}

	w.mu.Lock()
	formatted := w.renderTrimmed(content) + strings.Repeat("\n", w.blockSpacing)
	hook := w.printHook
	w.mu.Unlock()

	if hook != nil {
		hook(formatted)
		return
	}

	fmt.Fprintln(w.Out, formatted)
}

// Printf formats and prints plain text to scrollback.
func (w *Writer) Printf(format string, args ...interface{}) {
	w.Print(fmt.Sprintf(format, args...))
}

// Error writes directly to stderr, bypassing the live region. Reserved
// for failures when no frontend is running.
func (w *Writer) Error(format string, args ...interface{}) {
	fmt.Fprintf(w.Err, format, args...)
}

// Debug prints muted diagnostic text in verbose mode only.
func (w *Writer) Debug(format string, args ...interface{}) {
	if !w.Verbose {
		return
	}

	msg := fmt.Sprintf(format, args...)
	w.Print(w.renderer.Muted().Render("[debug] " + msg))
}

// Success prints a success badge to scrollback.
func (w *Writer) Success(format string, args ...interface{}) {
	w.Print(render.Badge{Kind: render.Success, Text: fmt.Sprintf(format, args...)})
}

// Failure prints an error badge to scrollback. Not silenced by quiet mode.
func (w *Writer) Failure(format string, args ...interface{}) {
	w.print(render.Badge{Kind: render.Error, Text: fmt.Sprintf(format, args...)}, true)
}

// Warning prints a warning badge to scrollback.
func (w *Writer) Warning(format string, args ...interface{}) {
	w.Print(render.Badge{Kind: render.Warning, Text: fmt.Sprintf(format, args...)})
}

// Info prints an info badge to scrollback.
func (w *Writer) Info(format string, args ...interface{}) {
	w.Print(render.Badge{Kind: render.Info, Text: fmt.Sprintf(format, args...)})
}

// Muted prints dim text to scrollback.
func (w *Writer) Muted(format string, args ...interface{}) {
	w.Print(w.renderer.Muted().Render(fmt.Sprintf(format, args...)))
}

// Echo prints user input with a "> " prefix.
func (w *Writer) Echo(text string) {
	w.Print(render.Echo{Text: text})
}

// AcquireBody claims the live body slot for the named helper. Exactly
// one helper may hold the slot at a time.
func (w *Writer) AcquireBody(owner string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.bodyOwner != "" {
		return &SlotBusyError{Owner: w.bodyOwner, Requested: owner}
	}

	w.bodyOwner = owner

	return nil
}

// ReleaseBody releases the body slot and clears its content. A stale
// owner is ignored so cleanup is safe to run unconditionally.
func (w *Writer) ReleaseBody(owner string) {
	w.mu.Lock()

	if w.bodyOwner != owner {
		w.mu.Unlock()
		return
	}

	w.bodyOwner = ""
	w.liveBody = ""
	fn := w.invalidate
	w.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// SetLive replaces the live body slot.
func (w *Writer) SetLive(content any) {
	w.mu.Lock()
	w.liveBody = w.renderTrimmed(content)
	fn := w.invalidate
	w.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// ClearLive empties the live body slot.
func (w *Writer) ClearLive() {
	w.SetLive("")
}

// SetLiveFooter replaces the persistent footer (e.g. key hints).
func (w *Writer) SetLiveFooter(content any) {
	w.mu.Lock()
	w.liveFooter = w.renderTrimmed(content)
	fn := w.invalidate
	w.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// ClearLiveFooter empties the footer slot.
func (w *Writer) ClearLiveFooter() {
	w.SetLiveFooter("")
}

// ClearAllLive empties both live slots with a single invalidation.
func (w *Writer) ClearAllLive() {
	w.mu.Lock()
	w.liveBody = ""
	w.liveFooter = ""
	fn := w.invalidate
	w.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// LiveContent returns body and footer joined by the block spacing rule,
// or "" when both slots are empty.
func (w *Writer) LiveContent() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var parts []string
	if w.liveBody != "" {
		parts = append(parts, w.liveBody)
	}

	if w.liveFooter != "" {
		parts = append(parts, w.liveFooter)
	}

	if len(parts) == 0 {
		return ""
	}

	sep := strings.Repeat("\n", w.blockSpacing+1)

	return strings.Join(parts, sep) + strings.Repeat("\n", w.blockSpacing)
}

// LiveHeight returns the line count of the live region, 0 when empty.
func (w *Writer) LiveHeight() int {
	content := w.LiveContent()
	if content == "" {
		return 0
	}

	return strings.Count(content, "\n") + 1
}

// HasLiveContent reports whether either live slot is non-empty.
func (w *Writer) HasLiveContent() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.liveBody != "" || w.liveFooter != ""
}
