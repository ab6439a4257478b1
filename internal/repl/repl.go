// Package repl runs the interactive read-eval-print loop.
//
// The frontend is a bubbletea program: an input line under the live
// region, with key bindings routed through the UI's mode state machine.
// Escape cancels the running handler, y/n answer a pending confirmation
// and fall through to the input buffer otherwise, and input submitted
// while a cancellation is still draining is queued, not dropped.
package repl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/replkit/replkit/internal/cancel"
	clierrors "github.com/replkit/replkit/internal/errors"
	"github.com/replkit/replkit/internal/observability"
	"github.com/replkit/replkit/internal/ui"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Options configure a REPL.
type Options struct {
	Prompt      string
	HistorySize int
}

// REPL owns the command registry, the handlers and the frontend.
type REPL struct {
	ui       *ui.UI
	registry *registry

	prompt      string
	historySize int

	startHandler func(ctx context.Context) error
	inputHandler Handler
	errorHandler func(err error)

	program *tea.Program
}

// New creates a REPL driving the given UI.
func New(u *ui.UI, opts Options) *REPL {
	prompt := opts.Prompt
	if prompt == "" {
		prompt = "> "
	}

	historySize := opts.HistorySize
	if historySize <= 0 {
		historySize = 1000
	}

	return &REPL{
		ui:          u,
		registry:    newRegistry(),
		prompt:      prompt,
		historySize: historySize,
	}
}

// UI returns the REPL's UI.
func (r *REPL) UI() *ui.UI {
	return r.ui
}

// Register adds a slash command. The leading "/" is optional in name.
func (r *REPL) Register(name, description string, handler Handler) {
	r.registry.register(name, description, handler)
}

// Commands returns all registered commands sorted by name.
func (r *REPL) Commands() []Command {
	return r.registry.list()
}

// OnStart sets a handler invoked once before the first prompt.
func (r *REPL) OnStart(fn func(ctx context.Context) error) {
	r.startHandler = fn
}

// OnInput sets the handler for non-command input.
func (r *REPL) OnInput(fn Handler) {
	r.inputHandler = fn
}

// OnError overrides the default handler-error display.
func (r *REPL) OnError(fn func(err error)) {
	r.errorHandler = fn
}

// Quit stops the frontend. Safe to call from a handler.
func (r *REPL) Quit() {
	if r.program != nil {
		r.program.Quit()
	}
}

// dispatch routes one line of input to a command or the input handler.
// Unknown commands print an error badge with a /help hint and return
// nil: mistyping a command is not a handler failure.
func (r *REPL) dispatch(ctx context.Context, text string) error {
	tracer := observability.Tracer("replkit.repl")

	ctx, span := tracer.Start(ctx, "repl.dispatch",
		trace.WithAttributes(attribute.Bool("repl.is_command", strings.HasPrefix(text, "/"))))
	defer span.End()

	logger := observability.FromContext(ctx)

	if strings.HasPrefix(text, "/") {
		name, args, _ := strings.Cut(text, " ")
		args = strings.TrimSpace(args)

		cmd, ok := r.registry.lookup(name)
		if !ok {
			logger.Debug("unknown command", "command", name)
			r.ui.Error(fmt.Sprintf("Unknown command: %s", name))
			r.ui.Out().Muted("Type /help for available commands.")

			return nil
		}

		span.SetAttributes(attribute.String("repl.command", cmd.Name))
		logger.Debug("dispatching command", "command", cmd.Name)

		err := cmd.Handler(ctx, args)
		if err != nil && !errors.Is(err, cancel.ErrCancelled) {
			span.SetStatus(codes.Error, err.Error())
		}

		return err
	}

	if r.inputHandler != nil {
		logger.Debug("dispatching input", "length", len(text))
		return r.inputHandler(ctx, text)
	}

	r.ui.Out().Muted("No handler registered.")

	return nil
}

// handleInput runs dispatch and settles the error: cancellation was
// already absorbed and reported at the Cancelable boundary, everything
// else goes to the error handler.
func (r *REPL) handleInput(ctx context.Context, text string) {
	err := r.dispatch(ctx, text)
	if err == nil || errors.Is(err, cancel.ErrCancelled) {
		return
	}

	observability.FromContext(ctx).Error("handler failed", "error", err)

	if r.errorHandler != nil {
		r.errorHandler(err)
		return
	}

	r.ui.Error(fmt.Sprintf("Error: %v", err))
}

// Run starts the frontend and blocks until exit.
func (r *REPL) Run(ctx context.Context) error {
	out := r.ui.Out()

	if !out.Terminal().InteractiveEnabled() {
		return clierrors.NotATerminal()
	}

	// The startup handler prints before the frontend owns the screen,
	// so its output lands in plain scrollback.
	if r.startHandler != nil {
		if err := r.startHandler(ctx); err != nil {
			return err
		}
	}

	m := newModel(r, ctx)

	program := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithOutput(out.Out),
	)
	r.program = program

	out.SetInvalidate(func() { program.Send(refreshMsg{}) })
	out.SetPrintHook(func(s string) { program.Println(s) })

	defer func() {
		out.SetInvalidate(nil)
		out.SetPrintHook(nil)
	}()

	_, err := program.Run()

	return err
}
