package ui

import (
	"errors"
	"sync"

	"github.com/replkit/replkit/internal/cancel"
	"github.com/replkit/replkit/internal/render"
)

// Task is a live item inside a Group. It shows a spinner until resolved;
// the first resolution wins and later ones are ignored.
type Task struct {
	g     *Group
	index int
}

// SetText updates the task's label while it is running.
func (t *Task) SetText(text string) {
	t.g.updateItem(t.index, text)
}

// Success resolves the task as succeeded. An empty text keeps the
// current label.
func (t *Task) Success(text string) { t.g.resolveItem(t.index, render.Success, text) }

// Error resolves the task as failed.
func (t *Task) Error(text string) { t.g.resolveItem(t.index, render.Error, text) }

// Warning resolves the task with a warning.
func (t *Task) Warning(text string) { t.g.resolveItem(t.index, render.Warning, text) }

// Info resolves the task as informational.
func (t *Task) Info(text string) { t.g.resolveItem(t.index, render.Info, text) }

// Cancelled resolves the task as cancelled.
func (t *Task) Cancelled(text string) { t.g.resolveItem(t.index, render.Cancelled, text) }

// Run executes fn and resolves the task from its result: success on nil,
// cancelled on ErrCancelled, error otherwise. Explicit resolutions made
// inside fn win.
func (t *Task) Run(fn func() error) error {
	err, panicked := runBody(fn)

	switch {
	case panicked != nil:
		t.Error("")
		panic(panicked)
	case errors.Is(err, cancel.ErrCancelled):
		t.Cancelled("")
	case err != nil:
		t.Error("")
	default:
		t.Success("")
	}

	return err
}

type groupItem struct {
	text    string
	outcome render.Outcome
}

// Group renders an ordered task tree under a title. Items appear live as
// they are added; the final tree is printed once on exit.
type Group struct {
	u     *UI
	title string

	mu    sync.Mutex
	items []groupItem
	frame int
}

// Task appends a pending item and returns its handle.
func (g *Group) Task(text string) *Task {
	g.mu.Lock()
	index := len(g.items)
	g.items = append(g.items, groupItem{text: text, outcome: render.Pending})
	g.mu.Unlock()

	g.redraw()

	return &Task{g: g, index: index}
}

// Success appends an already-resolved success item. Like the other
// one-shot helpers it doubles as a cancellation checkpoint, so loops of
// group updates stay responsive to RequestCancel.
func (g *Group) Success(text string) error { return g.addResolved(render.Success, text) }

// Error appends an already-resolved error item.
func (g *Group) Error(text string) error { return g.addResolved(render.Error, text) }

// Warning appends an already-resolved warning item.
func (g *Group) Warning(text string) error { return g.addResolved(render.Warning, text) }

// Info appends an already-resolved info item.
func (g *Group) Info(text string) error { return g.addResolved(render.Info, text) }

// Cancelled appends an already-resolved cancelled item.
func (g *Group) Cancelled(text string) error { return g.addResolved(render.Cancelled, text) }

func (g *Group) addResolved(outcome render.Outcome, text string) error {
	g.Task(text).resolveAs(outcome)
	return g.u.checkpoint()
}

func (t *Task) resolveAs(outcome render.Outcome) {
	t.g.resolveItem(t.index, outcome, "")
}

func (g *Group) updateItem(index int, text string) {
	g.mu.Lock()
	g.items[index].text = text
	g.mu.Unlock()

	g.redraw()
}

func (g *Group) resolveItem(index int, outcome render.Outcome, text string) {
	g.mu.Lock()

	if g.items[index].outcome != render.Pending {
		g.mu.Unlock()
		return
	}

	g.items[index].outcome = outcome
	if text != "" {
		g.items[index].text = text
	}
	g.mu.Unlock()

	g.redraw()
}

func (g *Group) tick(frame int) {
	g.mu.Lock()
	g.frame = frame
	pending := g.anyPendingLocked()
	g.mu.Unlock()

	if pending {
		g.redraw()
	}
}

func (g *Group) anyPendingLocked() bool {
	for _, item := range g.items {
		if item.outcome == render.Pending {
			return true
		}
	}

	return false
}

func (g *Group) snapshot(title render.Outcome) render.TaskTree {
	g.mu.Lock()
	defer g.mu.Unlock()

	items := make([]render.TreeItem, len(g.items))
	for i, item := range g.items {
		items[i] = render.TreeItem{Text: item.text, Outcome: item.outcome}
	}

	return render.TaskTree{
		Title:        g.title,
		TitleOutcome: title,
		Items:        items,
		Frame:        g.frame,
	}
}

func (g *Group) redraw() {
	g.u.out.SetLive(g.snapshot(render.Pending))
}

// resolveRemaining forces every still-pending item to the outcome.
func (g *Group) resolveRemaining(outcome render.Outcome) {
	g.mu.Lock()
	for i := range g.items {
		if g.items[i].outcome == render.Pending {
			g.items[i].outcome = outcome
		}
	}
	g.mu.Unlock()
}

// Group runs fn with a live task tree titled title. The spinner animates
// only while an item is pending. On exit the remaining pending items are
// resolved from fn's result (success on nil, cancelled on ErrCancelled,
// error otherwise, error on panic) and the final tree is printed once
// with the closing connector on the last item.
func (u *UI) Group(title string, fn func(*Group) error) error {
	if err := u.out.AcquireBody("group"); err != nil {
		return err
	}

	g := &Group{u: u, title: title}
	g.redraw()

	stop := u.startTicker(g.tick)

	err, panicked := runBody(func() error {
		return fn(g)
	})

	stop()

	var titleOutcome render.Outcome

	switch {
	case panicked != nil:
		titleOutcome = render.Error
		g.resolveRemaining(render.Error)
	case errors.Is(err, cancel.ErrCancelled):
		titleOutcome = render.Cancelled
		g.resolveRemaining(render.Cancelled)
	case err != nil:
		titleOutcome = render.Error
		g.resolveRemaining(render.Error)
	default:
		titleOutcome = render.Success
		g.resolveRemaining(render.Success)
	}

	u.out.ReleaseBody("group")
	u.out.Print(g.snapshot(titleOutcome))

	if panicked != nil {
		panic(panicked)
	}

	return err
}
