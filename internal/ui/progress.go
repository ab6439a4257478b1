package ui

import (
	"sync"

	"github.com/replkit/replkit/internal/render"
)

// Progress is the handle passed to a Progress body.
type Progress struct {
	u *UI

	mu          sync.Mutex
	description string
	total       float64
	completed   float64
	frame       int
}

// Advance increments progress by amount and redraws immediately.
func (p *Progress) Advance(amount float64) {
	p.mu.Lock()
	p.completed += amount
	p.mu.Unlock()

	p.redraw()
}

// Set moves progress to an absolute value and redraws immediately.
func (p *Progress) Set(completed float64) {
	p.mu.Lock()
	p.completed = completed
	p.mu.Unlock()

	p.redraw()
}

// Completed returns the current progress value.
func (p *Progress) Completed() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.completed
}

func (p *Progress) tick(frame int) {
	p.mu.Lock()
	p.frame = frame
	p.mu.Unlock()

	p.redraw()
}

func (p *Progress) redraw() {
	p.mu.Lock()
	line := render.ProgressLine{
		Frame:       p.frame,
		Description: p.description,
		Completed:   p.completed,
		Total:       p.total,
	}
	p.mu.Unlock()

	p.u.out.SetLive(line)
}

// Progress shows a live progress bar while fn runs, then prints a
// permanent "description complete" or "description failed" line. Errors
// from fn propagate.
func (u *UI) Progress(description string, total float64, fn func(*Progress) error) error {
	if err := u.out.AcquireBody("progress"); err != nil {
		return err
	}

	pr := &Progress{u: u, description: description, total: total}
	pr.redraw()

	stop := u.startTicker(pr.tick)

	err, panicked := runBody(func() error {
		return fn(pr)
	})

	stop()
	u.out.ReleaseBody("progress")

	if err != nil || panicked != nil {
		u.out.Print(render.Badge{Kind: render.Error, Text: description + " failed"})
	} else {
		u.out.Print(render.Badge{Kind: render.Success, Text: description + " complete"})
	}

	if panicked != nil {
		panic(panicked)
	}

	return err
}
