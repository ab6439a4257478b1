package ui

import (
	"sync"

	"github.com/replkit/replkit/internal/render"
)

// confirmPrompt carries one pending y/n question. respond is idempotent;
// the first answer wins and releases the waiter.
type confirmPrompt struct {
	message string
	once    sync.Once
	result  bool
	done    chan struct{}
}

func newConfirmPrompt(message string) *confirmPrompt {
	return &confirmPrompt{message: message, done: make(chan struct{})}
}

func (p *confirmPrompt) respond(value bool) {
	p.once.Do(func() {
		p.result = value
		close(p.done)
	})
}

// Confirm shows message with a y/n prompt in the live body slot and
// blocks until RespondConfirm supplies an answer. The answered prompt is
// recorded permanently as "message yes" or "message no".
func (u *UI) Confirm(message string) (bool, error) {
	prompt := newConfirmPrompt(message)

	if err := u.enterState("confirm", confirmingState{prompt: prompt}); err != nil {
		return false, err
	}

	if err := u.out.AcquireBody("confirm"); err != nil {
		u.exitState()
		return false, err
	}

	u.out.SetLive(render.ConfirmPrompt{Message: message})

	<-prompt.done

	u.exitState()
	u.out.ReleaseBody("confirm")

	u.out.Print(render.ConfirmResult{Message: message, Accepted: prompt.result})

	return prompt.result, nil
}
