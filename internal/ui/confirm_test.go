package ui

import (
	"strings"
	"sync"
	"testing"
	"time"
)

// answerWhenConfirming polls until the UI enters confirming mode, then
// responds. Confirm blocks the calling goroutine, so tests answer from
// another one the way a key handler would.
func answerWhenConfirming(t *testing.T, u *UI, value bool) *sync.WaitGroup {
	t.Helper()

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		deadline := time.Now().Add(time.Second)
		for time.Now().Before(deadline) {
			if u.Mode() == "confirming" {
				if handled, err := u.RespondConfirm(value, true); err != nil || !handled {
					t.Errorf("RespondConfirm = %v, %v", handled, err)
				}

				return
			}

			time.Sleep(time.Millisecond)
		}

		t.Error("UI never entered confirming mode")
	}()

	return &wg
}

func TestConfirm_YesAndNo(t *testing.T) {
	tests := []struct {
		name   string
		answer bool
		want   string
	}{
		{"accepted", true, "\u2713 Delete files? yes"},
		{"declined", false, "\u2717 Delete files? no"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, out := newTestUI()
			wg := answerWhenConfirming(t, u, tt.answer)

			got, err := u.Confirm("Delete files?")
			wg.Wait()

			if err != nil {
				t.Fatalf("Confirm() error = %v", err)
			}

			if got != tt.answer {
				t.Errorf("Confirm() = %v, want %v", got, tt.answer)
			}

			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("missing result line %q:\n%s", tt.want, out.String())
			}
		})
	}
}

func TestConfirm_ShowsPromptWhileWaiting(t *testing.T) {
	u, _ := newTestUI()

	checked := make(chan struct{})
	go func() {
		defer close(checked)

		deadline := time.Now().Add(time.Second)
		for time.Now().Before(deadline) {
			if u.Mode() == "confirming" {
				if got := u.Out().LiveContent(); !strings.Contains(got, "? Delete files? [y/n]") {
					t.Errorf("live content = %q, want prompt", got)
				}

				_, _ = u.RespondConfirm(true, false)

				return
			}

			time.Sleep(time.Millisecond)
		}

		t.Error("UI never entered confirming mode")
	}()

	if _, err := u.Confirm("Delete files?"); err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}

	<-checked

	if u.Mode() != "idle" {
		t.Errorf("Mode() = %q after Confirm, want idle", u.Mode())
	}

	if u.Out().HasLiveContent() {
		t.Error("prompt left in live region")
	}
}

func TestConfirm_FirstAnswerWins(t *testing.T) {
	u, out := newTestUI()
	wg := answerWhenConfirming(t, u, true)

	got, err := u.Confirm("Proceed?")
	wg.Wait()

	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}

	if !got {
		t.Error("Confirm() = false, want true")
	}

	// A late answer hits idle mode and is not handled.
	handled, err := u.RespondConfirm(false, false)
	if err != nil || handled {
		t.Errorf("late RespondConfirm = %v, %v; want false, nil", handled, err)
	}

	if strings.Contains(out.String(), "Proceed? no") {
		t.Errorf("late answer changed the recorded result:\n%s", out.String())
	}
}
