package ui

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/replkit/replkit/internal/cancel"
	"github.com/replkit/replkit/internal/output"
	"github.com/replkit/replkit/internal/render"
	"github.com/replkit/replkit/internal/terminal"
)

func newTestUI() (*UI, *bytes.Buffer) {
	var out bytes.Buffer
	term := &terminal.Info{IsTTY: false, NoColor: true, Width: 80, Height: 24}
	w := output.NewWriter(&out, &out, term, render.DefaultTheme())

	u := New(w)
	u.SetTickInterval(5 * time.Millisecond)

	return u, &out
}

func TestUI_ModeIsIdleInitially(t *testing.T) {
	u, _ := newTestUI()

	if got := u.Mode(); got != "idle" {
		t.Errorf("Mode() = %q, want %q", got, "idle")
	}
}

func TestUI_ModeDuringCancelable(t *testing.T) {
	u, _ := newTestUI()

	err := u.Cancelable(func(*cancel.Scope) error {
		if got := u.Mode(); got != "cancelable" {
			t.Errorf("Mode() inside Cancelable = %q, want %q", got, "cancelable")
		}

		return nil
	})
	if err != nil {
		t.Fatalf("Cancelable() = %v", err)
	}

	if got := u.Mode(); got != "idle" {
		t.Errorf("Mode() after Cancelable = %q, want %q", got, "idle")
	}
}

func TestUI_NestedCancelableReturnsStateError(t *testing.T) {
	u, _ := newTestUI()

	var nested error
	err := u.Cancelable(func(*cancel.Scope) error {
		nested = u.Cancelable(func(*cancel.Scope) error { return nil })
		return nil
	})
	if err != nil {
		t.Fatalf("outer Cancelable() = %v", err)
	}

	var stateErr *StateError
	if !errors.As(nested, &stateErr) {
		t.Fatalf("nested error = %v (%T), want *StateError", nested, nested)
	}

	if stateErr.Current != "cancelable" {
		t.Errorf("StateError.Current = %q, want %q", stateErr.Current, "cancelable")
	}

	if !strings.Contains(stateErr.Error(), "cancelable") {
		t.Errorf("StateError message does not name current state: %q", stateErr.Error())
	}
}

func TestUI_ConfirmDuringCancelableReturnsStateError(t *testing.T) {
	u, _ := newTestUI()

	var confirmErr error
	err := u.Cancelable(func(*cancel.Scope) error {
		_, confirmErr = u.Confirm("sure?")
		return nil
	})
	if err != nil {
		t.Fatalf("Cancelable() = %v", err)
	}

	var stateErr *StateError
	if !errors.As(confirmErr, &stateErr) {
		t.Fatalf("confirm error = %v (%T), want *StateError", confirmErr, confirmErr)
	}
}

func TestUI_RequestCancelOutsideCancelable(t *testing.T) {
	u, _ := newTestUI()

	handled, err := u.RequestCancel(false)
	if err != nil {
		t.Fatalf("RequestCancel(false) error = %v", err)
	}

	if handled {
		t.Error("RequestCancel reported handled with nothing active")
	}

	if _, err := u.RequestCancel(true); err == nil {
		t.Error("RequestCancel(true) error = nil, want error when idle")
	}
}

func TestUI_RequestCancelCancelsActiveScope(t *testing.T) {
	u, _ := newTestUI()

	err := u.Cancelable(func(scope *cancel.Scope) error {
		handled, reqErr := u.RequestCancel(false)
		if reqErr != nil {
			t.Errorf("RequestCancel error = %v", reqErr)
		}

		if !handled {
			t.Error("RequestCancel reported nothing handled")
		}

		if !scope.Cancelled() {
			t.Error("scope not cancelled after RequestCancel")
		}

		if got := u.Out().LiveContent(); !strings.Contains(got, "(cancelling...)") {
			t.Errorf("footer = %q, want cancelling hint", got)
		}

		return scope.Err()
	})
	if err != nil {
		t.Fatalf("Cancelable() = %v, want nil (cancellation absorbed)", err)
	}
}

func TestUI_RespondConfirmOutsideConfirm(t *testing.T) {
	u, _ := newTestUI()

	handled, err := u.RespondConfirm(true, false)
	if err != nil {
		t.Fatalf("RespondConfirm(false) error = %v", err)
	}

	if handled {
		t.Error("RespondConfirm reported handled with no prompt pending")
	}

	if _, err := u.RespondConfirm(true, true); err == nil {
		t.Error("RespondConfirm(strict) error = nil, want error when idle")
	}
}

func TestUI_FacadeBadges(t *testing.T) {
	u, out := newTestUI()

	u.Success("built")
	u.Error("broke")
	u.Warning("careful")
	u.Info("fyi")
	u.Echo("/help")

	got := out.String()
	for _, want := range []string{"\u2713 built", "\u2717 broke", "\u26a0 careful", "\u2139 fyi", "> /help"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestUI_CollapsedFacade(t *testing.T) {
	u, out := newTestUI()

	u.Collapsed("Details", "a\nb", 0)

	if !strings.Contains(out.String(), "\u25b6 Details (2 lines)") {
		t.Errorf("output = %q", out.String())
	}
}

func TestUI_SlowCancelEscalatesFooter(t *testing.T) {
	u, _ := newTestUI()
	u.SetSlowCancelThreshold(time.Millisecond)

	err := u.Cancelable(func(scope *cancel.Scope) error {
		return u.Status("Working", func(*Status) error {
			if handled, err := u.RequestCancel(true); !handled || err != nil {
				t.Fatalf("RequestCancel() = %v, %v", handled, err)
			}

			deadline := time.After(time.Second)
			for !strings.Contains(u.Out().LiveContent(), "(operation slow to cancel...)") {
				select {
				case <-deadline:
					t.Fatal("footer never escalated past the slow-cancel threshold")
				case <-time.After(5 * time.Millisecond):
				}
			}

			return scope.Err()
		})
	})
	if err != nil {
		t.Fatalf("Cancelable() = %v, want nil", err)
	}
}

func TestUI_RequestCancelAfterExitLeavesNoFooter(t *testing.T) {
	u, _ := newTestUI()

	if err := u.Cancelable(func(*cancel.Scope) error { return nil }); err != nil {
		t.Fatalf("Cancelable() = %v", err)
	}

	if handled, err := u.RequestCancel(false); handled || err != nil {
		t.Fatalf("RequestCancel() on idle UI = %v, %v", handled, err)
	}

	if u.Out().HasLiveContent() {
		t.Errorf("stale live content after idle cancel request: %q", u.Out().LiveContent())
	}
}

func TestUI_RequestCancelRacingExitLeavesNoFooter(t *testing.T) {
	u, _ := newTestUI()

	for i := 0; i < 200; i++ {
		started := make(chan struct{})

		var wg sync.WaitGroup
		wg.Add(1)

		go func() {
			defer wg.Done()
			<-started
			u.RequestCancel(false)
		}()

		err := u.Cancelable(func(*cancel.Scope) error {
			close(started)
			return nil
		})
		if err != nil {
			t.Fatalf("Cancelable() = %v", err)
		}

		wg.Wait()

		if u.Out().HasLiveContent() {
			t.Fatalf("iteration %d: stale live content %q", i, u.Out().LiveContent())
		}
	}
}
