package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/replkit/replkit/internal/cancel"
)

func TestGroup_FinalTreeConnectors(t *testing.T) {
	u, out := newTestUI()

	err := u.Group("Installing", func(g *Group) error {
		if err := g.Success("Downloaded packages"); err != nil {
			return err
		}

		return g.Info("Verified checksums")
	})
	if err != nil {
		t.Fatalf("Group() = %v", err)
	}

	got := out.String()

	if !strings.Contains(got, "✓ Installing") {
		t.Errorf("missing success title:\n%s", got)
	}

	if !strings.Contains(got, "├──➤ ✓ Downloaded packages") {
		t.Errorf("missing middle connector line:\n%s", got)
	}

	if !strings.Contains(got, "╰──➤ ℹ Verified checksums") {
		t.Errorf("missing closing connector line:\n%s", got)
	}
}

func TestGroup_TaskFirstResolutionWins(t *testing.T) {
	u, out := newTestUI()

	err := u.Group("Build", func(g *Group) error {
		task := g.Task("compile")
		task.Success("compiled")
		task.Error("should be ignored")

		return nil
	})
	if err != nil {
		t.Fatalf("Group() = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "✓ compiled") {
		t.Errorf("missing first resolution:\n%s", got)
	}

	if strings.Contains(got, "should be ignored") {
		t.Errorf("second resolution applied:\n%s", got)
	}
}

func TestGroup_PendingTasksResolveWithExit(t *testing.T) {
	t.Run("normal exit resolves to success", func(t *testing.T) {
		u, out := newTestUI()

		err := u.Group("Deploy", func(g *Group) error {
			g.Task("push image")
			return nil
		})
		if err != nil {
			t.Fatalf("Group() = %v", err)
		}

		if !strings.Contains(out.String(), "✓ push image") {
			t.Errorf("pending task not resolved to success:\n%s", out.String())
		}
	})

	t.Run("error exit resolves to error", func(t *testing.T) {
		u, out := newTestUI()

		sentinel := errors.New("deploy failed")
		err := u.Group("Deploy", func(g *Group) error {
			g.Task("push image")
			return sentinel
		})

		if !errors.Is(err, sentinel) {
			t.Fatalf("Group() = %v, want sentinel", err)
		}

		got := out.String()
		if !strings.Contains(got, "✗ Deploy") {
			t.Errorf("title not failed:\n%s", got)
		}

		if !strings.Contains(got, "✗ push image") {
			t.Errorf("pending task not resolved to error:\n%s", got)
		}
	})

	t.Run("cancellation resolves to cancelled", func(t *testing.T) {
		u, out := newTestUI()

		err := u.Group("Deploy", func(g *Group) error {
			g.Task("push image")
			return cancel.ErrCancelled
		})

		if !errors.Is(err, cancel.ErrCancelled) {
			t.Fatalf("Group() = %v, want ErrCancelled", err)
		}

		got := out.String()
		if !strings.Contains(got, "○ Deploy") {
			t.Errorf("title not cancelled:\n%s", got)
		}

		if !strings.Contains(got, "○ push image") {
			t.Errorf("pending task not resolved to cancelled:\n%s", got)
		}
	})
}

func TestGroup_SetTextUpdatesLiveItem(t *testing.T) {
	u, _ := newTestUI()

	err := u.Group("Work", func(g *Group) error {
		task := g.Task("step 1 of 3")
		task.SetText("step 2 of 3")

		if got := u.Out().LiveContent(); !strings.Contains(got, "step 2 of 3") {
			t.Errorf("live content = %q, want updated text", got)
		}

		task.Success("")
		return nil
	})
	if err != nil {
		t.Fatalf("Group() = %v", err)
	}
}

func TestGroup_OneShotHelpersCheckpoint(t *testing.T) {
	u, _ := newTestUI()

	err := u.Cancelable(func(scope *cancel.Scope) error {
		return u.Group("Build", func(g *Group) error {
			if err := g.Success("first"); err != nil {
				return err
			}

			scope.Cancel()

			// The resolved item is appended before the checkpoint fires.
			err := g.Success("second")
			if !errors.Is(err, cancel.ErrCancelled) {
				t.Errorf("Success() after cancel = %v, want ErrCancelled", err)
			}

			return err
		})
	})
	if err != nil {
		t.Fatalf("Cancelable() = %v, want nil (cancellation absorbed)", err)
	}
}

func TestGroup_TaskRunMapsResults(t *testing.T) {
	u, out := newTestUI()

	sentinel := errors.New("tests failed")
	err := u.Group("CI", func(g *Group) error {
		if runErr := g.Task("vet").Run(func() error { return nil }); runErr != nil {
			return runErr
		}

		_ = g.Task("test").Run(func() error { return sentinel })
		_ = g.Task("lint").Run(func() error { return cancel.ErrCancelled })

		return nil
	})
	if err != nil {
		t.Fatalf("Group() = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "✓ vet") {
		t.Errorf("missing success task:\n%s", got)
	}

	if !strings.Contains(got, "✗ test") {
		t.Errorf("missing failed task:\n%s", got)
	}

	if !strings.Contains(got, "○ lint") {
		t.Errorf("missing cancelled task:\n%s", got)
	}
}

func TestGroup_LiveTreeShowsTitleAndBullet(t *testing.T) {
	u, _ := newTestUI()

	err := u.Group("Working", func(g *Group) error {
		g.Task("busy")

		got := u.Out().LiveContent()
		if !strings.Contains(got, "● Working") {
			t.Errorf("live content = %q, want pending bullet title", got)
		}

		return nil
	})
	if err != nil {
		t.Fatalf("Group() = %v", err)
	}
}
