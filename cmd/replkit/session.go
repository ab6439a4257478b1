package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/replkit/replkit/internal/cancel"
	"github.com/replkit/replkit/internal/config"
	"github.com/replkit/replkit/internal/output"
	"github.com/replkit/replkit/internal/render"
	"github.com/replkit/replkit/internal/repl"
	"github.com/replkit/replkit/internal/ui"
)

// runSession assembles the UI and the REPL and blocks until exit.
func runSession(ctx context.Context, out *output.Writer, cfg *config.Config) error {
	u := ui.New(out)
	u.SetTickInterval(cfg.TickInterval())

	r := repl.New(u, repl.Options{
		Prompt:      cfg.Prompt(),
		HistorySize: cfg.HistorySize(),
	})

	registerCommands(r)

	r.OnStart(func(ctx context.Context) error {
		u.Print(render.Banner{
			Title:    "replkit",
			Greeting: "Welcome to replkit",
			LeftInfo: []string{
				fmt.Sprintf("version %s", version),
				"type /help for commands",
			},
			Sections: []render.BannerSection{
				{Title: "Keys", Items: []string{
					"esc     interrupt",
					"ctrl+d  exit",
				}},
			},
		})

		return nil
	})

	r.OnInput(func(ctx context.Context, text string) error {
		u.Echo(text)

		return u.Cancelable(func(scope *cancel.Scope) error {
			return u.Status("Thinking", func(st *ui.Status) error {
				if err := scope.Sleep(300 * time.Millisecond); err != nil {
					return err
				}

				st.Update(fmt.Sprintf("Echoing %d characters", len(text)))

				return nil
			})
		})
	})

	return r.Run(ctx)
}

func registerCommands(r *repl.REPL) {
	u := r.UI()

	r.Register("/help", "List available commands", func(ctx context.Context, args string) error {
		var b strings.Builder
		b.WriteString("Available commands:\n\n")

		for _, cmd := range r.Commands() {
			fmt.Fprintf(&b, "  %-12s %s\n", cmd.Name, cmd.Description)
		}

		u.Markdown("```\n" + b.String() + "```")

		return nil
	})

	r.Register("/spinner", "Run a status spinner for a few seconds", func(ctx context.Context, args string) error {
		return u.Cancelable(func(scope *cancel.Scope) error {
			return u.Status("Warming up", func(st *ui.Status) error {
				steps := []string{"Loading configuration", "Connecting", "Syncing state"}
				for _, step := range steps {
					st.Update(step)

					if err := scope.Sleep(900 * time.Millisecond); err != nil {
						return err
					}
				}

				st.Update("Ready")

				return nil
			})
		})
	})

	r.Register("/progress", "Render a progress bar", func(ctx context.Context, args string) error {
		return u.Cancelable(func(scope *cancel.Scope) error {
			return u.Progress("Downloading", 100, func(p *ui.Progress) error {
				for p.Completed() < 100 {
					if err := scope.Sleep(80 * time.Millisecond); err != nil {
						return err
					}

					p.Advance(4)
				}

				return nil
			})
		})
	})

	r.Register("/build", "Run a multi-step task group", func(ctx context.Context, args string) error {
		return u.Cancelable(func(scope *cancel.Scope) error {
			return u.Group("Building project", func(g *ui.Group) error {
				fetch := g.Task("Fetching dependencies")
				if err := fetch.Run(func() error { return scope.Sleep(800 * time.Millisecond) }); err != nil {
					return err
				}

				if err := g.Success("Resolved 42 packages"); err != nil {
					return err
				}

				compile := g.Task("Compiling")
				if err := compile.Run(func() error {
					for i := 1; i <= 4; i++ {
						compile.SetText(fmt.Sprintf("Compiling (%d/4)", i))

						if err := scope.Sleep(500 * time.Millisecond); err != nil {
							return err
						}
					}

					compile.SetText("Compiled 4 targets")

					return nil
				}); err != nil {
					return err
				}

				return g.Info("Artifacts written to ./dist")
			})
		})
	})

	r.Register("/stream", "Stream text output incrementally", func(ctx context.Context, args string) error {
		return u.Cancelable(func(scope *cancel.Scope) error {
			return u.Stream(func(s *ui.Stream) error {
				words := strings.Fields("Streaming output arrives one chunk at a time and survives interruption intact.")

				for word, err := range cancel.Iter(scope, sliceSeq(words)) {
					if err != nil {
						return err
					}

					s.Write(word + " ")

					if err := scope.Sleep(120 * time.Millisecond); err != nil {
						return err
					}
				}

				return nil
			})
		})
	})

	r.Register("/confirm", "Ask a yes/no question", func(ctx context.Context, args string) error {
		message := args
		if message == "" {
			message = "Proceed with the demo?"
		}

		ok, err := u.Confirm(message)
		if err != nil {
			return err
		}

		if ok {
			u.Success("Confirmed")
		} else {
			u.Warning("Declined")
		}

		return nil
	})

	r.Register("/code", "Print a highlighted code block", func(ctx context.Context, args string) error {
		u.Code(`func main() {
	fmt.Println("hello from replkit")
}`, "go", "main.go")

		return nil
	})

	r.Register("/markdown", "Render a markdown snippet", func(ctx context.Context, args string) error {
		u.Markdown(`# replkit

A terminal session runtime with:

- a persistent input line
- a **live region** for spinners, progress and task trees
- cooperative cancellation with *esc*`)

		return nil
	})

	r.Register("/quit", "Exit the session", func(ctx context.Context, args string) error {
		r.Quit()

		return nil
	})
}

func sliceSeq[T any](items []T) func(yield func(T) bool) {
	return func(yield func(T) bool) {
		for _, item := range items {
			if !yield(item) {
				return
			}
		}
	}
}
