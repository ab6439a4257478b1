package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/replkit/replkit/internal/config"
	clierrors "github.com/replkit/replkit/internal/errors"
	"github.com/replkit/replkit/internal/output"
	"github.com/replkit/replkit/internal/paths"
	"github.com/replkit/replkit/internal/render"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "check",
		Short:   "Diagnose terminal and configuration",
		Long:    `Inspect the terminal, configuration, theme file and log directory and report anything that would degrade an interactive session.`,
		Example: `  replkit check`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChecks(output.Default(), config.Load())
		},
	}
}

// runChecks inspects the environment one step at a time. On a non-TTY the
// spinners degrade to plain "step... " lines, so the command stays
// usable from scripts and CI.
func runChecks(out *output.Writer, cfg *config.Config) error {
	failed := 0

	sp := out.Spinner("Checking terminal")
	sp.Start()

	if term := out.Terminal(); term.IsTTY {
		sp.StopWithSuccess(fmt.Sprintf("Terminal: interactive, %dx%d", term.Width, term.Height))
	} else {
		sp.StopWithFailure("Terminal: not interactive (sessions need a TTY)")
		failed++
	}

	sp = out.Spinner("Checking configuration")
	sp.Start()
	sp.StopWithSuccess(fmt.Sprintf("Config: tick %s, history %d, prompt %q",
		cfg.TickInterval(), cfg.HistorySize(), cfg.Prompt()))

	sp = out.Spinner("Checking theme")
	sp.Start()

	if _, err := render.LoadTheme(cfg.ThemeFile()); err != nil {
		sp.StopWithFailure(fmt.Sprintf("Theme: %v", err))
		failed++
	} else {
		sp.StopWithSuccess("Theme: OK")
	}

	sp = out.Spinner("Checking log directory")
	sp.Start()

	if dir, err := paths.LogsDir(); err != nil {
		sp.StopWithFailure(fmt.Sprintf("Logs: %v", err))
		failed++
	} else if err := os.MkdirAll(dir, 0o700); err != nil {
		sp.StopWithFailure(fmt.Sprintf("Logs: %s is not writable: %v", dir, err))
		failed++
	} else {
		sp.StopWithSuccess(fmt.Sprintf("Logs: %s", dir))
	}

	if failed > 0 {
		return &clierrors.CLIError{
			Message: fmt.Sprintf("%d check(s) failed", failed),
			Hint:    "Fix the findings above and run 'replkit check' again",
			Code:    clierrors.ExitGeneral,
		}
	}

	out.Success("All checks passed")

	return nil
}
