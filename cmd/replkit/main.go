// Package main is the entry point for the replkit CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/replkit/replkit/internal/buildinfo"
	"github.com/replkit/replkit/internal/config"
	clierrors "github.com/replkit/replkit/internal/errors"
	"github.com/replkit/replkit/internal/observability"
	"github.com/replkit/replkit/internal/output"
	"github.com/replkit/replkit/internal/render"
	"github.com/replkit/replkit/internal/terminal"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() (exitCode int) {
	// Restore cursor visibility on panic to prevent a hidden cursor if
	// the process crashes while the live region owns the screen.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprint(os.Stderr, "\033[?25h")
			panic(r)
		}
	}()

	buildinfo.Version = version
	buildinfo.Commit = commit

	out := output.Default()

	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		return handleError(out, err)
	}

	return 0
}

// handleError formats and displays a CLI error, returning the exit code.
func handleError(out *output.Writer, err error) int {
	var cliErr *clierrors.CLIError
	if clierrors.As(err, &cliErr) {
		out.Failure("%s", cliErr.Message)

		if cliErr.Hint != "" {
			out.Info("%s", cliErr.Hint)
		}

		return cliErr.Code
	}

	errStr := err.Error()

	// Cobra's unknown command errors carry their own suggestions.
	if strings.HasPrefix(errStr, "unknown command") {
		out.Failure("%s", errStr)

		if !strings.Contains(errStr, "--help") {
			out.Info("Run 'replkit --help' for usage")
		}

		return clierrors.ExitUsage
	}

	if strings.HasPrefix(errStr, "unknown flag") ||
		strings.HasPrefix(errStr, "unknown shorthand flag") ||
		strings.Contains(errStr, "required flag") {
		out.Failure("%s", errStr)
		out.Info("Run 'replkit --help' for usage")

		return clierrors.ExitUsage
	}

	out.Failure("%s", errStr)

	return clierrors.ExitGeneral
}

func newRootCmd() *cobra.Command {
	var (
		quiet     bool
		noColor   bool
		themeFlag string
		logLevel  string
		logFormat string
		logFile   string
		logStderr string
	)

	rootCmd := &cobra.Command{
		Use:   "replkit",
		Short: "replkit - Interactive terminal session runtime",
		Long: `replkit runs an interactive terminal session with a persistent input
line, a live status region, and cooperative cancellation of long
handlers.

Inside a session:
  /help                 List available commands
  esc                   Interrupt the running handler
  ctrl+d                Exit`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if pickBoolFlagOrEnv(noColor, "NO_COLOR") {
				color.NoColor = true
			}

			sessionID := uuid.NewString()

			logCfg := observability.Config{
				Level:          pickFlagOrEnv(logLevel, "REPLKIT_LOG_LEVEL", "info"),
				Format:         pickFlagOrEnv(logFormat, "REPLKIT_LOG_FORMAT", "json"),
				LogFile:        pickFlagOrEnv(logFile, "REPLKIT_LOG_FILE", ""),
				StderrMode:     pickFlagOrEnv(logStderr, "REPLKIT_LOG_STDERR", "auto"),
				InteractiveTTY: terminal.Detect().IsTTY,
				SessionID:      sessionID,
				CommandPath:    cmd.CommandPath(),
				Version:        version,
				Commit:         commit,
			}

			logger, cleanup, err := observability.NewLogger(&logCfg)
			if err != nil {
				return &clierrors.CLIError{
					Message: fmt.Sprintf("Invalid logging configuration: %v", err),
					Hint:    "Use --log-level (error|warn|info|debug), --log-format (json|text), --log-stderr (auto|on|off), and/or --log-file",
					Code:    clierrors.ExitUsage,
				}
			}

			slog.SetDefault(logger)

			ctx := observability.WithLogger(cmd.Context(), logger)
			cmd.SetContext(ctx)

			if cleanup != nil {
				cmd.PostRunE = wrapPostRunCleanup(cmd.PostRunE, "logger resources", cleanup)
			}

			// Tracing is opt-in via OTEL_ENABLED.
			telemetryCfg := &observability.TelemetryConfig{
				Enabled:   observability.IsTelemetryEnabled(),
				Version:   version,
				Commit:    commit,
				SessionID: sessionID,
			}

			telemetryShutdown, telemetryErr := observability.SetupTelemetry(ctx, telemetryCfg)
			if telemetryErr != nil {
				logger.Warn("telemetry initialization failed", slog.String("error", telemetryErr.Error()))
			}

			if telemetryShutdown != nil {
				cmd.PostRunE = wrapPostRunCleanup(cmd.PostRunE, "telemetry resources", func() error {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()

					return telemetryShutdown(shutdownCtx)
				})
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			themeFile := strings.TrimSpace(themeFlag)
			if themeFile == "" {
				themeFile = cfg.ThemeFile()
			}

			theme, err := render.LoadTheme(themeFile)
			if err != nil {
				return err
			}

			term := terminal.Detect()
			if pickBoolFlagOrEnv(noColor, "NO_COLOR") {
				term.NoColor = true
			}

			out := output.NewWriter(os.Stdout, os.Stderr, term, theme)
			out.Quiet = pickBoolFlagOrEnv(quiet, "REPLKIT_QUIET")
			out.SetBlockSpacing(cfg.BlockSpacing())

			return runSession(cmd.Context(), out, cfg)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Minimal output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&themeFlag, "theme", "", "Path to a TOML theme file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: error, warn, info, debug")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: json, text")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Optional structured log file path")
	rootCmd.PersistentFlags().StringVar(&logStderr, "log-stderr", "", "Structured logging to stderr: auto, on, off")

	rootCmd.SuggestionsMinimumDistance = 2

	// Accept underscored spellings of the long flags.
	rootCmd.SetGlobalNormalizationFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	// Wrap Cobra's raw flag errors in CLIError so they get styled output.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &clierrors.CLIError{
			Message: err.Error(),
			Hint:    fmt.Sprintf("Run '%s --help' for available flags", cmd.CommandPath()),
			Code:    clierrors.ExitUsage,
		}
	})

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func wrapPostRunCleanup(postRun func(*cobra.Command, []string) error, name string, cleanup func() error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if postRun != nil {
			if err := postRun(cmd, args); err != nil {
				_ = cleanup()
				return err
			}
		}

		if err := cleanup(); err != nil {
			return fmt.Errorf("cleanup %s: %w", name, err)
		}

		return nil
	}
}

func pickBoolFlagOrEnv(flagValue bool, envKey string) bool {
	if flagValue {
		return true
	}

	v := strings.ToLower(strings.TrimSpace(os.Getenv(envKey)))

	return v == "1" || v == "true" || v == "yes"
}

func pickFlagOrEnv(flagValue, envKey, fallback string) string {
	trimmed := strings.TrimSpace(flagValue)
	if trimmed != "" {
		return trimmed
	}

	if envValue := strings.TrimSpace(os.Getenv(envKey)); envValue != "" {
		return envValue
	}

	return fallback
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Show version information",
		Example: `  replkit version`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.Default()
			out.Printf("replkit %s\n", version)
			out.Printf("  commit: %s\n", commit)
			out.Printf("  built:  %s\n", date)

			return nil
		},
	}
}
