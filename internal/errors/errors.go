// Package errors provides structured CLI error types for replkit.
//
// CLIError wraps errors with user-facing messages, hints, and exit codes
// to provide consistent, actionable error output across all commands.
package errors

import (
	"errors"
	"fmt"
)

// Exit codes for CLI errors.
const (
	ExitSuccess  = 0  // Successful execution
	ExitGeneral  = 1  // General error
	ExitConfig   = 4  // Configuration error
	ExitTerminal = 5  // Terminal capability error
	ExitUsage    = 64 // Command line usage error (BSD convention)
)

// CLIError represents a user-facing CLI error with actionable guidance.
type CLIError struct {
	// Message is the primary error message shown to the user.
	Message string

	// Hint provides actionable guidance on how to fix the error.
	Hint string

	// Cause is the underlying error, if any.
	Cause error

	// Code is the exit code for the CLI.
	Code int
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}

	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// New creates a new CLIError with the given message and exit code.
func New(code int, message string) *CLIError {
	return &CLIError{
		Message: message,
		Code:    code,
	}
}

// Wrap wraps an existing error with a CLIError.
func Wrap(code int, message string, cause error) *CLIError {
	return &CLIError{
		Message: message,
		Cause:   cause,
		Code:    code,
	}
}

// WithHint adds a hint to the error.
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// As is a convenience function for errors.As with CLIError.
func As(err error, target **CLIError) bool {
	return errors.As(err, target)
}

// --- Common error constructors ---

// NotATerminal returns an error for running the REPL without a TTY.
func NotATerminal() *CLIError {
	return &CLIError{
		Message: "Standard input is not a terminal",
		Hint:    "Run replkit from an interactive terminal",
		Code:    ExitTerminal,
	}
}

// ThemeInvalid returns an error for an unreadable or malformed theme file.
func ThemeInvalid(path string, cause error) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Invalid theme file: %s", path),
		Hint:    "Fix the TOML syntax or remove the file to use the built-in theme",
		Cause:   cause,
		Code:    ExitConfig,
	}
}

// ConfigInvalid returns an error for a malformed configuration value.
func ConfigInvalid(key string, cause error) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Invalid configuration value for %s", key),
		Hint:    "Run 'replkit config list' to inspect the current configuration",
		Cause:   cause,
		Code:    ExitConfig,
	}
}
