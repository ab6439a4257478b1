package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/replkit/replkit/internal/config"
	clierrors "github.com/replkit/replkit/internal/errors"
	"github.com/replkit/replkit/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `View and modify replkit configuration settings.`,
	}

	cmd.AddCommand(newConfigListCmd())
	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())

	return cmd
}

// settingValidators maps the settable keys to their value parsers.
var settingValidators = map[string]func(value string) error{
	"ui.tick_interval":  validatePositiveInt,
	"ui.block_spacing":  validateNonNegativeInt,
	"ui.theme_file":     func(string) error { return nil },
	"repl.history_size": validatePositiveInt,
	"repl.prompt":       func(string) error { return nil },
}

func validatePositiveInt(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("not an integer: %q", value)
	}

	if n <= 0 {
		return fmt.Errorf("must be positive, got %d", n)
	}

	return nil
}

func validateNonNegativeInt(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("not an integer: %q", value)
	}

	if n < 0 {
		return fmt.Errorf("must not be negative, got %d", n)
	}

	return nil
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List all configuration settings",
		Long:    `Display all configuration settings and their current values.`,
		Example: `  replkit config list`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.Default()
			settings := config.Load().All()

			keys := make([]string, 0, len(settings))
			for key := range settings {
				keys = append(keys, key)
			}

			sort.Strings(keys)

			for _, key := range flattenKeys(settings, keys) {
				out.Printf("%s = %v\n", key.name, key.value)
			}

			return nil
		},
	}
}

type flatSetting struct {
	name  string
	value any
}

// flattenKeys expands viper's nested section maps into dotted keys.
func flattenKeys(settings map[string]any, sorted []string) []flatSetting {
	var flat []flatSetting

	for _, key := range sorted {
		switch v := settings[key].(type) {
		case map[string]any:
			subKeys := make([]string, 0, len(v))
			for sub := range v {
				subKeys = append(subKeys, sub)
			}

			sort.Strings(subKeys)

			for _, sub := range subKeys {
				flat = append(flat, flatSetting{name: key + "." + sub, value: v[sub]})
			}
		default:
			flat = append(flat, flatSetting{name: key, value: v})
		}
	}

	return flat
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <key>",
		Short:   "Get a configuration value",
		Example: `  replkit config get repl.prompt`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.Default()
			key := args[0]

			value := config.Load().Get(key)
			if value == nil {
				out.Muted("%s is not set", key)
				return nil
			}

			out.Printf("%s = %v\n", key, value)

			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set <key> <value>",
		Short:   "Set a configuration value",
		Long:    `Set a configuration key to the given value. The value is persisted to the config file.`,
		Example: `  replkit config set repl.prompt ">> "`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.Default()
			key, value := args[0], args[1]

			validate, known := settingValidators[key]
			if !known {
				return clierrors.ConfigInvalid(key, fmt.Errorf("unknown setting %q", key))
			}

			if err := validate(value); err != nil {
				return clierrors.ConfigInvalid(key, err)
			}

			if err := config.Load().Set(key, value); err != nil {
				return clierrors.Wrap(clierrors.ExitConfig, "Failed to write configuration", err)
			}

			out.Success("Set %s = %s", key, value)

			return nil
		},
	}
}
