// Package config handles replkit configuration using Viper.
//
// Configuration sources (in priority order):
//  1. Environment variables (REPLKIT_*)
//  2. Config file (~/.config/replkit/config.yaml)
//  3. Built-in defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/replkit/replkit/internal/paths"
)

const (
	// DefaultTickInterval is the spinner animation interval in milliseconds.
	DefaultTickInterval = 80
	// DefaultBlockSpacing is the number of blank lines between output blocks.
	DefaultBlockSpacing = 1
	// DefaultHistorySize is the maximum number of retained input history entries.
	DefaultHistorySize = 1000
)

// Config holds the replkit configuration.
type Config struct {
	v *viper.Viper
}

// Load reads configuration from all sources.
func Load() *Config {
	v := viper.New()

	// Set defaults
	v.SetDefault("ui.tick_interval", DefaultTickInterval)
	v.SetDefault("ui.block_spacing", DefaultBlockSpacing)
	v.SetDefault("ui.theme_file", "")
	v.SetDefault("repl.history_size", DefaultHistorySize)
	v.SetDefault("repl.prompt", "> ")

	// Config file location
	if root, err := paths.ConfigRoot(); err == nil {
		v.AddConfigPath(root)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Environment variables
	v.SetEnvPrefix("REPLKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found, but warn on other errors)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: error reading config file: %v\n", err)
		}
	}

	return &Config{v: v}
}

// Get returns a configuration value.
func (c *Config) Get(key string) interface{} {
	return c.v.Get(key)
}

// GetString returns a configuration value as string.
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt returns a configuration value as int.
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// Set sets a configuration value and persists it.
func (c *Config) Set(key string, value interface{}) error {
	c.v.Set(key, value)

	root, err := paths.ConfigRoot()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(root, 0o700); err != nil {
		return err
	}

	return c.v.WriteConfigAs(filepath.Join(root, "config.yaml"))
}

// All returns all configuration as a map.
func (c *Config) All() map[string]interface{} {
	return c.v.AllSettings()
}

// TickInterval returns the spinner animation interval.
func (c *Config) TickInterval() time.Duration {
	ms := c.GetInt("ui.tick_interval")
	if ms <= 0 {
		ms = DefaultTickInterval
	}

	return time.Duration(ms) * time.Millisecond
}

// BlockSpacing returns the number of blank lines between output blocks.
func (c *Config) BlockSpacing() int {
	n := c.GetInt("ui.block_spacing")
	if n < 0 {
		n = DefaultBlockSpacing
	}

	return n
}

// HistorySize returns the maximum number of retained history entries.
func (c *Config) HistorySize() int {
	n := c.GetInt("repl.history_size")
	if n <= 0 {
		n = DefaultHistorySize
	}

	return n
}

// Prompt returns the configured prompt string.
func (c *Config) Prompt() string {
	return c.GetString("repl.prompt")
}

// ThemeFile returns the configured theme file path, falling back to the
// default location when unset.
func (c *Config) ThemeFile() string {
	if f := c.GetString("ui.theme_file"); f != "" {
		return f
	}

	f, err := paths.ThemeFile()
	if err != nil {
		return ""
	}

	return f
}
