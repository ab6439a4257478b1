package config

import (
	"os"
	"testing"
	"time"
)

// unsetEnvForTest unsets an environment variable and registers cleanup to
// restore its original state (including distinguishing "unset" from "set to
// empty string").
func unsetEnvForTest(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func clearReplkitEnv(t *testing.T) {
	t.Helper()
	unsetEnvForTest(t, "REPLKIT_UI_TICK_INTERVAL")
	unsetEnvForTest(t, "REPLKIT_UI_BLOCK_SPACING")
	unsetEnvForTest(t, "REPLKIT_UI_THEME_FILE")
	unsetEnvForTest(t, "REPLKIT_REPL_HISTORY_SIZE")
	unsetEnvForTest(t, "REPLKIT_REPL_PROMPT")
}

func TestLoad_Defaults(t *testing.T) {
	// Temporary directory without any config file
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	clearReplkitEnv(t)

	cfg := Load()

	tests := []struct {
		name     string
		accessor func(*Config) interface{}
		want     interface{}
	}{
		{
			name: "default tick interval",
			accessor: func(c *Config) interface{} {
				return c.TickInterval()
			},
			want: time.Duration(DefaultTickInterval) * time.Millisecond,
		},
		{
			name: "default block spacing",
			accessor: func(c *Config) interface{} {
				return c.BlockSpacing()
			},
			want: DefaultBlockSpacing,
		},
		{
			name: "default history size",
			accessor: func(c *Config) interface{} {
				return c.HistorySize()
			},
			want: DefaultHistorySize,
		},
		{
			name: "default prompt",
			accessor: func(c *Config) interface{} {
				return c.Prompt()
			},
			want: "> ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.accessor(cfg)
			if got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestLoad_FromEnv(t *testing.T) {
	tests := []struct {
		name    string
		envVar  string
		envVal  string
		key     string
		wantStr string
		wantInt int
	}{
		{
			name:    "prompt from env",
			envVar:  "REPLKIT_REPL_PROMPT",
			envVal:  ">>> ",
			key:     "repl.prompt",
			wantStr: ">>> ",
		},
		{
			name:    "tick interval from env",
			envVar:  "REPLKIT_UI_TICK_INTERVAL",
			envVal:  "50",
			key:     "ui.tick_interval",
			wantInt: 50,
		},
		{
			name:    "history size from env",
			envVar:  "REPLKIT_REPL_HISTORY_SIZE",
			envVal:  "200",
			key:     "repl.history_size",
			wantInt: 200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.envVal)

			cfg := Load()

			if tt.wantStr != "" {
				got := cfg.GetString(tt.key)
				if got != tt.wantStr {
					t.Errorf("GetString(%q) = %q, want %q", tt.key, got, tt.wantStr)
				}
			}
			if tt.wantInt != 0 {
				got := cfg.GetInt(tt.key)
				if got != tt.wantInt {
					t.Errorf("GetInt(%q) = %d, want %d", tt.key, got, tt.wantInt)
				}
			}
		})
	}
}

func TestConfig_All(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	clearReplkitEnv(t)

	cfg := Load()
	all := cfg.All()

	if all == nil {
		t.Fatal("All() returned nil")
	}

	// Check that defaults are present
	if _, ok := all["ui"]; !ok {
		t.Error("All() missing 'ui' key")
	}
	if _, ok := all["repl"]; !ok {
		t.Error("All() missing 'repl' key")
	}
}

func TestConfig_TickInterval(t *testing.T) {
	tests := []struct {
		name   string
		envVal string
		want   time.Duration
	}{
		{
			name:   "default",
			envVal: "",
			want:   80 * time.Millisecond,
		},
		{
			name:   "from env",
			envVal: "120",
			want:   120 * time.Millisecond,
		},
		{
			name:   "invalid falls back to default",
			envVal: "-5",
			want:   80 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			t.Setenv("HOME", tmpDir)
			t.Setenv("XDG_CONFIG_HOME", tmpDir)

			if tt.envVal != "" {
				t.Setenv("REPLKIT_UI_TICK_INTERVAL", tt.envVal)
			} else {
				unsetEnvForTest(t, "REPLKIT_UI_TICK_INTERVAL")
			}

			cfg := Load()
			got := cfg.TickInterval()

			if got != tt.want {
				t.Errorf("TickInterval() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_HistorySize(t *testing.T) {
	tests := []struct {
		name   string
		envVal string
		want   int
	}{
		{
			name:   "default",
			envVal: "",
			want:   DefaultHistorySize,
		},
		{
			name:   "from env",
			envVal: "50",
			want:   50,
		},
		{
			name:   "zero falls back to default",
			envVal: "0",
			want:   DefaultHistorySize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			t.Setenv("HOME", tmpDir)
			t.Setenv("XDG_CONFIG_HOME", tmpDir)

			if tt.envVal != "" {
				t.Setenv("REPLKIT_REPL_HISTORY_SIZE", tt.envVal)
			} else {
				unsetEnvForTest(t, "REPLKIT_REPL_HISTORY_SIZE")
			}

			cfg := Load()
			got := cfg.HistorySize()

			if got != tt.want {
				t.Errorf("HistorySize() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConfig_ThemeFile(t *testing.T) {
	t.Run("explicit path wins", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("HOME", tmpDir)
		t.Setenv("XDG_CONFIG_HOME", tmpDir)
		t.Setenv("REPLKIT_UI_THEME_FILE", "/tmp/custom-theme.toml")

		cfg := Load()
		if got := cfg.ThemeFile(); got != "/tmp/custom-theme.toml" {
			t.Errorf("ThemeFile() = %q, want %q", got, "/tmp/custom-theme.toml")
		}
	})

	t.Run("falls back to default location", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("HOME", tmpDir)
		t.Setenv("XDG_CONFIG_HOME", tmpDir)
		unsetEnvForTest(t, "REPLKIT_UI_THEME_FILE")

		cfg := Load()
		if got := cfg.ThemeFile(); got == "" {
			t.Fatal("ThemeFile() = \"\", want default path")
		}
	})
}
