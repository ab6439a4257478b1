// Package render turns UI content into styled terminal strings.
//
// A Renderer wraps lipgloss with a color profile derived from terminal
// detection, so every component degrades to plain text on dumb terminals
// and non-TTY output without changing its structure. Themes control the
// glyphs and colors and can be overridden from a TOML file.
package render

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/replkit/replkit/internal/errors"
)

// Icons are the single-cell glyphs used for outcome badges.
type Icons struct {
	Success   string `toml:"success"`
	Error     string `toml:"error"`
	Warning   string `toml:"warning"`
	Info      string `toml:"info"`
	Bullet    string `toml:"bullet"`
	Cancelled string `toml:"cancelled"`
}

// TreeGlyphs are the connector prefixes for grouped task output.
type TreeGlyphs struct {
	Mid  string `toml:"mid"`
	Last string `toml:"last"`
}

// BarGlyphs control progress bar rendering.
type BarGlyphs struct {
	Filled string `toml:"filled"`
	Empty  string `toml:"empty"`
	Width  int    `toml:"width"`
}

// Colors are lipgloss color values (ANSI index or hex).
type Colors struct {
	Success   string `toml:"success"`
	Error     string `toml:"error"`
	Warning   string `toml:"warning"`
	Info      string `toml:"info"`
	Cancelled string `toml:"cancelled"`
	Spinner   string `toml:"spinner"`
	Progress  string `toml:"progress"`
	Muted     string `toml:"muted"`
}

// Theme holds every glyph and color the renderer uses.
type Theme struct {
	Icons         Icons      `toml:"icons"`
	SpinnerFrames []string   `toml:"spinner_frames"`
	Tree          TreeGlyphs `toml:"tree"`
	Bar           BarGlyphs  `toml:"bar"`
	Colors        Colors     `toml:"colors"`
}

// DefaultTheme returns the built-in theme.
func DefaultTheme() *Theme {
	return &Theme{
		Icons: Icons{
			Success:   "✓",
			Error:     "✗",
			Warning:   "⚠",
			Info:      "ℹ",
			Bullet:    "●",
			Cancelled: "○",
		},
		SpinnerFrames: []string{
			"⠋", "⠙", "⠹", "⠸", "⠼",
			"⠴", "⠦", "⠧", "⠇", "⠏",
		},
		Tree: TreeGlyphs{
			Mid:  "├──➤ ",
			Last: "╰──➤ ",
		},
		Bar: BarGlyphs{
			Filled: "█",
			Empty:  "░",
			Width:  25,
		},
		Colors: Colors{
			Success:   "2",
			Error:     "1",
			Warning:   "3",
			Info:      "4",
			Cancelled: "8",
			Spinner:   "6",
			Progress:  "6",
			Muted:     "8",
		},
	}
}

// LoadTheme reads a TOML theme file over the default theme. Missing keys
// keep their defaults; a missing file returns the default theme unchanged.
func LoadTheme(path string) (*Theme, error) {
	theme := DefaultTheme()

	if path == "" {
		return theme, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return theme, nil
		}

		return nil, errors.ThemeInvalid(path, err)
	}

	if err := toml.Unmarshal(data, theme); err != nil {
		return nil, errors.ThemeInvalid(path, err)
	}

	if err := theme.validate(); err != nil {
		return nil, errors.ThemeInvalid(path, err)
	}

	return theme, nil
}

func (t *Theme) validate() error {
	if len(t.SpinnerFrames) == 0 {
		return fmt.Errorf("spinner_frames must not be empty")
	}

	if t.Bar.Width <= 0 {
		return fmt.Errorf("bar.width must be positive")
	}

	return nil
}

// Frame returns the spinner frame for tick n.
func (t *Theme) Frame(n int) string {
	return t.SpinnerFrames[n%len(t.SpinnerFrames)]
}
