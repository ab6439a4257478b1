package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Content is anything that can render itself to a terminal string.
type Content interface {
	Render(r *Renderer) string
}

// Renderer styles content for one output target. The color profile is
// fixed at construction; with termenv.Ascii every style collapses to
// plain text while the rendered structure stays identical.
type Renderer struct {
	theme *Theme
	lg    *lipgloss.Renderer
	width int
}

// NewRenderer creates a renderer for the given output and profile.
func NewRenderer(out io.Writer, profile termenv.Profile, theme *Theme, width int) *Renderer {
	if theme == nil {
		theme = DefaultTheme()
	}

	if width <= 0 {
		width = 80
	}

	lg := lipgloss.NewRenderer(out)
	lg.SetColorProfile(profile)

	return &Renderer{theme: theme, lg: lg, width: width}
}

// Theme returns the active theme.
func (r *Renderer) Theme() *Theme {
	return r.theme
}

// Width returns the target terminal width in cells.
func (r *Renderer) Width() int {
	return r.width
}

// SetWidth updates the target terminal width.
func (r *Renderer) SetWidth(w int) {
	if w > 0 {
		r.width = w
	}
}

// Plain reports whether styling is disabled for this renderer.
func (r *Renderer) Plain() bool {
	return r.lg.ColorProfile() == termenv.Ascii
}

func (r *Renderer) style(color string) lipgloss.Style {
	return r.lg.NewStyle().Foreground(lipgloss.Color(color))
}

func (r *Renderer) dim() lipgloss.Style {
	return r.lg.NewStyle().Faint(true)
}

// Success returns the success style.
func (r *Renderer) Success() lipgloss.Style { return r.style(r.theme.Colors.Success) }

// Error returns the error style.
func (r *Renderer) Error() lipgloss.Style { return r.style(r.theme.Colors.Error) }

// Warning returns the warning style.
func (r *Renderer) Warning() lipgloss.Style { return r.style(r.theme.Colors.Warning) }

// Info returns the info style.
func (r *Renderer) Info() lipgloss.Style { return r.style(r.theme.Colors.Info) }

// Spinner returns the spinner style.
func (r *Renderer) Spinner() lipgloss.Style { return r.style(r.theme.Colors.Spinner) }

// Muted returns the muted style.
func (r *Renderer) Muted() lipgloss.Style { return r.style(r.theme.Colors.Muted).Faint(true) }

// Cancelled returns the cancelled style.
func (r *Renderer) Cancelled() lipgloss.Style {
	return r.style(r.theme.Colors.Cancelled).Faint(true)
}

// Render renders content to a string, accepting raw strings as-is.
func (r *Renderer) Render(content any) string {
	switch c := content.(type) {
	case Content:
		return c.Render(r)
	case string:
		return c
	default:
		return ""
	}
}
