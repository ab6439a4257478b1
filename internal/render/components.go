package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Outcome classifies a badge or task result.
type Outcome int

const (
	Pending Outcome = iota
	Success
	Error
	Warning
	Info
	Cancelled
)

func (o Outcome) icon(t *Theme) string {
	switch o {
	case Success:
		return t.Icons.Success
	case Error:
		return t.Icons.Error
	case Warning:
		return t.Icons.Warning
	case Info:
		return t.Icons.Info
	case Cancelled:
		return t.Icons.Cancelled
	default:
		return t.Icons.Bullet
	}
}

func (o Outcome) style(r *Renderer) lipgloss.Style {
	switch o {
	case Success:
		return r.Success()
	case Error:
		return r.Error()
	case Warning:
		return r.Warning()
	case Info:
		return r.Info()
	case Cancelled:
		return r.Cancelled()
	default:
		return r.Spinner()
	}
}

// Badge is an icon-prefixed one-line message, e.g. "✓ Build complete".
type Badge struct {
	Kind Outcome
	Text string
}

func (b Badge) Render(r *Renderer) string {
	icon := b.Kind.icon(r.theme)
	return b.Kind.style(r).Render(icon+" ") + b.Text
}

// Echo renders user input with a "> " prefix.
type Echo struct {
	Text string
}

func (e Echo) Render(r *Renderer) string {
	return r.Muted().Render("> " + e.Text)
}

// Message is a bullet-prefixed message with an optional header and
// indented body.
type Message struct {
	Content string
	Header  string
	Icon    string
}

func (m Message) Render(r *Renderer) string {
	icon := m.Icon
	if icon == "" {
		icon = r.theme.Icons.Bullet
	}

	var sb strings.Builder
	sb.WriteString(r.Muted().Render(icon + " "))

	if m.Header == "" {
		sb.WriteString(m.Content)
		return sb.String()
	}

	sb.WriteString(r.Muted().Render(m.Header))
	for _, line := range strings.Split(m.Content, "\n") {
		sb.WriteString("\n  " + line)
	}

	return sb.String()
}

// SpinnerLine is the live frame for a status spinner.
type SpinnerLine struct {
	Frame   int
	Message string
}

func (s SpinnerLine) Render(r *Renderer) string {
	return r.Spinner().Render(r.theme.Frame(s.Frame)+" ") + s.Message
}

// ProgressLine is the live frame for a progress bar.
type ProgressLine struct {
	Frame       int
	Description string
	Completed   float64
	Total       float64
}

func (p ProgressLine) Render(r *Renderer) string {
	ratio := 0.0
	if p.Total > 0 {
		ratio = p.Completed / p.Total
	}

	if ratio < 0 {
		ratio = 0
	}

	if ratio > 1 {
		ratio = 1
	}

	width := r.theme.Bar.Width
	filled := int(ratio * float64(width))
	bar := strings.Repeat(r.theme.Bar.Filled, filled) + strings.Repeat(r.theme.Bar.Empty, width-filled)

	return fmt.Sprintf("%s %s %s %s",
		r.Spinner().Render(r.theme.Frame(p.Frame)),
		r.Spinner().Render(p.Description),
		r.style(r.theme.Colors.Progress).Render(bar),
		fmt.Sprintf("%3.0f%%", ratio*100),
	)
}

// TreeItem is one row in a task tree.
type TreeItem struct {
	Text    string
	Outcome Outcome
}

// TaskTree renders a group title and its items with branch connectors.
// Pending items animate with the spinner frame; the last item always
// gets the closing connector.
type TaskTree struct {
	Title        string
	TitleOutcome Outcome
	Items        []TreeItem
	Frame        int
}

func (tt TaskTree) Render(r *Renderer) string {
	var sb strings.Builder
	sb.WriteString(tt.TitleOutcome.style(r).Render(tt.TitleOutcome.icon(r.theme) + " "))
	sb.WriteString(tt.Title)

	for i, item := range tt.Items {
		connector := r.theme.Tree.Mid
		if i == len(tt.Items)-1 {
			connector = r.theme.Tree.Last
		}

		sb.WriteString("\n")
		sb.WriteString(r.dim().Render(connector))

		if item.Outcome == Pending {
			sb.WriteString(r.Spinner().Render(r.theme.Frame(tt.Frame) + " "))
		} else {
			sb.WriteString(item.Outcome.style(r).Render(item.Outcome.icon(r.theme) + " "))
		}

		sb.WriteString(r.dim().Render(item.Text))
	}

	return sb.String()
}

// ConfirmPrompt is the live y/n question line.
type ConfirmPrompt struct {
	Message string
}

func (c ConfirmPrompt) Render(r *Renderer) string {
	return r.Warning().Render("? ") + c.Message + r.dim().Render(" [y/n] ")
}

// ConfirmResult is the permanent record of an answered prompt.
type ConfirmResult struct {
	Message  string
	Accepted bool
}

func (c ConfirmResult) Render(r *Renderer) string {
	outcome, answer := Success, "yes"
	if !c.Accepted {
		outcome, answer = Error, "no"
	}

	return outcome.style(r).Render(outcome.icon(r.theme)+" ") + c.Message + r.dim().Render(" "+answer)
}

// CodeBlock renders syntax-highlighted code with an optional title.
type CodeBlock struct {
	Code     string
	Language string
	Title    string
}

func (c CodeBlock) Render(r *Renderer) string {
	lang := c.Language
	if lang == "" {
		lang = "text"
	}

	source := fmt.Sprintf("```%s\n%s\n```", lang, strings.TrimRight(c.Code, "\n"))
	body := renderMarkdown(r, source)

	if c.Title == "" {
		return body
	}

	return r.Muted().Render("  "+c.Title) + "\n" + body
}

// Markdown renders a markdown document.
type Markdown struct {
	Source string
}

func (m Markdown) Render(r *Renderer) string {
	return renderMarkdown(r, m.Source)
}

func renderMarkdown(r *Renderer, source string) string {
	opts := []glamour.TermRendererOption{
		glamour.WithWordWrap(r.width),
	}

	if r.Plain() {
		opts = append(opts, glamour.WithStandardStyle("notty"))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}

	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return source
	}

	out, err := tr.Render(source)
	if err != nil {
		return source
	}

	return strings.TrimRight(out, "\n")
}

// BannerSection is a titled list in the banner's right column.
type BannerSection struct {
	Title string
	Items []string
}

// Banner is a two-column startup banner.
type Banner struct {
	Title    string
	Greeting string
	LeftInfo []string
	Sections []BannerSection
}

func (b Banner) Render(r *Renderer) string {
	var left []string
	if b.Greeting != "" {
		left = append(left, r.lg.NewStyle().Bold(true).Render(b.Greeting), "")
	}

	for _, info := range b.LeftInfo {
		left = append(left, r.dim().Render(info))
	}

	var right []string
	for _, section := range b.Sections {
		right = append(right, r.Spinner().Bold(true).Render(section.Title))
		for _, item := range section.Items {
			right = append(right, "  "+item)
		}

		right = append(right, "")
	}

	columns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, left...),
		strings.Repeat(" ", 4),
		lipgloss.JoinVertical(lipgloss.Left, right...),
	)

	if b.Title == "" {
		return columns
	}

	return r.dim().Render("─ "+b.Title+" ") + "\n\n" + columns
}

// Collapsed prints a titled body with configurable truncation.
// MaxChars 0 shows the title and a line count only, a positive value
// shows that many characters, and a negative value shows everything.
type Collapsed struct {
	Title    string
	Body     string
	MaxChars int
}

func (c Collapsed) Render(r *Renderer) string {
	body := strings.TrimSpace(c.Body)
	header := r.dim().Render("▶ " + c.Title)

	switch {
	case c.MaxChars < 0:
		var sb strings.Builder
		sb.WriteString(header)
		for _, line := range strings.Split(body, "\n") {
			sb.WriteString("\n" + r.dim().Render("  "+line))
		}

		return sb.String()

	case c.MaxChars > 0 && utf8.RuneCountInString(body) > c.MaxChars:
		preview := runewidth.Truncate(body, c.MaxChars, "")
		remaining := utf8.RuneCountInString(body) - utf8.RuneCountInString(preview)

		return header + "\n" +
			r.dim().Render("  "+preview+"...") + "\n" +
			r.dim().Render(fmt.Sprintf("  (%d more chars)", remaining))

	case c.MaxChars > 0:
		var sb strings.Builder
		sb.WriteString(header)
		for _, line := range strings.Split(body, "\n") {
			sb.WriteString("\n" + r.dim().Render("  "+line))
		}

		return sb.String()

	default:
		lines := strings.Count(body, "\n") + 1
		return header + r.dim().Render(fmt.Sprintf(" (%d lines)", lines))
	}
}
