package repl

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// refreshMsg asks for a repaint after a live slot changed.
type refreshMsg struct{}

// handlerDoneMsg reports that the goroutine running a handler finished.
type handlerDoneMsg struct{}

type model struct {
	r   *REPL
	ctx context.Context

	input textinput.Model
	width int

	// lines holds continuation lines of a multiline entry in progress;
	// the input buffer is the line being edited.
	lines []string

	// history holds submitted entries, oldest first, bounded by the
	// configured size. histIdx == len(history) means "editing a new
	// entry".
	history []string
	histIdx int

	handling   bool
	cancelling bool
	queue      []string
}

func newModel(r *REPL, ctx context.Context) *model {
	renderer := r.ui.Out().Renderer()

	input := textinput.New()
	input.Prompt = r.prompt
	input.PromptStyle = renderer.Spinner().Bold(true)
	input.ShowSuggestions = true
	input.Focus()

	// Slash commands complete inline; tab accepts the suggestion.
	commands := r.registry.list()
	suggestions := make([]string, len(commands))
	for i, cmd := range commands {
		suggestions[i] = cmd.Name
	}
	input.SetSuggestions(suggestions)

	return &model{
		r:     r,
		ctx:   ctx,
		input: input,
		width: renderer.Width(),
	}
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.r.ui.Out().SetWidth(msg.Width)

		return m, nil

	case refreshMsg:
		return m, nil

	case handlerDoneMsg:
		m.handling = false
		m.cancelling = false

		// Drain one queued line; its completion message drains the next.
		if len(m.queue) > 0 {
			text := m.queue[0]
			m.queue = m.queue[1:]
			m.handling = true

			return m, m.runHandler(text)
		}

		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.submit()

	case "alt+enter", "ctrl+j":
		// Continuation line; the entry grows until plain enter submits.
		m.lines = append(m.lines, m.input.Value())
		m.input.SetValue("")

		return m, nil

	case "esc":
		if m.handling && !m.cancelling {
			if handled, _ := m.r.ui.RequestCancel(false); handled {
				m.cancelling = true
			}
		}

		return m, nil

	case "ctrl+c":
		if m.handling {
			if !m.cancelling {
				if handled, _ := m.r.ui.RequestCancel(false); handled {
					m.cancelling = true
				}
			}

			return m, nil
		}

		m.resetEntry()

		return m, nil

	case "ctrl+d":
		return m, tea.Quit

	case "y", "Y":
		if handled, _ := m.r.ui.RespondConfirm(true, false); handled {
			return m, nil
		}

	case "n", "N":
		if handled, _ := m.r.ui.RespondConfirm(false, false); handled {
			return m, nil
		}

	case "up":
		m.historyUp()
		return m, nil

	case "down":
		m.historyDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m *model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.entry())
	if text == "" {
		m.lines = nil
		m.input.SetValue("")

		return m, nil
	}

	// While a cancellation drains, input is queued instead of dropped.
	if m.cancelling {
		m.rememberHistory(text)
		m.resetEntry()
		m.queue = append(m.queue, text)

		return m, nil
	}

	if m.handling {
		return m, nil
	}

	m.rememberHistory(text)
	m.resetEntry()
	m.handling = true

	return m, m.runHandler(text)
}

// entry joins the continuation lines with the line being edited.
func (m *model) entry() string {
	if len(m.lines) == 0 {
		return m.input.Value()
	}

	return strings.Join(m.lines, "\n") + "\n" + m.input.Value()
}

func (m *model) resetEntry() {
	m.lines = nil
	m.input.SetValue("")
}

func (m *model) runHandler(text string) tea.Cmd {
	return func() tea.Msg {
		m.r.handleInput(m.ctx, text)
		return handlerDoneMsg{}
	}
}

func (m *model) rememberHistory(text string) {
	m.history = append(m.history, text)
	if len(m.history) > m.r.historySize {
		m.history = m.history[len(m.history)-m.r.historySize:]
	}

	m.histIdx = len(m.history)
}

func (m *model) historyUp() {
	if m.histIdx == 0 || len(m.history) == 0 {
		return
	}

	m.histIdx--
	m.input.SetValue(m.history[m.histIdx])
	m.input.CursorEnd()
}

func (m *model) historyDown() {
	if m.histIdx >= len(m.history) {
		return
	}

	m.histIdx++

	if m.histIdx == len(m.history) {
		m.input.SetValue("")
		return
	}

	m.input.SetValue(m.history[m.histIdx])
	m.input.CursorEnd()
}

func (m *model) View() string {
	out := m.r.ui.Out()
	renderer := out.Renderer()

	var b strings.Builder

	if live := out.LiveContent(); live != "" {
		b.WriteString(live)
		b.WriteString("\n")
	}

	separator := renderer.Muted().Render(strings.Repeat("─", max(1, m.width)))

	b.WriteString(separator)
	b.WriteString("\n")

	// The entry grows by one row per continuation line.
	for _, line := range m.lines {
		b.WriteString(renderer.Muted().Render("… "))
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")

	for _, row := range m.completionRows() {
		b.WriteString(renderer.Muted().Render(row))
		b.WriteString("\n")
	}

	b.WriteString(separator)
	b.WriteString("\n")
	b.WriteString(renderer.Muted().Render(m.statusLine()))

	return b.String()
}

// maxCompletionRows bounds the completion list under the input.
const maxCompletionRows = 6

// completions returns the registered commands matching the slash
// command being typed, if any.
func (m *model) completions() []Command {
	value := m.input.Value()
	if len(m.lines) > 0 || !strings.HasPrefix(value, "/") || strings.ContainsRune(value, ' ') {
		return nil
	}

	prefix := strings.ToLower(value)

	var matches []Command
	for _, cmd := range m.r.registry.list() {
		if strings.HasPrefix(strings.ToLower(cmd.Name), prefix) {
			matches = append(matches, cmd)
		}
	}

	return matches
}

func (m *model) completionRows() []string {
	if m.handling {
		return nil
	}

	comps := m.completions()
	if len(comps) == 0 {
		return nil
	}

	var rows []string
	for i, cmd := range comps {
		if i == maxCompletionRows {
			rows = append(rows, fmt.Sprintf("  (%d more)", len(comps)-i))
			break
		}

		rows = append(rows, fmt.Sprintf("  %-12s %s", cmd.Name, cmd.Description))
	}

	return rows
}

func (m *model) statusLine() string {
	switch {
	case m.cancelling:
		return "  cancelling..."
	case m.handling:
		return "  esc interrupt"
	default:
		return "  ↵ send · alt+↵ newline · tab complete"
	}
}
