package prompter

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// tickMsg drives the countdown once per second.
type tickMsg time.Time

// Model is the single-question prompt. It collects one line of text, or a
// pick from the predefined options, and quits on submit, cancel, or expiry.
type Model struct {
	title   string
	prompt  string
	options []string

	input textinput.Model
	keys  KeyMap
	width int

	remaining int
	countdown bool
	selected  int

	answer    string
	submitted bool
	expired   bool
	canceled  bool
}

// NewModel builds a prompt for one question. timeout is in seconds; zero
// disables expiry. countdown only controls whether the remaining time is
// shown, not whether it runs out.
func NewModel(title, prompt string, options []string, timeout int, countdown bool) *Model {
	input := textinput.New()
	input.Placeholder = "Type your answer..."
	input.Focus()
	input.CharLimit = 512
	input.Width = 60

	return &Model{
		title:     title,
		prompt:    prompt,
		options:   options,
		input:     input,
		keys:      DefaultKeyMap(),
		remaining: timeout,
		countdown: countdown,
	}
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, tea.SetWindowTitle(m.title)}
	if m.remaining > 0 {
		cmds = append(cmds, m.tick())
	}
	return tea.Batch(cmds...)
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width - 6; w > 0 && w < 60 {
			m.input.Width = w
		}
		return m, nil

	case tickMsg:
		m.remaining--
		if m.remaining <= 0 {
			m.expired = true
			return m, tea.Quit
		}
		return m, m.tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.canceled = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Submit):
			m.answer = resolveAnswer(m.input.Value(), m.options)
			m.submitted = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextOption):
			m.cycleOption(1)
			return m, nil

		case key.Matches(msg, m.keys.PrevOption):
			m.cycleOption(-1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// cycleOption moves the highlight through the predefined options and mirrors
// the pick into the input field so Enter submits exactly what is shown.
func (m *Model) cycleOption(delta int) {
	if len(m.options) == 0 {
		return
	}
	m.selected += delta
	if m.selected > len(m.options) {
		m.selected = 1
	}
	if m.selected < 1 {
		m.selected = len(m.options)
	}
	m.input.SetValue(m.options[m.selected-1])
	m.input.CursorEnd()
}

// resolveAnswer maps a bare option number onto the option text; anything
// else is taken literally, trimmed.
func resolveAnswer(typed string, options []string) string {
	trimmed := strings.TrimSpace(typed)
	if n, err := strconv.Atoi(trimmed); err == nil && n >= 1 && n <= len(options) {
		return options[n-1]
	}
	return trimmed
}

// Answer returns the submitted text. Only meaningful when Submitted is true.
func (m *Model) Answer() string { return m.answer }

// Submitted reports whether the user confirmed an answer.
func (m *Model) Submitted() bool { return m.submitted }

// Expired reports whether the countdown ran out before a submit.
func (m *Model) Expired() bool { return m.expired }

// Canceled reports whether the user dismissed the prompt.
func (m *Model) Canceled() bool { return m.canceled }
