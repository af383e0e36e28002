package prompter

import (
	"fmt"
	"strings"
)

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(promptStyle.Render(m.prompt))
	b.WriteString("\n")

	if len(m.options) > 0 {
		b.WriteString("\n")
		for i, opt := range m.options {
			line := fmt.Sprintf("  %s %s",
				optionNumberStyle.Render(fmt.Sprintf("[%d]", i+1)), opt)
			if m.selected == i+1 {
				line = selectedOptionStyle.Render(line) + " ←"
			} else {
				line = optionStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString(inputStyle.Render(m.input.View()))
	b.WriteString("\n")

	if m.countdown && m.remaining > 0 {
		status := fmt.Sprintf("Time remaining: %ds", m.remaining)
		if m.remaining <= 10 {
			b.WriteString(urgentStyle.Render(status))
		} else {
			b.WriteString(statusStyle.Render(status))
		}
		b.WriteString("\n")
	}

	help := "enter: submit  esc: cancel"
	if len(m.options) > 0 {
		help = "enter: submit  ↑/↓: pick option  1-9: pick by number  esc: cancel"
	}
	b.WriteString(helpStyle.Render(help))
	b.WriteString("\n")

	return b.String()
}
