package prompter

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("39")
	colorMuted  = lipgloss.Color("242")
	colorUrgent = lipgloss.Color("196")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	promptStyle = lipgloss.NewStyle().
			PaddingTop(1)

	optionNumberStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorAccent)

	optionStyle = lipgloss.NewStyle()

	selectedOptionStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("236"))

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1).
			MarginTop(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	urgentStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorUrgent)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			PaddingTop(1)
)
