package prompter

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the prompt window.
type KeyMap struct {
	Submit     key.Binding
	PrevOption key.Binding
	NextOption key.Binding
	Cancel     key.Binding
}

// DefaultKeyMap returns the standard prompt keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		PrevOption: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "previous option"),
		),
		NextOption: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "next option"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
	}
}
