package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the TUI
type KeyMap struct {
	Help     key.Binding
	Quit     key.Binding
	Resubmit key.Binding
	Scroll   key.Binding
}

// DefaultKeyMap returns the default key map
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Resubmit: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "review again"),
		),
		// Handled by the viewport; listed for help only
		Scroll: key.NewBinding(
			key.WithKeys("up", "down", "pgup", "pgdown"),
			key.WithHelp("↑/↓", "scroll"),
		),
	}
}

// Keys is a global instance of the keymap for use in the model
var Keys = DefaultKeyMap()

// ShortHelp returns the short help text for the help bubble
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Resubmit, k.Quit}
}

// FullHelp returns the full help text for the help bubble
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Help, k.Quit},
		{k.Resubmit, k.Scroll},
	}
}
