package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap defines global key bindings used across the TUI.
type keyMap struct {
	Quit            key.Binding
	Help            key.Binding
	Refresh         key.Binding
	UpgradeAll      key.Binding
	UpgradeOfficial key.Binding
	UpgradeAUR      key.Binding
	Details         key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh now"),
		),
		UpgradeAll: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "upgrade all"),
		),
		UpgradeOfficial: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "upgrade official"),
		),
		UpgradeAUR: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "upgrade aur"),
		),
		Details: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "details"),
		),
	}
}
