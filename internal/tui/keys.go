package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Play       key.Binding
	NewGame    key.Binding
	ResetStats key.Binding
	Controls   key.Binding
	Quit       key.Binding
}

var Keys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "right"),
	),
	Play: key.NewBinding(
		key.WithKeys("enter", " ", "space"),
		key.WithHelp("enter/1-9", "play"),
	),
	NewGame: key.NewBinding(
		key.WithKeys("r", "R"),
		key.WithHelp("r", "new game"),
	),
	ResetStats: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "reset stats"),
	),
	Controls: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "controls"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp lists the bindings shown in the controls overlay.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.NewGame, k.ResetStats, k.Controls, k.Quit}
}
