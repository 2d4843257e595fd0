package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings that are not calculator keys. Calculator keys
// are mapped by keypad.KeyAction.
type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Press key.Binding
	Help  key.Binding
	Quit  key.Binding

	// Confirm, Backspace and Clear only describe keypad.KeyAction keys for
	// the help view.
	Confirm   key.Binding
	Backspace key.Binding
	Clear     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "right"),
		),
		Press: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "press button"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter", "="),
			key.WithHelp("enter", "evaluate"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("backspace", "delete last"),
		),
		Clear: key.NewBinding(
			key.WithKeys("delete"),
			key.WithHelp("del", "clear"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Press, k.Confirm, k.Clear, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Press, k.Confirm, k.Backspace, k.Clear},
		{k.Help, k.Quit},
	}
}
