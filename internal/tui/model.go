// Package tui is the terminal front end of the keypad calculator.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zephyrtronium/keycalc/keypad"
)

// Model is the bubbletea model of the calculator. All arithmetic happens in
// its reducer.
type Model struct {
	reducer keypad.Reducer
	state   keypad.State

	// row and btn locate the focused button in keypad.Buttons.
	row int
	btn int

	keys     keyMap
	help     help.Model
	styles   styles
	quitting bool
}

// New creates a model that evaluates with r.
func New(r keypad.Reducer) *Model {
	return &Model{
		reducer: r,
		keys:    defaultKeyMap(),
		help:    help.New(),
		styles:  defaultStyles(),
	}
}

// Run starts an interactive calculator on the terminal and blocks until the
// user quits.
func Run(r keypad.Reducer, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(New(r), opts...).Run()
	return err
}

// State returns the current calculator state.
func (m *Model) State() keypad.State {
	return m.state
}

// Focused returns the button under the cursor.
func (m *Model) Focused() keypad.Button {
	return keypad.Buttons[m.row][m.btn]
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Up):
			m.moveRow(-1)
		case key.Matches(msg, m.keys.Down):
			m.moveRow(1)
		case key.Matches(msg, m.keys.Left):
			m.moveButton(-1)
		case key.Matches(msg, m.keys.Right):
			m.moveButton(1)
		case key.Matches(msg, m.keys.Press):
			m.apply(m.Focused().Action)
		default:
			if a, ok := keypad.KeyAction(msg.String()); ok {
				m.apply(a)
			}
		}
	}
	return m, nil
}

func (m *Model) apply(a keypad.Action) {
	m.state = m.reducer.Apply(m.state, a)
}

// moveButton moves the cursor within its row, wrapping around.
func (m *Model) moveButton(d int) {
	n := len(keypad.Buttons[m.row])
	m.btn = (m.btn + d + n) % n
}

// moveRow moves the cursor to the button in the next row which covers the
// first grid column of the focused button, wrapping around.
func (m *Model) moveRow(d int) {
	col := column(keypad.Buttons[m.row], m.btn)
	n := len(keypad.Buttons)
	m.row = (m.row + d + n) % n
	m.btn = buttonAt(keypad.Buttons[m.row], col)
}

// column returns the grid column at which button b of row starts.
func column(row []keypad.Button, b int) int {
	c := 0
	for _, btn := range row[:b] {
		c += btn.Span
	}
	return c
}

// buttonAt returns the index of the button of row covering grid column col.
func buttonAt(row []keypad.Button, col int) int {
	c := 0
	for i, btn := range row {
		c += btn.Span
		if col < c {
			return i
		}
	}
	return len(row) - 1
}
