package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/keycalc"
	"github.com/zephyrtronium/keycalc/keypad"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send feeds messages to m in order and returns the last command.
func send(t *testing.T, m *Model, msgs ...tea.Msg) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		require.Same(t, m, next)
	}
	return cmd
}

func typed(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, runes(string(r)))
	}
	return msgs
}

func TestTypeAndConfirm(t *testing.T) {
	m := New(keypad.New())
	assert.Nil(t, m.Init())

	send(t, m, typed("2+3*4")...)
	assert.Equal(t, "2+3*4", m.State().Display)

	send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, keypad.State{Display: "14"}, m.State())
}

func TestEditKeys(t *testing.T) {
	m := New(keypad.New())
	send(t, m, typed("123")...)
	send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "12", m.State().Display)

	send(t, m, tea.KeyMsg{Type: tea.KeyDelete})
	assert.Equal(t, "", m.State().Display)

	send(t, m, typed("ab")...)
	assert.Equal(t, "", m.State().Display, "letters are not calculator keys")
}

func TestConfirmError(t *testing.T) {
	m := New(keypad.New())
	send(t, m, typed("5/0")...)
	send(t, m, runes("="))
	st := m.State()
	assert.Equal(t, keypad.ErrorDisplay, st.Display)
	assert.Equal(t, keycalc.ArithmeticFailure, keycalc.KindOf(st.Err))

	v := m.View()
	assert.Contains(t, v, keypad.ErrorDisplay)
	assert.Contains(t, v, "division by zero")
}

func TestCursor(t *testing.T) {
	m := New(keypad.New())
	assert.Equal(t, "C", m.Focused().Label)

	send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "⌫", m.Focused().Label)

	send(t, m, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, "/", m.Focused().Label, "left wraps around")

	send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "*", m.Focused().Label)

	// The last row has a wide button under columns 1 through 3.
	send(t, m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "=", m.Focused().Label)

	send(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "0", m.Focused().Label, "up from a wide button keeps its first column")

	send(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "⌫", m.Focused().Label, "down wraps around")
}

func TestPressButtons(t *testing.T) {
	m := New(keypad.New())
	space := tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	down := tea.KeyMsg{Type: tea.KeyDown}
	right := tea.KeyMsg{Type: tea.KeyRight}

	// 7 is below C.
	send(t, m, down, space)
	assert.Equal(t, "7", m.State().Display)

	// * is three to the right.
	send(t, m, right, right, right, space)
	assert.Equal(t, "7*", m.State().Display)

	// 6 is below and to the left.
	send(t, m, down, tea.KeyMsg{Type: tea.KeyLeft}, space)
	assert.Equal(t, "7*6", m.State().Display)

	// = is at the bottom.
	send(t, m, down, down, down, space)
	assert.Equal(t, "=", m.Focused().Label)
	assert.Equal(t, "42", m.State().Display)

	// C is at the top.
	send(t, m, down, tea.KeyMsg{Type: tea.KeyLeft}, space)
	assert.Equal(t, "C", m.Focused().Label)
	assert.Equal(t, keypad.State{}, m.State())
}

func TestQuit(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		m := New(keypad.New())
		cmd := send(t, m, tea.KeyMsg{Type: k})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.Empty(t, m.View())
	}
}

func TestHelpToggle(t *testing.T) {
	m := New(keypad.New())
	send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.False(t, m.help.ShowAll)
	short := m.View()
	assert.Contains(t, short, "evaluate")

	send(t, m, runes("?"))
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, m.View(), "delete last")
	assert.NotContains(t, short, "delete last")
}

func TestViewGrid(t *testing.T) {
	m := New(keypad.New())
	v := m.View()
	for _, row := range keypad.Buttons {
		for _, b := range row {
			assert.Contains(t, v, b.Label)
		}
	}
}

func TestTail(t *testing.T) {
	assert.Equal(t, "abc", tail("abc", 5))
	assert.Equal(t, "cde", tail("abcde", 3))
	assert.Equal(t, "π2", tail("1π2", 2))
}

func TestColumns(t *testing.T) {
	last := keypad.Buttons[len(keypad.Buttons)-1]
	assert.Equal(t, 0, buttonAt(last, 0))
	assert.Equal(t, 1, buttonAt(last, 1))
	assert.Equal(t, 1, buttonAt(last, 3))
	assert.Equal(t, 1, column(last, 1))
	assert.Equal(t, 3, column(keypad.Buttons[0], 3))
}
