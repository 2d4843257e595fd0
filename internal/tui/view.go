package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zephyrtronium/keycalc/keypad"
)

const (
	// cellWidth is the width of a one-column button.
	cellWidth = 5
	// gap is the space between buttons.
	gap = 1
)

// gridWidth is the width of a full row of buttons.
const gridWidth = keypad.Columns*cellWidth + (keypad.Columns-1)*gap

type styles struct {
	display lipgloss.Style
	failed  lipgloss.Style
	detail  lipgloss.Style
	button  lipgloss.Style
	focused lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		display: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Width(gridWidth - 2).
			Align(lipgloss.Right),
		failed: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		detail: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		button: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236")).
			Align(lipgloss.Center),
		focused: lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("170")).
			Bold(true).
			Align(lipgloss.Center),
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.viewDisplay())
	b.WriteByte('\n')
	for i, row := range keypad.Buttons {
		b.WriteString(m.viewRow(i, row))
		b.WriteByte('\n')
	}
	if m.state.Err != nil {
		b.WriteString(m.styles.detail.Width(gridWidth).Render(m.state.Err.Error()))
		b.WriteByte('\n')
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) viewDisplay() string {
	text := tail(m.state.Display, gridWidth-4)
	if m.state.Err != nil {
		text = m.styles.failed.Render(text)
	}
	return m.styles.display.Render(text)
}

func (m *Model) viewRow(r int, row []keypad.Button) string {
	cells := make([]string, 0, 2*len(row))
	for i, btn := range row {
		if i > 0 {
			cells = append(cells, strings.Repeat(" ", gap))
		}
		s := m.styles.button
		if r == m.row && i == m.btn {
			s = m.styles.focused
		}
		w := btn.Span*cellWidth + (btn.Span-1)*gap
		cells = append(cells, s.Width(w).Render(btn.Label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// tail returns the last n runes of s, so that the end of a long expression
// stays visible.
func tail(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
