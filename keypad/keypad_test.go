package keypad_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/keycalc"
	"github.com/zephyrtronium/keycalc/keypad"
)

func press(r keypad.Reducer, s keypad.State, keys string) keypad.State {
	for _, c := range keys {
		s = r.Apply(s, keypad.Append(c))
	}
	return s
}

func TestApply(t *testing.T) {
	r := keypad.New()

	t.Run("append", func(t *testing.T) {
		s := press(r, keypad.State{}, "2+3")
		assert.Equal(t, "2+3", s.Display)
		assert.NoError(t, s.Err)
	})

	t.Run("backspace", func(t *testing.T) {
		s := press(r, keypad.State{}, "12")
		s = r.Apply(s, keypad.Backspace)
		assert.Equal(t, "1", s.Display)
		s = r.Apply(s, keypad.Backspace)
		assert.Equal(t, "", s.Display)
		s = r.Apply(s, keypad.Backspace)
		assert.Equal(t, "", s.Display, "backspace on empty buffer")
	})

	t.Run("backspace-multibyte", func(t *testing.T) {
		s := r.Apply(keypad.State{Display: "1π"}, keypad.Backspace)
		assert.Equal(t, "1", s.Display)
	})

	t.Run("clear", func(t *testing.T) {
		s := press(r, keypad.State{}, "(1+2")
		s = r.Apply(s, keypad.Clear)
		assert.Equal(t, keypad.State{}, s)
	})

	t.Run("confirm", func(t *testing.T) {
		s := press(r, keypad.State{}, "2+3*4")
		s = r.Apply(s, keypad.Confirm)
		assert.Equal(t, keypad.State{Display: "14"}, s)
	})

	t.Run("confirm-float", func(t *testing.T) {
		s := r.Apply(keypad.State{Display: "10/4"}, keypad.Confirm)
		assert.Equal(t, "2.5", s.Display)
		s = r.Apply(keypad.State{Display: "10/2"}, keypad.Confirm)
		assert.Equal(t, "5", s.Display)
	})

	t.Run("confirm-caret", func(t *testing.T) {
		s := r.Apply(keypad.State{Display: "2^3"}, keypad.Confirm)
		assert.Equal(t, "8", s.Display)
	})

	t.Run("confirm-trims", func(t *testing.T) {
		s := r.Apply(keypad.State{Display: "  1+1 \t"}, keypad.Confirm)
		assert.Equal(t, "2", s.Display)
	})

	t.Run("confirm-empty", func(t *testing.T) {
		for _, d := range []string{"", "   "} {
			s := keypad.State{Display: d}
			assert.Equal(t, s, r.Apply(s, keypad.Confirm), "buffer %q", d)
		}
	})

	t.Run("confirm-error", func(t *testing.T) {
		s := r.Apply(keypad.State{Display: "5/0"}, keypad.Confirm)
		assert.Equal(t, keypad.ErrorDisplay, s.Display)
		require.Error(t, s.Err)
		assert.True(t, errors.Is(s.Err, keycalc.ErrArithmetic))
		assert.Equal(t, keycalc.ArithmeticFailure, keycalc.KindOf(s.Err))
	})

	t.Run("confirm-disallowed", func(t *testing.T) {
		s := r.Apply(keypad.State{Display: "__import__('os')"}, keypad.Confirm)
		assert.Equal(t, keypad.ErrorDisplay, s.Display)
		assert.Equal(t, keycalc.DisallowedConstruct, keycalc.KindOf(s.Err))
	})

	t.Run("confirm-syntax", func(t *testing.T) {
		s := r.Apply(keypad.State{Display: "2+"}, keypad.Confirm)
		assert.Equal(t, keypad.ErrorDisplay, s.Display)
		assert.Equal(t, keycalc.SyntaxRejected, keycalc.KindOf(s.Err))
	})

	t.Run("edit-clears-error", func(t *testing.T) {
		s := r.Apply(keypad.State{Display: "5/0"}, keypad.Confirm)
		require.Error(t, s.Err)
		s = r.Apply(s, keypad.Backspace)
		assert.Equal(t, "Erro", s.Display)
		assert.NoError(t, s.Err)
	})

	t.Run("chain", func(t *testing.T) {
		s := r.Apply(keypad.State{Display: "2*3"}, keypad.Confirm)
		s = press(r, s, "+1")
		s = r.Apply(s, keypad.Confirm)
		assert.Equal(t, "7", s.Display)
	})

	t.Run("zero-action", func(t *testing.T) {
		s := keypad.State{Display: "1"}
		assert.Equal(t, s, r.Apply(s, keypad.Action{}))
	})
}

func TestReducerEval(t *testing.T) {
	var got string
	r := keypad.Reducer{
		Eval: func(src string) (keycalc.Number, error) {
			got = src
			return keycalc.Int(42), nil
		},
	}
	s := r.Apply(keypad.State{Display: " anything "}, keypad.Confirm)
	assert.Equal(t, "anything", got)
	assert.Equal(t, "42", s.Display)

	got = ""
	s = r.Apply(keypad.State{Display: "1"}, keypad.Append('2'))
	assert.Equal(t, "12", s.Display)
	assert.Empty(t, got, "only Confirm evaluates")
}

func TestReducerZero(t *testing.T) {
	var r keypad.Reducer
	s := r.Apply(keypad.State{Display: "7%3"}, keypad.Confirm)
	assert.Equal(t, "1", s.Display)
}

func TestReducerOptions(t *testing.T) {
	r := keypad.New(keycalc.NoCaret())
	s := r.Apply(keypad.State{Display: "2^3"}, keypad.Confirm)
	assert.Equal(t, keypad.ErrorDisplay, s.Display)
	assert.Equal(t, keycalc.UnsupportedOperator, keycalc.KindOf(s.Err))
}

func TestKeyAction(t *testing.T) {
	cases := []struct {
		key string
		a   keypad.Action
		ok  bool
	}{
		{"0", keypad.Append('0'), true},
		{"9", keypad.Append('9'), true},
		{"+", keypad.Append('+'), true},
		{"-", keypad.Append('-'), true},
		{"*", keypad.Append('*'), true},
		{"/", keypad.Append('/'), true},
		{"(", keypad.Append('('), true},
		{")", keypad.Append(')'), true},
		{".", keypad.Append('.'), true},
		{"%", keypad.Append('%'), true},
		{"^", keypad.Append('^'), true},
		{"enter", keypad.Confirm, true},
		{"=", keypad.Confirm, true},
		{"backspace", keypad.Backspace, true},
		{"delete", keypad.Clear, true},
		{"a", keypad.Action{}, false},
		{"", keypad.Action{}, false},
		{"ctrl+c", keypad.Action{}, false},
		{"12", keypad.Action{}, false},
		{" ", keypad.Action{}, false},
	}
	for _, c := range cases {
		a, ok := keypad.KeyAction(c.key)
		assert.Equal(t, c.ok, ok, "key %q", c.key)
		assert.Equal(t, c.a, a, "key %q", c.key)
	}
}

func TestButtons(t *testing.T) {
	seen := make(map[string]bool)
	for i, row := range keypad.Buttons {
		span := 0
		for _, b := range row {
			assert.Positive(t, b.Span, "button %q", b.Label)
			assert.False(t, seen[b.Label], "duplicate button %q", b.Label)
			seen[b.Label] = true
			span += b.Span
		}
		assert.Equal(t, keypad.Columns, span, "row %d", i)
	}
	for _, label := range []string{"C", "⌫", "=", "0", "9", "+", "-", "*", "/", "%", "^", "(", ")", "."} {
		assert.True(t, seen[label], "missing button %q", label)
	}
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "Append('7')", keypad.Append('7').String())
	assert.Equal(t, "Backspace", keypad.Backspace.String())
	assert.Equal(t, "Clear", keypad.Clear.String())
	assert.Equal(t, "Confirm", keypad.Confirm.String())
}
