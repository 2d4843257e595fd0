// Package keypad implements the display buffer of a keypad calculator as a
// reducer over button and key actions.
//
// Only Confirm evaluates anything. Every other action edits the buffer
// directly.
package keypad

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/zephyrtronium/keycalc"
)

// ErrorDisplay is shown in place of the buffer when a confirmed expression
// fails to evaluate.
const ErrorDisplay = "Error"

// State is the calculator state between actions.
type State struct {
	// Display is the expression buffer or the result of the last Confirm.
	Display string
	// Err is the failure from the last Confirm, if it failed. It is cleared
	// by any action that edits the buffer.
	Err error
}

type actionKind int8

const (
	actNone actionKind = iota
	actAppend
	actBackspace
	actClear
	actConfirm
)

// Action is a button press or key press.
type Action struct {
	kind actionKind
	r    rune
}

// Append returns an action that appends r to the buffer.
func Append(r rune) Action {
	return Action{kind: actAppend, r: r}
}

var (
	// Backspace deletes the last character of the buffer.
	Backspace = Action{kind: actBackspace}
	// Clear empties the buffer.
	Clear = Action{kind: actClear}
	// Confirm evaluates the buffer and replaces it with the result.
	Confirm = Action{kind: actConfirm}
)

func (a Action) String() string {
	switch a.kind {
	case actAppend:
		return "Append(" + strconv.QuoteRune(a.r) + ")"
	case actBackspace:
		return "Backspace"
	case actClear:
		return "Clear"
	case actConfirm:
		return "Confirm"
	default:
		return "Action(" + strconv.Itoa(int(a.kind)) + ")"
	}
}

// Reducer applies actions to states.
type Reducer struct {
	// Eval evaluates the buffer on Confirm. If it is nil, keycalc.Evaluate is
	// used with no options.
	Eval func(src string) (keycalc.Number, error)
}

// New creates a Reducer that evaluates with the given parse options.
func New(opts ...keycalc.ParseOption) Reducer {
	return Reducer{
		Eval: func(src string) (keycalc.Number, error) {
			return keycalc.Evaluate(src, opts...)
		},
	}
}

// Apply returns the state that results from applying a to s.
func (r Reducer) Apply(s State, a Action) State {
	switch a.kind {
	case actNone:
		return s
	case actAppend:
		return State{Display: s.Display + string(a.r)}
	case actBackspace:
		_, n := utf8.DecodeLastRuneInString(s.Display)
		return State{Display: s.Display[:len(s.Display)-n]}
	case actClear:
		return State{}
	case actConfirm:
		return r.confirm(s)
	default:
		panic("keycalc/keypad: invalid action " + a.String())
	}
}

func (r Reducer) confirm(s State) State {
	src := strings.TrimSpace(s.Display)
	if src == "" {
		return s
	}
	eval := r.Eval
	if eval == nil {
		eval = func(src string) (keycalc.Number, error) { return keycalc.Evaluate(src) }
	}
	v, err := eval(src)
	if err != nil {
		return State{Display: ErrorDisplay, Err: err}
	}
	return State{Display: v.String()}
}

// appendKeys are the keyboard characters that append themselves.
const appendKeys = "0123456789+-*/().%^"

// KeyAction maps a key name to an action. Names are single characters for
// printable keys, or "enter", "backspace", and "delete". The second result
// is false for keys with no action.
func KeyAction(key string) (Action, bool) {
	switch key {
	case "enter", "=":
		return Confirm, true
	case "backspace":
		return Backspace, true
	case "delete":
		return Clear, true
	}
	r, n := utf8.DecodeRuneInString(key)
	if n == 0 || n != len(key) || !strings.ContainsRune(appendKeys, r) {
		return Action{}, false
	}
	return Append(r), true
}

// Button is a key on the calculator keypad.
type Button struct {
	// Label is the text on the button.
	Label string
	// Action is the action the button performs.
	Action Action
	// Span is the number of grid columns the button occupies.
	Span int
}

// Columns is the width of the keypad grid.
const Columns = 4

func char(r rune) Button {
	return Button{Label: string(r), Action: Append(r), Span: 1}
}

// Buttons is the keypad layout by row. Every row spans Columns columns.
var Buttons = [][]Button{
	{{"C", Clear, 1}, {"⌫", Backspace, 1}, char('%'), char('/')},
	{char('7'), char('8'), char('9'), char('*')},
	{char('4'), char('5'), char('6'), char('-')},
	{char('1'), char('2'), char('3'), char('+')},
	{char('('), char('0'), char('.'), char(')')},
	{char('^'), {"=", Confirm, 3}},
}
