package keycalc

import "strconv"

// OperatorError is an error indicating an operator token that cannot appear
// where the parser found it, e.g. a binary-only operator with no left
// operand. It implements InputError.
type OperatorError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the token that was not understood.
	Operator string
	// Unary is whether the parser expected a unary operator at the time.
	Unary bool
}

func (err *OperatorError) Error() string {
	s := "binary"
	if err.Unary {
		s = "unary"
	}
	return errpos(err.Col, "unknown "+s+" operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int {
	return err.Col
}

func (err *OperatorError) Unwrap() error {
	return ErrSyntax
}

// BracketError is an error indicating mismatched brackets in the
// input. It implements InputError.
type BracketError struct {
	// Col is the position of the closing bracket, or of the end of input.
	Col int
	// Left is the opening bracket.
	Left string
	// Right is the mismatched closing bracket.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	if err.Right == "" {
		return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
	}
	return errpos(err.Col, "mismatched bracket: "+err.Left+"expr"+err.Right)
}

func (err *BracketError) Pos() int {
	return err.Col
}

func (err *BracketError) Unwrap() error {
	return ErrSyntax
}

// SeparatorError is an error indicating a comma where an expression was
// expected. It implements InputError.
type SeparatorError struct {
	// Col is the position of the separator.
	Col int
	// Sep is the separator.
	Sep string
}

func (err *SeparatorError) Error() string {
	return errpos(err.Col, "invalid occurrence of separator "+strconv.Quote(err.Sep))
}

func (err *SeparatorError) Pos() int {
	return err.Col
}

func (err *SeparatorError) Unwrap() error {
	return ErrSyntax
}

// TokenError is an error indicating a well-formed token in a place where the
// grammar does not allow it, such as two numbers in a row. It implements
// InputError.
type TokenError struct {
	// Col is the position of the token.
	Col int
	// Text is the token.
	Text string
}

func (err *TokenError) Error() string {
	return errpos(err.Col, "unexpected "+strconv.Quote(err.Text))
}

func (err *TokenError) Pos() int {
	return err.Col
}

func (err *TokenError) Unwrap() error {
	return ErrSyntax
}

// EmptyExpressionError is an error indicating an empty subexpression.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "no expression at end")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

func (err *EmptyExpressionError) Unwrap() error {
	return ErrSyntax
}

// DepthError is an error indicating an expression nested more deeply than the
// parser allows.
type DepthError struct {
	// Col is the position at which the limit was exceeded.
	Col int
	// Max is the nesting limit.
	Max int
}

func (err *DepthError) Error() string {
	return errpos(err.Col, "expression nested deeper than "+strconv.Itoa(err.Max)+" levels")
}

func (err *DepthError) Pos() int {
	return err.Col
}

func (err *DepthError) Unwrap() error {
	return ErrSyntax
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the 1-based column of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*SeparatorError)(nil)
	_ InputError = (*TokenError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*DepthError)(nil)
	_ InputError = (*LexError)(nil)
	_ InputError = (*LiteralError)(nil)
	_ InputError = (*UnsupportedOperatorError)(nil)
	_ InputError = (*ConstructError)(nil)
	_ InputError = (*ArithmeticError)(nil)
)
