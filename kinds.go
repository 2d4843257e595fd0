package keycalc

import "errors"

// Kind classifies the ways evaluation can fail.
type Kind int8

const (
	// KindNone is the kind of nil and of errors that did not come from this
	// package.
	KindNone Kind = iota
	// SyntaxRejected means the input does not parse as a single arithmetic
	// expression.
	SyntaxRejected
	// UnsupportedLiteral means a literal is not an integer or float.
	UnsupportedLiteral
	// UnsupportedOperator means an operator is not in the whitelist.
	UnsupportedOperator
	// DisallowedConstruct means the expression contains a call, name,
	// attribute access, or any other non-arithmetic construct.
	DisallowedConstruct
	// ArithmeticFailure means an operation was outside its domain, e.g.
	// division by zero.
	ArithmeticFailure
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case SyntaxRejected:
		return "syntax rejected"
	case UnsupportedLiteral:
		return "unsupported literal"
	case UnsupportedOperator:
		return "unsupported operator"
	case DisallowedConstruct:
		return "disallowed construct"
	case ArithmeticFailure:
		return "arithmetic failure"
	default:
		return "invalid kind"
	}
}

// kindError is the sentinel error for a Kind.
type kindError Kind

func (err kindError) Error() string {
	return Kind(err).String()
}

// Every error from Parse, Eval, or Evaluate unwraps to exactly one of these.
var (
	ErrSyntax              error = kindError(SyntaxRejected)
	ErrUnsupportedLiteral  error = kindError(UnsupportedLiteral)
	ErrUnsupportedOperator error = kindError(UnsupportedOperator)
	ErrDisallowedConstruct error = kindError(DisallowedConstruct)
	ErrArithmetic          error = kindError(ArithmeticFailure)
)

// KindOf returns the kind of failure err represents.
func KindOf(err error) Kind {
	var k kindError
	if errors.As(err, &k) {
		return Kind(k)
	}
	return KindNone
}
