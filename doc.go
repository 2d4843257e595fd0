// Package keycalc implements a restricted arithmetic evaluator for a keypad
// calculator.
//
// Expressions use the familiar operators + - * / % ** with unary + and -,
// parentheses, and integer or decimal literals. "2^3" is the same as "2**3".
// "-2**2" is "-(2**2)", and "2**3**2" is "2**(3**2)".
//
// The parser understands a wider expression grammar than the evaluator
// accepts, so that names, calls, comparisons, strings, and operators such as
// // or ~ are rejected with a specific error rather than a generic syntax
// error. Nothing outside the arithmetic whitelist is ever evaluated. Every
// error unwraps to one of ErrSyntax, ErrUnsupportedLiteral,
// ErrUnsupportedOperator, ErrDisallowedConstruct, or ErrArithmetic.
//
// Integer arithmetic stays exact until it exceeds int64, at which point the
// result becomes a float. Division always produces a float, and float results
// with no fractional part are converted back to integers.
package keycalc
