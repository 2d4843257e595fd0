package keycalc

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Eval evaluates the expression. Integral float results are normalized to
// integers. Eval has no side effects, so it is safe to call concurrently and
// any number of times.
func (e *Expr) Eval() (Number, error) {
	r, err := e.n.eval()
	if err != nil {
		return Number{}, err
	}
	return r.Normalize(), nil
}

// Evaluate is a shortcut to parse and evaluate an expression.
func Evaluate(src string, opts ...ParseOption) (Number, error) {
	a, err := Parse(src, opts...)
	if err != nil {
		return Number{}, err
	}
	return a.Eval()
}

// eval computes the node's value. Only literals, unary operators, and binary
// operators evaluate; every other kind is rejected before its children are
// visited.
func (n *node) eval() (Number, error) {
	switch n.kind {
	case nodeLit:
		return n.literal()
	case nodeUnary:
		x, err := n.left.eval()
		if err != nil {
			return Number{}, err
		}
		f := unaryOps[n.op]
		if f == nil {
			return Number{}, &UnsupportedOperatorError{Col: n.pos, Operator: n.op.String(), Unary: true}
		}
		r, err := f(x)
		return r, n.locate(err)
	case nodeBinary:
		x, err := n.left.eval()
		if err != nil {
			return Number{}, err
		}
		y, err := n.right.eval()
		if err != nil {
			return Number{}, err
		}
		f := binaryOps[n.op]
		if f == nil {
			return Number{}, &UnsupportedOperatorError{Col: n.pos, Operator: n.op.String(), Unary: false}
		}
		r, err := f(x, y)
		return r, n.locate(err)
	case nodeNone:
		panic("keycalc: eval on invalid node")
	default:
		return Number{}, &ConstructError{Col: n.pos, Construct: n.kind.construct()}
	}
}

// locate sets the position of an arithmetic error to the node's operator.
func (n *node) locate(err error) error {
	if ae, ok := err.(*ArithmeticError); ok {
		ae.Col = n.pos
		return ae
	}
	return err
}

// literal converts a literal node to its value.
func (n *node) literal() (Number, error) {
	switch n.lit {
	case litInt:
		return parseInt(n.text, n.pos)
	case litFloat:
		f, err := strconv.ParseFloat(strings.ReplaceAll(n.text, "_", ""), 64)
		if err != nil && !isRangeErr(err) {
			// The lexer only produces valid float syntax.
			panic("keycalc: invalid number: " + n.text + " (" + err.Error() + ")")
		}
		// Out of range values are already ±Inf or 0.
		return Float(f), nil
	default:
		return Number{}, &LiteralError{Col: n.pos, Text: n.text, Lit: n.lit.String()}
	}
}

func parseInt(text string, col int) (Number, error) {
	s := strings.ReplaceAll(text, "_", "")
	base := 10
	if len(s) > 1 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 10 {
			s = s[2:]
		}
	}
	i, err := strconv.ParseInt(s, base, 64)
	if err == nil {
		return Int(i), nil
	}
	if !isRangeErr(err) {
		panic("keycalc: invalid number: " + text + " (" + err.Error() + ")")
	}
	// Integers too large for int64 become floats.
	b, ok := new(big.Int).SetString(s, base)
	if !ok {
		panic("keycalc: invalid number: " + text)
	}
	f, _ := new(big.Float).SetInt(b).Float64()
	if math.IsInf(f, 0) {
		return Number{}, &ArithmeticError{Col: col, Op: text, Reason: "integer literal too large"}
	}
	return Float(f), nil
}

func isRangeErr(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

// LiteralError is an error indicating a literal that is not an integer or
// floating-point number. It implements InputError.
type LiteralError struct {
	// Col is the position of the literal.
	Col int
	// Text is the literal as written.
	Text string
	// Lit is the kind of literal, e.g. "string".
	Lit string
}

func (err *LiteralError) Error() string {
	return errpos(err.Col, err.Lit+" literal not allowed: "+err.Text)
}

func (err *LiteralError) Pos() int {
	return err.Col
}

func (err *LiteralError) Unwrap() error {
	return ErrUnsupportedLiteral
}

// UnsupportedOperatorError is an error indicating an operator that parses but
// is not allowed in calculations, such as // or ~. It implements InputError.
type UnsupportedOperatorError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the operator.
	Operator string
	// Unary is whether the operator has one operand.
	Unary bool
}

func (err *UnsupportedOperatorError) Error() string {
	s := "binary"
	if err.Unary {
		s = "unary"
	}
	return errpos(err.Col, "unsupported "+s+" operator "+strconv.Quote(err.Operator))
}

func (err *UnsupportedOperatorError) Pos() int {
	return err.Col
}

func (err *UnsupportedOperatorError) Unwrap() error {
	return ErrUnsupportedOperator
}

// ConstructError is an error indicating a construct other than arithmetic,
// such as a function call or name. It implements InputError.
type ConstructError struct {
	// Col is the position of the construct.
	Col int
	// Construct describes the construct, e.g. "function call".
	Construct string
}

func (err *ConstructError) Error() string {
	return errpos(err.Col, err.Construct+" not allowed")
}

func (err *ConstructError) Pos() int {
	return err.Col
}

func (err *ConstructError) Unwrap() error {
	return ErrDisallowedConstruct
}
