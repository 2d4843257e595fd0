package keycalc

import (
	"math"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// opKind identifies an operator. Every operator the parser recognizes has an
// opKind, but only those in unaryOps and binaryOps can be evaluated.
type opKind int8

const (
	opNone opKind = iota

	opAdd
	opSub
	opMul
	opDiv
	opMod
	opPow
	opNeg
	opPos

	opFloorDiv
	opMatMul
	opLShift
	opRShift
	opBitAnd
	opBitOr
	opBitXor
	opInvert
	opNot
)

func (o opKind) String() string {
	switch o {
	case opAdd, opPos:
		return "+"
	case opSub, opNeg:
		return "-"
	case opMul:
		return "*"
	case opDiv:
		return "/"
	case opMod:
		return "%"
	case opPow:
		return "**"
	case opFloorDiv:
		return "//"
	case opMatMul:
		return "@"
	case opLShift:
		return "<<"
	case opRShift:
		return ">>"
	case opBitAnd:
		return "&"
	case opBitOr:
		return "|"
	case opBitXor:
		return "^"
	case opInvert:
		return "~"
	case opNot:
		return "not"
	default:
		return "opKind(" + strconv.Itoa(int(o)) + ")"
	}
}

// unaryOps and binaryOps are the operator whitelist. Nothing outside them is
// ever evaluated.
var (
	unaryOps = map[opKind]func(x Number) (Number, error){
		opNeg: neg,
		opPos: pos,
	}
	binaryOps = map[opKind]func(x, y Number) (Number, error){
		opAdd: add,
		opSub: sub,
		opMul: mul,
		opDiv: div,
		opMod: mod,
		opPow: pow,
	}
)

func neg(x Number) (Number, error) {
	if !x.float {
		if x.i == math.MinInt64 {
			return Float(-float64(x.i)), nil
		}
		return Int(-x.i), nil
	}
	return Float(-x.f), nil
}

func pos(x Number) (Number, error) {
	return x, nil
}

func add(x, y Number) (Number, error) {
	if !x.float && !y.float {
		s := x.i + y.i
		// Overflow iff both operands have the sign opposite the sum.
		if (x.i^s)&(y.i^s) >= 0 {
			return Int(s), nil
		}
	}
	return Float(x.Float64() + y.Float64()), nil
}

func sub(x, y Number) (Number, error) {
	if !x.float && !y.float {
		d := x.i - y.i
		if (x.i^y.i)&(x.i^d) >= 0 {
			return Int(d), nil
		}
	}
	return Float(x.Float64() - y.Float64()), nil
}

func mul(x, y Number) (Number, error) {
	if !x.float && !y.float {
		if p, ok := mul64(x.i, y.i); ok {
			return Int(p), nil
		}
	}
	return Float(x.Float64() * y.Float64()), nil
}

// mul64 multiplies two integers and reports whether the product fits.
func mul64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a == -1 && b == math.MinInt64 || b == -1 && a == math.MinInt64 {
		return 0, false
	}
	p := a * b
	if p/b != a {
		return 0, false
	}
	return p, true
}

func div(x, y Number) (Number, error) {
	d := y.Float64()
	if d == 0 {
		return Number{}, &ArithmeticError{Op: "/", Reason: "division by zero"}
	}
	return Float(x.Float64() / d), nil
}

// mod computes the floored modulus, which has the sign of y.
func mod(x, y Number) (Number, error) {
	if !x.float && !y.float {
		if y.i == 0 {
			return Number{}, &ArithmeticError{Op: "%", Reason: "modulo by zero"}
		}
		if y.i == -1 {
			// Avoid overflow on MinInt64 % -1.
			return Int(0), nil
		}
		r := x.i % y.i
		if r != 0 && (r < 0) != (y.i < 0) {
			r += y.i
		}
		return Int(r), nil
	}
	a, b := x.Float64(), y.Float64()
	if b == 0 {
		return Number{}, &ArithmeticError{Op: "%", Reason: "modulo by zero"}
	}
	r := math.Mod(a, b)
	if r != 0 {
		if (r < 0) != (b < 0) {
			r += b
		}
	} else {
		r = math.Copysign(0, b)
	}
	return Float(r), nil
}

func pow(x, y Number) (Number, error) {
	if !x.float && !y.float {
		if y.i >= 0 {
			if p, ok := ipow(x.i, y.i); ok {
				return Int(p), nil
			}
			r := math.Pow(float64(x.i), float64(y.i))
			if math.IsInf(r, 0) {
				return Number{}, &ArithmeticError{Op: "**", Reason: "result too large"}
			}
			return Float(r), nil
		}
		if x.i == 0 {
			return Number{}, &ArithmeticError{Op: "**", Reason: "zero cannot be raised to a negative power"}
		}
	}
	return fpow(x.Float64(), y.Float64())
}

// ipow computes a^b for b >= 0 by squaring and reports whether the result fits.
func ipow(a, b int64) (int64, bool) {
	r := int64(1)
	ok := true
	for b > 0 {
		if b&1 != 0 {
			if r, ok = mul64(r, a); !ok {
				return 0, false
			}
		}
		b >>= 1
		if b == 0 {
			break
		}
		if a, ok = mul64(a, a); !ok {
			return 0, false
		}
	}
	return r, true
}

func fpow(a, b float64) (Number, error) {
	finite := !math.IsInf(a, 0) && !math.IsNaN(a) && !math.IsInf(b, 0) && !math.IsNaN(b)
	integral := b == math.Trunc(b)
	switch {
	case b == 0:
		return Float(1), nil
	case a == 0 && b < 0 && !math.IsInf(b, 0):
		return Number{}, &ArithmeticError{Op: "**", Reason: "zero cannot be raised to a negative power"}
	case a < 0 && finite && !integral:
		return Number{}, &ArithmeticError{Op: "**", Reason: "negative number cannot be raised to a fractional power"}
	}
	r := math.Pow(a, b)
	if math.IsInf(r, 0) && finite {
		return Number{}, &ArithmeticError{Op: "**", Reason: "result too large"}
	}
	if a > 0 && finite && !integral && r != 0 && !math.IsInf(r, 0) {
		r = refinePow(a, b, r)
	}
	return Float(r), nil
}

// powPrec is the precision in bits of the intermediate used to round
// non-integer powers.
const powPrec = 64

// refinePow recomputes a^b with extra precision and rounds to float64. approx
// is the float64 result, used if the high-precision computation fails. a must
// be positive and finite, and a^b must be finite and nonzero.
func refinePow(a, b, approx float64) (r float64) {
	defer func() {
		if recover() != nil {
			r = approx
		}
	}()
	x := new(big.Float).SetPrec(powPrec).SetFloat64(a)
	y := new(big.Float).SetPrec(powPrec).SetFloat64(b)
	z := new(big.Float).SetPrec(powPrec)
	bigfloat.Pow(z, x, y)
	r, _ = z.Float64()
	if r == 0 || math.IsInf(r, 0) || math.IsNaN(r) {
		return approx
	}
	return r
}

// ArithmeticError is an error returned when an operator is applied to
// operands outside its domain. It implements InputError.
type ArithmeticError struct {
	// Col is the position of the operator.
	Col int
	// Op is the operator.
	Op string
	// Reason describes the failure.
	Reason string
}

func (err *ArithmeticError) Error() string {
	return errpos(err.Col, err.Op+": "+err.Reason)
}

func (err *ArithmeticError) Pos() int {
	return err.Col
}

func (err *ArithmeticError) Unwrap() error {
	return ErrArithmetic
}
