package keycalc

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Number is the result of evaluating an expression. It is either an integer
// or a floating-point value. The zero value is the integer 0.
type Number struct {
	f     float64
	i     int64
	float bool
}

// Int returns an integer Number.
func Int(i int64) Number {
	return Number{i: i}
}

// Float returns a floating-point Number.
func Float(f float64) Number {
	return Number{f: f, float: true}
}

// IsInt reports whether x is an integer. A floating-point Number with no
// fractional part is not an integer until it is normalized.
func (x Number) IsInt() bool {
	return !x.float
}

// Int64 returns the value of an integer x, or x truncated toward zero if x is
// a float. The result is undefined for floats outside the range of int64.
func (x Number) Int64() int64 {
	if x.float {
		return int64(x.f)
	}
	return x.i
}

// Float64 returns the value of x as a float64.
func (x Number) Float64() float64 {
	if x.float {
		return x.f
	}
	return float64(x.i)
}

// Equal reports whether x and y are the same kind and have the same value.
// NaN is equal to NaN.
func (x Number) Equal(y Number) bool {
	if x.float != y.float {
		return false
	}
	if !x.float {
		return x.i == y.i
	}
	if math.IsNaN(x.f) {
		return math.IsNaN(y.f)
	}
	return x.f == y.f
}

// Normalize converts a float with no fractional part into an integer, e.g. 5.0
// to 5. Floats outside the range of int64 stay floats, but String formats
// them as integers.
func (x Number) Normalize() Number {
	if !x.float || !isIntegral(x.f) {
		return x
	}
	// -2^63 is exactly representable; 2^63 is the first float too large.
	if x.f >= -(1<<63) && x.f < 1<<63 {
		return Int(int64(x.f))
	}
	return x
}

func isIntegral(f float64) bool {
	return !math.IsInf(f, 0) && f == math.Trunc(f)
}

// String formats x the way it should appear on a display. Integers and
// integral floats are decimal digits. Other floats use the shortest
// representation that parses back to the same value, in positional notation
// unless the decimal exponent is below -4 or at least 16.
func (x Number) String() string {
	if !x.float {
		return strconv.FormatInt(x.i, 10)
	}
	switch {
	case math.IsNaN(x.f):
		return "nan"
	case math.IsInf(x.f, 1):
		return "inf"
	case math.IsInf(x.f, -1):
		return "-inf"
	case isIntegral(x.f):
		// Large integral values have more digits than float64 shortest
		// formatting shows.
		return new(big.Float).SetFloat64(x.f).Text('f', 0)
	}
	e := strconv.FormatFloat(x.f, 'e', -1, 64)
	k := strings.LastIndexByte(e, 'e')
	exp, _ := strconv.Atoi(e[k+1:])
	if exp < -4 || exp >= 16 {
		return e
	}
	return strconv.FormatFloat(x.f, 'f', -1, 64)
}
