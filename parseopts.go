package keycalc

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	depthopt   int
	nocaretopt struct{}
)

// DefaultMaxDepth is the nesting limit used when no MaxDepth option is given.
const DefaultMaxDepth = 200

// parsectx holds general data for parsing.
type parsectx struct {
	// depth is the current nesting depth of parseterm.
	depth int
	// maxdepth is the deepest nesting allowed.
	maxdepth int
	// nocaret disables lexing ^ as **.
	nocaret bool
}

// MaxDepth limits the nesting depth of expressions. Each bracket, unary
// operator and right-associative operand adds a level. Nesting beyond the
// limit is a syntax error. A limit below 1 produces the default.
func MaxDepth(n int) ParseOption {
	return depthopt(n)
}

func (o depthopt) parseOption(p parsectx) parsectx {
	p.maxdepth = int(o)
	return p
}

// NoCaret disables treating ^ as exponentiation. With NoCaret, ^ is the
// bitwise exclusive-or operator, which is not evaluated.
func NoCaret() ParseOption {
	return nocaretopt{}
}

func (nocaretopt) parseOption(p parsectx) parsectx {
	p.nocaret = true
	return p
}
