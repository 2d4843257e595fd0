package keycalc

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of an expression.
type node struct {
	kind nodeKind
	// op is the operator of a nodeUnary or nodeBinary.
	op opKind
	// lit is the lexical class of a nodeLit.
	lit litKind
	// text is the literal text, name, attribute name, keyword argument name,
	// or comparison or boolean operator, depending on kind.
	text string
	// pos is the column of the token that introduced the node.
	pos int

	left  *node
	right *node
	// args holds call arguments and display elements.
	args []*node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	// Arithmetic nodes.
	nodeLit    // literal of class lit
	nodeUnary  // op applied to left
	nodeBinary // op applied to left and right

	// Everything below parses but never evaluates.
	nodeName      // text is the name
	nodeCall      // left is the callee, args are the arguments
	nodeKeyword   // keyword argument text=left inside a call
	nodeAttr      // left.text
	nodeSubscript // left[right]
	nodeCompare   // left text right
	nodeBoolOp    // left text right, text is "and" or "or"
	nodeTuple     // (args...)
	nodeList      // [args...]
	nodeSet       // {args...}
)

func (k nodeKind) String() string {
	switch k {
	case nodeNone:
		return "None"
	case nodeLit:
		return "Lit"
	case nodeUnary:
		return "Unary"
	case nodeBinary:
		return "Binary"
	case nodeName:
		return "Name"
	case nodeCall:
		return "Call"
	case nodeKeyword:
		return "Keyword"
	case nodeAttr:
		return "Attr"
	case nodeSubscript:
		return "Subscript"
	case nodeCompare:
		return "Compare"
	case nodeBoolOp:
		return "BoolOp"
	case nodeTuple:
		return "Tuple"
	case nodeList:
		return "List"
	case nodeSet:
		return "Set"
	default:
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// construct names a disallowed node kind for error messages.
func (k nodeKind) construct() string {
	switch k {
	case nodeName:
		return "name reference"
	case nodeCall:
		return "function call"
	case nodeKeyword:
		return "keyword argument"
	case nodeAttr:
		return "attribute access"
	case nodeSubscript:
		return "subscript"
	case nodeCompare:
		return "comparison"
	case nodeBoolOp:
		return "boolean operation"
	case nodeTuple:
		return "tuple"
	case nodeList:
		return "list"
	case nodeSet:
		return "set"
	default:
		return strings.ToLower(k.String())
	}
}

// litKind is the lexical class of a literal.
type litKind int8

const (
	litNone litKind = iota
	litInt
	litFloat
	litImag
	litStr
	litBool
	litNoneConst
)

func (k litKind) String() string {
	switch k {
	case litInt:
		return "integer"
	case litFloat:
		return "float"
	case litImag:
		return "imaginary"
	case litStr:
		return "string"
	case litBool:
		return "boolean"
	case litNoneConst:
		return "None"
	default:
		return "litKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// numClass classifies numeric literal text as scanned by the lexer.
func numClass(text string) litKind {
	if strings.HasSuffix(text, "j") || strings.HasSuffix(text, "J") {
		return litImag
	}
	if len(text) > 1 && text[0] == '0' && strings.ContainsAny(text[1:2], "xXoObB") {
		return litInt
	}
	if strings.ContainsAny(text, ".eE") {
		return litFloat
	}
	return litInt
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes n fully parenthesized so that the output parses to the same
// tree.
func (n *node) fmt(b *strings.Builder) {
	if n.kind == nodeKeyword {
		// Parenthesizing a keyword argument would make it an assignment.
		b.WriteString(n.text)
		b.WriteByte('=')
		n.left.fmt(b)
		return
	}
	b.WriteByte('(')
	defer b.WriteByte(')')
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
		if n.left != nil {
			n.left.fmt(b)
		}
		b.WriteByte('#')
		if n.right != nil {
			n.right.fmt(b)
		}
		b.WriteByte('$')
	case nodeLit, nodeName:
		b.WriteString(n.text)
	case nodeUnary:
		b.WriteString(n.op.String())
		if n.op == opNot {
			b.WriteByte(' ')
		}
		n.left.fmt(b)
	case nodeBinary:
		n.left.fmt(b)
		b.WriteByte(' ')
		b.WriteString(n.op.String())
		b.WriteByte(' ')
		n.right.fmt(b)
	case nodeCompare, nodeBoolOp:
		n.left.fmt(b)
		b.WriteByte(' ')
		b.WriteString(n.text)
		b.WriteByte(' ')
		n.right.fmt(b)
	case nodeCall:
		n.left.fmt(b)
		fmtargs(b, '(', ')', n.args, false)
	case nodeAttr:
		n.left.fmt(b)
		b.WriteByte('.')
		b.WriteString(n.text)
	case nodeSubscript:
		n.left.fmt(b)
		b.WriteByte('[')
		n.right.fmt(b)
		b.WriteByte(']')
	case nodeTuple:
		// A one-element tuple needs its trailing comma.
		fmtargs(b, '(', ')', n.args, len(n.args) == 1)
	case nodeList:
		fmtargs(b, '[', ']', n.args, false)
	case nodeSet:
		fmtargs(b, '{', '}', n.args, false)
	default:
		panic("keycalc: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

func fmtargs(b *strings.Builder, l, r byte, args []*node, trailing bool) {
	b.WriteByte(l)
	defer b.WriteByte(r)
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		a.fmt(b)
	}
	if trailing {
		b.WriteByte(',')
	}
}
