package keycalc

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Expr    = Or { ',' Or } [ ',' ]
// Or      = And { 'or' And }
// And     = Not { 'and' Not }
// Not     = 'not' Not | Compare
// Compare = BitOr { CmpOp BitOr }
// BitOr   = BitXor { '|' BitXor }
// BitXor  = BitAnd { '^' BitAnd }      (only with NoCaret)
// BitAnd  = Shift { '&' Shift }
// Shift   = Sum { ( '<<' | '>>' ) Sum }
// Sum     = Term { ( '+' | '-' ) Term }
// Term    = Factor { ( '*' | '/' | '//' | '%' | '@' ) Factor }
// Factor  = ( '+' | '-' | '~' ) Factor | Power
// Power   = Primary [ '**' Factor ]
// Primary = Atom { '(' Args ')' | '[' Expr ']' | '.' name }
// Atom    = num | str { str } | name | 'True' | 'False' | 'None'
//         | '(' [ Expr ] ')' | '[' [ Expr ] ']' | '{' [ Expr ] '}'
// Args    = [ Arg { ',' Arg } [ ',' ] ]
// Arg     = Or | name '=' Or
//
// Only Atom literals and the Factor, Term, Sum and Power operators are ever
// evaluated, but the parser accepts the rest so that it can be rejected by
// kind rather than as a syntax error.

// Expr is a parsed expression.
type Expr struct {
	// n is the root node of the expression.
	n *node
}

// Parse parses an expression so it can be evaluated. The given options are
// applied in order.
func Parse(src string, opts ...ParseOption) (*Expr, error) {
	var p parsectx
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	if p.maxdepth < 1 {
		p.maxdepth = DefaultMaxDepth
	}
	scan := lex(src, !p.nocaret)
	n, err := parseterm(scan, &p, exprprec)
	if err != nil {
		return nil, err
	}
	end := scan.must()
	if end.kind == tokenSep {
		// A bare comma list is a tuple, including "x,".
		elems := []*node{n}
		for end.kind == tokenSep {
			tok, err := scan.next()
			if err != nil {
				return nil, err
			}
			if tok.kind == tokenEOF {
				end = tok
				break
			}
			scan.push(tok)
			e, err := parseterm(scan, &p, exprprec)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			end = scan.must()
		}
		n = &node{kind: nodeTuple, pos: n.pos, args: elems}
	}
	if end.kind != tokenEOF {
		return nil, itShouldNotHaveEndedThisWay(end, -1)
	}
	return &Expr{n: n}, nil
}

// parseterm parses a single term. If there is no error, then parseterm pushes
// the last token it scans, including EOF.
func parseterm(scan *lexer, p *parsectx, until operator) (*node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxdepth {
		return nil, &DepthError{Col: scan.col(), Max: p.maxdepth}
	}
	n, err := parselhs(scan, p, until)
	if err != nil {
		return nil, err
	}
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenOpen:
			// Calls and subscripts bind tighter than any operator, so there
			// is no precedence check.
			switch tok.text {
			case "(":
				args, _, err := parseseq(scan, p, tok, true)
				if err != nil {
					return nil, err
				}
				n = &node{kind: nodeCall, pos: tok.pos, left: n, args: args}
			case "[":
				args, comma, err := parseseq(scan, p, tok, false)
				if err != nil {
					return nil, err
				}
				if len(args) == 0 {
					return nil, &EmptyExpressionError{Col: tok.pos + 1, End: "]"}
				}
				idx := args[0]
				if len(args) > 1 || comma {
					idx = &node{kind: nodeTuple, pos: idx.pos, args: args}
				}
				n = &node{kind: nodeSubscript, pos: tok.pos, left: n, right: idx}
			default:
				return nil, &TokenError{Col: tok.pos, Text: tok.text}
			}
		case tokenDot:
			name, err := scan.next()
			if err != nil {
				return nil, err
			}
			if name.kind != tokenIdent || keywords[name.text] {
				return nil, unexpected(name)
			}
			n = &node{kind: nodeAttr, pos: tok.pos, text: name.text, left: n}
		case tokenOp:
			if tok.text == "=" {
				// Only meaningful in an argument list; let the caller decide.
				scan.push(tok)
				return n, nil
			}
			prec := binop(tok.text)
			if prec.kind == nodeNone {
				return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: false}
			}
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			rhs, err := parseterm(scan, p, prec)
			if err != nil {
				return nil, err
			}
			n = &node{kind: prec.kind, op: prec.op, text: tok.text, pos: tok.pos, left: n, right: rhs}
		case tokenIdent:
			// Keyword operators.
			text := tok.text
			switch text {
			case "and", "or", "in", "is":
			case "not":
				// Only "not in" is a binary operator.
				text = "in"
			default:
				return nil, unexpected(tok)
			}
			prec := binop(text)
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			switch tok.text {
			case "not":
				in, err := scan.next()
				if err != nil {
					return nil, err
				}
				if in.kind != tokenIdent || in.text != "in" {
					return nil, unexpected(tok)
				}
				text = "not in"
			case "is":
				not, err := scan.next()
				if err != nil {
					return nil, err
				}
				if not.kind == tokenIdent && not.text == "not" {
					text = "is not"
				} else {
					scan.push(not)
				}
			}
			rhs, err := parseterm(scan, p, prec)
			if err != nil {
				return nil, err
			}
			n = &node{kind: prec.kind, text: text, pos: tok.pos, left: n, right: rhs}
		case tokenNum, tokenStr:
			return nil, unexpected(tok)
		case tokenClose, tokenSep, tokenEOF:
			// End of expression.
			scan.push(tok)
			return n, nil
		default:
			panic("keycalc: unknown token: " + tok.String())
		}
	}
}

// parselhs parses the first component of a term. I.e., operators are unary and
// any encountered token must be valid as the start of a subexpression.
func parselhs(scan *lexer, p *parsectx, until operator) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenNum:
		return &node{kind: nodeLit, lit: numClass(tok.text), text: tok.text, pos: tok.pos}, nil
	case tokenStr:
		// Adjacent strings concatenate into one literal.
		text := tok.text
		for {
			s, err := scan.next()
			if err != nil {
				return nil, err
			}
			if s.kind != tokenStr {
				scan.push(s)
				break
			}
			text += " " + s.text
		}
		return &node{kind: nodeLit, lit: litStr, text: text, pos: tok.pos}, nil
	case tokenIdent:
		switch tok.text {
		case "True", "False":
			return &node{kind: nodeLit, lit: litBool, text: tok.text, pos: tok.pos}, nil
		case "None":
			return &node{kind: nodeLit, lit: litNoneConst, text: tok.text, pos: tok.pos}, nil
		case "not":
			return parseunary(scan, p, until, tok)
		}
		if keywords[tok.text] {
			return nil, unexpected(tok)
		}
		return &node{kind: nodeName, text: tok.text, pos: tok.pos}, nil
	case tokenOp:
		return parseunary(scan, p, until, tok)
	case tokenOpen:
		args, comma, err := parseseq(scan, p, tok, false)
		if err != nil {
			return nil, err
		}
		switch tok.text {
		case "(":
			if len(args) == 1 && !comma {
				// Grouping.
				return args[0], nil
			}
			return &node{kind: nodeTuple, pos: tok.pos, args: args}, nil
		case "[":
			return &node{kind: nodeList, pos: tok.pos, args: args}, nil
		default:
			return &node{kind: nodeSet, pos: tok.pos, args: args}, nil
		}
	case tokenClose:
		return nil, &EmptyExpressionError{Col: tok.pos, End: tok.text}
	case tokenSep:
		return nil, &SeparatorError{Col: tok.pos, Sep: tok.text}
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos, End: ""}
	case tokenDot:
		return nil, unexpected(tok)
	default:
		panic("keycalc: unknown token: " + tok.String())
	}
}

// parseunary parses the operand of a unary operator token.
func parseunary(scan *lexer, p *parsectx, until operator, tok lexToken) (*node, error) {
	prec := unop(tok.text)
	if prec.kind == nodeNone {
		return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
	}
	if !prec.moreBinding(until) {
		if prec.op == opNot {
			// "not" cannot be an operand of anything but and, or, and not.
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
		}
		// x**-y -> x**(-y)
		// Just use the new operator's precedence to simplify.
		prec.prec, prec.right = until.prec, until.right
	}
	rhs, err := parseterm(scan, p, prec)
	if err != nil {
		return nil, err
	}
	return &node{kind: nodeUnary, op: prec.op, pos: tok.pos, left: rhs}, nil
}

// parseseq parses a comma-separated list of expressions following the open
// bracket open, through the matching close bracket. kw allows keyword
// arguments. The second result reports whether any comma appeared.
func parseseq(scan *lexer, p *parsectx, open lexToken, kw bool) ([]*node, bool, error) {
	match := rightbracket(open.text)
	var args []*node
	comma := false
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, false, err
		}
		if tok.kind == tokenClose && (len(args) == 0 || comma) {
			if tok.text != closebracket(match) {
				return nil, false, &BracketError{Col: tok.pos, Left: open.text, Right: tok.text}
			}
			return args, comma, nil
		}
		scan.push(tok)
		arg, err := parseterm(scan, p, exprprec)
		if err != nil {
			return nil, false, err
		}
		end := scan.must()
		if end.kind == tokenOp && end.text == "=" {
			if !kw || arg.kind != nodeName {
				return nil, false, &OperatorError{Col: end.pos, Operator: end.text, Unary: false}
			}
			val, err := parseterm(scan, p, exprprec)
			if err != nil {
				return nil, false, err
			}
			arg = &node{kind: nodeKeyword, text: arg.text, pos: arg.pos, left: val}
			end = scan.must()
		}
		args = append(args, arg)
		switch end.kind {
		case tokenSep:
			comma = true
		case tokenClose:
			if end.text != closebracket(match) {
				return nil, false, &BracketError{Col: end.pos, Left: open.text, Right: end.text}
			}
			return args, comma, nil
		case tokenEOF:
			return nil, false, &BracketError{Col: end.pos, Left: open.text, Right: ""}
		default:
			return nil, false, itShouldNotHaveEndedThisWay(end, match)
		}
	}
}

// rightbracket gets the closing bracket index for an opening bracket.
func rightbracket(left string) int {
	r, sz := utf8.DecodeRuneInString(left)
	k := strings.IndexRune(OpenBrackets, r)
	if k < 0 || sz != len(left) {
		panic("keycalc: invalid bracket " + strconv.Quote(left))
	}
	return k
}

// closebracket gets the closing bracket with index k.
func closebracket(k int) string {
	return CloseBrackets[k : k+1]
}

// leftbracket gets the opening bracket matching right. If right is no bracket,
// then the result is the empty string.
func leftbracket(right int) string {
	if right == -1 {
		return ""
	}
	return OpenBrackets[right : right+1]
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression. match is the bracket rune index that
// the expression should have matched, or -1 if none.
func itShouldNotHaveEndedThisWay(tok lexToken, match int) error {
	switch tok.kind {
	case tokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return &BracketError{Col: tok.pos, Left: leftbracket(match), Right: ""}
	case tokenClose:
		// A bracket could be the wrong bracket for the opening brace or any
		// bracket at the end of an input.
		return &BracketError{Col: tok.pos, Left: leftbracket(match), Right: tok.text}
	case tokenSep:
		return &SeparatorError{Col: tok.pos, Sep: tok.text}
	case tokenOp:
		// Only = ends an expression without being part of it.
		return &OperatorError{Col: tok.pos, Operator: tok.text, Unary: false}
	default:
		panic("keycalc: it really should not have ended this way: " + tok.String())
	}
}

// unexpected creates an error for a token the grammar does not allow where it
// appears.
func unexpected(tok lexToken) error {
	return &TokenError{Col: tok.pos, Text: tok.text}
}

// keywords are names that cannot be used as names.
var keywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true,
	"class": true, "continue": true, "def": true, "del": true, "elif": true,
	"else": true, "except": true, "finally": true, "for": true, "from": true,
	"global": true, "if": true, "import": true, "in": true, "is": true,
	"lambda": true, "nonlocal": true, "not": true, "or": true, "pass": true,
	"raise": true, "return": true, "try": true, "while": true, "with": true,
	"yield": true,
}

// String creates a fully parenthesized representation of the parsed
// expression.
func (e *Expr) String() string {
	return e.n.String()
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// kind is the node kind to create when this operator is selected.
	kind nodeKind
	// op is the operator of nodeUnary and nodeBinary nodes.
	op opKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has a kind of nodeNone.
func binop(text string) operator {
	switch text {
	case "or":
		return operator{1, false, nodeBoolOp, opNone}
	case "and":
		return operator{2, false, nodeBoolOp, opNone}
	case "<", ">", "==", "!=", "<=", ">=", "in", "not in", "is", "is not":
		return operator{4, false, nodeCompare, opNone}
	case "|":
		return operator{5, false, nodeBinary, opBitOr}
	case "^":
		return operator{6, false, nodeBinary, opBitXor}
	case "&":
		return operator{7, false, nodeBinary, opBitAnd}
	case "<<":
		return operator{8, false, nodeBinary, opLShift}
	case ">>":
		return operator{8, false, nodeBinary, opRShift}
	case "+":
		return operator{9, false, nodeBinary, opAdd}
	case "-":
		return operator{9, false, nodeBinary, opSub}
	case "*":
		return operator{10, false, nodeBinary, opMul}
	case "/":
		return operator{10, false, nodeBinary, opDiv}
	case "//":
		return operator{10, false, nodeBinary, opFloorDiv}
	case "%":
		return operator{10, false, nodeBinary, opMod}
	case "@":
		return operator{10, false, nodeBinary, opMatMul}
	case "**":
		return operator{13, true, nodeBinary, opPow}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has a kind of nodeNone.
func unop(text string) operator {
	switch text {
	case "not":
		return operator{3, true, nodeUnary, opNot}
	case "+":
		return operator{11, true, nodeUnary, opPos}
	case "-":
		return operator{11, true, nodeUnary, opNeg}
	case "~":
		return operator{11, true, nodeUnary, opInvert}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, nodeNone, opNone}
