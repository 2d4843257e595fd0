package keycalc

import (
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is an integer, real, or imaginary literal.
	tokenNum
	// tokenStr is a quoted string literal.
	tokenStr
	// tokenIdent is a name or keyword.
	tokenIdent
	// tokenOp is an operator.
	tokenOp
	// tokenOpen is an open bracket, e.g. (.
	tokenOpen
	// tokenClose is a close bracket, e.g. ).
	tokenClose
	// tokenSep is a comma.
	tokenSep
	// tokenDot is an attribute access.
	tokenDot
)

func (k tokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case tokenEOF:
		return "EOF"
	case tokenNum:
		return "Num"
	case tokenStr:
		return "Str"
	case tokenIdent:
		return "Ident"
	case tokenOp:
		return "Op"
	case tokenOpen:
		return "Open"
	case tokenClose:
		return "Close"
	case tokenSep:
		return "Sep"
	case tokenDot:
		return "Dot"
	default:
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// OpenBrackets and CloseBrackets hold the bracket pairs, matched by index.
const (
	OpenBrackets  = "([{"
	CloseBrackets = ")]}"
)

// operators lists every operator token, longest first so that the lexer
// takes ** before *.
var operators = []string{
	"**", "//", "<<", ">>", "<=", ">=", "==", "!=",
	"+", "-", "*", "/", "%", "@", "&", "|", "~", "^", "<", ">", "=",
}

type lexer struct {
	src []rune
	// at is the index of the next rune to scan.
	at int
	p  lexToken
	// caret causes ^ to lex as **.
	caret bool
}

func lex(src string, caret bool) *lexer {
	return &lexer{
		src:   []rune(src),
		caret: caret,
	}
}

// push unreads a token so that it is the next token returned from next. Panics
// if there is already a pushed token.
func (l *lexer) push(tok lexToken) {
	if l.p.kind != tokenNone {
		panic("keycalc: double push")
	}
	l.p = tok
}

// must scans the pushed token. Panics if there is no pushed token.
func (l *lexer) must() lexToken {
	tok := l.p
	if tok.kind == tokenNone {
		panic("keycalc: no pushed token")
	}
	l.p = lexToken{}
	return tok
}

// peek returns the rune k positions after the next one, or -1 past the end.
func (l *lexer) peek(k int) rune {
	if l.at+k >= len(l.src) {
		return -1
	}
	return l.src[l.at+k]
}

// col is the 1-based column of the next rune.
func (l *lexer) col() int {
	return l.at + 1
}

// next scans the next token from the input. Once the input is exhausted,
// every call returns an EOF token.
func (l *lexer) next() (lexToken, error) {
	if l.p.kind != tokenNone {
		tok := l.p
		l.p = lexToken{}
		return tok, nil
	}
	for l.at < len(l.src) && unicode.IsSpace(l.src[l.at]) {
		l.at++
	}
	tok := lexToken{pos: l.col()}
	if l.at >= len(l.src) {
		tok.kind = tokenEOF
		return tok, nil
	}
	r := l.src[l.at]
	switch {
	case isDigit(r), r == '.' && isDigit(l.peek(1)):
		text, err := l.scanNum()
		if err != nil {
			return tok, err
		}
		tok.text = text
		tok.kind = tokenNum
		return tok, nil
	case r == '.':
		l.at++
		tok.text = "."
		tok.kind = tokenDot
		return tok, nil
	case r == '_', unicode.IsLetter(r):
		tok.text = l.scanIdent()
		tok.kind = tokenIdent
		return tok, nil
	case r == '\'', r == '"':
		text, err := l.scanStr()
		if err != nil {
			return tok, err
		}
		tok.text = text
		tok.kind = tokenStr
		return tok, nil
	case r == ',':
		l.at++
		tok.text = ","
		tok.kind = tokenSep
		return tok, nil
	}
	if k := strings.IndexRune(OpenBrackets, r); k >= 0 {
		l.at++
		tok.text = string(r)
		tok.kind = tokenOpen
		return tok, nil
	}
	if k := strings.IndexRune(CloseBrackets, r); k >= 0 {
		l.at++
		tok.text = string(r)
		tok.kind = tokenClose
		return tok, nil
	}
	if r == '^' && l.caret {
		l.at++
		tok.text = "**"
		tok.kind = tokenOp
		return tok, nil
	}
	for _, op := range operators {
		if l.hasPrefix(op) {
			l.at += len(op)
			tok.text = op
			tok.kind = tokenOp
			return tok, nil
		}
	}
	// Consume the rune so that scanning can continue past the error.
	l.at++
	return tok, l.error(string(r), "", tok.pos)
}

// hasPrefix reports whether the unscanned input starts with s, which must be
// ASCII.
func (l *lexer) hasPrefix(s string) bool {
	if l.at+len(s) > len(l.src) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if l.src[l.at+i] != rune(s[i]) {
			return false
		}
	}
	return true
}

// scanNum scans a numeric literal: a decimal, hexadecimal, octal, or binary
// integer; a decimal float; or either of those followed by j for an
// imaginary literal.
func (l *lexer) scanNum() (string, error) {
	start := l.at
	if l.src[l.at] == '0' {
		var digit func(rune) bool
		switch l.peek(1) {
		case 'x', 'X':
			digit = isHexDigit
		case 'o', 'O':
			digit = isOctDigit
		case 'b', 'B':
			digit = isBinDigit
		}
		if digit != nil {
			l.at += 2
			// A single underscore may separate the prefix from the digits.
			if l.peek(0) == '_' {
				l.at++
			}
			if !l.digits(digit) {
				return "", l.numError(start)
			}
			if r := l.peek(0); isIdentRune(r) || r == '.' {
				return "", l.numError(start)
			}
			return string(l.src[start:l.at]), nil
		}
	}
	var whole, frac, exp bool
	if isDigit(l.peek(0)) {
		if !l.digits(isDigit) {
			return "", l.numError(start)
		}
		whole = true
	}
	if l.peek(0) == '.' {
		l.at++
		if isDigit(l.peek(0)) {
			if !l.digits(isDigit) {
				return "", l.numError(start)
			}
		}
		frac = true
	}
	if r := l.peek(0); r == 'e' || r == 'E' {
		l.at++
		if r := l.peek(0); r == '+' || r == '-' {
			l.at++
		}
		if !l.digits(isDigit) {
			return "", l.numError(start)
		}
		exp = true
	}
	imag := false
	if r := l.peek(0); r == 'j' || r == 'J' {
		l.at++
		imag = true
	}
	if r := l.peek(0); isIdentRune(r) || r == '.' {
		return "", l.numError(start)
	}
	text := string(l.src[start:l.at])
	if whole && !frac && !exp && !imag && len(text) > 1 && text[0] == '0' {
		// Leading zeros are only allowed on zero itself.
		if strings.Trim(text, "0_") != "" {
			return "", l.numError(start)
		}
	}
	return text, nil
}

// digits scans one or more digits, optionally separated by single
// underscores. It reports false if there are no digits or if an underscore is
// not followed by a digit.
func (l *lexer) digits(digit func(rune) bool) bool {
	if !digit(l.peek(0)) {
		return false
	}
	for {
		switch r := l.peek(0); {
		case digit(r):
			l.at++
		case r == '_':
			l.at++
			if !digit(l.peek(0)) {
				return false
			}
		default:
			return true
		}
	}
}

func (l *lexer) scanIdent() string {
	start := l.at
	for l.at < len(l.src) && isIdentRune(l.src[l.at]) {
		l.at++
	}
	return string(l.src[start:l.at])
}

// scanStr scans a single-, double-, or triple-quoted string literal. The
// result includes the quotes.
func (l *lexer) scanStr() (string, error) {
	start := l.at
	q := l.src[l.at]
	n := 1
	if l.peek(1) == q && l.peek(2) == q {
		n = 3
	}
	l.at += n
	for {
		if l.at >= len(l.src) {
			return "", l.error(string(l.src[start:]), "string", start+1)
		}
		r := l.src[l.at]
		switch {
		case r == '\\':
			l.at += 2
		case r == q && (n == 1 || l.peek(1) == q && l.peek(2) == q):
			l.at += n
			return string(l.src[start:l.at]), nil
		case r == '\n' && n == 1:
			return "", l.error(string(l.src[start:l.at]), "string", start+1)
		default:
			l.at++
		}
	}
}

// numError consumes the rest of an invalid numeric literal and returns an
// error for it.
func (l *lexer) numError(start int) error {
	for l.at < len(l.src) && (isIdentRune(l.src[l.at]) || l.src[l.at] == '.') {
		l.at++
	}
	return l.error(string(l.src[start:l.at]), "number", start+1)
}

func (l *lexer) error(text, kind string, col int) error {
	return &LexError{
		Text: text,
		Kind: kind,
		Col:  col,
	}
}

func isDigit(r rune) bool    { return '0' <= r && r <= '9' }
func isOctDigit(r rune) bool { return '0' <= r && r <= '7' }
func isBinDigit(r rune) bool { return r == '0' || r == '1' }

func isHexDigit(r rune) bool {
	return isDigit(r) || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F'
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This may be "number",
	// "string", or the empty string (if a token kind hadn't been decided).
	Kind string
	// Col is the column at which the invalid token starts.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "invalid token at " + pos + ": " + err.Text
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + err.Text
}

func (err *LexError) Pos() int {
	return err.Col
}

func (err *LexError) Unwrap() error {
	return ErrSyntax
}
