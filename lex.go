package calc

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	num  float64
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
	// tokenNum is a number literal. The token's num holds its value.
	tokenNum
	// tokenIdent is a constant or function name.
	tokenIdent
	// tokenVar is a variable reference like $0 or $ans. The text excludes the
	// dollar sign.
	tokenVar
	// tokenOp is an operator.
	tokenOp
	// tokenOpen is an open parenthesis.
	tokenOpen
	// tokenClose is a close parenthesis.
	tokenClose
)

var tokenKindNames = [...]string{"None", "EOF", "Num", "Ident", "Var", "Op", "Open", "Close"}

func (k tokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenKindNames[k]
}

// Operators contains the runes which are considered to be operators.
const Operators = "+-*/%^"

func byteidcs(s string) []string {
	v := make([]string, len(s))
	for i, r := range s {
		v[i] = string(r)
	}
	return v
}

var operstrs = byteidcs(Operators)

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
	p    lexToken
	eof  bool
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{
		src:  src,
		rune: 1,
	}
}

// push unreads a token so that it is the next token returned from next. Panics
// if there is already a pushed token.
func (l *lexer) push(tok lexToken) {
	if l.p.kind != tokenNone {
		panic("calc: double push")
	}
	l.p = tok
}

// must scans the pushed token. Panics if there is no pushed token.
func (l *lexer) must() lexToken {
	tok := l.p
	if tok.kind == tokenNone {
		panic("calc: no pushed token")
	}
	l.p = lexToken{}
	return tok
}

// peek returns the next token without consuming it.
func (l *lexer) peek() (lexToken, error) {
	tok, err := l.next()
	if err != nil {
		return tok, err
	}
	l.push(tok)
	return tok, nil
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// next scans the next token from the input. The first time EOF is encountered,
// the result is an EOF token with a nil error. Subsequent times, if the EOF
// token is not pushed, the result is an empty token with io.EOF.
func (l *lexer) next() (lexToken, error) {
	if l.p.kind != tokenNone {
		tok := l.p
		l.p = lexToken{}
		return tok, nil
	}
	if l.eof {
		return lexToken{}, io.EOF
	}
	defer l.buf.Reset()
	var tok lexToken
	for {
		tok.pos = l.rune
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				tok.kind = tokenEOF
				l.eof = true
				return tok, nil
			}
			return tok, err
		}
		switch {
		case unicode.IsSpace(r):
			continue
		case '0' <= r && r <= '9', r == '.':
			l.unreadRune()
			if err := l.scanNum(tok.pos); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.num = parsenum(tok.text)
			tok.kind = tokenNum
			return tok, nil
		case r == '_', unicode.IsLetter(r):
			l.unreadRune()
			if err := l.scanIdent(); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenIdent
			return tok, nil
		case r == '$':
			if err := l.scanIdent(); err != nil {
				return tok, err
			}
			if l.buf.Len() == 0 {
				l.buf.WriteRune(r)
				return tok, l.error("variable", tok.pos, r)
			}
			tok.text = l.buf.String()
			tok.kind = tokenVar
			return tok, nil
		case r == '(':
			tok.text = "("
			tok.kind = tokenOpen
			return tok, nil
		case r == ')':
			tok.text = ")"
			tok.kind = tokenClose
			return tok, nil
		default:
			if k := strings.IndexRune(Operators, r); k >= 0 {
				tok.text = operstrs[k]
				tok.kind = tokenOp
				return tok, nil
			}
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return tok, l.error("", tok.pos, r)
		}
	}
}

// scanNum scans a number literal starting at column start into the buffer.
func (l *lexer) scanNum(start int) error {
	var dig, dot, e, le, ed bool
scan:
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if le && (r == '+' || r == '-') {
			// Sign of the exponent.
			le = false
			l.buf.WriteRune(r)
			continue
		}
		switch {
		case '0' <= r && r <= '9':
			if e {
				ed = true
			} else {
				dig = true
			}
			le = false
		case r == '.':
			if dot || e {
				l.buf.WriteRune(r)
				return l.error("number", l.rune-1, r)
			}
			dot = true
		case r == 'e', r == 'E':
			if !dig || e {
				l.buf.WriteRune(r)
				return l.error("number", l.rune-1, r)
			}
			e = true
			le = true
		case r == '_', unicode.IsLetter(r), unicode.IsDigit(r):
			// 2pi and 1x are not numbers, nor are they implicit products.
			l.buf.WriteRune(r)
			return l.error("number", l.rune-1, r)
		default:
			l.unreadRune()
			break scan
		}
		l.buf.WriteRune(r)
	}
	if !dig || (e && !ed) {
		return l.error("number", start, 0)
	}
	return nil
}

// parsenum converts a number the lexer has accepted to its value. Literals too
// large to represent become infinities.
func parsenum(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		panic("calc: lexed invalid number " + strconv.Quote(s) + ": " + err.Error())
	}
	return f
}

// scanIdent scans the rest of an identifier or variable name into the buffer.
func (l *lexer) scanIdent() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		switch {
		case r == '_', unicode.IsLetter(r), unicode.IsDigit(r):
			l.buf.WriteRune(r)
		default:
			l.unreadRune()
			return nil
		}
	}
}

func (l *lexer) error(kind string, col int, r rune) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Char: r,
		Col:  col,
	}
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This may be "number",
	// "variable", or the empty string (if a token kind hadn't been decided).
	Kind string
	// Char is the offending rune, or 0 if the input ended in the middle of a
	// token.
	Char rune
	// Col is the column of the offending rune, or of the start of the token if
	// the input ended in the middle of it.
	Col int
}

func (err *LexError) Error() string {
	if err.Kind == "" {
		return errpos(err.Col, "invalid character "+strconv.QuoteRune(err.Char))
	}
	return errpos(err.Col, "invalid "+err.Kind+" token "+strconv.Quote(err.Text))
}

func (err *LexError) Pos() int {
	return err.Col
}
