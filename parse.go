package calc

import (
	"io"
	"strings"
)

// Expr = Term { ('+' | '-') Term }
// Term = Power { ('*' | '/' | '%') Power }
// Power = Unary [ '^' Power ]
// Unary = '-' Unary | Primary
// Primary = num | var | ident '(' Expr ')' | ident | '(' Expr ')'
//
// With NegateAfterPower, Power = Primary [ '^' Unary ] and Unary sits between
// Term and Power instead.

// Expr is a parsed expression that can be evaluated in an Env.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// vars is the list of variable references used in the expression.
	vars []string
}

// Parse parses an expression so it can be evaluated. The expression must span
// the entire input. The given options are applied in order.
func Parse(src io.RuneScanner, opts ...ParseOption) (*Expr, error) {
	scan := lex(src)
	p := parsectx{
		vars:     make(map[string]bool),
		maxdepth: DefaultMaxDepth,
		neg:      negprec,
	}
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	n, err := parseterm(scan, &p, exprprec)
	if err != nil {
		return nil, err
	}
	switch tok := scan.must(); tok.kind {
	case tokenEOF:
	case tokenClose:
		return nil, &BracketError{Col: tok.pos, Right: tok.text}
	default:
		return nil, &TrailingInputError{Col: tok.pos, Text: tok.text}
	}
	ex := Expr{
		n:    n,
		vars: make([]string, 0, len(p.vars)),
	}
	for k := range p.vars {
		ex.vars = append(ex.vars, k)
	}
	sortstrs(ex.vars)
	return &ex, nil
}

// ParseString is a shortcut to parse an expression from a string.
func ParseString(src string, opts ...ParseOption) (*Expr, error) {
	return Parse(strings.NewReader(src), opts...)
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// parseterm parses a subexpression containing only operators more binding
// than until. If there is no error, then parseterm pushes the last token it
// scans, including EOF.
func parseterm(scan *lexer, p *parsectx, until operator) (*node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.maxdepth > 0 && p.depth > p.maxdepth {
		tok, err := scan.peek()
		if err != nil {
			return nil, err
		}
		return nil, &DepthError{Col: tok.pos, Max: p.maxdepth}
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
		if tok.kind != tokenOp {
			// Whether this ends the expression or is an error is up to the
			// caller.
			scan.push(tok)
			return n, nil
		}
		prec := binop(tok.text)
		if prec.op == nodeNone {
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
		n = &node{kind: prec.op, pos: tok.pos, left: n, right: rhs}
	}
}

// parselhs parses the first operand of a term, i.e. a primary expression
// possibly preceded by unary operators.
func parselhs(scan *lexer, p *parsectx, until operator) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenNum:
		return &node{kind: nodeNum, pos: tok.pos, num: tok.num, name: tok.text}, nil
	case tokenVar:
		p.vars["$"+tok.text] = true
		return &node{kind: nodeVar, pos: tok.pos, name: tok.text}, nil
	case tokenIdent:
		next, err := scan.peek()
		if err != nil {
			return nil, err
		}
		if next.kind == tokenOpen {
			return parsecall(scan, p, tok)
		}
		return &node{kind: nodeConst, pos: tok.pos, name: tok.text}, nil
	case tokenOp:
		prec := unop(tok.text, p.neg)
		if prec.op == nodeNone {
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
		}
		if !prec.moreBinding(until) {
			// x^-y -> x^(-y)
			// Just use the enclosing operator's precedence to simplify.
			prec.prec, prec.right = until.prec, until.right
		}
		rhs, err := parseterm(scan, p, prec)
		if err != nil {
			return nil, err
		}
		return &node{kind: prec.op, pos: tok.pos, left: rhs}, nil
	case tokenOpen:
		n, err := parseterm(scan, p, exprprec)
		if err != nil {
			return nil, err
		}
		if err := closeparen(scan, tok); err != nil {
			return nil, err
		}
		return n, nil
	case tokenClose:
		return nil, &EmptyExpressionError{Col: tok.pos, End: tok.text}
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos, End: ""}
	default:
		panic("calc: unknown token: " + tok.String())
	}
}

// parsecall parses the parenthesized argument of a call to the function named
// by fn. The next token must be the open parenthesis.
func parsecall(scan *lexer, p *parsectx, fn lexToken) (*node, error) {
	open, err := scan.next()
	if err != nil {
		return nil, err
	}
	if open.kind != tokenOpen {
		panic("calc: parsecall without open paren: " + open.String())
	}
	tok, err := scan.peek()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokenClose {
		scan.must()
		return nil, &CallError{Col: tok.pos, Func: fn.text, Len: 0}
	}
	arg, err := parseterm(scan, p, exprprec)
	if err != nil {
		return nil, err
	}
	if err := closeparen(scan, open); err != nil {
		return nil, err
	}
	return &node{kind: nodeCall, pos: fn.pos, name: fn.text, left: arg}, nil
}

// closeparen checks that the token pushed after a parenthesized subexpression
// is the close parenthesis matching open.
func closeparen(scan *lexer, open lexToken) error {
	switch end := scan.must(); end.kind {
	case tokenClose:
		return nil
	case tokenEOF:
		return &BracketError{Col: open.pos, Left: open.text}
	default:
		return &UnexpectedTokenError{Col: end.pos, Expected: ")", Found: end.text}
	}
}

// Vars returns the variable references used in the expression, like "$0" and
// "$ans", in sorted order.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.vars...)
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
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, nodeAdd}
	case "-":
		return operator{1, false, nodeSub}
	case "*":
		return operator{5, false, nodeMul}
	case "/":
		return operator{5, false, nodeDiv}
	case "%":
		return operator{5, false, nodeMod}
	case "^":
		return operator{15, true, nodePow}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string, with neg giving the
// precedence of negation. If there is no such unary operator, then the result
// has an op of nodeNone.
func unop(text string, neg operator) operator {
	switch text {
	case "-":
		return neg
	default:
		return operator{}
	}
}

var (
	// negprec is the default precedence of negation, more binding than
	// exponentiation so that -2^2 is (-2)^2.
	negprec = operator{20, true, nodeNeg}
	// negpowprec is the precedence of negation with NegateAfterPower, between
	// multiplication and exponentiation so that -2^2 is -(2^2).
	negpowprec = operator{10, true, nodeNeg}
	// exprprec is the precedence required to parse an entire subexpression.
	exprprec = operator{-128, true, nodeNone}
)
