package calc

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"testing"
)

// diff finds the first in-order node of n that differs from m, or nil, nil if
// the two ASTs are equal. If any node is nodeNone, it is returned.
func (n *node) diff(m *node) (*node, *node) {
	if n == nil {
		if m != nil {
			return n, m
		}
		return nil, nil
	}
	if m == nil {
		return n, m
	}
	if n.kind == nodeNone || m.kind == nodeNone {
		return n, m
	}
	if n.kind != m.kind {
		return n, m
	}
	switch n.kind {
	case nodeNum:
		if n.num != m.num {
			return n, m
		}
	case nodeVar, nodeConst:
		if n.name != m.name {
			return n, m
		}
	case nodeCall:
		if n.name != m.name {
			return n, m
		}
		return n.left.diff(m.left)
	case nodeNeg:
		return n.left.diff(m.left)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodePow:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
		return n.right.diff(m.right)
	default:
		panic(fmt.Errorf("invalid node kind: n=%+v m=%+v", n, m))
	}
	return nil, nil
}

func TestOpPrecsExist(t *testing.T) {
	for _, r := range Operators {
		if b := binop(string(r)); b.op == nodeNone {
			t.Errorf("no binary operator for %c", r)
		}
	}
	if u := unop("-", negprec); u.op != nodeNeg {
		t.Errorf("unary - gives %v", u.op)
	}
}

func TestNegationPrecs(t *testing.T) {
	pow := binop("^")
	mul := binop("*")
	if !negprec.moreBinding(pow) {
		t.Errorf("default negation %v should bind more tightly than ^ %v", negprec, pow)
	}
	if negpowprec.moreBinding(pow) || !negpowprec.moreBinding(mul) {
		t.Errorf("negation %v should be between * %v and ^ %v", negpowprec, mul, pow)
	}
}

func TestParseTrees(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{"paren", "(x)", "x"},
		{"multi", "((((x))))", "x"},
		{"space", " 1 +\t2 ", "1+2"},

		{"neg", "-x", "(-(x))"},
		{"negnum", "-1", "(-(1))"},
		{"add", "x+y", "((x)+(y))"},
		{"sub", "x-y", "((x)-(y))"},
		{"mul", "x*y", "((x)*(y))"},
		{"div", "x/y", "((x)/(y))"},
		{"mod", "x%y", "((x)%(y))"},
		{"pow", "x^y", "((x)^(y))"},
		{"call", "sin(x)", "sin((x))"},
		{"call-expr", "sin(x+y)*z", "(sin(x+y))*z"},
		{"vars", "$0+$ans", "($0)+($ans)"},
		{"sci", "1.5e3", "1500"},

		{"add4", "w+x+y+z", "((w+x)+y)+z"},
		{"sub4", "w-x-y-z", "((w-x)-y)-z"},
		{"mul4", "w*x*y*z", "((w*x)*y)*z"},
		{"div4", "w/x/y/z", "((w/x)/y)/z"},
		{"mod4", "w%x%y%z", "((w%x)%y)%z"},
		{"pow4", "w^x^y^z", "w^(x^(y^z))"},
		{"muldivmod", "w*x/y%z", "((w*x)/y)%z"},
		{"addsub", "w+x-y+z", "((w+x)-y)+z"},

		{"negpow", "-1^n", "(-1)^n"},
		{"negpowneg", "-x^-y^-z", "(-x)^((-y)^(-z))"},
		{"desc", "w^x*y+z", "((w^x)*y)+z"},
		{"asc", "w+x*y^z", "w+(x*(y^z))"},
		{"descasc", "w^x*y+z+a*b^c", "(((w^x)*y)+z)+(a*(b^c))"},
		{"ascdesc", "w+x*y^z^a*b+c", "(w+((x*(y^(z^a)))*b))+c"},
		{"negneg", "--x", "-(-x)"},
		{"negsub", "-x-x", "(-x)-x"},
		{"subneg", "x--x", "x-(-x)"},
		{"powneg", "x^-1", "x^(-1)"},
		{"mulneg", "x*-y", "x*(-y)"},
		{"negmul", "-x*y", "(-x)*y"},
		{"negcallpow", "-sin(x)^2", "(-(sin(x)))^2"},
		{"callpow", "sin(x)^2", "(sin(x))^2"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.a)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.a, err)
			}
			b, err := ParseString(c.b)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.b, err)
			}
			d, e := a.n.diff(b.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\t%q parses %v has %v\n\t%q parses %v has %v", c.a, a.n, d, c.b, b.n, e)
			}
		})
	}
}

func TestParseNegateAfterPower(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{"negpow", "-1^n", "-(1^n)"},
		{"negpowneg", "-x^-y^-z", "-(x^(-(y^(-z))))"},
		{"powneg", "x^-1", "x^(-1)"},
		{"negmul", "-x*y", "(-x)*y"},
		{"negnegpow", "--x^2", "-(-(x^2))"},
		{"negsub", "-x-x", "(-x)-x"},
		{"mulnegpow", "2*-x^2", "2*(-(x^2))"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.a, NegateAfterPower())
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.a, err)
			}
			b, err := ParseString(c.b, NegateAfterPower())
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.b, err)
			}
			d, e := a.n.diff(b.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\t%q parses %v has %v\n\t%q parses %v has %v", c.a, a.n, d, c.b, b.n, e)
			}
		})
	}
}

func TestParseExact(t *testing.T) {
	cases := []struct {
		name string
		src  string
		n    *node
	}{
		{
			name: "call",
			src:  "sin(x)",
			n: &node{
				kind: nodeCall,
				name: "sin",
				left: &node{
					kind: nodeConst,
					name: "x",
				},
			},
		},
		{
			name: "num",
			src:  "1.5e3",
			n: &node{
				kind: nodeNum,
				num:  1500,
			},
		},
		{
			name: "ans",
			src:  "$ans",
			n: &node{
				kind: nodeVar,
				name: "ans",
			},
		},
		{
			name: "negpow",
			src:  "-2^2",
			n: &node{
				kind: nodePow,
				left: &node{
					kind: nodeNeg,
					left: &node{
						kind: nodeNum,
						num:  2,
					},
				},
				right: &node{
					kind: nodeNum,
					num:  2,
				},
			},
		},
		{
			name: "group",
			src:  "(1 + $0) % pi",
			n: &node{
				kind: nodeMod,
				left: &node{
					kind: nodeAdd,
					left: &node{
						kind: nodeNum,
						num:  1,
					},
					right: &node{
						kind: nodeVar,
						name: "0",
					},
				},
				right: &node{
					kind: nodeConst,
					name: "pi",
				},
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			d, e := a.n.diff(c.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\twant %v which has %v\n\tgot  %v which has %v from %q", c.n, e, a.n, d, c.src)
			}
		})
	}
}

func TestParsePositions(t *testing.T) {
	a, err := ParseString("1 + sin($0)")
	if err != nil {
		t.Fatal(err)
	}
	n := a.n
	if n.kind != nodeAdd || n.pos != 3 {
		t.Errorf("root should be Add at 3, got %v at %d", n.kind, n.pos)
	}
	if n.left.pos != 1 {
		t.Errorf("1 should be at 1, got %d", n.left.pos)
	}
	if n.right.kind != nodeCall || n.right.pos != 5 {
		t.Errorf("call should be at 5, got %v at %d", n.right.kind, n.right.pos)
	}
	if n.right.left.pos != 9 {
		t.Errorf("$0 should be at 9, got %d", n.right.left.pos)
	}
}

func TestExprString(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"paren", "(x)"},
		{"multi", "((((x))))"},

		{"neg", "-x"},
		{"negnum", "-1"},
		{"add", "x+y"},
		{"sub", "x-y"},
		{"mul", "x*y"},
		{"div", "x/y"},
		{"mod", "x%y"},
		{"pow", "x^y"},
		{"call", "sin(x)"},
		{"vars", "$0 * $ans"},
		{"nums", "1. + .5 + 1e3 + 2.5E-2"},

		{"add4", "w+x+y+z"},
		{"sub4", "w-x-y-z"},
		{"mul4", "w*x*y*z"},
		{"div4", "w/x/y/z"},
		{"pow4", "w^x^y^z"},

		{"negpow", "-1^n"},
		{"desc", "w^x*y+z"},
		{"asc", "w+x*y^z"},
		{"descasc", "w^x*y+z+a*b^c"},
		{"ascdesc", "w+x*y^z^a*b+c"},
		{"negneg", "--x"},
		{"negsub", "-x-x"},
		{"powneg", "x^-1"},
		{"pownegpow", "x^-y^-z"},
		{"callneg", "-sin(-x)^2"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			s := a.String()
			b, err := ParseString(s)
			if err != nil {
				t.Fatalf("%q -> %q failed to parse: %v", c.src, s, err)
			}
			d, e := a.n.diff(b.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\t%q parses %v has %v\n\t%q parses %v has %v", c.src, a.n, d, s, b.n, e)
			}
			// The printed form must not depend on the negation rule.
			b, err = ParseString(s, NegateAfterPower())
			if err != nil {
				t.Fatalf("%q -> %q failed to parse: %v", c.src, s, err)
			}
			d, e = a.n.diff(b.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST with NegateAfterPower:\n\t%q parses %v has %v\n\t%q parses %v has %v", c.src, a.n, d, s, b.n, e)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	deep := strings.Repeat("(", 300) + "1" + strings.Repeat(")", 300)
	cases := []struct {
		name string
		src  string
		err  InputError
		res  []string
		excl []string
	}{
		{"empty", "", new(EmptyExpressionError), []string{`(?i)\b(no|empty)\b.*\bexpression\b`}, []string{`(?i)\bend\b`}},
		{"blank", "   ", new(EmptyExpressionError), []string{`(?i)\b(no|empty)\b.*\bexpression\b`}, nil},
		{"emptyparen", "()", new(EmptyExpressionError), []string{`(?i)\b(no|empty)\b.*\bexpression\b`, `\)`}, nil},
		{"emptyoperand", "1 +", new(EmptyExpressionError), []string{`(?i)\b(no|empty)\b.*\bexpression\b`, `(?i)\bend\b`}, nil},
		{"emptyoperand-space", "1 + ", new(EmptyExpressionError), []string{`(?i)\bend\b`}, nil},
		{"emptyunary", "x*-", new(EmptyExpressionError), []string{`(?i)\bend\b`}, nil},
		{"emptyclose", "1+)", new(EmptyExpressionError), []string{`\)`}, nil},
		{"left", "(x", new(BracketError), []string{`(?i)\bbracket\b`, `\(`}, nil},
		{"left-nested", "((x)", new(BracketError), []string{`(?i)\bbracket\b`, `\(`}, nil},
		{"right", "x)", new(BracketError), []string{`(?i)\bbracket\b`, `\)`}, nil},
		{"call-left", "sin(1", new(BracketError), []string{`(?i)\bbracket\b`, `\(`}, nil},
		{"call-eof", "sin(", new(EmptyExpressionError), []string{`(?i)\bend\b`}, nil},
		{"nonunary", "*x", new(OperatorError), []string{`(?i)\bunary\b`, `(?i)\bop`, `\*`}, nil},
		{"nonunary-mid", "1 + * 2", new(OperatorError), []string{`(?i)\bunary\b`, `\*`}, nil},
		{"plus", "+1", new(OperatorError), []string{`(?i)\bunary\b`, `\+`}, nil},
		{"trailing", "1 2", new(TrailingInputError), []string{`"2"`}, nil},
		{"trailing-call", "sin 2", new(TrailingInputError), []string{`"2"`}, nil},
		{"trailing-paren", "2(3)", new(TrailingInputError), []string{`"\("`}, nil},
		{"trailing-var", "$0 $1", new(TrailingInputError), []string{`"1"`}, nil},
		{"unexpected", "(1 2)", new(UnexpectedTokenError), []string{`"\)"`, `"2"`}, nil},
		{"call-unexpected", "sin(1 x)", new(UnexpectedTokenError), []string{`"\)"`, `"x"`}, nil},
		{"call0", "sin()", new(CallError), []string{`(?i)\bcall\b`, `\bsin\b`, `\b0\b`}, nil},
		{"lexer", "1 & 2", new(LexError), []string{`'&'`}, nil},
		{"lexer-num", "2pi", new(LexError), []string{`(?i)\bnumber\b`}, nil},
		{"lexer-var", "2^exp(-$)", new(LexError), []string{`(?i)\bvariable\b`}, nil},
		{"lexer-comma", "pow(2, 3)", new(LexError), []string{`','`}, nil},
		{"deep", deep, new(DepthError), []string{`\b200\b`}, nil},
		{"deep-neg", strings.Repeat("-", 300) + "1", new(DepthError), []string{`\b200\b`}, nil},
		{"deep-pow", strings.Repeat("2^", 300) + "1", new(DepthError), []string{`\b200\b`}, nil},

		// Cases identified with fuzzing.
		{"op-paren", "(b*)", new(EmptyExpressionError), []string{`\)`}, nil},
		{"haskell", "(+)", new(OperatorError), []string{`\+`}, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src)
			if a != nil {
				t.Errorf("%q parsed non-nil to %v", c.src, a.n)
			}
			if reflect.TypeOf(err) != reflect.TypeOf(c.err) {
				t.Errorf("wrong error type from %q: want %T, got %T", c.src, c.err, err)
			}
			if err == nil {
				return
			}
			msg := err.Error()
			for _, re := range c.res {
				if !regexp.MustCompile(re).MatchString(msg) {
					t.Errorf("error message %q does not match %s", msg, re)
				}
			}
			for _, re := range c.excl {
				if regexp.MustCompile(re).MatchString(msg) {
					t.Errorf("error message %q matches %s", msg, re)
				}
			}
		})
	}
}

func TestParseErrorPos(t *testing.T) {
	cases := []struct {
		name string
		src  string
		pos  int
	}{
		{"empty", "", 1},
		{"end", "1 + ", 5},
		{"close", "1 + )", 5},
		{"unmatched-left", "2 * (1 + 2", 5},
		{"unmatched-right", "(1)) + 2", 4},
		{"trailing", "1 + 2 3", 7},
		{"call0", "1 + sin()", 9},
		{"operator", "1 + / 2", 5},
		{"lex", "1 + 2 & 3", 7},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseString(c.src)
			ie, ok := err.(InputError)
			if !ok {
				t.Fatalf("%q gave %#v, not an InputError", c.src, err)
			}
			if ie.Pos() != c.pos {
				t.Errorf("%q gave error %v at %d, want %d", c.src, err, ie.Pos(), c.pos)
			}
		})
	}
}

func TestMaxDepth(t *testing.T) {
	nest := func(n int) string {
		return strings.Repeat("(", n) + "1" + strings.Repeat(")", n)
	}
	if _, err := ParseString(nest(4), MaxDepth(5)); err != nil {
		t.Errorf("4 parens with limit 5: %v", err)
	}
	_, err := ParseString(nest(5), MaxDepth(5))
	if de, ok := err.(*DepthError); !ok || de.Max != 5 {
		t.Errorf("5 parens with limit 5 gave %#v", err)
	}
	if _, err := ParseString(nest(150)); err != nil {
		t.Errorf("150 parens with default limit: %v", err)
	}
	if _, err := ParseString(nest(5000), MaxDepth(0)); err != nil {
		t.Errorf("5000 parens with no limit: %v", err)
	}
	// Long flat chains don't nest.
	long := strings.Repeat("1+", 5000) + "1"
	if _, err := ParseString(long); err != nil {
		t.Errorf("long sum: %v", err)
	}
}

func TestParseVars(t *testing.T) {
	cases := []struct {
		name string
		src  string
		vars []string
	}{
		{"none", "1+2+pi", nil},
		{"one", "1+2+$0", []string{"$0"}},
		{"sort", "$ans+$2+$10+$1", []string{"$1", "$10", "$2", "$ans"}},
		{"reuse", "$0*$0+sin($0)", []string{"$0"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src)
			if err != nil {
				t.Fatalf("%q didn't parse: %v", c.src, err)
			}
			vars := a.Vars()
			if len(vars) == 0 && len(c.vars) == 0 {
				return
			}
			if !reflect.DeepEqual(vars, c.vars) {
				t.Errorf("%q gave wrong variable names:\n\twant %q\n\tgot  %q", c.src, c.vars, vars)
			}
		})
	}
}

func BenchmarkParse(b *testing.B) {
	cases := []struct {
		name string
		src  string
	}{
		{"descasc", "w^x*y+z+a*b^c"},
		{"descasc-parens", "(((w^x)*y)+z)+a*(b^c)"},
		{"ascdesc", "w+x*y^z^a*b+c"},
		{"ascdesc-parens", "w+((x*(y^(z^a)))*b)+c"},
		{"descasc-nums", "1^1.1*1.1e1+1.1e-1+.1*inf^inf"},
		{"call", "sin(pi/2)"},
		{"vars", "$0 + $1 * $ans"},
	}
	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			b.ReportAllocs()
			var src strings.Reader
			for i := 0; i < b.N; i++ {
				src.Reset(c.src)
				Parse(&src)
			}
		})
	}
}
