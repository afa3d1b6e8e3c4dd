package calc

// DefaultMaxDepth is the default limit on nested subexpressions. Every
// parenthesized group or operand counts as one level.
const DefaultMaxDepth = 200

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	depthopt int
	negopt   struct{}
)

// parsectx holds general data for parsing.
type parsectx struct {
	// vars is the set of variable references that have been seen this parse.
	vars map[string]bool
	// depth is the current nesting depth.
	depth int
	// maxdepth is the limit on depth, or 0 for no limit.
	maxdepth int
	// neg is the precedence of unary negation.
	neg operator
}

// MaxDepth sets the limit on nested subexpressions. Parsing an expression
// nested more deeply fails with a DepthError. A limit of zero or less disables
// the check.
func MaxDepth(n int) ParseOption {
	return depthopt(n)
}

func (o depthopt) parseOption(p parsectx) parsectx {
	p.maxdepth = int(o)
	if p.maxdepth < 0 {
		p.maxdepth = 0
	}
	return p
}

// NegateAfterPower makes unary minus bind less tightly than exponentiation,
// so that -2^2 parses as -(2^2) instead of the default (-2)^2. Negation still
// binds more tightly than multiplication.
func NegateAfterPower() ParseOption {
	return negopt{}
}

func (negopt) parseOption(p parsectx) parsectx {
	p.neg = negpowprec
	return p
}
