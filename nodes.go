package calc

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of an expression.
type node struct {
	kind nodeKind
	// pos is the column of the token that produced the node.
	pos int

	// num is the value of a number. name is the source text of a number, the
	// name of a variable without its $, or the name of a constant or function.
	num  float64
	name string

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum   // literal num
	nodeVar   // history entry named by name
	nodeConst // registry constant named by name
	nodeCall  // registry function named by name applied to left

	nodeNeg // negate left
	nodeAdd // left + right
	nodeSub // left - right
	nodeMul // left * right
	nodeDiv // left / right
	nodeMod // left % right
	nodePow // left ^ right
)

var nodeKindNames = [...]string{"None", "Num", "Var", "Const", "Call", "Neg", "Add", "Sub", "Mul", "Div", "Mod", "Pow"}

func (k nodeKind) String() string {
	if k < 0 || int(k) >= len(nodeKindNames) {
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
	return nodeKindNames[k]
}

// binsyms are the operator symbols for binary node kinds.
var binsyms = map[nodeKind]string{
	nodeAdd: " + ",
	nodeSub: " - ",
	nodeMul: " * ",
	nodeDiv: " / ",
	nodeMod: " % ",
	nodePow: " ^ ",
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes the node fully parenthesized, so that the result parses back to
// the same tree regardless of precedence rules.
func (n *node) fmt(b *strings.Builder) {
	b.WriteByte('(')
	defer b.WriteByte(')')
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteByte('#')
		if n.left != nil {
			n.left.fmt(b)
		}
		b.WriteByte('&')
		if n.right != nil {
			n.right.fmt(b)
		}
		b.WriteByte('#')
	case nodeNum, nodeConst:
		b.WriteString(n.name)
	case nodeVar:
		b.WriteByte('$')
		b.WriteString(n.name)
	case nodeCall:
		b.WriteString(n.name)
		n.left.fmt(b)
	case nodeNeg:
		b.WriteByte('-')
		n.left.fmt(b)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodePow:
		n.left.fmt(b)
		b.WriteString(binsyms[n.kind])
		n.right.fmt(b)
	default:
		panic("calc: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}
