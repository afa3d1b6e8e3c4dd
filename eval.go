package calc

import (
	"io"
	"math"
	"strconv"
	"strings"
)

// Env is an environment for evaluating expressions: a registry of constants
// and functions and a history of results that variables refer to. Evaluating
// an expression never modifies an Env.
type Env struct {
	reg    *Registry
	hist   []float64
	strict bool
}

// EnvOption is an option used when creating an environment.
type EnvOption interface {
	envOption()
}

type (
	regopt    struct{ reg *Registry }
	histopt   []float64
	strictopt struct{}
)

func (regopt) envOption()    {}
func (histopt) envOption()   {}
func (strictopt) envOption() {}

// SharedOption is an option for both environments and calculators.
type SharedOption interface {
	EnvOption
	Option
}

// UseRegistry sets the registry used to look up constants and functions. The
// default is DefaultRegistry().
func UseRegistry(reg *Registry) SharedOption {
	return regopt{reg}
}

// History sets the results that $0, $1, ... refer to. The last one is $ans.
// The environment uses vals without copying it.
func History(vals ...float64) EnvOption {
	return histopt(vals)
}

// StrictDomain makes evaluation fail with a DomainError on division or modulo
// by zero and when ^ or a function produces NaN from operands that are not
// NaN, e.g. (-1)^0.5 or sqrt(-1). By default such results are ordinary
// float64 values. Overflow to infinity is never an error.
func StrictDomain() SharedOption {
	return strictopt{}
}

// NewEnv creates a new evaluation environment.
func NewEnv(opts ...EnvOption) *Env {
	env := Env{reg: defaultRegistry}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case regopt:
			if opt.reg != nil {
				env.reg = opt.reg
			}
		case histopt:
			env.hist = opt
		case strictopt:
			env.strict = true
		default:
			panic("calc: unknown env option type")
		}
	}
	return &env
}

// Eval evaluates an expression and returns the result.
func (env *Env) Eval(e *Expr) (float64, error) {
	return e.n.eval(env)
}

// lookup finds the value of a variable reference.
func (env *Env) lookup(n *node) (float64, error) {
	if n.name == "ans" {
		if len(env.hist) == 0 {
			return 0, &NameError{Col: n.pos, Name: "$" + n.name, Len: 0}
		}
		return env.hist[len(env.hist)-1], nil
	}
	for _, r := range n.name {
		if r < '0' || r > '9' {
			return 0, &NameError{Col: n.pos, Name: "$" + n.name, Len: len(env.hist)}
		}
	}
	k, err := strconv.Atoi(n.name)
	if err != nil || k >= len(env.hist) {
		return 0, &NameError{Col: n.pos, Name: "$" + n.name, Len: len(env.hist)}
	}
	return env.hist[k], nil
}

// checkdiv applies the domain policy to the result r of dividing l by d.
func (env *Env) checkdiv(n *node, fn string, r, l, d float64) (float64, error) {
	if env.strict && d == 0 && !math.IsNaN(l) && !math.IsInf(l, 0) {
		return 0, &DomainError{Col: n.pos, X: d, Func: fn}
	}
	return r, nil
}

// checknan applies the domain policy to the result r of applying fn to x.
// The first of x is reported as the out-of-domain argument.
func (env *Env) checknan(n *node, fn string, r float64, x ...float64) (float64, error) {
	if !env.strict || !math.IsNaN(r) {
		return r, nil
	}
	for _, v := range x {
		if math.IsNaN(v) {
			return r, nil
		}
	}
	return 0, &DomainError{Col: n.pos, X: x[0], Func: fn}
}

// eval computes the node's value.
func (n *node) eval(env *Env) (float64, error) {
	switch n.kind {
	case nodeNum:
		return n.num, nil
	case nodeVar:
		return env.lookup(n)
	case nodeConst:
		v, ok := env.reg.Const(n.name)
		if !ok {
			return 0, &ConstError{Col: n.pos, Name: n.name}
		}
		return v, nil
	case nodeCall:
		fn, ok := env.reg.Func(n.name)
		if !ok {
			return 0, &FuncError{Col: n.pos, Name: n.name}
		}
		x, err := n.left.eval(env)
		if err != nil {
			return 0, err
		}
		return env.checknan(n, n.name, fn(x), x)
	case nodeNeg:
		x, err := n.left.eval(env)
		if err != nil {
			return 0, err
		}
		return -x, nil
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodePow:
		l, err := n.left.eval(env)
		if err != nil {
			return 0, err
		}
		r, err := n.right.eval(env)
		if err != nil {
			return 0, err
		}
		switch n.kind {
		case nodeAdd:
			return l + r, nil
		case nodeSub:
			return l - r, nil
		case nodeMul:
			return l * r, nil
		case nodeDiv:
			return env.checkdiv(n, "/", l/r, l, r)
		case nodeMod:
			return env.checkdiv(n, "%", math.Mod(l, r), l, r)
		default:
			return env.checknan(n, "^", math.Pow(l, r), l, r)
		}
	default:
		panic("calc: invalid AST node " + n.kind.String())
	}
}

// Eval is a shortcut to parse an expression and return its result.
func Eval(src io.RuneScanner, opts ...EnvOption) (float64, error) {
	a, err := Parse(src)
	if err != nil {
		return 0, err
	}
	return NewEnv(opts...).Eval(a)
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, opts ...EnvOption) (float64, error) {
	return Eval(strings.NewReader(src), opts...)
}

// NameError is an error from a variable reference that names no result. It
// implements InputError.
type NameError struct {
	// Col is the position of the reference.
	Col int
	// Name is the variable, including its $.
	Name string
	// Len is the number of results that were available.
	Len int
}

func (err *NameError) Error() string {
	return errpos(err.Col, "undefined variable "+strconv.Quote(err.Name)+" with "+strconv.Itoa(err.Len)+" stored results")
}

func (err *NameError) Pos() int {
	return err.Col
}

// ConstError is an error from a name that is not a constant in the registry.
// It implements InputError.
type ConstError struct {
	// Col is the position of the name.
	Col int
	// Name is the name that was missing.
	Name string
}

func (err *ConstError) Error() string {
	return errpos(err.Col, "unknown constant "+strconv.Quote(err.Name))
}

func (err *ConstError) Pos() int {
	return err.Col
}

// FuncError is an error from a call to a name that is not a function in the
// registry. It implements InputError.
type FuncError struct {
	// Col is the position of the function name.
	Col int
	// Name is the name that was missing.
	Name string
}

func (err *FuncError) Error() string {
	return errpos(err.Col, "unknown function "+strconv.Quote(err.Name))
}

func (err *FuncError) Pos() int {
	return err.Col
}

// DomainError is an error returned under StrictDomain when an operator or
// function is applied to arguments outside its domain. It implements
// InputError.
type DomainError struct {
	// Col is the position of the operator or function name.
	Col int
	// X is the out-of-domain argument: the divisor of / or %, the base of ^,
	// or the argument of a function.
	X float64
	// Func is the operator or function name.
	Func string
}

func (err *DomainError) Error() string {
	return errpos(err.Col, strconv.FormatFloat(err.X, 'g', -1, 64)+" outside domain of "+err.Func)
}

func (err *DomainError) Pos() int {
	return err.Col
}
