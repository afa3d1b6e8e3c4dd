package calc

import (
	"errors"
	"strconv"
)

// Calculator evaluates expressions and keeps a history of results that later
// expressions can refer to as $0, $1, ... in order and $ans for the latest.
// It is not safe to use a Calculator concurrently.
type Calculator struct {
	reg    *Registry
	hist   []float64
	popts  []ParseOption
	strict bool
}

// Option is an option used when creating a calculator.
type Option interface {
	calcOption()
}

type parsewithopt []ParseOption

func (regopt) calcOption()       {}
func (strictopt) calcOption()    {}
func (parsewithopt) calcOption() {}

// ParseWith sets options used to parse each expression.
func ParseWith(opts ...ParseOption) Option {
	return parsewithopt(opts)
}

// New creates a calculator with an empty history. By default it uses the
// default registry and parsing options.
func New(opts ...Option) *Calculator {
	c := Calculator{reg: defaultRegistry}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case regopt:
			if opt.reg != nil {
				c.reg = opt.reg
			}
		case strictopt:
			c.strict = true
		case parsewithopt:
			c.popts = append(c.popts, opt...)
		default:
			panic("calc: unknown calculator option type")
		}
	}
	return &c
}

// Evaluate evaluates an expression and appends the result to the history. If
// evaluation fails, the history is unchanged and the error is a *CalcError.
func (c *Calculator) Evaluate(src string) (float64, error) {
	r, err := c.QuickEvaluate(src)
	if err != nil {
		return 0, err
	}
	c.hist = append(c.hist, r)
	return r, nil
}

// EvaluateNamed is like Evaluate but also returns the name of the variable
// that holds the result, like "$0".
func (c *Calculator) EvaluateNamed(src string) (name string, r float64, err error) {
	r, err = c.Evaluate(src)
	if err != nil {
		return "", 0, err
	}
	return "$" + strconv.Itoa(len(c.hist)-1), r, nil
}

// QuickEvaluate evaluates an expression using the current history without
// changing it. The error, if any, is a *CalcError.
func (c *Calculator) QuickEvaluate(src string) (float64, error) {
	a, err := c.Parse(src)
	if err != nil {
		return 0, err
	}
	r, err := c.env().Eval(a)
	if err != nil {
		return 0, &CalcError{Kind: EvalErr, Src: src, Err: err}
	}
	return r, nil
}

// Parse parses an expression with the calculator's parsing options. The error,
// if any, is a *CalcError.
func (c *Calculator) Parse(src string) (*Expr, error) {
	a, err := ParseString(src, c.popts...)
	if err != nil {
		k := ParseErr
		if errors.As(err, new(*LexError)) {
			k = LexErr
		}
		return nil, &CalcError{Kind: k, Src: src, Err: err}
	}
	return a, nil
}

func (c *Calculator) env() *Env {
	opts := []EnvOption{UseRegistry(c.reg), History(c.hist...)}
	if c.strict {
		opts = append(opts, StrictDomain())
	}
	return NewEnv(opts...)
}

// Clear empties the history, so that no variables refer to results.
func (c *Calculator) Clear() {
	c.hist = nil
}

// History returns a copy of the results in the history.
func (c *Calculator) History() []float64 {
	return append(([]float64)(nil), c.hist...)
}

// Ans returns the most recent result, which $ans refers to. The second result
// is false if the history is empty.
func (c *Calculator) Ans() (float64, bool) {
	if len(c.hist) == 0 {
		return 0, false
	}
	return c.hist[len(c.hist)-1], true
}

// Len returns the number of results in the history.
func (c *Calculator) Len() int {
	return len(c.hist)
}

// Registry returns the registry the calculator uses.
func (c *Calculator) Registry() *Registry {
	return c.reg
}

// ErrorKind is the stage of evaluation that produced a CalcError.
type ErrorKind int8

const (
	// LexErr is an invalid character or malformed token.
	LexErr ErrorKind = iota + 1
	// ParseErr is an invalid arrangement of tokens.
	ParseErr
	// EvalErr is an unknown variable, constant, or function, or a domain
	// error under StrictDomain.
	EvalErr
)

func (k ErrorKind) String() string {
	switch k {
	case LexErr:
		return "lex"
	case ParseErr:
		return "parse"
	case EvalErr:
		return "eval"
	default:
		return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// CalcError is an error from a Calculator. It unwraps to the error from the
// stage that failed, e.g. a *LexError, *BracketError, or *NameError. It
// implements InputError.
type CalcError struct {
	// Kind is the stage that failed.
	Kind ErrorKind
	// Src is the expression that failed.
	Src string
	// Err is the error from that stage.
	Err error
}

func (err *CalcError) Error() string {
	return err.Kind.String() + " error: " + err.Err.Error()
}

func (err *CalcError) Unwrap() error {
	return err.Err
}

// Pos returns the position of the underlying error, or 0 if it has none.
func (err *CalcError) Pos() int {
	var ie InputError
	if errors.As(err.Err, &ie) {
		return ie.Pos()
	}
	return 0
}
