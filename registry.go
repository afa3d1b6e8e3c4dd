package calc

import (
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// Registry maps names to constants and to functions of one variable. A
// Registry is read-only after creation and safe to share between goroutines.
type Registry struct {
	consts map[string]float64
	funcs  map[string]func(float64) float64
}

// RegistryOption is an option used when creating a registry.
type RegistryOption interface {
	registryOption()
}

type (
	constopt struct {
		name string
		val  float64
	}
	constsopt map[string]float64
	funcopt   struct {
		name string
		fn   func(float64) float64
	}
	funcsopt     map[string]func(float64) float64
	nodefaultopt struct{}
)

func (constopt) registryOption()     {}
func (constsopt) registryOption()    {}
func (funcopt) registryOption()      {}
func (funcsopt) registryOption()     {}
func (nodefaultopt) registryOption() {}

// Const sets a constant in the registry.
func Const(name string, val float64) RegistryOption {
	return constopt{name, val}
}

// Consts sets any number of constants in the registry.
func Consts(vals map[string]float64) RegistryOption {
	return constsopt(vals)
}

// Func sets a function in the registry. To remove a function, including a
// default one, pass nil for fn.
func Func(name string, fn func(float64) float64) RegistryOption {
	return funcopt{name, fn}
}

// Funcs sets a group of functions in the registry. Nil functions are removed.
func Funcs(fns map[string]func(float64) float64) RegistryOption {
	return funcsopt(fns)
}

// NoDefaults creates the registry without the default constants and
// functions, regardless of where it appears among the options.
func NoDefaults() RegistryOption {
	return nodefaultopt{}
}

// NewRegistry creates a registry holding the default constants and functions
// with the options applied in order.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := Registry{
		consts: make(map[string]float64, len(globalconsts)),
		funcs:  make(map[string]func(float64) float64, len(globalfuncs)),
	}
	defaults := true
	for _, opt := range opts {
		if _, ok := opt.(nodefaultopt); ok {
			defaults = false
			break
		}
	}
	if defaults {
		for k, v := range globalconsts {
			r.consts[k] = v
		}
		for k, v := range globalfuncs {
			r.funcs[k] = v
		}
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case constopt:
			r.consts[opt.name] = opt.val
		case constsopt:
			for k, v := range opt {
				r.consts[k] = v
			}
		case funcopt:
			r.setfunc(opt.name, opt.fn)
		case funcsopt:
			for k, v := range opt {
				r.setfunc(k, v)
			}
		case nodefaultopt:
			// Already done. Do nothing.
		default:
			panic("calc: unknown registry option type")
		}
	}
	return &r
}

func (r *Registry) setfunc(name string, fn func(float64) float64) {
	if fn == nil {
		delete(r.funcs, name)
		return
	}
	r.funcs[name] = fn
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the shared registry of default constants and
// functions.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Const looks up a constant.
func (r *Registry) Const(name string) (float64, bool) {
	v, ok := r.consts[name]
	return v, ok
}

// Func looks up a function.
func (r *Registry) Func(name string) (func(float64) float64, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names returns the names of all constants and functions in the registry in
// sorted order. A name that is both a constant and a function appears once.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.consts)+len(r.funcs))
	for k := range r.consts {
		names = append(names, k)
	}
	for k := range r.funcs {
		if _, ok := r.consts[k]; !ok {
			names = append(names, k)
		}
	}
	sortstrs(names)
	return names
}

// constprec is the precision in bits at which constants are computed before
// rounding to float64.
const constprec = 256

// bigconst computes a constant with f at constprec bits and rounds it.
func bigconst(f func(out *big.Float) *big.Float) float64 {
	r, _ := f(new(big.Float).SetPrec(constprec)).Float64()
	return r
}

func bigint(x int64) *big.Float {
	return new(big.Float).SetPrec(constprec).SetInt64(x)
}

var globalconsts = map[string]float64{
	"pi": bigconst(bigfloat.Pi),
	"tau": bigconst(func(out *big.Float) *big.Float {
		bigfloat.Pi(out)
		return out.Mul(out, bigint(2))
	}),
	"e": bigconst(func(out *big.Float) *big.Float {
		return bigfloat.Exp(out, bigint(1))
	}),
	"phi": bigconst(func(out *big.Float) *big.Float {
		out.Sqrt(bigint(5))
		out.Add(out, bigint(1))
		return out.Quo(out, bigint(2))
	}),
	"inf": math.Inf(1),
}

var globalfuncs = map[string]func(float64) float64{
	"sqrt":  math.Sqrt,
	"cbrt":  math.Cbrt,
	"exp":   math.Exp,
	"ln":    math.Log,
	"log":   math.Log10,
	"log2":  math.Log2,
	"log10": math.Log10,

	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"sinh":  math.Sinh,
	"cosh":  math.Cosh,
	"tanh":  math.Tanh,
	"asinh": math.Asinh,
	"acosh": math.Acosh,
	"atanh": math.Atanh,

	"rad": func(x float64) float64 { return x * (math.Pi / 180) },
	"deg": func(x float64) float64 { return x * (180 / math.Pi) },

	"abs":   math.Abs,
	"floor": math.Floor,
	"ceil":  math.Ceil,
	"trunc": math.Trunc,
	"round": math.Round,
}
