package main

import (
	"fmt"
	"os"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/calc"
)

// consts collects user-defined constants. Each definition is an expression
// that may use the default constants and those defined before it.
type consts struct {
	vals map[string]float64
}

func newConsts() *consts {
	return &consts{vals: make(map[string]float64)}
}

// registry creates a registry with the defaults and the defined constants.
func (c *consts) registry() *calc.Registry {
	return calc.NewRegistry(calc.Consts(c.vals))
}

// define evaluates expr and sets name to the result.
func (c *consts) define(name, expr string) error {
	if !isName(name) {
		return fmt.Errorf("invalid constant name %q", name)
	}
	r, err := calc.EvalString(expr, calc.UseRegistry(c.registry()))
	if err != nil {
		return fmt.Errorf("evaluating %q: %w", expr, err)
	}
	c.vals[name] = r
	return nil
}

// load reads a YAML file mapping names to expressions and defines each in
// order. A number is an expression, so plain values work as well:
//
//	g: 9.80665
//	g2: g * 2
//	turn: tau
func (c *consts) load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read constants: %w", err)
	}
	return c.parse(data)
}

func (c *consts) parse(data []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse constants: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: constants must be a mapping of names to expressions", m.Line)
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], m.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: value of %s is not an expression", v.Line, k.Value)
		}
		if err := c.define(k.Value, v.Value); err != nil {
			return fmt.Errorf("line %d: %w", k.Line, err)
		}
	}
	return nil
}

// isName reports whether s can be written as a constant in an expression.
func isName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
