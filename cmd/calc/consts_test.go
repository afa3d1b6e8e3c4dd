package main

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/zephyrtronium/calc"
)

func TestConstsLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "consts.yaml")
	src := "g: 9.80665\ng2: g * 2\nturn: tau\nsmall: 1e-3\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	c := newConsts()
	if err := c.load(path); err != nil {
		t.Fatal(err)
	}
	if err := c.define("half", "g2 / 4"); err != nil {
		t.Fatal(err)
	}
	reg := c.registry()
	want := map[string]float64{
		"g":     9.80665,
		"g2":    9.80665 * 2,
		"small": 1e-3,
		"half":  9.80665 * 2 / 4,
	}
	for k, v := range want {
		if got, ok := reg.Const(k); !ok || got != v {
			t.Errorf("%s: want %g, got %g (%t)", k, v, got, ok)
		}
	}
	turn, _ := reg.Const("turn")
	tau, _ := calc.DefaultRegistry().Const("tau")
	if turn != tau {
		t.Errorf("turn is %g, want %g", turn, tau)
	}
	if _, ok := reg.Func("sin"); !ok {
		t.Error("defaults missing")
	}
}

func TestConstsErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		re   string
	}{
		{"syntax", "a: [1", `(?i)parse`},
		{"not-mapping", "- 1\n- 2\n", `(?i)mapping`},
		{"not-scalar", "a:\n  b: 1\n", `(?i)line 2\b.*\bnot an expression`},
		{"bad-name", "2x: 1\n", `(?i)invalid constant name`},
		{"bad-expr", "a: 1\nb: 1 +\n", `line 2\b`},
		{"forward", "a: b\nb: 1\n", `(?i)unknown constant "b"`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := newConsts().parse([]byte(c.src))
			if err == nil {
				t.Fatalf("no error from %q", c.src)
			}
			if !regexp.MustCompile(c.re).MatchString(err.Error()) {
				t.Errorf("error %q doesn't match %s", err.Error(), c.re)
			}
		})
	}
}

func TestConstsWrapsEvalError(t *testing.T) {
	err := newConsts().define("x", "$0")
	var ne *calc.NameError
	if !errors.As(err, &ne) {
		t.Errorf("%#v doesn't wrap a NameError", err)
	}
}

func TestConstsMissingFile(t *testing.T) {
	err := newConsts().load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("want not-exist error, got %v", err)
	}
}

func TestIsName(t *testing.T) {
	for _, s := range []string{"x", "_", "g2", "π", "a_b"} {
		if !isName(s) {
			t.Errorf("%q should be a name", s)
		}
	}
	for _, s := range []string{"", "2x", "a-b", "$x", "a b"} {
		if isName(s) {
			t.Errorf("%q shouldn't be a name", s)
		}
	}
}
