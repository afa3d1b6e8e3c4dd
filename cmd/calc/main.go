package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/zephyrtronium/calc"
)

func main() {
	log.SetFlags(0)
	var (
		inname, verb    string
		constsname, tag string
		with            [][2]string
		quick, echo     bool
		list, strict    bool
		negpow          bool
		depth           int
	)
	addwith := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`constant definitions must be "name=value", not %q`, s)
		}
		with = append(with, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	flag.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	flag.StringVar(&verb, "fmt", "%g", "result formatting string")
	flag.Func("given", "name=value constant definition (any number of times)", addwith)
	flag.StringVar(&constsname, "consts", "", "YAML file mapping constant names to expressions")
	flag.StringVar(&tag, "lang", "", "format results for a language, e.g. en or de-CH (overrides -fmt)")
	flag.BoolVar(&quick, "q", false, "don't store results")
	flag.BoolVar(&echo, "echo", false, "print parse trees")
	flag.BoolVar(&list, "list", false, "list constant and function names and exit")
	flag.BoolVar(&strict, "strict", false, "treat division by zero and NaN results as errors")
	flag.BoolVar(&negpow, "negpow", false, "make -x^y mean -(x^y)")
	flag.IntVar(&depth, "depth", calc.DefaultMaxDepth, "maximum nesting depth of expressions, or 0 for no limit")
	flag.Parse()

	defs := newConsts()
	if constsname != "" {
		if err := defs.load(constsname); err != nil {
			log.Fatal(err)
		}
	}
	for _, d := range with {
		if err := defs.define(d[0], d[1]); err != nil {
			log.Fatalf("setting %s: %v", d[0], err)
		}
	}
	reg := defs.registry()
	if list {
		for _, name := range reg.Names() {
			fmt.Println(name)
		}
		return
	}

	format, err := formatter(verb, tag)
	if err != nil {
		log.Fatal(err)
	}
	opts := []calc.Option{
		calc.UseRegistry(reg),
		calc.ParseWith(calc.MaxDepth(depth)),
	}
	if negpow {
		opts = append(opts, calc.ParseWith(calc.NegateAfterPower()))
	}
	if strict {
		opts = append(opts, calc.StrictDomain())
	}
	s := session{
		c:      calc.New(opts...),
		out:    bufio.NewWriter(os.Stdout),
		quick:  quick,
		echo:   echo,
		format: format,
	}
	defer s.out.Flush()

	f, err := infile(inname, flag.NArg() == 0)
	if err != nil {
		log.Fatal(err)
	}
	if f != nil {
		defer f.Close()
		if err := s.run(f); err != nil {
			log.Fatal(err)
		}
	}
	for _, arg := range flag.Args() {
		s.line(arg)
	}
}

// session evaluates lines of input in order, each line as one expression.
type session struct {
	c      *calc.Calculator
	out    *bufio.Writer
	quick  bool
	echo   bool
	format func(float64) string
}

// run evaluates every line of in. Errors in expressions are written to the
// output and do not stop processing; only a read error is returned.
func (s *session) run(in io.Reader) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		s.line(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

func (s *session) line(src string) {
	if strings.TrimSpace(src) == "" {
		return
	}
	if s.echo {
		a, err := s.c.Parse(src)
		if err != nil {
			fmt.Fprintln(s.out, err)
			return
		}
		fmt.Fprintf(s.out, "%v : ", a)
	}
	if s.quick {
		r, err := s.c.QuickEvaluate(src)
		if err != nil {
			fmt.Fprintln(s.out, err)
			return
		}
		fmt.Fprintln(s.out, s.format(r))
		return
	}
	name, r, err := s.c.EvaluateNamed(src)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	fmt.Fprintf(s.out, "%s = %s\n", name, s.format(r))
}

func infile(inname string, std bool) (*os.File, error) {
	switch {
	case inname != "" && inname != "-":
		return os.Open(inname)
	case inname == "-", std:
		return os.Stdin, nil
	}
	return nil, nil
}
