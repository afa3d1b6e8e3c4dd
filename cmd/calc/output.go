package main

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// maxFraction is the most fraction digits localized output shows.
const maxFraction = 12

// formatter returns a function to format results. If tag is not empty, results
// are formatted as decimal numbers for that language. Otherwise they use verb.
func formatter(verb, tag string) (func(float64) string, error) {
	if tag != "" {
		t, err := language.Parse(tag)
		if err != nil {
			return nil, fmt.Errorf("invalid language %q: %w", tag, err)
		}
		p := message.NewPrinter(t)
		return func(x float64) string {
			return p.Sprintf("%v", number.Decimal(x, number.MaxFractionDigits(maxFraction)))
		}, nil
	}
	if s := fmt.Sprintf(verb, 1.0); strings.Contains(s, "%!") {
		return nil, fmt.Errorf("invalid format %q for results: gives %s", verb, s)
	}
	return func(x float64) string {
		return fmt.Sprintf(verb, x)
	}, nil
}
