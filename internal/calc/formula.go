package calc

import (
	"fmt"
	"strings"

	"gridsheet/internal/grid"
)

const FormulaPrefix = "="

// FormulaRequest is a parsed "=NAME(RANGE)" formula. Name is upper case and
// not yet checked against the supported functions.
type FormulaRequest struct {
	Name  string
	Range grid.Range
}

func IsFormula(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), FormulaPrefix)
}

// ParseFormula parses input of the form "=NAME(RANGE)". Input is trimmed and
// upper-cased first, so "=sum(a1:a3)" and "=SUM(A1:A3)" are the same formula.
func ParseFormula(input string) (FormulaRequest, error) {
	text := strings.ToUpper(strings.TrimSpace(input))
	body, ok := strings.CutPrefix(text, FormulaPrefix)
	if !ok {
		return FormulaRequest{}, fmt.Errorf("%w: %q", ErrMissingEquals, input)
	}

	p := parser{input: body}
	p.skipSpaces()
	name := p.letters()
	if name == "" {
		return FormulaRequest{}, fmt.Errorf("%w: %q has no function name", ErrMalformedSyntax, input)
	}
	p.skipSpaces()
	if !p.consume('(') {
		return FormulaRequest{}, fmt.Errorf("%w: %q is missing '('", ErrMalformedSyntax, input)
	}
	inner, ok := strings.CutSuffix(p.rest(), ")")
	if !ok {
		return FormulaRequest{}, fmt.Errorf("%w: %q is missing ')'", ErrMalformedSyntax, input)
	}
	rangeText := strings.TrimSpace(inner)
	if rangeText == "" {
		return FormulaRequest{}, fmt.Errorf("%w: %q has an empty range", ErrMalformedSyntax, input)
	}

	r, err := grid.ParseRange(rangeText)
	if err != nil {
		return FormulaRequest{}, err
	}
	return FormulaRequest{Name: name, Range: r}, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) letters() string {
	start := p.pos
	for p.pos < len(p.input) && p.input[p.pos] >= 'A' && p.input[p.pos] <= 'Z' {
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *parser) consume(ch byte) bool {
	if p.pos < len(p.input) && p.input[p.pos] == ch {
		p.pos++
		return true
	}
	return false
}

func (p *parser) rest() string {
	return p.input[p.pos:]
}
