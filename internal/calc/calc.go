package calc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"gridsheet/internal/grid"
)

// MaxRangeCells bounds how many cells one formula may read.
const MaxRangeCells = grid.MaxRangeCells

// CellTextFunc returns the raw text at a 1-based row and column. ok is false
// when the coordinate lies outside the grid; such cells count as empty.
type CellTextFunc func(row, col int) (text string, ok bool)

// Value is a cell's text coerced to a number. IsNumber is false when the text
// has no numeric prefix, in which case Number is 0.
type Value struct {
	Number   float64
	IsNumber bool
}

// Coerce reads the leading number of text: "12abc" is 12, " -.5e1x" is -5,
// "abc" and "" are not numbers.
func Coerce(text string) Value {
	prefix := numericPrefix(strings.TrimLeftFunc(text, unicode.IsSpace))
	if prefix == "" {
		return Value{}
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return Value{}
	}
	return Value{Number: v, IsNumber: true}
}

func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
			digits++
		}
		if digits > 0 {
			i = j
		}
	}
	if digits == 0 {
		return ""
	}
	// exponent only counts when digits follow it
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return s[:i]
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// Evaluate applies the named function to every cell of r.
func Evaluate(name string, r grid.Range, cells CellTextFunc) (float64, error) {
	fn, err := LookupFunction(name)
	if err != nil {
		return 0, err
	}
	if err := r.CheckSize(); err != nil {
		return 0, err
	}

	values := make([]Value, 0, r.Cells())
	r.Each(func(c grid.CellRef) {
		var text string
		if cells != nil {
			text, _ = cells(c.Row, c.Col)
		}
		values = append(values, Coerce(text))
	})

	v, err := fn.Aggregate(values)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", r, err)
	}
	return v, nil
}

// EvaluateFormula parses input as "=NAME(RANGE)" and evaluates it.
func EvaluateFormula(input string, cells CellTextFunc) (float64, error) {
	req, err := ParseFormula(input)
	if err != nil {
		return 0, err
	}
	return Evaluate(req.Name, req.Range, cells)
}

// FormatResult renders a result the way it is written back into a cell.
func FormatResult(val float64) string {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return "#NUM!"
	}
	if math.Abs(val-math.Round(val)) < 1e-9 {
		r := math.Round(val)
		if r == 0 {
			return "0"
		}
		return fmt.Sprintf("%.0f", r)
	}
	s := strconv.FormatFloat(val, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
