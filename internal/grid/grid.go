package grid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// MaxColumn is the widest column a reference may name (XFD).
	MaxColumn = 16384
	// MaxRow is the last row a reference may name.
	MaxRow = 1048576
	// MaxRangeCells bounds how many cells one operation may visit.
	MaxRangeCells = 1 << 20
)

var (
	ErrMalformedSyntax = errors.New("malformed syntax")
	ErrRangeTooLarge   = errors.New("range too large")
)

// CellRef addresses one cell. Both fields are 1-based: A1 is {Col: 1, Row: 1}.
type CellRef struct {
	Col int
	Row int
}

// Index returns the 0-based (row, col) pair used as a Sheet key.
func (c CellRef) Index() (int, int) {
	return c.Row - 1, c.Col - 1
}

func (c CellRef) String() string {
	return ColumnName(c.Col) + strconv.Itoa(c.Row)
}

// RefAt builds a CellRef from 0-based row and column indices.
func RefAt(row, col int) CellRef {
	return CellRef{Col: col + 1, Row: row + 1}
}

// Range is a rectangle of cells. Start is always the top-left corner.
type Range struct {
	Start CellRef
	End   CellRef
}

// NewRange returns the rectangle spanned by two corners given in any order.
func NewRange(a, b CellRef) Range {
	return Range{
		Start: CellRef{Col: min(a.Col, b.Col), Row: min(a.Row, b.Row)},
		End:   CellRef{Col: max(a.Col, b.Col), Row: max(a.Row, b.Row)},
	}
}

func (r Range) Cols() int  { return r.End.Col - r.Start.Col + 1 }
func (r Range) Rows() int  { return r.End.Row - r.Start.Row + 1 }
func (r Range) Cells() int { return r.Rows() * r.Cols() }

// CheckSize returns ErrRangeTooLarge when r spans more than MaxRangeCells
// cells. It does not multiply, so it holds for any corners.
func (r Range) CheckSize() error {
	rows, cols := r.Rows(), r.Cols()
	if rows < 1 || cols < 1 {
		return nil
	}
	if rows > MaxRangeCells/cols {
		return fmt.Errorf("%w: %s spans %d rows by %d columns, limit is %d cells",
			ErrRangeTooLarge, r, rows, cols, MaxRangeCells)
	}
	return nil
}

func (r Range) Contains(c CellRef) bool {
	return c.Col >= r.Start.Col && c.Col <= r.End.Col &&
		c.Row >= r.Start.Row && c.Row <= r.End.Row
}

func (r Range) String() string {
	return r.Start.String() + ":" + r.End.String()
}

// Each visits every cell of the range row by row.
func (r Range) Each(fn func(CellRef)) {
	for row := r.Start.Row; row <= r.End.Row; row++ {
		for col := r.Start.Col; col <= r.End.Col; col++ {
			fn(CellRef{Col: col, Row: row})
		}
	}
}

// ColumnName: 1 -> A, 26 -> Z, 27 -> AA and so on
func ColumnName(col int) string {
	if col < 1 {
		return "?"
	}
	result := ""
	for n := col; n > 0; {
		n--
		result = string(rune('A'+(n%26))) + result
		n /= 26
	}
	return result
}

// ParseRange parses an upper-case range such as "A1:C3". The corners may be
// given in any order; the result is normalized.
func ParseRange(text string) (Range, error) {
	left, right, ok := strings.Cut(text, ":")
	if !ok {
		return Range{}, fmt.Errorf("%w: range %q has no colon", ErrMalformedSyntax, text)
	}
	start, err := parseRef(left)
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", text, err)
	}
	end, err := parseRef(right)
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", text, err)
	}
	return NewRange(start, end), nil
}

// ParseCellRef parses a single upper-case reference such as "B7".
func ParseCellRef(text string) (CellRef, error) {
	ref, err := parseRef(text)
	if err != nil {
		return CellRef{}, fmt.Errorf("cell %q: %w", text, err)
	}
	return ref, nil
}

func parseRef(name string) (CellRef, error) {
	i := 0
	col := 0
	for i < len(name) && isUpper(name[i]) {
		col = col*26 + int(name[i]-'A') + 1
		if col > MaxColumn {
			return CellRef{}, fmt.Errorf("%w: column of %q out of range", ErrMalformedSyntax, name)
		}
		i++
	}
	if i == 0 {
		return CellRef{}, fmt.Errorf("%w: %q has no column letters", ErrMalformedSyntax, name)
	}
	digits := name[i:]
	if digits == "" {
		return CellRef{}, fmt.Errorf("%w: %q has no row number", ErrMalformedSyntax, name)
	}
	for j := 0; j < len(digits); j++ {
		if !isDigit(digits[j]) {
			return CellRef{}, fmt.Errorf("%w: unexpected %q in %q", ErrMalformedSyntax, digits[j], name)
		}
	}
	row, err := strconv.Atoi(digits)
	if err != nil || row < 1 || row > MaxRow {
		return CellRef{}, fmt.Errorf("%w: row of %q out of range", ErrMalformedSyntax, name)
	}
	return CellRef{Col: col, Row: row}, nil
}

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
