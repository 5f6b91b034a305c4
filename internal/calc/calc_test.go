package calc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridsheet/internal/grid"
)

// column builds an accessor over a single column of texts starting at A1.
func column(texts ...string) CellTextFunc {
	return func(row, col int) (string, bool) {
		if col != 1 || row < 1 || row > len(texts) {
			return "", false
		}
		return texts[row-1], true
	}
}

func numbers(vals ...float64) []Value {
	out := make([]Value, len(vals))
	for i, v := range vals {
		out[i] = Value{Number: v, IsNumber: true}
	}
	return out
}

func colRange(t *testing.T, text string) grid.Range {
	t.Helper()
	r, err := grid.ParseRange(text)
	require.NoError(t, err)
	return r
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		text     string
		number   float64
		isNumber bool
	}{
		{"3", 3, true},
		{"12abc", 12, true},
		{"  7", 7, true},
		{"-2.5", -2.5, true},
		{"+4", 4, true},
		{".5", 0.5, true},
		{"1.", 1, true},
		{"1e3", 1000, true},
		{"1e", 1, true},
		{"2E-1x", 0.2, true},
		{"abc", 0, false},
		{"", 0, false},
		{"-", 0, false},
		{".", 0, false},
		{"e5", 0, false},
		{"1e999", 0, false},
		{"0x10", 0, true},
	}
	for _, tt := range tests {
		v := Coerce(tt.text)
		assert.Equal(t, tt.isNumber, v.IsNumber, "%q", tt.text)
		assert.InDelta(t, tt.number, v.Number, 1e-12, "%q", tt.text)
	}
}

func TestAggregate_EmptyValues(t *testing.T) {
	v, err := Sum.Aggregate(nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	v, err = Product.Aggregate(nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	v, err = Count.Aggregate(nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	for _, fn := range []Function{Average, Max, Min, Median} {
		_, err := fn.Aggregate(nil)
		assert.ErrorIs(t, err, ErrEmptyRange, fn.String())
	}
}

func TestAggregate_Median(t *testing.T) {
	v, err := Median.Aggregate(numbers(3, 1, 2))
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	v, err = Median.Aggregate(numbers(4, 1, 3, 2))
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)
}

func TestAggregate_Values(t *testing.T) {
	vals := numbers(4, -1, 2.5)
	tests := []struct {
		fn   Function
		want float64
	}{
		{Sum, 5.5},
		{Average, 5.5 / 3},
		{Max, 4},
		{Min, -1},
		{Count, 3},
		{Median, 2.5},
		{Product, -10},
	}
	for _, tt := range tests {
		got, err := tt.fn.Aggregate(vals)
		require.NoError(t, err, tt.fn.String())
		assert.InDelta(t, tt.want, got, 1e-12, tt.fn.String())
	}
}

func TestAggregate_UnknownFunction(t *testing.T) {
	_, err := Function(99).Aggregate(numbers(1))
	assert.ErrorIs(t, err, ErrUnsupportedFunction)
	assert.Equal(t, "Function(99)", Function(99).String())
}

func TestEvaluate_CountSkipsNonNumbers(t *testing.T) {
	v, err := Evaluate("COUNT", colRange(t, "A1:A4"), column("3", "abc", "5", ""))
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)
}

func TestEvaluate_NonNumbersCountAsZero(t *testing.T) {
	cells := column("3", "abc", "5", "")

	v, err := Evaluate("SUM", colRange(t, "A1:A4"), cells)
	require.NoError(t, err)
	assert.Equal(t, 8.0, v)

	v, err = Evaluate("AVERAGE", colRange(t, "A1:A4"), cells)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	v, err = Evaluate("MIN", colRange(t, "A1:A4"), cells)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	v, err = Evaluate("PRODUCT", colRange(t, "A1:A4"), cells)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestEvaluate_OutsideGridIsEmpty(t *testing.T) {
	v, err := Evaluate("SUM", colRange(t, "A1:B10"), column("1", "2"))
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	v, err = Evaluate("COUNT", colRange(t, "A1:B10"), column("1", "2"))
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	v, err = Evaluate("SUM", colRange(t, "A1:A3"), nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestEvaluate_Rectangle(t *testing.T) {
	s := grid.NewSheet(3, 3, 16, 1)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			s.Set(r, c, FormatResult(float64(r*3+c+1)))
		}
	}
	v, err := Evaluate("SUM", colRange(t, "C3:A1"), s.CellTextAt)
	require.NoError(t, err)
	assert.Equal(t, 45.0, v)

	v, err = Evaluate("MAX", colRange(t, "A1:B2"), s.CellTextAt)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)
}

func TestEvaluate_Unsupported(t *testing.T) {
	_, err := Evaluate("FOO", colRange(t, "A1:A2"), column("1"))
	assert.ErrorIs(t, err, ErrUnsupportedFunction)
	_, err = Evaluate("sum", colRange(t, "A1:A2"), column("1"))
	assert.ErrorIs(t, err, ErrUnsupportedFunction)
}

func TestEvaluate_RangeTooLarge(t *testing.T) {
	_, err := Evaluate("SUM", colRange(t, "A1:Z1000000"), nil)
	assert.ErrorIs(t, err, ErrRangeTooLarge)

	_, err = EvaluateFormula("=SUM(A1:XFD1048576)", nil)
	assert.ErrorIs(t, err, ErrRangeTooLarge)
	assert.Equal(t, "RangeTooLarge", Kind(err))

	huge := grid.NewRange(grid.CellRef{Col: 1, Row: 1}, grid.CellRef{Col: 2, Row: 1 << 62})
	assert.NotPanics(t, func() {
		_, err = Evaluate("SUM", huge, nil)
	})
	assert.ErrorIs(t, err, ErrRangeTooLarge)
}

func TestEvaluateFormula_RowOutOfRange(t *testing.T) {
	var err error
	assert.NotPanics(t, func() {
		_, err = EvaluateFormula("=SUM(A1:B4611686018427387904)", nil)
	})
	assert.ErrorIs(t, err, ErrMalformedSyntax)

	_, err = EvaluateFormula("=COUNT(A1:A1048577)", nil)
	assert.Equal(t, "MalformedSyntax", Kind(err))
}

func TestEvaluateFormula_RoundTrip(t *testing.T) {
	v, err := EvaluateFormula("=SUM(A1:A3)", column("1", "2", "3"))
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)

	v, err = EvaluateFormula("=sum(a1:a3)", column("1", "2", "3"))
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)

	v, err = EvaluateFormula("=MEDIAN(A1:A4)", column("1", "2", "3", "4"))
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)
}

func TestEvaluateFormula_Errors(t *testing.T) {
	_, err := EvaluateFormula("SUM(A1:A3)", column("1"))
	assert.ErrorIs(t, err, ErrMissingEquals)

	_, err = EvaluateFormula("=FOO(A1:A2)", column("1"))
	assert.ErrorIs(t, err, ErrUnsupportedFunction)

	_, err = EvaluateFormula("=FOO(A1A2)", column("1"))
	assert.ErrorIs(t, err, ErrMalformedSyntax)
}

func TestFormatResult(t *testing.T) {
	assert.Equal(t, "6", FormatResult(6))
	assert.Equal(t, "-3", FormatResult(-3))
	assert.Equal(t, "2.5", FormatResult(2.5))
	assert.Equal(t, "0.333333", FormatResult(1.0/3))
	assert.Equal(t, "0", FormatResult(-0.0000000001))
	assert.Equal(t, "0", FormatResult(-0.0000001))
	assert.Equal(t, "#NUM!", FormatResult(math.NaN()))
}

func TestKind(t *testing.T) {
	_, err := EvaluateFormula("nope", nil)
	assert.Equal(t, "MissingEquals", Kind(err))
	_, err = EvaluateFormula("=SUM(A1)", nil)
	assert.Equal(t, "MalformedSyntax", Kind(err))
	_, err = EvaluateFormula("=FOO(A1:A1)", nil)
	assert.Equal(t, "UnsupportedFunction", Kind(err))
	_, err = Max.Aggregate(nil)
	assert.Equal(t, "EmptyRange", Kind(err))
	assert.Equal(t, "", Kind(nil))
}
