package textops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridsheet/internal/grid"
)

func sheetWithRows(rows ...[]string) *grid.Sheet {
	s := grid.NewSheet(len(rows), 4, 16, 1)
	for r, row := range rows {
		for c, text := range row {
			s.Set(r, c, text)
		}
	}
	return s
}

func mustRange(t *testing.T, text string) grid.Range {
	t.Helper()
	r, err := grid.ParseRange(text)
	require.NoError(t, err)
	return r
}

func TestTransforms(t *testing.T) {
	assert.Equal(t, "a b", Trim("  a b \t\n"))
	assert.Equal(t, "HELLO", Upper("hello"))
	assert.Equal(t, "hello", Lower("HeLLo"))
	assert.Equal(t, "Hello World", Title("hello WORLD"))
	assert.Equal(t, "Hello-world", Title("hello-WORLD"))
	assert.Equal(t, "Don't Stop", Title("don't stop"))
	assert.Equal(t, " Two  Spaces ", Title(" two  spaces "))
	assert.Equal(t, "École", Title("éCOLE"))
	assert.Equal(t, "cba", Reverse("abc"))
	assert.Equal(t, "", Reverse(""))
}

func TestReverse_KeepsGraphemes(t *testing.T) {
	// "e" + combining acute accent must stay one unit
	assert.Equal(t, "xe\u0301", Reverse("e\u0301x"))
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		_, err := Lookup(name)
		assert.NoError(t, err, name)
	}
	tr, err := Lookup("UPPER")
	require.NoError(t, err)
	assert.Equal(t, "X", tr("x"))

	_, err = Lookup("shout")
	assert.ErrorIs(t, err, ErrUnknownTransform)
	assert.Equal(t, []string{"lower", "reverse", "title", "trim", "upper"}, Names())
}

func TestApply(t *testing.T) {
	s := sheetWithRows([]string{"  padded  "})
	assert.True(t, Apply(s, 0, 0, Trim))
	assert.Equal(t, "padded", s.Text(0, 0))
	assert.False(t, Apply(s, 0, 0, Trim))
}

func TestApplyRange(t *testing.T) {
	s := sheetWithRows([]string{"a", "B"}, []string{"c", ""})
	n, err := ApplyRange(s, mustRange(t, "A1:B2"), Upper)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "A", s.Text(0, 0))
	assert.Equal(t, "C", s.Text(1, 0))
	assert.Equal(t, 2, s.Rows())
}

func TestRangeOperations_RejectOversizedRanges(t *testing.T) {
	s := sheetWithRows([]string{" x "})
	whole := mustRange(t, "A1:XFD1048576")

	_, err := ApplyRange(s, whole, Trim)
	assert.ErrorIs(t, err, ErrRangeTooLarge)
	_, err = ApplyRange(s, mustRange(t, "A1:E1048576"), Trim)
	assert.ErrorIs(t, err, ErrRangeTooLarge)
	_, err = FindReplace(s, whole, "x", "y")
	assert.ErrorIs(t, err, ErrRangeTooLarge)
	_, err = RemoveDuplicates(s, whole)
	assert.ErrorIs(t, err, ErrRangeTooLarge)

	assert.Equal(t, " x ", s.Text(0, 0))
	assert.Equal(t, 1, s.Rows())
}

func TestFindReplace(t *testing.T) {
	s := sheetWithRows(
		[]string{"cat", "catalog", "dog"},
		[]string{"a.c", "cat cat", "x"},
	)
	n, err := FindReplace(s, mustRange(t, "A1:B2"), "cat", "dog")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "dog", s.Text(0, 0))
	assert.Equal(t, "dogalog", s.Text(0, 1))
	assert.Equal(t, "dog dog", s.Text(1, 1))
	assert.Equal(t, "dog", s.Text(0, 2))

	// literal, not a pattern
	n, err = FindReplace(s, mustRange(t, "A1:C2"), ".", "-")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "a-c", s.Text(1, 0))
}

func TestFindReplace_EmptySearch(t *testing.T) {
	s := sheetWithRows([]string{"x"})
	_, err := FindReplace(s, mustRange(t, "A1:A1"), "", "y")
	assert.ErrorIs(t, err, ErrEmptySearch)
}

func TestRemoveDuplicates(t *testing.T) {
	s := sheetWithRows(
		[]string{"a", "1", "keep"},
		[]string{"b", "2", "x"},
		[]string{"a", "1", "other"},
		[]string{"b", "2", "y"},
		[]string{"c", "3", "z"},
		[]string{"a", "1", "below"},
	)
	removed, err := RemoveDuplicates(s, mustRange(t, "A1:B5"))
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 4, s.Rows())
	assert.Equal(t, "keep", s.Text(0, 2))
	assert.Equal(t, "x", s.Text(1, 2))
	assert.Equal(t, "z", s.Text(2, 2))
	// the row that moved up into the range was not compared
	assert.Equal(t, "below", s.Text(3, 2))
}

func TestRemoveDuplicates_SeparatorInText(t *testing.T) {
	s := sheetWithRows(
		[]string{"a|b", ""},
		[]string{"a", "b|"},
	)
	removed, err := RemoveDuplicates(s, mustRange(t, "A1:B2"))
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Equal(t, 2, s.Rows())
}
