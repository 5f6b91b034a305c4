// Package textops implements the text clean-up utilities of the editor:
// per-cell transforms and find/replace or duplicate removal over a range.
package textops

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"gridsheet/internal/grid"
)

var (
	ErrEmptySearch      = errors.New("search text is empty")
	ErrUnknownTransform = errors.New("unknown text transform")
	ErrRangeTooLarge    = grid.ErrRangeTooLarge
)

// Transform rewrites the text of one cell.
type Transform func(string) string

func Trim(s string) string { return strings.TrimSpace(s) }

func Upper(s string) string { return cases.Upper(language.Und).String(s) }

func Lower(s string) string { return cases.Lower(language.Und).String(s) }

// Title lower-cases s and upper-cases the first character of every
// space-separated word. Hyphens and apostrophes do not start a word.
func Title(s string) string {
	upper := cases.Upper(language.Und)
	words := strings.Split(Lower(s), " ")
	for i, w := range words {
		first, rest, _, _ := uniseg.FirstGraphemeClusterInString(w, -1)
		words[i] = upper.String(first) + rest
	}
	return strings.Join(words, " ")
}

// Reverse reverses s by grapheme cluster, so combined characters and emoji
// sequences stay intact.
func Reverse(s string) string { return uniseg.ReverseString(s) }

var transforms = map[string]Transform{
	"trim":    Trim,
	"upper":   Upper,
	"lower":   Lower,
	"title":   Title,
	"reverse": Reverse,
}

// Names lists the transforms accepted by Lookup.
func Names() []string {
	names := make([]string, 0, len(transforms))
	for name := range transforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Lookup(name string) (Transform, error) {
	t, ok := transforms[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransform, name)
	}
	return t, nil
}

// Apply runs t on the cell at 0-based (row, col) and reports whether the text
// changed.
func Apply(s *grid.Sheet, row, col int, t Transform) bool {
	before := s.Text(row, col)
	after := t(before)
	if after == before {
		return false
	}
	s.Set(row, col, after)
	return true
}

// ApplyRange runs t on every cell of r and returns how many cells changed.
func ApplyRange(s *grid.Sheet, r grid.Range, t Transform) (int, error) {
	if err := r.CheckSize(); err != nil {
		return 0, err
	}
	changed := 0
	r.Each(func(c grid.CellRef) {
		row, col := c.Index()
		if Apply(s, row, col, t) {
			changed++
		}
	})
	return changed, nil
}

// FindReplace replaces every literal occurrence of find in the cells of r and
// returns how many cells changed.
func FindReplace(s *grid.Sheet, r grid.Range, find, replace string) (int, error) {
	if find == "" {
		return 0, ErrEmptySearch
	}
	if err := r.CheckSize(); err != nil {
		return 0, err
	}
	changed := 0
	r.Each(func(c grid.CellRef) {
		row, col := c.Index()
		text := s.Text(row, col)
		if !strings.Contains(text, find) {
			return
		}
		s.Set(row, col, strings.ReplaceAll(text, find, replace))
		changed++
	})
	return changed, nil
}

// RemoveDuplicates deletes every sheet row inside r whose texts over r's
// columns equal those of an earlier row in r. Rows below a deleted row move
// up; the first occurrence is kept. It returns the number of rows deleted.
func RemoveDuplicates(s *grid.Sheet, r grid.Range) (int, error) {
	if err := r.CheckSize(); err != nil {
		return 0, err
	}
	seen := map[string]bool{}
	removed := 0
	last := r.End.Row
	for row := r.Start.Row; row <= last; {
		key := rowKey(s, row-1, r.Start.Col-1, r.End.Col-1)
		if !seen[key] {
			seen[key] = true
			row++
			continue
		}
		if !s.DeleteRow(row - 1) {
			// rows beyond the sheet extent are all empty
			break
		}
		removed++
		last--
	}
	return removed, nil
}

func rowKey(s *grid.Sheet, row, fromCol, toCol int) string {
	var b strings.Builder
	for col := fromCol; col <= toCol; col++ {
		b.WriteString(strconv.Quote(s.Text(row, col)))
	}
	return b.String()
}
