package app

import (
	"gridsheet/internal/grid"

	"github.com/gdamore/tcell/v2"
)

// usable returns the screen area left for cells.
func (a *App) usable(s tcell.Screen) (int, int) {
	w, h := s.Size()
	return max(1, w-a.cfg.LeftGutter), max(1, h-a.cfg.StatusLines-1)
}

// ComputeVisible returns how many whole rows and columns fit from the
// current view origin; always at least one of each.
func (a *App) ComputeVisible(s tcell.Screen) (visibleRows, visibleCols int) {
	usableW, usableH := a.usable(s)
	return fit(a.Sheet.RowHeights, a.ViewRow, usableH), fit(a.Sheet.ColWidths, a.ViewCol, usableW)
}

func fit(sizes []int, from, space int) int {
	n, sum := 0, 0
	for i := from; i < len(sizes); i++ {
		if sum+sizes[i] > space {
			break
		}
		sum += sizes[i]
		n++
	}
	return max(n, 1)
}

// EnsureCursorVisible scrolls the view so the active cell is on screen.
func (a *App) EnsureCursorVisible(s tcell.Screen) {
	if s == nil {
		return
	}
	a.Sheet.EnsureRow(a.CurRow)
	a.Sheet.EnsureCol(a.CurCol)

	if a.CurCol < a.ViewCol {
		a.ViewCol = a.CurCol
	}
	for {
		_, visibleCols := a.ComputeVisible(s)
		if a.CurCol < a.ViewCol+visibleCols {
			break
		}
		a.ViewCol++
	}

	if a.CurRow < a.ViewRow {
		a.ViewRow = a.CurRow
	}
	for {
		visibleRows, _ := a.ComputeVisible(s)
		if a.CurRow < a.ViewRow+visibleRows {
			break
		}
		a.ViewRow++
	}
}

// cellAt maps a screen position to the 0-based cell under it.
func (a *App) cellAt(x, y int) (row, col int, ok bool) {
	if x < a.cfg.LeftGutter || y < 1 || (a.bottom > 0 && y >= a.bottom) {
		return 0, 0, false
	}
	col, ok = locate(a.Sheet.ColWidths, a.ViewCol, x-a.cfg.LeftGutter)
	if !ok {
		return 0, 0, false
	}
	row, ok = locate(a.Sheet.RowHeights, a.ViewRow, y-1)
	return row, col, ok
}

func locate(sizes []int, from, offset int) (int, bool) {
	for i := from; i < len(sizes); i++ {
		if offset < sizes[i] {
			return i, true
		}
		offset -= sizes[i]
	}
	return 0, false
}

// cellOrigin returns the screen position of the top-left corner of a cell
// that is at or after the view origin.
func (a *App) cellOrigin(row, col int) (x, y int) {
	x, y = a.cfg.LeftGutter, 1
	for c := a.ViewCol; c < col && c < len(a.Sheet.ColWidths); c++ {
		x += a.Sheet.ColWidths[c]
	}
	for r := a.ViewRow; r < row && r < len(a.Sheet.RowHeights); r++ {
		y += a.Sheet.RowHeights[r]
	}
	return x, y
}

func refString(row, col int) string {
	return grid.RefAt(row, col).String()
}
