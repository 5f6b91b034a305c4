package app

import (
	"fmt"
	"strconv"
	"strings"

	"gridsheet/internal/grid"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

const helpText = `
 i / Enter - edit
 Ctrl+Enter - save & stay
 Shift/Alt+Enter - newline
 = - formula, e.g. =SUM(A1:C3)
 : - command
 b / I - bold / italic
 drag with mouse - move cell
 Ctrl arrows - col width / row height
 F2/F3 - add row/col
 F4/F5 - delete row/col
 PgUp/PgDn/Home/End - jump
 :w file | :o file (.grid .csv .xlsx)
 :fx =AVERAGE(B1:B9) | :replace A1:C9 a b
 :trim :upper :lower :title :reverse
 :dedup A1:C9 | :color red | :mv B2
 q - quit
`

var (
	headerStyle   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	activeStyle   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	selectedStyle = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorLightGray)
	statusStyle   = tcell.StyleDefault.Background(tcell.ColorGray).Foreground(tcell.ColorWhite)
	caretStyle    = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorLightGray)
)

func (a *App) Draw(s tcell.Screen) {
	s.Clear()
	w, h := s.Size()
	a.bottom = max(0, h-a.cfg.StatusLines)
	a.Sheet.EnsureRow(a.CurRow)
	a.Sheet.EnsureCol(a.CurCol)

	a.drawHeader(s, w)
	a.drawRows(s, w)
	a.drawStatus(s, w)

	if a.HelpVisible {
		a.drawHelpPopup(s, helpText)
	}
	a.drawCaret(s, w)
	s.Show()
}

func (a *App) drawHeader(s tcell.Screen, w int) {
	x := a.cfg.LeftGutter
	for c := a.ViewCol; c < a.Sheet.Cols() && x < w; c++ {
		wc := a.Sheet.ColWidths[c]
		style := headerStyle
		if c == a.CurCol {
			style = activeStyle
			a.fill(s, x, 0, wc, 1, style)
		}
		a.printPadded(s, x, 0, grid.ColumnName(c+1), style, wc)
		x += wc
	}
}

func (a *App) drawRows(s tcell.Screen, w int) {
	y := 1
	for r := a.ViewRow; r < a.Sheet.Rows() && y < a.bottom; r++ {
		gutter := headerStyle
		if r == a.CurRow {
			gutter = activeStyle
			a.fill(s, 0, y, a.cfg.LeftGutter-1, 1, gutter)
		}
		printTextFixedWidth(s, 0, y, strconv.Itoa(r+1), gutter, a.cfg.LeftGutter-1)

		hh := a.Sheet.RowHeights[r]
		x := a.cfg.LeftGutter
		for c := a.ViewCol; c < a.Sheet.Cols() && x < w; c++ {
			wc := a.Sheet.ColWidths[c]
			cell, _ := a.Sheet.Get(r, c)
			text := cell.Text
			if a.Mode == ModeInsert && r == a.CurRow && c == a.CurCol {
				text = a.InputBuf
			}

			style := cellStyle(cell.Format, r == a.CurRow && c == a.CurCol)
			rows := min(hh, a.bottom-y)
			a.fill(s, x, y, wc, rows, style)
			for dy, line := range splitLines(text, rows) {
				a.printPadded(s, x, y+dy, line, style, wc)
			}
			x += wc
		}
		y += hh
	}
}

func cellStyle(f grid.Format, selected bool) tcell.Style {
	style := tcell.StyleDefault
	if selected {
		style = selectedStyle
	} else if f.Color != "" {
		style = style.Foreground(tcell.GetColor(f.Color))
	}
	return style.Bold(f.Bold).Italic(f.Italic)
}

func (a *App) drawStatus(s tcell.Screen, w int) {
	if a.cfg.StatusLines < 1 {
		return
	}
	left := fmt.Sprintf("Mode:%s  Cell:%s  cw=%d rh=%d", a.Mode, a.currentRef(),
		a.Sheet.ColWidths[a.CurCol], a.Sheet.RowHeights[a.CurRow])
	if a.File != "" {
		left += "  File:" + a.File
	}
	printTextFixedWidth(s, 0, a.bottom, left, statusStyle, w)

	if a.cfg.StatusLines < 2 {
		return
	}
	line := a.StatusMsg
	if a.Mode == ModeInsert {
		line = "EDIT: " + a.InputBuf
	}
	printTextFixedWidth(s, 0, a.bottom+1, line, statusStyle, w)
}

// drawCaret marks the end of the edit buffer inside the active cell.
func (a *App) drawCaret(s tcell.Screen, w int) {
	if a.Mode != ModeInsert || a.CurRow < a.ViewRow || a.CurCol < a.ViewCol {
		return
	}
	x, y := a.cellOrigin(a.CurRow, a.CurCol)
	lines := strings.Split(a.InputBuf, "\n")
	last := len(lines) - 1
	colW := a.Sheet.ColWidths[a.CurCol]
	rowH := a.Sheet.RowHeights[a.CurRow]

	pad := a.cfg.CellPadding
	if colW-2*pad < 1 {
		pad = 0
	}
	cx := x + pad + min(runewidth.StringWidth(lines[last]), max(0, colW-2*pad-1))
	cy := y + min(last, rowH-1)
	if cx < w && cy < a.bottom {
		s.SetContent(cx, cy, '▏', nil, caretStyle)
	}
}

func (a *App) drawHelpPopup(s tcell.Screen, help string) {
	w, h := s.Size()
	if w < 10 || h < 5 {
		return
	}

	const padding = 2
	innerW := min(50, w-6-padding*2)
	lines := wrapText(help, innerW)
	if maxLines := h - 6 - padding*2; len(lines) > maxLines {
		lines = lines[:max(0, maxLines)]
	}
	innerH := max(len(lines), 3)

	pw := innerW + padding*2
	ph := innerH + padding*2
	left := (w - pw) / 2
	top := (h - ph) / 2

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	drawBox(s, left, top, pw, ph, style)
	for i, ln := range lines {
		printTextFixedWidth(s, left+padding, top+padding+i, ln, style, innerW)
	}
}

// drawBox clears a rectangle and frames it.
func drawBox(s tcell.Screen, left, top, bw, bh int, style tcell.Style) {
	for y := top; y < top+bh; y++ {
		for x := left; x < left+bw; x++ {
			s.SetContent(x, y, ' ', nil, style)
		}
	}
	for x := left + 1; x < left+bw-1; x++ {
		s.SetContent(x, top, tcell.RuneHLine, nil, style)
		s.SetContent(x, top+bh-1, tcell.RuneHLine, nil, style)
	}
	for y := top + 1; y < top+bh-1; y++ {
		s.SetContent(left, y, tcell.RuneVLine, nil, style)
		s.SetContent(left+bw-1, y, tcell.RuneVLine, nil, style)
	}
	s.SetContent(left, top, tcell.RuneULCorner, nil, style)
	s.SetContent(left+bw-1, top, tcell.RuneURCorner, nil, style)
	s.SetContent(left, top+bh-1, tcell.RuneLLCorner, nil, style)
	s.SetContent(left+bw-1, top+bh-1, tcell.RuneLRCorner, nil, style)
}

func (a *App) fill(s tcell.Screen, x, y, w, h int, style tcell.Style) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			s.SetContent(x+dx, y+dy, ' ', nil, style)
		}
	}
}

// printPadded prints text inside a cell of width w, leaving CellPadding
// columns on each side when there is room for them.
func (a *App) printPadded(s tcell.Screen, x, y int, text string, style tcell.Style, w int) {
	inner := w - 2*a.cfg.CellPadding
	if inner > 0 {
		printTextFixedWidth(s, x+a.cfg.CellPadding, y, text, style, inner)
		return
	}
	printTextFixedWidth(s, x, y, text, style, w)
}

// printTextFixedWidth prints str into exactly width terminal columns,
// truncating it or padding it with spaces. Wide runes take two columns.
func printTextFixedWidth(s tcell.Screen, x, y int, str string, style tcell.Style, width int) {
	if x < 0 || y < 0 {
		return
	}
	used := 0
	for _, r := range str {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if used+rw > width {
			break
		}
		s.SetContent(x+used, y, r, nil, style)
		used += rw
	}
	for ; used < width; used++ {
		s.SetContent(x+used, y, ' ', nil, style)
	}
}

// splitLines returns at most maxLines lines of text.
func splitLines(text string, maxLines int) []string {
	if maxLines <= 0 {
		return nil
	}
	parts := strings.Split(text, "\n")
	return parts[:min(len(parts), maxLines)]
}

// wrapText breaks s into lines of at most width columns, keeping explicit
// newlines. Words longer than a line are cut.
func wrapText(s string, width int) []string {
	if width <= 2 {
		return []string{s}
	}
	var out []string
	for _, para := range strings.Split(strings.Trim(s, "\n"), "\n") {
		cur := ""
		for _, word := range strings.Fields(para) {
			for runewidth.StringWidth(word) > width {
				if cur != "" {
					out = append(out, cur)
					cur = ""
				}
				head := runewidth.Truncate(word, width, "")
				out = append(out, head)
				word = word[len(head):]
			}
			switch {
			case cur == "":
				cur = word
			case runewidth.StringWidth(cur)+1+runewidth.StringWidth(word) <= width:
				cur += " " + word
			default:
				out = append(out, cur)
				cur = word
			}
		}
		out = append(out, cur)
	}
	return out
}
