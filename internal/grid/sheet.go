package grid

const (
	MinColWidth  = 4
	MinRowHeight = 1
)

// Format holds the visual attributes of a cell.
type Format struct {
	Bold   bool   `yaml:"bold,omitempty" json:"bold,omitempty"`
	Italic bool   `yaml:"italic,omitempty" json:"italic,omitempty"`
	Color  string `yaml:"color,omitempty" json:"color,omitempty"`
}

// Cell represents a single cell content.
type Cell struct {
	Text   string
	Format Format
}

func (c Cell) empty() bool {
	return c.Text == "" && c.Format == Format{}
}

// Sheet is a sparse grid of cells together with its column widths and row
// heights. Cells are keyed by 0-based {row, col}; the extent of the sheet is
// len(RowHeights) x len(ColWidths).
type Sheet struct {
	Cells         map[[2]int]Cell
	ColWidths     []int
	RowHeights    []int
	DefaultWidth  int
	DefaultHeight int
}

func NewSheet(rows, cols, defaultWidth, defaultHeight int) *Sheet {
	s := &Sheet{
		Cells:         map[[2]int]Cell{},
		DefaultWidth:  max(defaultWidth, MinColWidth),
		DefaultHeight: max(defaultHeight, MinRowHeight),
	}
	s.EnsureRow(rows - 1)
	s.EnsureCol(cols - 1)
	return s
}

func (s *Sheet) Rows() int { return len(s.RowHeights) }
func (s *Sheet) Cols() int { return len(s.ColWidths) }

func (s *Sheet) EnsureRow(idx int) {
	for len(s.RowHeights) <= idx {
		s.RowHeights = append(s.RowHeights, s.DefaultHeight)
	}
}

func (s *Sheet) EnsureCol(idx int) {
	for len(s.ColWidths) <= idx {
		s.ColWidths = append(s.ColWidths, s.DefaultWidth)
	}
}

func (s *Sheet) Get(row, col int) (Cell, bool) {
	c, ok := s.Cells[[2]int{row, col}]
	return c, ok
}

func (s *Sheet) Text(row, col int) string {
	return s.Cells[[2]int{row, col}].Text
}

// Set replaces the text of a cell, keeping its format, and grows the sheet
// to include it. Coordinates no reference can name are ignored.
func (s *Sheet) Set(row, col int, text string) {
	if !addressable(row, col) {
		return
	}
	s.EnsureRow(row)
	s.EnsureCol(col)
	c := s.Cells[[2]int{row, col}]
	c.Text = text
	s.put(row, col, c)
}

func (s *Sheet) put(row, col int, c Cell) {
	if c.empty() {
		delete(s.Cells, [2]int{row, col})
		return
	}
	s.Cells[[2]int{row, col}] = c
}

// CellTextAt reads a cell by 1-based row and column. The second result is
// false when the coordinate lies outside the sheet.
func (s *Sheet) CellTextAt(row, col int) (string, bool) {
	if row < 1 || col < 1 || row > s.Rows() || col > s.Cols() {
		return "", false
	}
	return s.Text(row-1, col-1), true
}

// Used returns the number of rows and columns up to the last non-empty cell.
func (s *Sheet) Used() (rows, cols int) {
	for k := range s.Cells {
		rows = max(rows, k[0]+1)
		cols = max(cols, k[1]+1)
	}
	return rows, cols
}

// InsertRow adds a row before idx, shifting the rows below down.
func (s *Sheet) InsertRow(idx int) {
	idx = clamp(idx, 0, len(s.RowHeights))
	s.RowHeights = append(s.RowHeights[:idx], append([]int{s.DefaultHeight}, s.RowHeights[idx:]...)...)
	s.shift(func(r, c int) (int, int, bool) {
		if r >= idx {
			return r + 1, c, true
		}
		return r, c, true
	})
}

// InsertCol adds a column before idx, shifting the columns on the right.
func (s *Sheet) InsertCol(idx int) {
	idx = clamp(idx, 0, len(s.ColWidths))
	s.ColWidths = append(s.ColWidths[:idx], append([]int{s.DefaultWidth}, s.ColWidths[idx:]...)...)
	s.shift(func(r, c int) (int, int, bool) {
		if c >= idx {
			return r, c + 1, true
		}
		return r, c, true
	})
}

func (s *Sheet) DeleteRow(idx int) bool {
	if idx < 0 || idx >= len(s.RowHeights) {
		return false
	}
	s.RowHeights = append(s.RowHeights[:idx], s.RowHeights[idx+1:]...)
	s.shift(func(r, c int) (int, int, bool) {
		switch {
		case r == idx:
			return 0, 0, false
		case r > idx:
			return r - 1, c, true
		}
		return r, c, true
	})
	return true
}

func (s *Sheet) DeleteCol(idx int) bool {
	if idx < 0 || idx >= len(s.ColWidths) {
		return false
	}
	s.ColWidths = append(s.ColWidths[:idx], s.ColWidths[idx+1:]...)
	s.shift(func(r, c int) (int, int, bool) {
		switch {
		case c == idx:
			return 0, 0, false
		case c > idx:
			return r, c - 1, true
		}
		return r, c, true
	})
	return true
}

func (s *Sheet) shift(move func(r, c int) (int, int, bool)) {
	cells := make(map[[2]int]Cell, len(s.Cells))
	for k, v := range s.Cells {
		if r, c, keep := move(k[0], k[1]); keep {
			cells[[2]int{r, c}] = v
		}
	}
	s.Cells = cells
}

// ResizeCol changes a column width by delta, never below MinColWidth.
func (s *Sheet) ResizeCol(col, delta int) {
	if col < 0 || col >= len(s.ColWidths) {
		return
	}
	s.ColWidths[col] = max(s.ColWidths[col]+delta, MinColWidth)
}

// ResizeRow changes a row height by delta, never below MinRowHeight.
func (s *Sheet) ResizeRow(row, delta int) {
	if row < 0 || row >= len(s.RowHeights) {
		return
	}
	s.RowHeights[row] = max(s.RowHeights[row]+delta, MinRowHeight)
}

func (s *Sheet) SetAllColWidths(w int) bool {
	if w < MinColWidth {
		return false
	}
	for i := range s.ColWidths {
		s.ColWidths[i] = w
	}
	return true
}

func (s *Sheet) SetAllRowHeights(h int) bool {
	if h < MinRowHeight {
		return false
	}
	for i := range s.RowHeights {
		s.RowHeights[i] = h
	}
	return true
}

// Move puts the text of one cell into another and clears the source.
// Formats stay where they are. It reports whether anything moved.
func (s *Sheet) Move(fromRow, fromCol, toRow, toCol int) bool {
	if fromRow == toRow && fromCol == toCol || !addressable(toRow, toCol) {
		return false
	}
	text := s.Text(fromRow, fromCol)
	s.Set(toRow, toCol, text)
	s.Set(fromRow, fromCol, "")
	return true
}

func (s *Sheet) ToggleBold(row, col int) {
	s.format(row, col, func(f *Format) { f.Bold = !f.Bold })
}

func (s *Sheet) ToggleItalic(row, col int) {
	s.format(row, col, func(f *Format) { f.Italic = !f.Italic })
}

// SetColor sets the text colour of a cell; an empty name resets it.
func (s *Sheet) SetColor(row, col int, color string) {
	s.format(row, col, func(f *Format) { f.Color = color })
}

// SetFormat replaces the whole format of a cell.
func (s *Sheet) SetFormat(row, col int, f Format) {
	s.format(row, col, func(dst *Format) { *dst = f })
}

func (s *Sheet) format(row, col int, fn func(*Format)) {
	if !addressable(row, col) {
		return
	}
	s.EnsureRow(row)
	s.EnsureCol(col)
	c := s.Cells[[2]int{row, col}]
	fn(&c.Format)
	s.put(row, col, c)
}

func addressable(row, col int) bool {
	return row >= 0 && row < MaxRow && col >= 0 && col < MaxColumn
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
