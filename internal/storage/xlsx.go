package storage

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/xuri/excelize/v2"

	"gridsheet/internal/grid"
)

const (
	// PointsPerLine converts a row height in text lines to Excel points.
	PointsPerLine = 15.0
	maxRowPoints  = 409.0
)

// WriteXLSX writes the sheet as a single-sheet workbook, keeping text,
// bold/italic/colour and column widths and row heights.
func WriteXLSX(w io.Writer, s *grid.Sheet) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, width := range s.ColWidths {
		name := grid.ColumnName(i + 1)
		if err := f.SetColWidth(sheet, name, name, float64(width)); err != nil {
			return fmt.Errorf("column %s width: %w", name, err)
		}
	}
	for i, height := range s.RowHeights {
		points := math.Min(float64(height)*PointsPerLine, maxRowPoints)
		if err := f.SetRowHeight(sheet, i+1, points); err != nil {
			return fmt.Errorf("row %d height: %w", i+1, err)
		}
	}

	styles := map[grid.Format]int{}
	for k, c := range s.Cells {
		cell, err := excelize.CoordinatesToCellName(k[1]+1, k[0]+1)
		if err != nil {
			return err
		}
		if c.Text != "" {
			if err := f.SetCellStr(sheet, cell, c.Text); err != nil {
				return fmt.Errorf("cell %s: %w", cell, err)
			}
		}
		if c.Format == (grid.Format{}) {
			continue
		}
		id, ok := styles[c.Format]
		if !ok {
			id, err = f.NewStyle(&excelize.Style{Font: fontFor(c.Format)})
			if err != nil {
				return fmt.Errorf("cell %s style: %w", cell, err)
			}
			styles[c.Format] = id
		}
		if err := f.SetCellStyle(sheet, cell, cell, id); err != nil {
			return fmt.Errorf("cell %s style: %w", cell, err)
		}
	}

	if s.Rows() > 0 && s.Cols() > 0 {
		last := grid.RefAt(s.Rows()-1, s.Cols()-1)
		if err := f.SetSheetDimension(sheet, "A1:"+last.String()); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("error writing XLSX: %w", err)
	}
	return nil
}

// ReadXLSX reads the first sheet of a workbook.
func ReadXLSX(r io.Reader, width, height int) (*grid.Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("error reading XLSX: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return grid.NewSheet(1, 1, width, height), nil
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %q: %w", sheet, err)
	}
	nRows, nCols := max(len(rows), 1), 1
	for _, row := range rows {
		nCols = max(nCols, len(row))
	}
	// the declared dimension may only widen the sheet as far as a range
	// operation could visit; beyond that the cells holding values decide
	if dim, err := f.GetSheetDimension(sheet); err == nil {
		if r, ok := parseDimension(dim); ok {
			declared := grid.NewRange(grid.CellRef{Col: 1, Row: 1}, grid.CellRef{
				Col: max(nCols, r.End.Col),
				Row: max(nRows, r.End.Row),
			})
			if declared.CheckSize() == nil {
				nRows, nCols = declared.Rows(), declared.Cols()
			}
		}
	}
	nRows, nCols = min(nRows, grid.MaxRow), min(nCols, grid.MaxColumn)

	s := grid.NewSheet(nRows, nCols, width, height)
	for c := 0; c < nCols; c++ {
		if w, err := f.GetColWidth(sheet, grid.ColumnName(c+1)); err == nil {
			s.ColWidths[c] = max(int(math.Round(w)), grid.MinColWidth)
		}
	}
	for r := 0; r < nRows; r++ {
		if h, err := f.GetRowHeight(sheet, r+1); err == nil {
			s.RowHeights[r] = max(int(math.Round(h/PointsPerLine)), grid.MinRowHeight)
		}
	}
	for rIdx, row := range rows {
		for cIdx, val := range row {
			if val != "" {
				s.Set(rIdx, cIdx, val)
			}
		}
	}

	for r := 0; r < nRows; r++ {
		for c := 0; c < nCols; c++ {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			id, err := f.GetCellStyle(sheet, cell)
			if err != nil || id == 0 {
				continue
			}
			style, err := f.GetStyle(id)
			if err != nil || style.Font == nil {
				continue
			}
			format := grid.Format{
				Bold:   style.Font.Bold,
				Italic: style.Font.Italic,
				Color:  colorFromHex(style.Font.Color),
			}
			if format != (grid.Format{}) {
				s.SetFormat(r, c, format)
			}
		}
	}
	return s, nil
}

// SaveXLSX writes the sheet to an .xlsx file.
func SaveXLSX(s *grid.Sheet, filename string) error {
	out, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := WriteXLSX(out, s); err != nil {
		out.Close()
		return fmt.Errorf("%s: %w", filename, err)
	}
	return out.Close()
}

// LoadXLSX loads the first sheet of an .xlsx file.
func LoadXLSX(filename string, width, height int) (*grid.Sheet, error) {
	in, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	s, err := ReadXLSX(in, width, height)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}

func fontFor(format grid.Format) *excelize.Font {
	return &excelize.Font{
		Bold:   format.Bold,
		Italic: format.Italic,
		Color:  colorToHex(format.Color),
	}
}

// colorToHex turns a colour name or "#rrggbb" into Excel's "RRGGBB".
// Unknown names give "".
func colorToHex(name string) string {
	if name == "" {
		return ""
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return ""
	}
	hex := c.Hex()
	if hex < 0 {
		return ""
	}
	return fmt.Sprintf("%06X", hex)
}

// colorFromHex accepts "RRGGBB", "#RRGGBB" or ARGB "AARRGGBB".
func colorFromHex(hex string) string {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 8 {
		hex = hex[2:]
	}
	if len(hex) != 6 {
		return ""
	}
	return "#" + strings.ToLower(hex)
}

func parseDimension(dim string) (grid.Range, bool) {
	dim = strings.ToUpper(strings.ReplaceAll(dim, "$", ""))
	if r, err := grid.ParseRange(dim); err == nil {
		return r, true
	}
	if ref, err := grid.ParseCellRef(dim); err == nil {
		return grid.NewRange(ref, ref), true
	}
	return grid.Range{}, false
}
