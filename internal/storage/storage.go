package storage

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gridsheet/internal/grid"
)

const (
	ExtCSV      = ".csv"
	ExtDocument = ".grid"
	ExtXLSX     = ".xlsx"
)

// Save writes the sheet in the format chosen by the file extension. Unknown
// extensions are saved as a .grid document.
func Save(s *grid.Sheet, filename string) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ExtCSV:
		return SaveCSV(s, filename)
	case ExtXLSX:
		return SaveXLSX(s, filename)
	}
	return SaveDocument(s, filename)
}

// Load reads a sheet in the format chosen by the file extension. Formats that
// carry no sizes use the given default column width and row height.
func Load(filename string, width, height int) (*grid.Sheet, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ExtCSV:
		return LoadCSV(filename, width, height)
	case ExtXLSX:
		return LoadXLSX(filename, width, height)
	}
	return LoadDocument(filename, width, height)
}

// WriteCSV writes the used area of the sheet as CSV. Formats and sizes are
// not kept.
func WriteCSV(w io.Writer, s *grid.Sheet) error {
	maxR, maxC := s.Used()
	if maxR == 0 {
		return nil
	}
	out := make([][]string, maxR)
	for r := 0; r < maxR; r++ {
		row := make([]string, maxC)
		for c := 0; c < maxC; c++ {
			row[c] = s.Text(r, c)
		}
		out[r] = row
	}
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(out); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}
	return nil
}

// ReadCSV loads CSV records into a new sheet sized to the data.
func ReadCSV(r io.Reader, width, height int) (*grid.Sheet, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}
	cols := 1
	for _, row := range records {
		cols = max(cols, len(row))
	}
	s := grid.NewSheet(max(len(records), 1), cols, width, height)
	for rIdx, row := range records {
		for cIdx, val := range row {
			if val != "" {
				s.Set(rIdx, cIdx, val)
			}
		}
	}
	return s, nil
}

// SaveCSV writes the sheet to a CSV file.
func SaveCSV(s *grid.Sheet, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, s); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", filename, err)
	}
	return f.Close()
}

// LoadCSV loads a CSV file into a new sheet.
func LoadCSV(filename string, width, height int) (*grid.Sheet, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := ReadCSV(f, width, height)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}
