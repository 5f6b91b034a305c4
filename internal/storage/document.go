package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"gridsheet/internal/grid"
)

const documentVersion = 1

var ErrDocumentVersion = errors.New("unsupported document version")

// document is the on-disk form of a .grid file.
type document struct {
	Version    int            `yaml:"version"`
	ColWidths  []int          `yaml:"col_widths"`
	RowHeights []int          `yaml:"row_heights"`
	Cells      []documentCell `yaml:"cells,omitempty"`
}

type documentCell struct {
	Ref         string `yaml:"ref"`
	Text        string `yaml:"text,omitempty"`
	grid.Format `yaml:",inline"`
}

// WriteDocument writes text, formats, column widths and row heights as YAML.
func WriteDocument(w io.Writer, s *grid.Sheet) error {
	doc := document{
		Version:    documentVersion,
		ColWidths:  s.ColWidths,
		RowHeights: s.RowHeights,
	}
	keys := make([][2]int, 0, len(s.Cells))
	for k := range s.Cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})
	for _, k := range keys {
		c := s.Cells[k]
		doc.Cells = append(doc.Cells, documentCell{
			Ref:    grid.RefAt(k[0], k[1]).String(),
			Text:   c.Text,
			Format: c.Format,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("error writing document: %w", err)
	}
	return enc.Close()
}

// ReadDocument reads a YAML document written by WriteDocument.
func ReadDocument(r io.Reader, width, height int) (*grid.Sheet, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("error reading document: %w", err)
	}
	if doc.Version != documentVersion {
		return nil, fmt.Errorf("%w: %d", ErrDocumentVersion, doc.Version)
	}

	s := grid.NewSheet(max(len(doc.RowHeights), 1), max(len(doc.ColWidths), 1), width, height)
	for i, w := range doc.ColWidths {
		s.ColWidths[i] = max(w, grid.MinColWidth)
	}
	for i, h := range doc.RowHeights {
		s.RowHeights[i] = max(h, grid.MinRowHeight)
	}
	for _, c := range doc.Cells {
		ref, err := grid.ParseCellRef(c.Ref)
		if err != nil {
			return nil, fmt.Errorf("error reading document: %w", err)
		}
		row, col := ref.Index()
		s.Set(row, col, c.Text)
		s.SetFormat(row, col, c.Format)
	}
	return s, nil
}

// SaveDocument writes the sheet to a .grid file.
func SaveDocument(s *grid.Sheet, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := WriteDocument(f, s); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", filename, err)
	}
	return f.Close()
}

// LoadDocument loads a .grid file.
func LoadDocument(filename string, width, height int) (*grid.Sheet, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := ReadDocument(f, width, height)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}
