// Package sheet reads xlsx workbooks into a cell model that preserves the
// distinction between numeric, text, and empty cells, and locates the real
// header row inside loosely structured sheets.
package sheet

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Kind classifies a cell value.
type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
)

// Cell is a single spreadsheet cell.
type Cell struct {
	Kind   Kind
	Text   string
	Number float64
}

// Text returns a text cell.
func Text(s string) Cell { return Cell{Kind: KindText, Text: s} }

// Number returns a numeric cell.
func Number(f float64) Cell { return Cell{Kind: KindNumber, Number: f} }

// Empty returns an empty cell.
func Empty() Cell { return Cell{} }

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool { return c.Kind == KindEmpty }

// String renders the cell value. Numbers are rendered without trailing zeros.
func (c Cell) String() string {
	switch c.Kind {
	case KindNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case KindText:
		return c.Text
	default:
		return ""
	}
}

// RawSheet is one sheet of a workbook: an ordered sequence of rows of
// heterogeneously typed cells. Immutable once read.
type RawSheet struct {
	Name string
	Rows [][]Cell
}

// Workbook holds all sheets of one xlsx file.
type Workbook struct {
	Sheets []RawSheet
}

// SheetNames lists the sheet names in file order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.Sheets))
	for i, s := range w.Sheets {
		names[i] = s.Name
	}
	return names
}

// First returns the first sheet, or nil for an empty workbook.
func (w *Workbook) First() *RawSheet {
	if len(w.Sheets) == 0 {
		return nil
	}
	return &w.Sheets[0]
}

// ByName returns the named sheet, or nil if absent.
func (w *Workbook) ByName(name string) *RawSheet {
	for i := range w.Sheets {
		if w.Sheets[i].Name == name {
			return &w.Sheets[i]
		}
	}
	return nil
}

// OpenFile reads an xlsx workbook from disk.
func OpenFile(path string) (*Workbook, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "sheet: open file")
	}
	return fromFile(f), nil
}

// Open reads an xlsx workbook from raw bytes.
func Open(data []byte) (*Workbook, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "sheet: open binary")
	}
	return fromFile(f), nil
}

func fromFile(f *xlsx.File) *Workbook {
	wb := &Workbook{Sheets: make([]RawSheet, 0, len(f.Sheets))}
	for _, s := range f.Sheets {
		rs := RawSheet{Name: s.Name, Rows: make([][]Cell, 0, len(s.Rows))}
		for _, row := range s.Rows {
			cells := make([]Cell, len(row.Cells))
			for j, cell := range row.Cells {
				cells[j] = fromXLSXCell(cell)
			}
			rs.Rows = append(rs.Rows, cells)
		}
		wb.Sheets = append(wb.Sheets, rs)
	}
	return wb
}

func fromXLSXCell(c *xlsx.Cell) Cell {
	if c.Type() == xlsx.CellTypeNumeric {
		if f, err := c.Float(); err == nil {
			return Number(f)
		}
	}
	s := c.String()
	if strings.TrimSpace(s) == "" {
		return Empty()
	}
	return Text(s)
}
