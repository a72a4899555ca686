// Package market computes price statistics from detected district price
// tables. Columns are positional: district, current price, previous month,
// previous year, month-over-month change, year-over-year change.
package market

import (
	"strconv"
	"strings"

	"github.com/krishisetu/krishi-cli/internal/sheet"
)

// Column positions in a market table.
const (
	ColDistrict = iota
	ColCurrent
	ColPrevMonth
	ColPrevYear
	ColMonthChange
	ColYearChange
)

// Range is a min/max price pair.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Summary holds aggregate market statistics for one crop and month.
// Fields are always numeric; an empty table yields the zero summary.
type Summary struct {
	CropName       string  `json:"cropName"`
	Month          string  `json:"month"`
	TotalDistricts int     `json:"totalDistricts"`
	AvgPrice       float64 `json:"avgPrice"`
	PriceRange     Range   `json:"priceRange"`
}

// DistrictRow is one district's values across all price and change columns.
// A nil field means the source cell was missing or not numeric.
type DistrictRow struct {
	District    string   `json:"district"`
	Current     *float64 `json:"current,omitempty"`
	PrevMonth   *float64 `json:"prevMonth,omitempty"`
	PrevYear    *float64 `json:"prevYear,omitempty"`
	MonthChange *float64 `json:"monthChange,omitempty"`
	YearChange  *float64 `json:"yearChange,omitempty"`
}

// cellNumber parses a cell as a number. Numeric cells pass through; text
// cells get a locale-neutral decimal parse.
func cellNumber(c sheet.Cell) (float64, bool) {
	switch c.Kind {
	case sheet.KindNumber:
		return c.Number, true
	case sheet.KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(c.Text), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Series extracts the price series from one column. Invalid and non-positive
// entries are dropped, never coerced to zero, so the result may be shorter
// than the table's data rows.
func Series(t *sheet.Table, col int) []float64 {
	if t == nil {
		return nil
	}
	var out []float64
	for _, row := range t.DataRows {
		if col >= len(row) {
			continue
		}
		if v, ok := cellNumber(row[col]); ok && v > 0 {
			out = append(out, v)
		}
	}
	return out
}

// ChangeSeries extracts a percentage-change series from one column. Change
// values may legitimately be negative or zero; only non-numeric entries are
// dropped.
func ChangeSeries(t *sheet.Table, col int) []float64 {
	if t == nil {
		return nil
	}
	var out []float64
	for _, row := range t.DataRows {
		if col >= len(row) {
			continue
		}
		if v, ok := cellNumber(row[col]); ok {
			out = append(out, v)
		}
	}
	return out
}

// Summarize computes the market summary from the current-price column.
// TotalDistricts counts data rows, independent of how many price cells
// survived sanitation.
func Summarize(t *sheet.Table, cropName, month string) Summary {
	s := Summary{CropName: cropName, Month: month}
	if t == nil {
		return s
	}
	s.TotalDistricts = len(t.DataRows)

	prices := Series(t, ColCurrent)
	if len(prices) == 0 {
		return s
	}

	sum := 0.0
	min, max := prices[0], prices[0]
	for _, p := range prices {
		sum += p
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	s.AvgPrice = sum / float64(len(prices))
	s.PriceRange = Range{Min: min, Max: max}
	return s
}

// Districts builds per-district rows keyed by the district label, so a
// label always refers to its own district's values even when some cells
// fail to parse.
func Districts(t *sheet.Table) []DistrictRow {
	if t == nil {
		return nil
	}
	out := make([]DistrictRow, 0, len(t.DataRows))
	for _, row := range t.DataRows {
		dr := DistrictRow{District: row[ColDistrict].String()}
		dr.Current = positiveAt(row, ColCurrent)
		dr.PrevMonth = positiveAt(row, ColPrevMonth)
		dr.PrevYear = positiveAt(row, ColPrevYear)
		dr.MonthChange = numberAt(row, ColMonthChange)
		dr.YearChange = numberAt(row, ColYearChange)
		out = append(out, dr)
	}
	return out
}

func positiveAt(row []sheet.Cell, col int) *float64 {
	if col >= len(row) {
		return nil
	}
	if v, ok := cellNumber(row[col]); ok && v > 0 {
		return &v
	}
	return nil
}

func numberAt(row []sheet.Cell, col int) *float64 {
	if col >= len(row) {
		return nil
	}
	if v, ok := cellNumber(row[col]); ok {
		return &v
	}
	return nil
}
