// Package crops builds ranked crop lists from detected ranking tables.
package crops

import "github.com/krishisetu/krishi-cli/internal/sheet"

// The list is truncated to the first N data rows in source order. "Top"
// means position in the source sheet, not a computed ranking.
const maxRanked = 10

// Sentinel for cells the source sheet left blank.
const missing = "N/A"

// Ranked is one crop with its positional rank and metrics.
type Ranked struct {
	Rank       int    `json:"rank"`
	Name       string `json:"name"`
	Area       string `json:"area"`
	Production string `json:"production"`
	Yield      string `json:"yield"`
}

// List is the ranked crop list with source metadata.
type List struct {
	Crops      []Ranked `json:"crops"`
	TotalCrops int      `json:"totalCrops"`
	Headers    []string `json:"headers,omitempty"`
}

// Build maps each data row positionally to a Ranked entry and truncates to
// the first ten rows. TotalCrops counts all surviving rows, including those
// cut by truncation.
func Build(t *sheet.Table) *List {
	l := &List{Crops: []Ranked{}}
	if t == nil {
		return l
	}
	l.Headers = t.Headers
	l.TotalCrops = len(t.DataRows)

	for i, row := range t.DataRows {
		if i >= maxRanked {
			break
		}
		l.Crops = append(l.Crops, Ranked{
			Rank:       i + 1,
			Name:       cellOr(row, 0),
			Area:       cellOr(row, 1),
			Production: cellOr(row, 2),
			Yield:      cellOr(row, 3),
		})
	}
	return l
}

func cellOr(row []sheet.Cell, col int) string {
	if col >= len(row) || row[col].IsEmpty() {
		return missing
	}
	return row[col].String()
}
