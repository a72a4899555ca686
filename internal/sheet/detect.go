package sheet

// Header markers recognized by the detector. Matching is exact string
// equality on the first cell of a row, with no normalization.
var (
	RankingMarkers = []string{"Crop", "Crop Name", "Name"}
	MarketMarkers  = []string{"District"}
)

// A market sheet needs at least title + blank + header + one data row.
const minMarketRows = 4

// Table is the normalized header+rows view extracted from one raw sheet.
// DataRows holds every row after the header whose first cell is non-empty.
type Table struct {
	HeaderRow int
	Headers   []string
	DataRows  [][]Cell
}

// Detect scans rows top to bottom for the first row whose first cell equals
// one of the markers and builds a Table from it. In permissive mode a sheet
// with no marker row falls back to treating row 0 as the header; otherwise
// the sheet yields nil (no table found, not an error).
func Detect(rs *RawSheet, markers []string, permissive bool) *Table {
	if rs == nil || len(rs.Rows) == 0 {
		return nil
	}

	headerRow := -1
	var headers []string
	for i, row := range rs.Rows {
		if len(row) == 0 || row[0].Kind != KindText {
			continue
		}
		if matchesAny(row[0].Text, markers) {
			headerRow = i
			headers = rowStrings(row)
			break
		}
	}

	if headerRow == -1 {
		if !permissive {
			return nil
		}
		headerRow = 0
		headers = rowStrings(rs.Rows[0])
	}

	t := &Table{HeaderRow: headerRow, Headers: headers}
	for _, row := range rs.Rows[headerRow+1:] {
		if len(row) == 0 || row[0].IsEmpty() {
			continue
		}
		t.DataRows = append(t.DataRows, row)
	}
	return t
}

// DetectMarket locates the district price table of a market sheet. Sheets
// shorter than four rows cannot contain title + blank + header + data and
// are rejected before the scan.
func DetectMarket(rs *RawSheet) *Table {
	if rs == nil || len(rs.Rows) < minMarketRows {
		return nil
	}
	return Detect(rs, MarketMarkers, false)
}

// DetectRanking locates the crop ranking table. Falls back to row 0 as the
// header when no marker row is present.
func DetectRanking(rs *RawSheet) *Table {
	return Detect(rs, RankingMarkers, true)
}

func matchesAny(s string, markers []string) bool {
	for _, m := range markers {
		if s == m {
			return true
		}
	}
	return false
}

func rowStrings(row []Cell) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = c.String()
	}
	return out
}
