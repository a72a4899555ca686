package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marketSheet() *RawSheet {
	return &RawSheet{
		Name: "May-2024",
		Rows: [][]Cell{
			{Text("RICE Market Prices")},
			{},
			{Text("District"), Text("May-2024"), Text("Apr-2024"), Text("May-2023"), Text("M%"), Text("Y%")},
			{Text("Ernakulam"), Number(120), Number(110), Number(100), Number(9.1), Number(20)},
			{Text("Kottayam"), Text("x"), Number(90), Number(95), Number(0), Number(-5.3)},
		},
	}
}

func TestDetectMarket(t *testing.T) {
	tbl := DetectMarket(marketSheet())
	require.NotNil(t, tbl)

	assert.Equal(t, 2, tbl.HeaderRow)
	assert.Equal(t, []string{"District", "May-2024", "Apr-2024", "May-2023", "M%", "Y%"}, tbl.Headers)
	require.Len(t, tbl.DataRows, 2)
	assert.Equal(t, "Ernakulam", tbl.DataRows[0][0].Text)
	assert.Equal(t, "Kottayam", tbl.DataRows[1][0].Text)
}

func TestDetectMarket_TooShort(t *testing.T) {
	rs := &RawSheet{Rows: [][]Cell{
		{Text("District")},
		{Text("Ernakulam"), Number(120)},
	}}
	assert.Nil(t, DetectMarket(rs))
}

func TestDetectMarket_NoMarker(t *testing.T) {
	rs := &RawSheet{Rows: [][]Cell{
		{Text("Title")},
		{Text("NotDistrict"), Number(1)},
		{Text("A"), Number(2)},
		{Text("B"), Number(3)},
	}}
	assert.Nil(t, DetectMarket(rs))
}

func TestDetectMarket_NilSheet(t *testing.T) {
	assert.Nil(t, DetectMarket(nil))
}

func TestDetect_ExactMatchOnly(t *testing.T) {
	rs := &RawSheet{Rows: [][]Cell{
		{Text("district"), Number(1)},
		{Text("District "), Number(2)},
		{Text("District"), Number(3)},
		{Text("Ernakulam"), Number(4)},
	}}
	tbl := DetectMarket(rs)
	require.NotNil(t, tbl)
	assert.Equal(t, 2, tbl.HeaderRow)
	require.Len(t, tbl.DataRows, 1)
}

func TestDetect_SkipsBlankFirstCellRows(t *testing.T) {
	rs := &RawSheet{Rows: [][]Cell{
		{Text("Title")},
		{},
		{Text("District"), Text("Price")},
		{Text("Ernakulam"), Number(120)},
		{Empty(), Number(999)},
		{},
		{Text("Kottayam"), Number(90)},
	}}
	tbl := DetectMarket(rs)
	require.NotNil(t, tbl)
	require.Len(t, tbl.DataRows, 2)
	assert.Equal(t, "Ernakulam", tbl.DataRows[0][0].Text)
	assert.Equal(t, "Kottayam", tbl.DataRows[1][0].Text)
}

func TestDetectRanking_MarkerVariants(t *testing.T) {
	for _, marker := range []string{"Crop", "Crop Name", "Name"} {
		rs := &RawSheet{Rows: [][]Cell{
			{Text("Kerala crop statistics")},
			{Text(marker), Text("Area"), Text("Production"), Text("Yield")},
			{Text("Coconut"), Number(760), Number(5230), Number(6.9)},
		}}
		tbl := DetectRanking(rs)
		require.NotNil(t, tbl, marker)
		assert.Equal(t, 1, tbl.HeaderRow, marker)
		require.Len(t, tbl.DataRows, 1, marker)
	}
}

func TestDetectRanking_FallsBackToFirstRow(t *testing.T) {
	rs := &RawSheet{Rows: [][]Cell{
		{Text("Coconut"), Number(760), Number(5230)},
		{Text("Rice"), Number(190), Number(590)},
	}}
	tbl := DetectRanking(rs)
	require.NotNil(t, tbl)
	assert.Equal(t, 0, tbl.HeaderRow)
	assert.Equal(t, []string{"Coconut", "760", "5230"}, tbl.Headers)
	// Row 0 became the header, so only row 1 remains as data.
	require.Len(t, tbl.DataRows, 1)
	assert.Equal(t, "Rice", tbl.DataRows[0][0].Text)
}

func TestDetectRanking_EmptySheet(t *testing.T) {
	assert.Nil(t, DetectRanking(&RawSheet{}))
	assert.Nil(t, DetectRanking(nil))
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "120", Number(120).String())
	assert.Equal(t, "9.1", Number(9.1).String())
	assert.Equal(t, "Ernakulam", Text("Ernakulam").String())
	assert.Equal(t, "", Empty().String())
}
