package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeMarketFixture(t *testing.T, dir, file string, months []string) {
	t.Helper()
	f := xlsx.NewFile()
	for _, m := range months {
		sh, err := f.AddSheet(m)
		require.NoError(t, err)

		sh.AddRow().AddCell().SetString("Market Prices")
		sh.AddRow()

		header := sh.AddRow()
		for _, h := range []string{"District", m, "Prev", "LastYear", "M%", "Y%"} {
			header.AddCell().SetString(h)
		}

		r1 := sh.AddRow()
		r1.AddCell().SetString("Ernakulam")
		r1.AddCell().SetFloat(120)
		r1.AddCell().SetFloat(110)
		r1.AddCell().SetFloat(100)
		r1.AddCell().SetFloat(9.1)
		r1.AddCell().SetFloat(20)

		r2 := sh.AddRow()
		r2.AddCell().SetString("Kottayam")
		r2.AddCell().SetFloat(80)
		r2.AddCell().SetFloat(90)
		r2.AddCell().SetFloat(95)
		r2.AddCell().SetFloat(-11.1)
		r2.AddCell().SetFloat(-15.8)
	}
	require.NoError(t, f.Save(filepath.Join(dir, file)))
}

func writeTopCropsFixture(t *testing.T, dir, file string) {
	t.Helper()
	f := xlsx.NewFile()
	sh, err := f.AddSheet("Sheet1")
	require.NoError(t, err)

	sh.AddRow().AddCell().SetString("Top crops of Kerala")
	header := sh.AddRow()
	for _, h := range []string{"Crop", "Area", "Production", "Yield"} {
		header.AddCell().SetString(h)
	}
	for _, name := range []string{"Coconut", "Rice", "Banana"} {
		r := sh.AddRow()
		r.AddCell().SetString(name)
		r.AddCell().SetFloat(100)
		r.AddCell().SetFloat(1000)
		r.AddCell().SetFloat(5)
	}
	require.NoError(t, f.Save(filepath.Join(dir, file)))
}

func TestTopCrops(t *testing.T) {
	dir := t.TempDir()
	writeTopCropsFixture(t, dir, "top10_crops_kerala.xlsx")
	f := NewFiles(dir, "top10_crops_kerala.xlsx", "crops.yaml")

	l, err := f.TopCrops(context.Background())
	require.NoError(t, err)
	require.NotNil(t, l)
	require.Len(t, l.Crops, 3)
	assert.Equal(t, "Coconut", l.Crops[0].Name)
	assert.Equal(t, 1, l.Crops[0].Rank)
}

func TestTopCrops_MissingFile(t *testing.T) {
	f := NewFiles(t.TempDir(), "top10_crops_kerala.xlsx", "crops.yaml")

	l, err := f.TopCrops(context.Background())
	require.NoError(t, err)
	assert.Nil(t, l)
}

func TestCropMarket_DefaultMonth(t *testing.T) {
	dir := t.TempDir()
	writeMarketFixture(t, dir, "RICE.xlsx", []string{"May-2024", "Jun-2024"})
	f := NewFiles(dir, "top.xlsx", "crops.yaml")

	rep, err := f.CropMarket(context.Background(), "RICE", "")
	require.NoError(t, err)
	require.NotNil(t, rep)

	assert.Equal(t, "RICE", rep.CropName)
	assert.Equal(t, "May-2024", rep.Month)
	assert.Equal(t, []string{"May-2024", "Jun-2024"}, rep.AvailableMonths)
	assert.Equal(t, 2, rep.Summary.TotalDistricts)
	assert.InDelta(t, 100, rep.Summary.AvgPrice, 0.001)
	assert.InDelta(t, 80, rep.Summary.PriceRange.Min, 0.001)
	assert.InDelta(t, 120, rep.Summary.PriceRange.Max, 0.001)
	assert.Equal(t, []float64{9.1, -11.1}, rep.MonthChanges)
	assert.Len(t, rep.Districts, 2)
}

func TestCropMarket_SelectMonth(t *testing.T) {
	dir := t.TempDir()
	writeMarketFixture(t, dir, "RICE.xlsx", []string{"May-2024", "Jun-2024"})
	f := NewFiles(dir, "top.xlsx", "crops.yaml")

	rep, err := f.CropMarket(context.Background(), "RICE", "Jun-2024")
	require.NoError(t, err)
	require.NotNil(t, rep)
	assert.Equal(t, "Jun-2024", rep.Month)

	rep, err = f.CropMarket(context.Background(), "RICE", "Dec-2024")
	require.NoError(t, err)
	assert.Nil(t, rep)
}

func TestCropMarket_NameNormalization(t *testing.T) {
	dir := t.TempDir()
	writeMarketFixture(t, dir, "BLACK_PEPPER.xlsx", []string{"May-2024"})
	f := NewFiles(dir, "top.xlsx", "crops.yaml")

	rep, err := f.CropMarket(context.Background(), "black pepper", "")
	require.NoError(t, err)
	require.NotNil(t, rep)
	assert.Equal(t, "black pepper", rep.CropName)
}

func TestCropMarket_MissingFile(t *testing.T) {
	f := NewFiles(t.TempDir(), "top.xlsx", "crops.yaml")

	rep, err := f.CropMarket(context.Background(), "RUBBER", "")
	require.NoError(t, err)
	assert.Nil(t, rep)
}

func TestAvailableCrops_Manifest(t *testing.T) {
	dir := t.TempDir()
	yaml := "crops:\n  - RICE\n  - BANANA\n  - COCONUT\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "crops.yaml"), []byte(yaml), 0644))
	f := NewFiles(dir, "top.xlsx", "crops.yaml")

	got, err := f.AvailableCrops()
	require.NoError(t, err)
	assert.Equal(t, []string{"RICE", "BANANA", "COCONUT"}, got)
}

func TestAvailableCrops_ScanFallback(t *testing.T) {
	dir := t.TempDir()
	writeMarketFixture(t, dir, "RICE.xlsx", []string{"May-2024"})
	writeMarketFixture(t, dir, "BANANA.xlsx", []string{"May-2024"})
	writeTopCropsFixture(t, dir, "top.xlsx")
	f := NewFiles(dir, "top.xlsx", "crops.yaml")

	got, err := f.AvailableCrops()
	require.NoError(t, err)
	assert.Equal(t, []string{"BANANA", "RICE"}, got)
}
