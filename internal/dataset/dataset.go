// Package dataset resolves and parses the bundled agricultural xlsx
// datasets: the fixed regional crop ranking file and one market workbook
// per crop. A missing file is a normal outcome (nil result), not an error.
package dataset

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/krishisetu/krishi-cli/internal/crops"
	"github.com/krishisetu/krishi-cli/internal/market"
	"github.com/krishisetu/krishi-cli/internal/sheet"
)

// Files serves datasets from a local directory.
type Files struct {
	dir          string
	topCropsFile string
	manifestFile string
}

// NewFiles creates a dataset store rooted at dir.
func NewFiles(dir, topCropsFile, manifestFile string) *Files {
	return &Files{dir: dir, topCropsFile: topCropsFile, manifestFile: manifestFile}
}

// MarketReport bundles everything parsed from one crop's market workbook.
// Month selection follows sheet names; the first sheet is the default month.
type MarketReport struct {
	CropName        string               `json:"cropName"`
	Month           string               `json:"month"`
	AvailableMonths []string             `json:"availableMonths"`
	Headers         []string             `json:"headers"`
	Summary         market.Summary       `json:"summary"`
	Districts       []market.DistrictRow `json:"districts"`
	MonthChanges    []float64            `json:"monthChanges"`
	YearChanges     []float64            `json:"yearChanges"`
}

// TopCrops loads and builds the ranked crop list. A missing ranking file
// yields (nil, nil).
func (f *Files) TopCrops(_ context.Context) (*crops.List, error) {
	path := filepath.Join(f.dir, f.topCropsFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	wb, err := sheet.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: top crops %s", f.topCropsFile)
	}
	return crops.Build(sheet.DetectRanking(wb.First())), nil
}

// CropMarket loads market data for one crop. An empty month selects the
// workbook's first sheet. A missing file, unknown month, or sheet without a
// recognizable table yields (nil, nil).
func (f *Files) CropMarket(_ context.Context, cropName, month string) (*MarketReport, error) {
	path := filepath.Join(f.dir, fileNameFor(cropName))
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	wb, err := sheet.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: market data for %s", cropName)
	}

	rs := wb.First()
	if month != "" {
		rs = wb.ByName(month)
	}
	if rs == nil {
		return nil, nil
	}

	tbl := sheet.DetectMarket(rs)
	if tbl == nil {
		return nil, nil
	}

	return &MarketReport{
		CropName:        cropName,
		Month:           rs.Name,
		AvailableMonths: wb.SheetNames(),
		Headers:         tbl.Headers,
		Summary:         market.Summarize(tbl, cropName, rs.Name),
		Districts:       market.Districts(tbl),
		MonthChanges:    market.ChangeSeries(tbl, market.ColMonthChange),
		YearChanges:     market.ChangeSeries(tbl, market.ColYearChange),
	}, nil
}

type manifest struct {
	Crops []string `yaml:"crops"`
}

// AvailableCrops lists crops with a market workbook, preferring the yaml
// manifest and falling back to a directory scan.
func (f *Files) AvailableCrops() ([]string, error) {
	data, err := os.ReadFile(filepath.Join(f.dir, f.manifestFile))
	if err == nil {
		var m manifest
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, eris.Wrapf(err, "dataset: parse %s", f.manifestFile)
		}
		return m.Crops, nil
	}
	if !os.IsNotExist(err) {
		return nil, eris.Wrapf(err, "dataset: read %s", f.manifestFile)
	}

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "dataset: scan dir")
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".xlsx") || name == f.topCropsFile {
			continue
		}
		out = append(out, strings.TrimSuffix(name, ".xlsx"))
	}
	sort.Strings(out)
	return out, nil
}

// Market workbooks are named after the crop, upper-cased with underscores
// (RICE.xlsx, BLACK_PEPPER.xlsx).
func fileNameFor(crop string) string {
	name := strings.ToUpper(strings.TrimSpace(crop))
	name = strings.ReplaceAll(name, " ", "_")
	return name + ".xlsx"
}
