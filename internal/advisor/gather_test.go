package advisor

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/krishisetu/krishi-cli/internal/crops"
	"github.com/krishisetu/krishi-cli/internal/dataset"
	"github.com/krishisetu/krishi-cli/internal/market"
	"github.com/krishisetu/krishi-cli/internal/record"
	"github.com/krishisetu/krishi-cli/pkg/weather"
)

type fakeWeather struct {
	snap *weather.Snapshot
	err  error
}

func (f *fakeWeather) Current(ctx context.Context, lat, lon float64) (*weather.Snapshot, error) {
	return f.snap, f.err
}

func (f *fakeWeather) Forecast(ctx context.Context, lat, lon float64, days int) (*weather.ForecastReport, error) {
	return nil, eris.New("not implemented")
}

type fakeStore struct {
	record.Store
	records []record.FarmingRecord
	err     error
}

func (f *fakeStore) List(ctx context.Context, limit int) ([]record.FarmingRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > 0 && len(f.records) > limit {
		return f.records[:limit], nil
	}
	return f.records, nil
}

type fakeDatasets struct {
	top      *crops.List
	topErr   error
	report   *dataset.MarketReport
	mktErr   error
	askedFor string
}

func (f *fakeDatasets) TopCrops(ctx context.Context) (*crops.List, error) {
	return f.top, f.topErr
}

func (f *fakeDatasets) CropMarket(ctx context.Context, cropName, month string) (*dataset.MarketReport, error) {
	f.askedFor = cropName
	return f.report, f.mktErr
}

func TestGather_AllSourcesHealthy(t *testing.T) {
	wc := &fakeWeather{snap: &weather.Snapshot{City: "Kochi", Temperature: 28}}
	rs := &fakeStore{records: []record.FarmingRecord{
		{CropName: "Banana", PlantingDate: "2026-06-01"},
		{CropName: "Rice", PlantingDate: "2026-01-15"},
	}}
	ds := &fakeDatasets{
		top: &crops.List{Crops: []crops.Ranked{{Rank: 1, Name: "Coconut"}}},
		report: &dataset.MarketReport{
			CropName: "Banana",
			Summary:  market.Summary{CropName: "Banana", TotalDistricts: 3},
		},
	}

	g := NewGatherer(wc, rs, ds, nil, 10, zap.NewNop())
	c := g.Gather(context.Background(), &Location{Lat: 9.93, Lon: 76.26})

	require.NotNil(t, c)
	require.NotNil(t, c.Weather)
	assert.Equal(t, "Kochi", c.Weather.City)
	assert.Len(t, c.Records, 2)
	require.NotNil(t, c.TopCrops)
	require.NotNil(t, c.Market)
	assert.Equal(t, "Banana", ds.askedFor, "market lookup should follow the newest record's crop")

	used := c.Used()
	assert.True(t, used.Weather)
	assert.True(t, used.Records)
	assert.True(t, used.TopCrops)
	assert.True(t, used.Market)
}

func TestGather_WeatherFailureDoesNotBlockOthers(t *testing.T) {
	wc := &fakeWeather{err: eris.New("upstream 502")}
	rs := &fakeStore{records: []record.FarmingRecord{{CropName: "Pepper"}}}
	ds := &fakeDatasets{top: &crops.List{Crops: []crops.Ranked{{Rank: 1, Name: "Coconut"}}}}

	g := NewGatherer(wc, rs, ds, nil, 10, zap.NewNop())
	c := g.Gather(context.Background(), &Location{Lat: 9.93, Lon: 76.26})

	assert.Nil(t, c.Weather)
	assert.Len(t, c.Records, 1)
	assert.NotNil(t, c.TopCrops)
}

func TestGather_NoLocationSkipsWeather(t *testing.T) {
	wc := &fakeWeather{snap: &weather.Snapshot{City: "Kochi"}}
	g := NewGatherer(wc, &fakeStore{}, &fakeDatasets{}, nil, 10, zap.NewNop())

	c := g.Gather(context.Background(), nil)
	assert.Nil(t, c.Weather)
}

func TestGather_RecordFailureSkipsMarket(t *testing.T) {
	rs := &fakeStore{err: eris.New("connection refused")}
	ds := &fakeDatasets{report: &dataset.MarketReport{CropName: "Banana"}}

	g := NewGatherer(nil, rs, ds, nil, 10, zap.NewNop())
	c := g.Gather(context.Background(), nil)

	assert.Empty(t, c.Records)
	assert.Nil(t, c.Market)
	assert.Empty(t, ds.askedFor)
}

func TestGather_NoRecordsMeansNoMarketLookup(t *testing.T) {
	rs := &fakeStore{}
	ds := &fakeDatasets{report: &dataset.MarketReport{CropName: "Banana"}}

	g := NewGatherer(nil, rs, ds, nil, 10, zap.NewNop())
	c := g.Gather(context.Background(), nil)

	assert.Nil(t, c.Market)
	assert.Empty(t, ds.askedFor)
}

func TestGather_MarketFailureKeepsRecords(t *testing.T) {
	rs := &fakeStore{records: []record.FarmingRecord{{CropName: "Banana"}}}
	ds := &fakeDatasets{mktErr: eris.New("corrupt workbook")}

	g := NewGatherer(nil, rs, ds, nil, 10, zap.NewNop())
	c := g.Gather(context.Background(), nil)

	assert.Len(t, c.Records, 1)
	assert.Nil(t, c.Market)
}

func TestGather_CustomCropPolicy(t *testing.T) {
	rs := &fakeStore{records: []record.FarmingRecord{{CropName: "Banana"}, {CropName: "Rice"}}}
	ds := &fakeDatasets{report: &dataset.MarketReport{CropName: "Rice"}}

	oldest := func(records []record.FarmingRecord) string {
		if len(records) == 0 {
			return ""
		}
		return records[len(records)-1].CropName
	}

	g := NewGatherer(nil, rs, ds, oldest, 10, zap.NewNop())
	c := g.Gather(context.Background(), nil)

	require.NotNil(t, c.Market)
	assert.Equal(t, "Rice", ds.askedFor)
}

func TestLatestRecordCrop(t *testing.T) {
	assert.Equal(t, "", LatestRecordCrop(nil))
	assert.Equal(t, "Banana", LatestRecordCrop([]record.FarmingRecord{
		{CropName: "Banana"}, {CropName: "Rice"},
	}))
}
