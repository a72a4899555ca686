package advisor

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/krishisetu/krishi-cli/internal/crops"
	"github.com/krishisetu/krishi-cli/internal/dataset"
	"github.com/krishisetu/krishi-cli/internal/record"
	"github.com/krishisetu/krishi-cli/pkg/weather"
)

// Datasets is the slice of the dataset store the gatherer needs.
type Datasets interface {
	TopCrops(ctx context.Context) (*crops.List, error)
	CropMarket(ctx context.Context, cropName, month string) (*dataset.MarketReport, error)
}

// CropPolicy picks which crop's market data to attach, given the
// farmer's records newest-first. Empty string skips market lookup.
type CropPolicy func(records []record.FarmingRecord) string

// LatestRecordCrop is the default policy: the most recently created
// record's crop.
func LatestRecordCrop(records []record.FarmingRecord) string {
	if len(records) == 0 {
		return ""
	}
	return records[0].CropName
}

// Gatherer assembles a Context from independent sources.
type Gatherer struct {
	weather     weather.Client
	records     record.Store
	data        Datasets
	cropPolicy  CropPolicy
	recordLimit int
	log         *zap.Logger
}

// NewGatherer wires the context sources. weather, records, and data may
// each be nil, disabling that source. A nil policy uses LatestRecordCrop.
func NewGatherer(wc weather.Client, rs record.Store, ds Datasets, policy CropPolicy, recordLimit int, log *zap.Logger) *Gatherer {
	if policy == nil {
		policy = LatestRecordCrop
	}
	if log == nil {
		log = zap.L()
	}
	return &Gatherer{
		weather:     wc,
		records:     rs,
		data:        ds,
		cropPolicy:  policy,
		recordLimit: recordLimit,
		log:         log,
	}
}

// Gather collects weather, farming records, the crop ranking, and market
// data concurrently. Each source failure is logged and blanks only that
// source's field; the aggregate is always returned.
func (g *Gatherer) Gather(ctx context.Context, loc *Location) *Context {
	c := &Context{Records: []record.FarmingRecord{}}

	var eg errgroup.Group

	if g.weather != nil && loc != nil {
		eg.Go(func() error {
			snap, err := g.weather.Current(ctx, loc.Lat, loc.Lon)
			if err != nil {
				g.log.Warn("context: weather unavailable", zap.Error(err))
				return nil
			}
			c.Weather = snap
			return nil
		})
	}

	if g.records != nil {
		eg.Go(func() error {
			recs, err := g.records.List(ctx, g.recordLimit)
			if err != nil {
				g.log.Warn("context: records unavailable", zap.Error(err))
				return nil
			}
			c.Records = recs

			// Market data depends on the chosen crop, so it chains
			// behind the record fetch.
			crop := g.cropPolicy(recs)
			if crop == "" || g.data == nil {
				return nil
			}
			report, err := g.data.CropMarket(ctx, crop, "")
			if err != nil {
				g.log.Warn("context: market data unavailable",
					zap.String("crop", crop), zap.Error(err))
				return nil
			}
			c.Market = report
			return nil
		})
	}

	if g.data != nil {
		eg.Go(func() error {
			list, err := g.data.TopCrops(ctx)
			if err != nil {
				g.log.Warn("context: crop ranking unavailable", zap.Error(err))
				return nil
			}
			c.TopCrops = list
			return nil
		})
	}

	// Sources swallow their own errors, so Wait only synchronizes.
	_ = eg.Wait()

	return c
}
