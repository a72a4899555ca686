package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/krishisetu/krishi-cli/internal/advisor"
	"github.com/krishisetu/krishi-cli/internal/dataset"
	"github.com/krishisetu/krishi-cli/internal/record"
	"github.com/krishisetu/krishi-cli/pkg/anthropic"
	"github.com/krishisetu/krishi-cli/pkg/weather"
)

// initStore opens the configured record store backend.
func initStore(ctx context.Context) (record.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		st, err := record.OpenPostgres(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, eris.Wrap(err, "open postgres store")
		}
		return st, nil
	case "sqlite":
		st, err := record.OpenSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, eris.Wrap(err, "open sqlite store")
		}
		return st, nil
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// initWeather builds the weather client, or nil without an API key.
func initWeather() weather.Client {
	if cfg.Weather.Key == "" {
		zap.L().Info("weather key not set, weather context disabled")
		return nil
	}
	opts := []weather.Option{weather.WithRateLimit(cfg.Weather.RateLimit)}
	if cfg.Weather.BaseURL != "" {
		opts = append(opts, weather.WithBaseURL(cfg.Weather.BaseURL))
	}
	return weather.NewClient(cfg.Weather.Key, opts...)
}

func initDatasets() *dataset.Files {
	return dataset.NewFiles(cfg.Data.Dir, cfg.Data.TopCropsFile, cfg.Data.ManifestFile)
}

// initAdvisor assembles the full advisory service over the given store.
func initAdvisor(st record.Store) (*advisor.Service, anthropic.Client) {
	llm := anthropic.NewClient(cfg.Anthropic.Key)
	g := advisor.NewGatherer(initWeather(), st, initDatasets(), nil, cfg.Advisor.RecordLimit, zap.L())
	return advisor.NewService(g, llm, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens), llm
}
