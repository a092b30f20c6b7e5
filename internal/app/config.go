package service

import (
	"github.com/okian/pitchside/internal/config"
	"github.com/okian/pitchside/pkg/logger"
)

// OptionsFromConfig translates a loaded Config into service options.
func OptionsFromConfig(cfg *config.Config, l logger.Logger) ([]Option, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return []Option{
		WithLogger(l),
		WithLocation(loc),
		WithStoreDriver(cfg.StoreDriver, cfg.StoreDSN()),
		WithPostgresMaxConns(cfg.PostgresMaxConns),
		WithConnectTimeout(cfg.ConnectTimeout()),
		WithSequencerKind(cfg.Sequencer, cfg.RedisAddr),
		WithSequenceTTL(cfg.SequenceTTL()),
		WithWorkerCount(cfg.WorkerCount),
		WithQueueSize(cfg.QueueSize),
		WithChartRadius(cfg.ChartRadius),
		WithLegendMaxScale(cfg.LegendMaxScale),
	}, nil
}
