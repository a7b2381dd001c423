package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/miradorstack/spacex-dash/internal/cache"
	"github.com/miradorstack/spacex-dash/internal/config"
	"github.com/miradorstack/spacex-dash/internal/dataset"
	"github.com/miradorstack/spacex-dash/internal/services"
	"github.com/miradorstack/spacex-dash/internal/utils"
)

// loadConfig reads the configuration and applies the persistent flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(rootFlags.configPath)
	if err != nil {
		return nil, err
	}
	if rootFlags.dataset != "" {
		cfg.Dataset.Source = rootFlags.dataset
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	return utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON, w)
}

// newCacheProvider builds the configured cache, falling back to the noop cache
// when it cannot be reached.
func newCacheProvider(cfg *config.Config, logger *slog.Logger) cache.Provider {
	provider, err := cache.New(cfg.Cache.Driver, cache.ValkeyConfig{
		Addr:         cfg.Cache.Addr,
		Username:     cfg.Cache.Username,
		Password:     cfg.Cache.Password,
		DB:           cfg.Cache.DB,
		DialTimeout:  cfg.Cache.DialTimeout,
		ReadTimeout:  cfg.Cache.ReadTimeout,
		WriteTimeout: cfg.Cache.WriteTimeout,
		MaxRetries:   cfg.Cache.MaxRetries,
		TLS:          cfg.Cache.TLS,
	})
	if err != nil {
		logger.Warn("dataset cache unavailable", slog.String("driver", cfg.Cache.Driver), slog.Any("error", err))
		return cache.NoopProvider{}
	}
	return provider
}

// loadDashboard loads the dataset and builds the view controller over it.
func loadDashboard(ctx context.Context, cfg *config.Config, provider cache.Provider, logger *slog.Logger) (*services.DashboardService, error) {
	data, err := dataset.Load(ctx, cfg, provider, logger)
	if err != nil {
		return nil, err
	}
	return services.NewDashboardService(logger, data, services.Options{
		PieUsesPayloadRange: cfg.Charts.PieUsesPayloadRange,
		SliderStep:          cfg.Charts.SliderStep,
		MarkStep:            cfg.Charts.MarkStep,
	}), nil
}
