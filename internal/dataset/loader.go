package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/miradorstack/spacex-dash/internal/cache"
	"github.com/miradorstack/spacex-dash/internal/config"
	"github.com/miradorstack/spacex-dash/internal/metrics"
	"github.com/miradorstack/spacex-dash/internal/models"
	"github.com/miradorstack/spacex-dash/internal/utils"
)

const cacheKeyPrefix = "spacex-dash:dataset:"

// Options configures a Loader.
type Options struct {
	Table   string
	Timeout time.Duration
	S3      config.S3Config
	// HTTPClient serves http(s) sources and the S3 client transport.
	HTTPClient *http.Client
	Cache      cache.Provider
	CacheTTL   time.Duration
	Logger     *slog.Logger
}

// OptionsFromConfig maps the service configuration onto loader options.
func OptionsFromConfig(cfg *config.Config, provider cache.Provider, logger *slog.Logger) Options {
	return Options{
		Table:    cfg.Dataset.Table,
		Timeout:  cfg.Dataset.Timeout,
		S3:       cfg.Dataset.S3,
		Cache:    provider,
		CacheTTL: cfg.Cache.DatasetTTL,
		Logger:   logger,
	}
}

// Loader reads launch records from a dataset source.
type Loader struct {
	opts   Options
	logger *slog.Logger
}

// NewLoader fills in defaults for unset options.
func NewLoader(opts Options) *Loader {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Cache == nil {
		opts.Cache = cache.NoopProvider{}
	}
	return &Loader{opts: opts, logger: utils.Component(opts.Logger, "dataset")}
}

// Load reads and validates every record from raw. The returned Dataset is
// never empty.
func (l *Loader) Load(ctx context.Context, raw string) (*Dataset, error) {
	const op = "dataset.load"

	src, err := ParseSource(raw, l.opts.Table)
	if err != nil {
		return nil, utils.NewAppError(op, "invalid source", err)
	}

	ctx, cancel := context.WithTimeout(ctx, l.opts.Timeout)
	defer cancel()

	start := time.Now()
	records, err := l.read(ctx, src)
	var ds *Dataset
	if err == nil {
		ds, err = New(records)
	}
	metrics.ObserveDatasetLoad(src.Scheme, time.Since(start), len(records), err)
	if err != nil {
		l.logger.Error("dataset load failed", slog.String("source", src.String()), slog.Any("error", err))
		return nil, utils.NewAppError(op, fmt.Sprintf("load %s", src), err)
	}

	summary := ds.Summary()
	l.logger.Info("dataset loaded",
		slog.String("source", src.String()),
		slog.Int("records", summary.Records),
		slog.Int("sites", len(summary.Sites)),
		slog.Float64("min_payload_kg", summary.MinPayloadKg),
		slog.Float64("max_payload_kg", summary.MaxPayloadKg),
		slog.Duration("duration", time.Since(start)),
	)
	return ds, nil
}

func (l *Loader) read(ctx context.Context, src Source) ([]models.LaunchRecord, error) {
	switch src.Scheme {
	case SchemeFile:
		data, err := os.ReadFile(src.Location)
		if err != nil {
			return nil, err
		}
		return ParseCSV(bytes.NewReader(data))
	case SchemeHTTP, SchemeHTTPS:
		data, err := l.cached(ctx, src, l.fetchHTTP)
		if err != nil {
			return nil, err
		}
		return ParseCSV(bytes.NewReader(data))
	case SchemeS3:
		data, err := l.cached(ctx, src, l.fetchS3)
		if err != nil {
			return nil, err
		}
		return ParseCSV(bytes.NewReader(data))
	case SchemeSQLite:
		return queryTable(ctx, sqliteDriver, src.Location, src.Table)
	case SchemePostgres:
		return queryTable(ctx, postgresDriver, src.Location, src.Table)
	default:
		return nil, fmt.Errorf("unsupported dataset scheme %q", src.Scheme)
	}
}

// cached returns remote CSV bytes from the cache, fetching and storing them on a miss.
// Cache failures degrade to a direct fetch.
func (l *Loader) cached(ctx context.Context, src Source, fetch func(context.Context, Source) ([]byte, error)) ([]byte, error) {
	key := cacheKeyPrefix + src.Location
	data, err := l.opts.Cache.Get(ctx, key)
	switch {
	case err == nil:
		metrics.ObserveDatasetCache(true)
		l.logger.Debug("dataset cache hit", slog.String("key", key), slog.Int("bytes", len(data)))
		return data, nil
	case errors.Is(err, cache.ErrCacheMiss):
		metrics.ObserveDatasetCache(false)
	default:
		metrics.ObserveDatasetCache(false)
		l.logger.Warn("dataset cache lookup failed", slog.String("key", key), slog.Any("error", err))
	}

	data, err = fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	if err := l.opts.Cache.Set(ctx, key, data, l.opts.CacheTTL); err != nil {
		l.logger.Warn("dataset cache store failed", slog.String("key", key), slog.Any("error", err))
	}
	return data, nil
}

// Load is a convenience wrapper building a Loader from cfg and loading cfg.Dataset.Source.
func Load(ctx context.Context, cfg *config.Config, provider cache.Provider, logger *slog.Logger) (*Dataset, error) {
	return NewLoader(OptionsFromConfig(cfg, provider, logger)).Load(ctx, cfg.Dataset.Source)
}
