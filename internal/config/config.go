package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultDatasetURL is the published course copy of the launch records CSV.
const DefaultDatasetURL = "https://cf-courses-data.s3.us.cloud-object-storage.appdomain.cloud/IBM-DS0321EN-SkillsNetwork/datasets/spacex_launch_dash.csv"

// Config captures the settings required to boot the dashboard.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Dataset DatasetConfig `yaml:"dataset"`
	Charts  ChartsConfig  `yaml:"charts"`
	Logging LoggingConfig `yaml:"logging"`
	Cache   CacheConfig   `yaml:"cache"`
}

// ServerConfig controls the HTTP, gRPC and metrics listeners.
type ServerConfig struct {
	HTTPAddress     string        `yaml:"httpAddress"`
	GRPCAddress     string        `yaml:"grpcAddress"`
	MetricsAddress  string        `yaml:"metricsAddress"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
}

// DatasetConfig selects where launch records are loaded from.
type DatasetConfig struct {
	// Source is a path or URI: file://, http(s)://, s3://, sqlite://, postgres://.
	Source  string        `yaml:"source"`
	Table   string        `yaml:"table"`
	Timeout time.Duration `yaml:"timeout"`
	S3      S3Config      `yaml:"s3"`
}

// S3Config tunes the S3 client used for s3:// sources. Credentials fall back to
// the default AWS chain when the static keys are empty.
type S3Config struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	PathStyle       bool   `yaml:"pathStyle"`
	AccessKeyID     string `yaml:"accessKeyID"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	SessionToken    string `yaml:"sessionToken"`
}

// ChartsConfig controls chart rendering and the payload slider.
type ChartsConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	SliderStep float64 `yaml:"sliderStep"`
	MarkStep   float64 `yaml:"markStep"`
	// PieUsesPayloadRange applies the slider range to the pie in both the
	// all-sites and single-site views.
	PieUsesPayloadRange bool `yaml:"pieUsesPayloadRange"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// CacheConfig controls caching of remotely fetched dataset bytes.
type CacheConfig struct {
	// Driver is one of "none", "memory" or "valkey".
	Driver       string        `yaml:"driver"`
	Addr         string        `yaml:"addr"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	DialTimeout  time.Duration `yaml:"dialTimeout"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	MaxRetries   int           `yaml:"maxRetries"`
	TLS          bool          `yaml:"tls"`
	DatasetTTL   time.Duration `yaml:"datasetTTL"`
}

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("SPACEX_DASH_CONFIG")
	}

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			HTTPAddress:     ":8050",
			GRPCAddress:     ":50051",
			MetricsAddress:  ":2112",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    15 * time.Second,
			GracefulTimeout: 10 * time.Second,
		},
		Dataset: DatasetConfig{
			Source:  DefaultDatasetURL,
			Table:   "launches",
			Timeout: 30 * time.Second,
			S3:      S3Config{Region: "us-east-1"},
		},
		Charts: ChartsConfig{
			Width:      800,
			Height:     450,
			SliderStep: 100,
			MarkStep:   1000,
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
		Cache: CacheConfig{
			Driver:       "none",
			DatasetTTL:   time.Hour,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
			MaxRetries:   2,
		},
	}
}

// Validate rejects settings that would make the dashboard unusable.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Dataset.Source) == "" {
		return errors.New("dataset.source is required")
	}
	if c.Charts.Width <= 0 || c.Charts.Height <= 0 {
		return fmt.Errorf("charts size must be positive, got %dx%d", c.Charts.Width, c.Charts.Height)
	}
	if c.Charts.SliderStep <= 0 || c.Charts.MarkStep <= 0 {
		return errors.New("charts.sliderStep and charts.markStep must be positive")
	}
	switch strings.ToLower(c.Cache.Driver) {
	case "", "none", "memory":
	case "valkey":
		if c.Cache.Addr == "" {
			return errors.New("cache.addr is required for the valkey driver")
		}
	default:
		return fmt.Errorf("unknown cache driver %q", c.Cache.Driver)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SPACEX_DASH_HTTP_ADDRESS"); v != "" {
		cfg.Server.HTTPAddress = v
	}
	if v, ok := os.LookupEnv("SPACEX_DASH_GRPC_ADDRESS"); ok {
		cfg.Server.GRPCAddress = v
	}
	if v, ok := os.LookupEnv("SPACEX_DASH_METRICS_ADDRESS"); ok {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("SPACEX_DASH_GRACEFUL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.GracefulTimeout = d
		}
	}
	if v := os.Getenv("SPACEX_DASH_DATASET"); v != "" {
		cfg.Dataset.Source = v
	}
	if v := os.Getenv("SPACEX_DASH_DATASET_TABLE"); v != "" {
		cfg.Dataset.Table = v
	}
	if v := os.Getenv("SPACEX_DASH_DATASET_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Dataset.Timeout = d
		}
	}
	if v := os.Getenv("SPACEX_DASH_S3_REGION"); v != "" {
		cfg.Dataset.S3.Region = v
	}
	if v := os.Getenv("SPACEX_DASH_S3_ENDPOINT"); v != "" {
		cfg.Dataset.S3.Endpoint = v
	}
	if v := os.Getenv("SPACEX_DASH_S3_PATH_STYLE"); v != "" {
		cfg.Dataset.S3.PathStyle = parseBool(v)
	}
	if v := os.Getenv("SPACEX_DASH_PIE_USES_PAYLOAD_RANGE"); v != "" {
		cfg.Charts.PieUsesPayloadRange = parseBool(v)
	}
	if v := os.Getenv("SPACEX_DASH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SPACEX_DASH_LOG_FORMAT"); v != "" {
		cfg.Logging.JSON = strings.EqualFold(v, "json")
	}
	if v := os.Getenv("SPACEX_DASH_CACHE_DRIVER"); v != "" {
		cfg.Cache.Driver = v
	}
	if v := os.Getenv("SPACEX_DASH_CACHE_ADDR"); v != "" {
		cfg.Cache.Addr = v
	}
	if v := os.Getenv("SPACEX_DASH_CACHE_USERNAME"); v != "" {
		cfg.Cache.Username = v
	}
	if v := os.Getenv("SPACEX_DASH_CACHE_PASSWORD"); v != "" {
		cfg.Cache.Password = v
	}
	if v := os.Getenv("SPACEX_DASH_CACHE_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Cache.DB = db
		}
	}
	if v := os.Getenv("SPACEX_DASH_CACHE_TLS"); v != "" {
		cfg.Cache.TLS = parseBool(v)
	}
	if v := os.Getenv("SPACEX_DASH_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.DatasetTTL = d
		}
	}
}

func parseBool(v string) bool {
	return strings.EqualFold(v, "true") || v == "1"
}
