package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
)

const (
	CatalogSourceBuiltin = "builtin"
	CatalogSourceFile    = "file"
	CatalogSourceDB      = "db"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// prometheus metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// exercise catalog: builtin, file or db
	CatalogSource      string `toml:"catalog_source"`
	CatalogPath        string `toml:"catalog_path"`
	CatalogCacheSizeMB int    `toml:"catalog_cache_size_mb"`
	// analytics
	StatsCacheTTL time.Duration `toml:"stats_cache_ttl"`
	// weeks analyzed when a request does not say; 0 derives it from the logs
	DefaultWeeks    int  `toml:"default_weeks"`
	RateLimitPerMin int  `toml:"rate_limit_per_min"`
	MCPEnabled      bool `toml:"mcp_enabled"`
}

type Toml struct {
	Development *Config
	Production  *Config
	DockerDev   *Config `toml:"dockerdev"`
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	case "ddev", "dockerdev":
		cfg = t.DockerDev
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	return cfg, nil
}

// Load reads the TOML file at path and returns the validated section for env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every problem found, not only the first one.
func (c *Config) Validate() error {
	var errs error
	if c.Port <= 0 || c.Port > 65535 {
		errs = multierr.Append(errs, fmt.Errorf("%w: port %d", ErrInvalidConfig, c.Port))
	}
	switch c.CatalogSource {
	case "", CatalogSourceBuiltin, CatalogSourceDB:
	case CatalogSourceFile:
		if c.CatalogPath == "" {
			errs = multierr.Append(errs, fmt.Errorf("%w: catalog_source is file but catalog_path is empty", ErrInvalidConfig))
		}
	default:
		errs = multierr.Append(errs, fmt.Errorf("%w: unknown catalog_source %q", ErrInvalidConfig, c.CatalogSource))
	}
	if c.DefaultWeeks < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: default_weeks %d", ErrInvalidConfig, c.DefaultWeeks))
	}
	if c.RateLimitPerMin < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: rate_limit_per_min %d", ErrInvalidConfig, c.RateLimitPerMin))
	}
	if c.StatsCacheTTL < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: stats_cache_ttl %s", ErrInvalidConfig, c.StatsCacheTTL))
	}
	return errs
}
