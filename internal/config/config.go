package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresUser   string `toml:"postgres_user"`
	PostgresDBName string `toml:"postgres_db_name"`
	RunMigrations  bool   `toml:"run_migrations"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// domain
	TimeZone                       string   `toml:"time_zone"`
	CompleteWorkoutRateLimitPerMin int      `toml:"complete_workout_rate_limit_per_min"`
	RegisterRateLimitPerMin        int      `toml:"register_rate_limit_per_min"`
	StatsCacheTTLSeconds           int      `toml:"stats_cache_ttl_seconds"`
	CatalogCacheSizeMB             int      `toml:"catalog_cache_size_mb"`
	AllowedOrigins                 []string `toml:"allowed_origins"`
}

type Toml struct {
	Development *Config
	Production  *Config
	Docker      *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	case "ddev", "dockerdev", "docker":
		return t.Docker, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the section for env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode toml config %s: %w", path, err)
	}
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env [%s] missing", env)
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.TimeZone == "" {
		c.TimeZone = "UTC"
	}
	if c.CompleteWorkoutRateLimitPerMin <= 0 {
		c.CompleteWorkoutRateLimitPerMin = 30
	}
	if c.RegisterRateLimitPerMin <= 0 {
		c.RegisterRateLimitPerMin = 5
	}
	if c.StatsCacheTTLSeconds <= 0 {
		c.StatsCacheTTLSeconds = 300
	}
	if c.CatalogCacheSizeMB <= 0 {
		c.CatalogCacheSizeMB = 16
	}
}

// Location resolves the configured time zone used for calendar-day calculations.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %s: %w", c.TimeZone, err)
	}
	return loc, nil
}

func (c *Config) StatsCacheTTL() time.Duration {
	return time.Duration(c.StatsCacheTTLSeconds) * time.Second
}
