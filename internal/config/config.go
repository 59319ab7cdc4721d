package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/gymsignal/internal/gymstats/suggest"

	"github.com/BurntSushi/toml"
)

type Config struct {
	// set from the env flag, not from the file
	Environment string `toml:"-"`

	Host string `toml:"host"`
	Port int    `toml:"port"`

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

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	AllowedOrigins            []string      `toml:"allowed_origins"`
	SuggestionRateLimitPerMin int           `toml:"suggestion_rate_limit_per_min"`
	CatalogCacheTTL           time.Duration `toml:"catalog_cache_ttl"`
	SuggestionCacheTTL        time.Duration `toml:"suggestion_cache_ttl"`
	SuggestionCacheSizeMB     int           `toml:"suggestion_cache_size_mb"`

	Suggestions Suggestions `toml:"suggestions"`
}

// Suggestions tunes the set suggestion analyzer. Zero values keep the analyzer defaults.
type Suggestions struct {
	Unit                 string  `toml:"unit"`
	LookbackWeeks        int     `toml:"lookback_weeks"`
	MaxSessions          int     `toml:"max_sessions"`
	MinSessions          int     `toml:"min_sessions"`
	StalenessDays        int     `toml:"staleness_days"`
	CompoundMaxIncrease  float64 `toml:"compound_max_increase"`
	IsolationMaxIncrease float64 `toml:"isolation_max_increase"`
	MaxDecrease          float64 `toml:"max_decrease"`
	EasyMargin           int     `toml:"easy_margin"`
	MissMargin           int     `toml:"miss_margin"`
	EasyBump             float64 `toml:"easy_bump"`
	MissReduction        float64 `toml:"miss_reduction"`
}

func (s Suggestions) Options() suggest.Options {
	return suggest.Options{
		Unit:                 suggest.Unit(s.Unit),
		LookbackWindow:       time.Duration(s.LookbackWeeks) * 7 * 24 * time.Hour,
		MaxSessions:          s.MaxSessions,
		MinSessions:          s.MinSessions,
		StalenessThreshold:   time.Duration(s.StalenessDays) * 24 * time.Hour,
		CompoundMaxIncrease:  s.CompoundMaxIncrease,
		IsolationMaxIncrease: s.IsolationMaxIncrease,
		MaxDecrease:          s.MaxDecrease,
		EasyMargin:           s.EasyMargin,
		MissMargin:           s.MissMargin,
		EasyBump:             s.EasyBump,
		MissReduction:        s.MissReduction,
	}
}

type Toml struct {
	Development *Config `toml:"development"`
	Production  *Config `toml:"production"`
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	return cfg, nil
}

// Load reads the TOML file and returns the section of the given environment.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.Environment = strings.ToLower(env)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", env, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 {
		return errors.New("port must be set")
	}
	if c.PostgresHost == "" || c.PostgresDBName == "" {
		return errors.New("postgres host and db name must be set")
	}
	switch suggest.Unit(c.Suggestions.Unit) {
	case "", suggest.UnitPounds, suggest.UnitKilograms:
	default:
		return fmt.Errorf("unknown weight unit: %s", c.Suggestions.Unit)
	}

	if c.PostgresPort == "" {
		c.PostgresPort = "5432"
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.SuggestionRateLimitPerMin <= 0 {
		c.SuggestionRateLimitPerMin = 60
	}
	if c.CatalogCacheTTL <= 0 {
		c.CatalogCacheTTL = time.Hour
	}
	if c.SuggestionCacheTTL <= 0 {
		c.SuggestionCacheTTL = 5 * time.Minute
	}
	if c.SuggestionCacheSizeMB <= 0 {
		c.SuggestionCacheSizeMB = 16
	}
	return nil
}
