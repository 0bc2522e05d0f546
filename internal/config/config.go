// Package config loads and validates pipeline configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
// The crawl targets are deliberately configuration constants, not runtime
// flags: one deployment crawls one search endpoint for one category.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Crawler CrawlerConfig `mapstructure:"crawler"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Sink    SinkConfig    `mapstructure:"sink"`
	Store   StoreConfig   `mapstructure:"store"`
	Server  ServerConfig  `mapstructure:"server"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// CrawlerConfig governs the pagination-bounded crawl.
type CrawlerConfig struct {
	StartURL          string  `mapstructure:"start_url"`
	AllowedDomain     string  `mapstructure:"allowed_domain"`
	MaxPages          int     `mapstructure:"max_pages"`
	UserAgent         string  `mapstructure:"user_agent"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

// HTTPConfig configures the page fetcher.
type HTTPConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// SinkConfig sets the interchange file location.
type SinkConfig struct {
	OutputPath string `mapstructure:"output_path"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Provider string         `mapstructure:"provider"`
	Table    string         `mapstructure:"table"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// SQLiteConfig holds the local database file location.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// PostgresConfig controls access to a shared Postgres warehouse.
type PostgresConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxConns     int32  `mapstructure:"max_conns"`
	MinConns     int32  `mapstructure:"min_conns"`
	ConnLifetime int    `mapstructure:"conn_lifetime_seconds"`
}

// ServerConfig controls the optional ops HTTP server (health + metrics).
type ServerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.development", true)
	v.SetDefault("crawler.start_url", "https://lista.mercadolivre.com.br/geladeira-frost-free")
	v.SetDefault("crawler.allowed_domain", "lista.mercadolivre.com.br")
	v.SetDefault("crawler.max_pages", 20)
	v.SetDefault("crawler.user_agent", "catalog-crawler/1.0 (+https://github.com/mercalytics/catalog-crawler)")
	v.SetDefault("crawler.requests_per_second", 1.0)
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("sink.output_path", "data/data.json")
	v.SetDefault("store.provider", "sqlite")
	v.SetDefault("store.table", "mercadolivre")
	v.SetDefault("store.sqlite.path", "data/data.db")
	v.SetDefault("server.enabled", false)
	v.SetDefault("server.port", 9090)
}

// Validate enforces required values and reasonable limits. Configuration
// defects are fatal here, before any page is fetched.
func (c Config) Validate() error {
	if c.Crawler.StartURL == "" {
		return fmt.Errorf("crawler.start_url must be set")
	}
	if c.Crawler.AllowedDomain == "" {
		return fmt.Errorf("crawler.allowed_domain must be set")
	}
	if c.Crawler.MaxPages <= 0 {
		return fmt.Errorf("crawler.max_pages must be > 0")
	}
	if c.Crawler.RequestsPerSecond < 0 {
		return fmt.Errorf("crawler.requests_per_second must be >= 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.Sink.OutputPath == "" {
		return fmt.Errorf("sink.output_path must be set")
	}
	switch c.Store.Provider {
	case "sqlite":
		if c.Store.SQLite.Path == "" {
			return fmt.Errorf("store.sqlite.path must be set")
		}
	case "postgres":
		if c.Store.Postgres.DSN == "" {
			return fmt.Errorf("store.postgres.dsn must be set when store.provider is postgres")
		}
	case "noop":
	default:
		return fmt.Errorf("unknown store provider: %s", c.Store.Provider)
	}
	if c.Store.Table == "" {
		return fmt.Errorf("store.table must be set")
	}
	if c.Server.Enabled && c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0 when the ops server is enabled")
	}
	return nil
}

// HTTPTimeout converts the fetch timeout config into a duration.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}
