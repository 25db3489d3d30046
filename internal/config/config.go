// Package config loads the Courtside YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "30s" or "1h". Bare integers are taken as nanoseconds.
type Duration time.Duration

// Std returns the standard library duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		var n int64
		if err2 := value.Decode(&n); err2 == nil {
			*d = Duration(n)
			return nil
		}
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// ServerConfig holds the ingest HTTP server settings.
type ServerConfig struct {
	Host         string   `yaml:"host"`
	Port         int      `yaml:"port"`
	ReadTimeout  Duration `yaml:"read_timeout"`
	WriteTimeout Duration `yaml:"write_timeout"`
	IdleTimeout  Duration `yaml:"idle_timeout"`
	// RateLimitRPS bounds inbound delta webhooks per client.
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`
}

// RedisConfig selects the Redis-backed snapshot store. Disabled falls
// back to the in-memory store.
type RedisConfig struct {
	Enabled bool     `yaml:"enabled"`
	Addr    string   `yaml:"addr"`
	DB      int      `yaml:"db"`
	TTL     Duration `yaml:"ttl"`
}

// PostgresConfig holds the record-store connection.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// FeedConfig holds the live score websocket feed settings.
type FeedConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
}

// NotifierConfig holds outbound webhook delivery settings.
type NotifierConfig struct {
	Enabled bool     `yaml:"enabled"`
	URL     string   `yaml:"url"`
	Timeout Duration `yaml:"timeout"`
	RPS     float64  `yaml:"rps"`
	Burst   int      `yaml:"burst"`
}

// BacktestConfig holds backtest run defaults; CLI flags override them.
type BacktestConfig struct {
	Workers   int      `yaml:"workers"`
	MaxGames  int      `yaml:"max_games"`
	Budget    Duration `yaml:"budget"`
	Stake     float64  `yaml:"stake"`
	OutputDir string   `yaml:"output_dir"`
}

// Config is the root configuration.
type Config struct {
	LogLevel string         `yaml:"log_level"`
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
	Feed     FeedConfig     `yaml:"feed"`
	Notifier NotifierConfig `yaml:"notifier"`
	Backtest BacktestConfig `yaml:"backtest"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Server: ServerConfig{
			Host:           "127.0.0.1",
			Port:           8080,
			ReadTimeout:    Duration(10 * time.Second),
			WriteTimeout:   Duration(10 * time.Second),
			IdleTimeout:    Duration(60 * time.Second),
			RateLimitRPS:   20,
			RateLimitBurst: 40,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
			TTL:  Duration(24 * time.Hour),
		},
		Notifier: NotifierConfig{
			Timeout: Duration(5 * time.Second),
			RPS:     5,
			Burst:   10,
		},
		Backtest: BacktestConfig{
			Workers: 4,
			Stake:   1.0,
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the services cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis enabled without addr")
	}
	if c.Feed.Enabled && c.Feed.URL == "" {
		return fmt.Errorf("feed enabled without url")
	}
	if c.Notifier.Enabled && c.Notifier.URL == "" {
		return fmt.Errorf("notifier enabled without url")
	}
	return nil
}
