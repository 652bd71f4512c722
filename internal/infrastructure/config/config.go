package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultPollURL = "http://api-sandbox.oanda.com/v1/instruments/poll.json"
	DefaultPath    = "configs/config.toml"
)

type Config struct {
	App struct {
		PrintEveryMin int    `toml:"print_every_min"`
		FrameMs       int    `toml:"frame_ms"`
		LogLevel      string `toml:"log_level"`
	} `toml:"app"`

	Poll struct {
		URL                    string `toml:"url"`
		Port                   int    `toml:"port"`
		IntervalMs             int    `toml:"interval_ms"`
		TimeoutSec             int    `toml:"timeout_sec"`
		InvalidateOnParseError bool   `toml:"invalidate_on_parse_error"`
	} `toml:"poll"`

	Redis struct {
		Enabled    bool   `toml:"enabled"`
		Addr       string `toml:"addr"`
		Password   string `toml:"password"`
		DB         int    `toml:"db"`
		Prefix     string `toml:"prefix"`
		TTLSeconds int    `toml:"ttl_seconds"`
		Stream     string `toml:"stream"`
		Channel    string `toml:"channel"`
	} `toml:"redis"`

	SQLite struct {
		Enabled bool   `toml:"enabled"`
		Path    string `toml:"path"`
	} `toml:"sqlite"`

	Postgres struct {
		Enabled bool   `toml:"enabled"`
		DSN     string `toml:"dsn"`
	} `toml:"postgres"`

	Feed struct {
		Enabled bool   `toml:"enabled"`
		Addr    string `toml:"addr"`
	} `toml:"feed"`
}

// Default returns a config that polls the sandbox with no recorders.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Resolve loads path. An empty path means DefaultPath, and a missing default
// file yields Default(); an explicitly named file must exist.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultPath); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(DefaultPath)
}

// PollInterval is the delay between poll rounds.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Poll.IntervalMs) * time.Millisecond
}

// PollTimeout bounds a single request.
func (c *Config) PollTimeout() time.Duration {
	return time.Duration(c.Poll.TimeoutSec) * time.Second
}

// FrameInterval is how often the consumer takes a snapshot.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.App.FrameMs) * time.Millisecond
}

func applyDefaults(cfg *Config) {
	if cfg.App.PrintEveryMin <= 0 {
		cfg.App.PrintEveryMin = 5
	}
	if cfg.App.FrameMs <= 0 {
		cfg.App.FrameMs = 100
	}
	if strings.TrimSpace(cfg.App.LogLevel) == "" {
		cfg.App.LogLevel = "info"
	}
	if strings.TrimSpace(cfg.Poll.URL) == "" {
		cfg.Poll.URL = DefaultPollURL
	}
	if cfg.Poll.IntervalMs <= 0 {
		cfg.Poll.IntervalMs = 500
	}
	if cfg.Poll.TimeoutSec <= 0 {
		cfg.Poll.TimeoutSec = 10
	}
	if cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = "oanda"
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.SQLite.Path == "" {
		cfg.SQLite.Path = "data/oanda.db"
	}
	if cfg.Feed.Addr == "" {
		cfg.Feed.Addr = "127.0.0.1:8765"
	}
}

func validate(cfg *Config) error {
	u, err := url.Parse(strings.TrimSpace(cfg.Poll.URL))
	if err != nil {
		return fmt.Errorf("poll.url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("poll.url %q must be absolute", cfg.Poll.URL)
	}
	if cfg.Poll.Port < 0 || cfg.Poll.Port > 65535 {
		return fmt.Errorf("poll.port %d out of range", cfg.Poll.Port)
	}

	if cfg.Postgres.Enabled && strings.TrimSpace(cfg.Postgres.DSN) == "" {
		return errors.New("postgres.dsn empty but enabled")
	}
	if cfg.Redis.Enabled && strings.TrimSpace(cfg.Redis.Addr) == "" {
		return errors.New("redis.addr empty but enabled")
	}
	return nil
}
