package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"StockReturns/internal/model"
)

// CacheConfig sizes one expiring cache. MaxSize 0 means unbounded.
type CacheConfig struct {
	TTL     time.Duration `yaml:"ttl"`
	MaxSize int           `yaml:"max_size"`
}

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr           string        `yaml:"addr"`
		ReadTimeout    time.Duration `yaml:"read_timeout"`
		WriteTimeout   time.Duration `yaml:"write_timeout"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
	} `yaml:"server"`
	DataSource struct {
		Provider string        `yaml:"provider"`
		BaseURL  string        `yaml:"base_url"`
		APIKey   string        `yaml:"api_key"`
		Timeout  time.Duration `yaml:"timeout"`
		Workers  int           `yaml:"workers"`
		Adjusted bool          `yaml:"adjusted"`
	} `yaml:"data_source"`
	Cache struct {
		Ticker  CacheConfig `yaml:"ticker"`
		Returns CacheConfig `yaml:"returns"`
	} `yaml:"cache"`
	Symbols  []string `yaml:"symbols"`
	Schedule struct {
		WarmCron    string `yaml:"warm_cron"`
		WarmOnStart bool   `yaml:"warm_on_start"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		c.DataSource.Provider = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	// CACHE_TTL applies to both caches, CACHE_MAX_SIZE to the ticker cache only.
	if v := os.Getenv("CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CACHE_TTL: %w", err)
		}
		c.Cache.Ticker.TTL = ttl
		c.Cache.Returns.TTL = ttl
	}
	if v := os.Getenv("CACHE_MAX_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CACHE_MAX_SIZE: %w", err)
		}
		c.Cache.Ticker.MaxSize = n
	}
	if v := os.Getenv("WARM_CRON"); v != "" {
		c.Schedule.WarmCron = v
	}
	if v := os.Getenv("RUN_ON_START"); v != "" {
		c.Schedule.WarmOnStart = v == "true"
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 90 * time.Second
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 60 * time.Second
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	c.DataSource.Provider = strings.ToLower(c.DataSource.Provider)
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 15 * time.Second
	}
	if c.DataSource.Workers == 0 {
		c.DataSource.Workers = 4
	}
	if c.Cache.Ticker.TTL == 0 {
		c.Cache.Ticker.TTL = time.Hour
	}
	if c.Cache.Ticker.MaxSize == 0 {
		c.Cache.Ticker.MaxSize = 1000
	}
	if c.Cache.Returns.TTL == 0 {
		c.Cache.Returns.TTL = time.Hour
	}
	if len(c.Symbols) == 0 {
		c.Symbols = append([]string(nil), model.DefaultSymbols...)
	}
	for i, s := range c.Symbols {
		c.Symbols[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	if c.Schedule.WarmCron == "" {
		c.Schedule.WarmCron = "0 30 16 * * 1-5"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "alphavantage":
		if c.DataSource.APIKey == "" {
			return fmt.Errorf("data_source.api_key is required for alphavantage")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if c.DataSource.Workers < 1 {
		return fmt.Errorf("data_source.workers must be positive")
	}
	if c.Cache.Ticker.TTL <= 0 || c.Cache.Returns.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive")
	}
	if c.Cache.Ticker.MaxSize < 0 || c.Cache.Returns.MaxSize < 0 {
		return fmt.Errorf("cache max_size must not be negative")
	}
	for _, s := range c.Symbols {
		if s == "" {
			return fmt.Errorf("symbols must not contain empty entries")
		}
	}
	return nil
}
