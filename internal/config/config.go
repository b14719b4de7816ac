// Package config loads service configuration from a TOML file with
// SIMPLIFYTABLE_* environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full service configuration.
type Config struct {
	Server  ServerConfig   `toml:"server"`
	Logging LoggingConfig  `toml:"logging"`
	Fetch   FetchConfig    `toml:"fetch"`
	Cache   CacheConfig    `toml:"cache"`
	Warm    WarmConfig     `toml:"warm"`
	Sources []SourceConfig `toml:"sources"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `toml:"addr"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`

	// Pretty switches from JSON to console output.
	Pretty bool `toml:"pretty"`
}

// FetchConfig holds upstream HTTP settings.
type FetchConfig struct {
	TimeoutSeconds int         `toml:"timeout_seconds"`
	UserAgent      string      `toml:"user_agent"`
	Retry          RetryConfig `toml:"retry"`
}

// RetryConfig holds opt-in retry settings for upstream fetches.
type RetryConfig struct {
	Enabled               bool    `toml:"enabled"`
	MaxAttempts           int     `toml:"max_attempts"`
	InitialBackoffSeconds int     `toml:"initial_backoff_seconds"`
	MaxBackoffSeconds     int     `toml:"max_backoff_seconds"`
	BackoffMultiplier     float64 `toml:"backoff_multiplier"`
}

// CacheConfig selects and configures the dataset cache backend.
type CacheConfig struct {
	// Backend is memory or redis.
	Backend string `toml:"backend"`

	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`

	// TTLSeconds bounds Redis entry lifetime. Zero keeps entries forever,
	// matching the memory backend.
	TTLSeconds int `toml:"ttl_seconds"`
}

// WarmConfig holds startup cache warming settings.
type WarmConfig struct {
	Enabled        bool `toml:"enabled"`
	MaxConcurrency int  `toml:"max_concurrency"`
	TimeoutSeconds int  `toml:"timeout_seconds"`
}

// SourceConfig names a remote dataset and its default query policy.
type SourceConfig struct {
	// Name is the handle used in query requests and the TUI.
	Name string `toml:"name"`

	// URL is the upstream endpoint serving JSON or CSV.
	URL string `toml:"url"`

	// Paginate makes queries against this source paged unless the
	// request says otherwise.
	Paginate bool `toml:"paginate"`

	// Limit is the default page size for this source. Zero falls back
	// to the engine default.
	Limit int `toml:"limit"`
}

// Backend values accepted by CacheConfig.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Fetch: FetchConfig{
			TimeoutSeconds: 30,
			UserAgent:      "simplifytable/1.0",
			Retry: RetryConfig{
				MaxAttempts:           3,
				InitialBackoffSeconds: 1,
				MaxBackoffSeconds:     30,
				BackoffMultiplier:     2.0,
			},
		},
		Cache: CacheConfig{
			Backend:   BackendMemory,
			RedisAddr: "localhost:6379",
		},
		Warm: WarmConfig{
			MaxConcurrency: 4,
			TimeoutSeconds: 30,
		},
	}
}

// Load builds the configuration: defaults, then the TOML file at path
// (skipped when path is empty), then environment overrides, then
// validation.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// applyEnv overlays SIMPLIFYTABLE_* environment variables.
func (c *Config) applyEnv() error {
	if v := os.Getenv("SIMPLIFYTABLE_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("SIMPLIFYTABLE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SIMPLIFYTABLE_LOG_PRETTY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SIMPLIFYTABLE_LOG_PRETTY %q: %w", v, err)
		}
		c.Logging.Pretty = b
	}
	if v := os.Getenv("SIMPLIFYTABLE_FETCH_TIMEOUT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SIMPLIFYTABLE_FETCH_TIMEOUT %q: %w", v, err)
		}
		c.Fetch.TimeoutSeconds = n
	}
	if v := os.Getenv("SIMPLIFYTABLE_USER_AGENT"); v != "" {
		c.Fetch.UserAgent = v
	}
	if v := os.Getenv("SIMPLIFYTABLE_CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("SIMPLIFYTABLE_REDIS_ADDR"); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv("SIMPLIFYTABLE_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SIMPLIFYTABLE_REDIS_DB %q: %w", v, err)
		}
		c.Cache.RedisDB = n
	}
	return nil
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}

	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.timeout_seconds must be positive")
	}

	switch c.Cache.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache.redis_addr required for the redis backend")
		}
	default:
		return fmt.Errorf("cache.backend %q is not one of %s, %s", c.Cache.Backend, BackendMemory, BackendRedis)
	}

	seen := make(map[string]struct{}, len(c.Sources))
	for i, src := range c.Sources {
		if src.Name == "" {
			return fmt.Errorf("sources[%d]: name must not be empty", i)
		}
		if src.URL == "" {
			return fmt.Errorf("sources[%d] (%s): url must not be empty", i, src.Name)
		}
		if src.Limit < 0 {
			return fmt.Errorf("sources[%d] (%s): limit must not be negative", i, src.Name)
		}
		if _, dup := seen[src.Name]; dup {
			return fmt.Errorf("duplicate source name %q", src.Name)
		}
		seen[src.Name] = struct{}{}
	}

	return nil
}

// Source looks up a configured source by name.
func (c *Config) Source(name string) (SourceConfig, bool) {
	for _, src := range c.Sources {
		if src.Name == name {
			return src, true
		}
	}
	return SourceConfig{}, false
}

// FetchTimeout returns the upstream timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// CacheTTL returns the Redis entry lifetime as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// WarmTimeout returns the per-source warm timeout as a duration.
func (c *Config) WarmTimeout() time.Duration {
	return time.Duration(c.Warm.TimeoutSeconds) * time.Second
}

// RetryBackoffs returns the initial and maximum retry backoff durations.
func (c *Config) RetryBackoffs() (time.Duration, time.Duration) {
	return time.Duration(c.Fetch.Retry.InitialBackoffSeconds) * time.Second,
		time.Duration(c.Fetch.Retry.MaxBackoffSeconds) * time.Second
}
