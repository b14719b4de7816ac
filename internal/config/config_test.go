package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, BackendMemory, cfg.Cache.Backend)
	assert.Equal(t, "simplifytable/1.0", cfg.Fetch.UserAgent)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout())
	assert.False(t, cfg.Fetch.Retry.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = ":9090"

[logging]
level = "debug"
pretty = true

[fetch]
timeout_seconds = 5
user_agent = "tables/2.0"

[fetch.retry]
enabled = true
max_attempts = 5

[cache]
backend = "redis"
redis_addr = "redis.internal:6379"
redis_db = 3
ttl_seconds = 600

[warm]
enabled = true
max_concurrency = 8
timeout_seconds = 10

[[sources]]
name = "users"
url = "https://api.example.com/users"

[[sources]]
name = "orders"
url = "https://api.example.com/orders.csv"
paginate = true
limit = 25
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Pretty)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout())
	assert.Equal(t, "tables/2.0", cfg.Fetch.UserAgent)
	assert.True(t, cfg.Fetch.Retry.Enabled)
	assert.Equal(t, 5, cfg.Fetch.Retry.MaxAttempts)
	assert.Equal(t, BackendRedis, cfg.Cache.Backend)
	assert.Equal(t, "redis.internal:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 3, cfg.Cache.RedisDB)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL())
	assert.True(t, cfg.Warm.Enabled)
	assert.Equal(t, 8, cfg.Warm.MaxConcurrency)
	assert.Equal(t, 10*time.Second, cfg.WarmTimeout())

	require.Len(t, cfg.Sources, 2)
	assert.Equal(t, "users", cfg.Sources[0].Name)
	assert.False(t, cfg.Sources[0].Paginate)
	assert.Zero(t, cfg.Sources[0].Limit)
	assert.Equal(t, "https://api.example.com/orders.csv", cfg.Sources[1].URL)
	assert.True(t, cfg.Sources[1].Paginate)
	assert.Equal(t, 25, cfg.Sources[1].Limit)

	initial, maxBackoff := cfg.RetryBackoffs()
	assert.Equal(t, 1*time.Second, initial)
	assert.Equal(t, 30*time.Second, maxBackoff)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
[logging]
level = "warn"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, BackendMemory, cfg.Cache.Backend)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadBadTOML(t *testing.T) {
	path := writeConfig(t, `server = `)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SIMPLIFYTABLE_ADDR", ":7070")
	t.Setenv("SIMPLIFYTABLE_LOG_LEVEL", "debug")
	t.Setenv("SIMPLIFYTABLE_LOG_PRETTY", "true")
	t.Setenv("SIMPLIFYTABLE_FETCH_TIMEOUT", "12")
	t.Setenv("SIMPLIFYTABLE_USER_AGENT", "override/1.0")
	t.Setenv("SIMPLIFYTABLE_CACHE_BACKEND", "redis")
	t.Setenv("SIMPLIFYTABLE_REDIS_ADDR", "10.0.0.5:6379")
	t.Setenv("SIMPLIFYTABLE_REDIS_DB", "9")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Pretty)
	assert.Equal(t, 12*time.Second, cfg.FetchTimeout())
	assert.Equal(t, "override/1.0", cfg.Fetch.UserAgent)
	assert.Equal(t, BackendRedis, cfg.Cache.Backend)
	assert.Equal(t, "10.0.0.5:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 9, cfg.Cache.RedisDB)
}

func TestEnvOverridesBeatFile(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = ":9090"
`)
	t.Setenv("SIMPLIFYTABLE_ADDR", ":6060")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":6060", cfg.Server.Addr)
}

func TestEnvInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad timeout", "SIMPLIFYTABLE_FETCH_TIMEOUT", "soon"},
		{"bad pretty", "SIMPLIFYTABLE_LOG_PRETTY", "yep"},
		{"bad redis db", "SIMPLIFYTABLE_REDIS_DB", "primary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "empty addr",
			mutate:  func(c *Config) { c.Server.Addr = "" },
			wantErr: "server.addr",
		},
		{
			name:    "unknown level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "logging.level",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Fetch.TimeoutSeconds = 0 },
			wantErr: "fetch.timeout_seconds",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Cache.Backend = "disk" },
			wantErr: "cache.backend",
		},
		{
			name: "redis without addr",
			mutate: func(c *Config) {
				c.Cache.Backend = BackendRedis
				c.Cache.RedisAddr = ""
			},
			wantErr: "cache.redis_addr",
		},
		{
			name: "source without name",
			mutate: func(c *Config) {
				c.Sources = []SourceConfig{{URL: "https://example.com"}}
			},
			wantErr: "name must not be empty",
		},
		{
			name: "source without url",
			mutate: func(c *Config) {
				c.Sources = []SourceConfig{{Name: "users"}}
			},
			wantErr: "url must not be empty",
		},
		{
			name: "source with negative limit",
			mutate: func(c *Config) {
				c.Sources = []SourceConfig{{Name: "users", URL: "https://a.example.com", Limit: -1}}
			},
			wantErr: "limit must not be negative",
		},
		{
			name: "duplicate source names",
			mutate: func(c *Config) {
				c.Sources = []SourceConfig{
					{Name: "users", URL: "https://a.example.com"},
					{Name: "users", URL: "https://b.example.com"},
				}
			},
			wantErr: "duplicate source name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSourceLookup(t *testing.T) {
	cfg := Default()
	cfg.Sources = []SourceConfig{
		{Name: "users", URL: "https://api.example.com/users"},
	}

	src, ok := cfg.Source("users")
	require.True(t, ok)
	assert.Equal(t, "https://api.example.com/users", src.URL)

	_, ok = cfg.Source("orders")
	assert.False(t, ok)
}
