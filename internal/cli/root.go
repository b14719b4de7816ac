// Package cli implements the simplifytable command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/Genty83/SimplifyTable/internal/config"
	"github.com/Genty83/SimplifyTable/pkg/datacache"
	"github.com/Genty83/SimplifyTable/pkg/fetch"
	"github.com/Genty83/SimplifyTable/pkg/logging"
	"github.com/Genty83/SimplifyTable/pkg/query"
	"github.com/Genty83/SimplifyTable/pkg/source"
	"github.com/Genty83/SimplifyTable/pkg/sourcestats"
	"github.com/Genty83/SimplifyTable/pkg/tabular"
)

var (
	cfgFile   string
	logLevel  string
	logPretty bool
)

var rootCmd = &cobra.Command{
	Use:   "simplifytable",
	Short: "Query, cache and page tabular datasets",
	Long: `simplifytable turns JSON and CSV endpoints into filterable,
paginated tables. Datasets are fetched once, cached, and served to the
CLI, the TUI and the HTTP API from the same query engine.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logPretty, "pretty", false, "human readable log output")
}

// setup loads configuration and configures global logging.
func setup() (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, err
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logPretty {
		cfg.Logging.Pretty = true
	}

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Pretty,
		Output: os.Stderr,
	})

	return cfg, nil
}

// buildEngine assembles the query engine from configuration. The
// returned cleanup closes backend connections.
func buildEngine(cfg config.Config) (*query.Engine, *sourcestats.Tracker, func(), error) {
	var fetcher fetch.Fetcher = fetch.New(fetch.Config{
		Timeout:   cfg.FetchTimeout(),
		UserAgent: cfg.Fetch.UserAgent,
	})
	if cfg.Fetch.Retry.Enabled {
		initial, maxBackoff := cfg.RetryBackoffs()
		fetcher = fetch.NewRetrier(fetcher, fetch.RetryConfig{
			MaxAttempts:       cfg.Fetch.Retry.MaxAttempts,
			InitialBackoff:    initial,
			MaxBackoff:        maxBackoff,
			BackoffMultiplier: cfg.Fetch.Retry.BackoffMultiplier,
		})
	}

	var (
		store   datacache.Store
		cleanup = func() {}
	)
	switch cfg.Cache.Backend {
	case config.BackendRedis:
		redisClient := redis.NewClient(&redis.Options{
			Addr: cfg.Cache.RedisAddr,
			DB:   cfg.Cache.RedisDB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			return nil, nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Cache.RedisAddr, err)
		}
		store = datacache.NewRedis(redisClient, cfg.CacheTTL())
		cleanup = func() { _ = redisClient.Close() }
	default:
		store = datacache.NewMemory()
	}

	tracker := sourcestats.NewTracker(logging.NewLogger("sourcestats"))
	engine := query.New(query.Config{
		Fetcher: fetcher,
		Cache:   store,
		Stats:   tracker,
	})

	return engine, tracker, cleanup, nil
}

// resolveSource turns a command argument into a source: a configured
// name, a URL, or a local JSON/CSV file. Named sources also yield their
// binding's default query params.
func resolveSource(cfg config.Config, arg string) (source.Source, query.Params, error) {
	if named, ok := cfg.Source(arg); ok {
		seed := query.Params{Paginate: named.Paginate, Limit: named.Limit}
		return source.Remote(named.URL), seed, nil
	}

	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return source.Remote(arg), query.Params{}, nil
	}

	if _, err := os.Stat(arg); err == nil {
		src, err := loadLocal(arg)
		return src, query.Params{}, err
	}

	return source.Source{}, query.Params{}, fmt.Errorf("unknown source %q: not a configured name, URL or file", arg)
}

// loadLocal parses a local file into a static source. The format comes
// from the file extension.
func loadLocal(path string) (source.Source, error) {
	var format tabular.Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		format = tabular.FormatJSON
	case ".csv":
		format = tabular.FormatCSV
	default:
		return source.Source{}, fmt.Errorf("cannot infer format of %s: expected a .json or .csv extension", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return source.Source{}, fmt.Errorf("read %s: %w", path, err)
	}

	ds, err := tabular.Parse(data, format)
	if err != nil {
		return source.Source{}, fmt.Errorf("parse %s: %w", path, err)
	}

	return source.Static(ds), nil
}
