package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Genty83/SimplifyTable/pkg/datacache"
	"github.com/Genty83/SimplifyTable/pkg/fetch"
	"github.com/Genty83/SimplifyTable/pkg/source"
	"github.com/Genty83/SimplifyTable/pkg/sourcestats"
	"github.com/Genty83/SimplifyTable/pkg/tabular"
)

// Prometheus metrics for query execution.
var (
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simplifytable_queries_total",
		Help: "Total queries by source kind and status",
	}, []string{"source_kind", "status"})

	queryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "simplifytable_query_duration_seconds",
		Help:    "Query duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
	})
)

// Config holds the engine's collaborators. Every field is optional: a nil
// Fetcher becomes a default fetch client, a nil Cache becomes an in-memory
// store, and a nil Stats disables per-source telemetry.
type Config struct {
	// Fetcher retrieves remote source bodies. Wrap it in fetch.NewRetrier
	// to add retry behavior.
	Fetcher fetch.Fetcher

	// Cache stores parsed datasets between queries.
	Cache datacache.Store

	// Stats receives per-source load telemetry.
	Stats *sourcestats.Tracker
}

// Result is the answer to a single query.
type Result struct {
	// Results holds the records of the requested page, or the full
	// filtered set when pagination is off.
	Results []tabular.Record `json:"results"`

	// TotalResults counts the filtered set before pagination.
	TotalResults int `json:"totalResults"`

	// Columns is the dataset's column order.
	Columns []string `json:"columns"`
}

// Engine resolves datasets and answers queries against them.
type Engine struct {
	fetcher fetch.Fetcher
	cache   datacache.Store
	stats   *sourcestats.Tracker
	logger  zerolog.Logger
}

// New creates a query engine. Missing collaborators are defaulted, see
// Config.
func New(cfg Config) *Engine {
	if cfg.Fetcher == nil {
		cfg.Fetcher = fetch.New(fetch.DefaultConfig())
	}
	if cfg.Cache == nil {
		cfg.Cache = datacache.NewMemory()
	}

	return &Engine{
		fetcher: cfg.Fetcher,
		cache:   cfg.Cache,
		stats:   cfg.Stats,
		logger:  log.With().Str("component", "query-engine").Logger(),
	}
}

// Query resolves the source's dataset, applies filters and returns the
// requested page. Errors are wrapped with the source key.
func (e *Engine) Query(ctx context.Context, src source.Source, p Params) (*Result, error) {
	start := time.Now()
	p = p.Normalize()

	ds, err := e.resolve(ctx, src)
	if err != nil {
		queriesTotal.WithLabelValues(string(src.Kind()), "error").Inc()
		return nil, fmt.Errorf("query source %s: %w", src.Key(), err)
	}

	filtered := filterRecords(ds.Records, p.Filters)

	result := &Result{
		Results:      filtered,
		TotalResults: len(filtered),
		Columns:      ds.Columns,
	}
	if p.Paginate {
		result.Results = pageSlice(filtered, p.Page, p.Limit)
	}

	queriesTotal.WithLabelValues(string(src.Kind()), "success").Inc()
	queryDuration.Observe(time.Since(start).Seconds())

	e.logger.Debug().
		Str("source", src.Key()).
		Int("total_results", result.TotalResults).
		Int("returned", len(result.Results)).
		Bool("paginate", p.Paginate).
		Dur("duration", time.Since(start)).
		Msg("Query served")

	return result, nil
}

// resolve returns the source's dataset, consulting the cache for remote
// sources.
func (e *Engine) resolve(ctx context.Context, src source.Source) (*tabular.Dataset, error) {
	if src.Kind() == source.KindStatic {
		return src.Dataset(), nil
	}

	key := src.Key()

	ds, err := e.cache.Get(ctx, key)
	if err == nil {
		e.logger.Debug().Str("source", key).Msg("Dataset served from cache")
		return ds, nil
	}
	if !errors.Is(err, datacache.ErrMiss) {
		e.logger.Warn().Err(err).Str("source", key).Msg("Cache get error")
	}

	return e.load(ctx, src)
}

// load fetches, parses and caches a remote source's dataset.
func (e *Engine) load(ctx context.Context, src source.Source) (*tabular.Dataset, error) {
	key := src.Key()

	resp, err := e.fetcher.Fetch(ctx, src.URL())
	if err != nil {
		e.recordError(key, err)
		return nil, err
	}

	format, err := tabular.DetectFormat(resp.ContentType)
	if err != nil {
		e.recordError(key, err)
		return nil, err
	}

	ds, err := tabular.Parse(resp.Body, format)
	if err != nil {
		e.recordError(key, err)
		return nil, err
	}

	// A cache write failure downgrades to a warning; the dataset is
	// still good.
	if err := e.cache.Set(ctx, key, ds); err != nil {
		e.logger.Warn().Err(err).Str("source", key).Msg("Cache set error")
	}

	if e.stats != nil {
		e.stats.RecordLoad(key, resp.StatusCode, int64(len(resp.Body)), len(ds.Records), len(ds.Columns))
	}

	e.logger.Info().
		Str("source", key).
		Str("format", string(format)).
		Int("records", len(ds.Records)).
		Int("columns", len(ds.Columns)).
		Msg("Dataset loaded")

	return ds, nil
}

func (e *Engine) recordError(key string, err error) {
	if e.stats != nil {
		e.stats.RecordError(key, err)
	}
}
