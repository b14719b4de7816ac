// Package sourcestats tracks per-source load telemetry: fetch counts, parse
// outcomes, dataset shape, and the most recent failure. The serve API and
// CLI surface these snapshots for operators.
package sourcestats

import (
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for source load tracking.
var (
	sourceFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simplifytable_source_fetches_total",
		Help: "Total upstream fetches by source key",
	}, []string{"source"})

	sourceRecords = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "simplifytable_source_records",
		Help: "Records in the most recent parse by source key",
	}, []string{"source"})

	sourceErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simplifytable_source_errors_total",
		Help: "Total failed loads by source key",
	}, []string{"source"})
)

// Stats is one source's load telemetry.
type Stats struct {
	Key        string    `json:"key"`
	Fetches    int64     `json:"fetches"`
	Errors     int64     `json:"errors"`
	LastStatus int       `json:"lastStatus,omitempty"`
	Bytes      int64     `json:"bytes"`
	Records    int       `json:"records"`
	Columns    int       `json:"columns"`
	LastFetch  time.Time `json:"lastFetch"`
	LastError  string    `json:"lastError,omitempty"`
}

// Tracker aggregates load telemetry across sources. Safe for concurrent use.
type Tracker struct {
	mu     sync.RWMutex
	byKey  map[string]*Stats
	logger zerolog.Logger
}

// NewTracker creates an empty tracker.
func NewTracker(logger zerolog.Logger) *Tracker {
	return &Tracker{
		byKey:  make(map[string]*Stats),
		logger: logger,
	}
}

// RecordLoad notes a successful fetch and parse for key.
func (t *Tracker) RecordLoad(key string, status int, bytes int64, records, columns int) {
	t.mu.Lock()
	s := t.stat(key)
	s.Fetches++
	s.LastStatus = status
	s.Bytes += bytes
	s.Records = records
	s.Columns = columns
	s.LastFetch = time.Now()
	s.LastError = ""
	t.mu.Unlock()

	sourceFetchesTotal.WithLabelValues(key).Inc()
	sourceRecords.WithLabelValues(key).Set(float64(records))
}

// RecordError notes a failed load for key.
func (t *Tracker) RecordError(key string, err error) {
	if err == nil {
		return
	}

	t.mu.Lock()
	s := t.stat(key)
	s.Errors++
	s.LastError = err.Error()
	t.mu.Unlock()

	sourceErrorsTotal.WithLabelValues(key).Inc()
	t.logger.Debug().Str("source", key).Err(err).Msg("Source load failure recorded")
}

// stat returns the entry for key, creating it if needed. Callers hold mu.
func (t *Tracker) stat(key string) *Stats {
	s, ok := t.byKey[key]
	if !ok {
		s = &Stats{Key: key}
		t.byKey[key] = s
	}
	return s
}

// Get returns a copy of one source's stats.
func (t *Tracker) Get(key string) (Stats, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s, ok := t.byKey[key]
	if !ok {
		return Stats{}, false
	}
	return *s, true
}

// Snapshot returns copies of all stats sorted by source key.
func (t *Tracker) Snapshot() []Stats {
	t.mu.RLock()
	out := make([]Stats, 0, len(t.byKey))
	for _, s := range t.byKey {
		out = append(out, *s)
	}
	t.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
