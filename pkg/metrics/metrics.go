// Package metrics provides the centralized Prometheus metrics registry.
// All metrics are defined in their respective packages (fetch, datacache,
// query, sourcestats) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Fetch Metrics (pkg/fetch):
//   - simplifytable_fetch_requests_total{status} (Counter): Upstream requests by outcome
//   - simplifytable_fetch_duration_seconds{status} (Histogram): Upstream request duration
//   - simplifytable_fetch_errors_total{class} (Counter): Fetch errors by class (client, server, rate_limit, network)
//
// Retry Metrics (pkg/fetch):
//   - simplifytable_fetch_retries_total{error_class} (Counter): Retry attempts by error class
//   - simplifytable_fetch_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - simplifytable_fetch_retry_exhausted_total{error_class} (Counter): Fetches that exhausted max retries
//
// Cache Metrics (pkg/datacache):
//   - simplifytable_cache_hits_total{backend} (Counter): Cache hits by backend (memory, redis)
//   - simplifytable_cache_misses_total{backend} (Counter): Cache misses by backend
//   - simplifytable_cache_entries{backend} (Gauge): Datasets currently stored
//   - simplifytable_cache_errors_total{backend, operation} (Counter): Cache operation errors
//
// Query Metrics (pkg/query):
//   - simplifytable_queries_total{source_kind, status} (Counter): Queries by source kind and outcome
//   - simplifytable_query_duration_seconds (Histogram): End-to-end query duration
//
// Source Metrics (pkg/sourcestats):
//   - simplifytable_source_fetches_total{source} (Counter): Successful loads by source key
//   - simplifytable_source_records{source} (Gauge): Records in the latest parse
//   - simplifytable_source_errors_total{source} (Counter): Failed loads by source key
//
// HTTP Metrics (internal/server):
//   - simplifytable_http_requests_total{route, status} (Counter): API requests by route and status code
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(simplifytable_cache_hits_total[5m])) /
//   (sum(rate(simplifytable_cache_hits_total[5m])) + sum(rate(simplifytable_cache_misses_total[5m])))
//
//   # Query Error Rate
//   sum(rate(simplifytable_queries_total{status="error"}[5m])) /
//   sum(rate(simplifytable_queries_total[5m]))
//
//   # P95 Query Latency
//   histogram_quantile(0.95, rate(simplifytable_query_duration_seconds_bucket[5m]))
//
//   # Upstream Error Rate By Class
//   rate(simplifytable_fetch_errors_total[5m])
//
//   # Largest Sources
//   topk(10, simplifytable_source_records)
