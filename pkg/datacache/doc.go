// Package datacache memoizes parsed datasets by source key, avoiding repeat
// network and parse cost for remote sources.
//
// The Store interface is injected into the query engine at construction;
// production wiring shares one instance process-wide while tests isolate one
// store per test case. Entries are never invalidated or expired: a cached
// dataset lives until the process exits (or, for the Redis backend, until an
// explicitly configured TTL elapses).
//
// Concurrent fills for the same key are deliberately not deduplicated. Two
// queries that miss at the same time both fetch and parse, and the last
// write wins.
//
// # Basic Usage
//
//	store := datacache.NewMemory()
//
//	ds, err := store.Get(ctx, key)
//	if errors.Is(err, datacache.ErrMiss) {
//		// fetch + parse, then store.Set(ctx, key, ds)
//	}
//
// # Backends
//
//   - MemoryStore: default, in-process, no eviction, no expiry, no size bound
//   - RedisStore: opt-in, shares datasets across processes, optional TTL
//
// # Metrics
//
// The package exports Prometheus metrics:
//
//   - simplifytable_cache_hits_total{backend}
//   - simplifytable_cache_misses_total{backend}
//   - simplifytable_cache_entries{backend}
//   - simplifytable_cache_errors_total{backend,operation}
package datacache
