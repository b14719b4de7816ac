// Package query resolves datasets from their sources and serves filtered,
// paginated views over them.
//
// The engine combines the other building blocks into one call path:
//
// - Static sources return their in-memory dataset directly
// - Remote sources are served from the cache when possible
// - Cache misses trigger a fetch, format detection and parse
// - Parsed datasets are written back to the cache before returning
// - Filters and pagination apply to the resolved dataset
//
// There is no request coalescing: concurrent queries for an uncached
// source each fetch independently and the last parse wins the cache
// slot. Cached entries never expire on their own; use Warm to refresh
// them.
//
// # Basic Usage
//
//	engine := query.New(query.Config{
//		Cache: datacache.NewMemory(),
//	})
//
//	src := source.Remote("https://api.example.com/users")
//
//	result, err := engine.Query(ctx, src, query.Params{
//		Filters:  map[string]string{"name": "smith"},
//		Page:     1,
//		Limit:    25,
//		Paginate: true,
//	})
//	if err != nil {
//		return err
//	}
//
//	fmt.Println(result.TotalResults, len(result.Results))
//
// # Filtering
//
// Every filter key names a column; the value is matched as a
// case-insensitive substring against the stringified cell. A record must
// satisfy all filters to be included. Keys that collide with control
// parameter names (page, limit, paginate, source) are ignored.
//
// # Cache Warming
//
//	failures := engine.Warm(ctx, sources, query.DefaultWarmConfig())
//	for key, err := range failures {
//		log.Warn().Err(err).Str("source", key).Msg("Warm failed")
//	}
package query
