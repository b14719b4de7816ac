package query

import (
	"context"
	"sync"
	"time"

	"github.com/Genty83/SimplifyTable/pkg/source"
)

// WarmConfig holds cache warm-up configuration.
type WarmConfig struct {
	// MaxConcurrency is the number of parallel source loads.
	MaxConcurrency int

	// Timeout bounds each individual load.
	Timeout time.Duration
}

// DefaultWarmConfig returns safe default warm-up configuration.
func DefaultWarmConfig() WarmConfig {
	return WarmConfig{
		MaxConcurrency: 4,
		Timeout:        30 * time.Second,
	}
}

// Warm loads every remote source into the cache using a worker pool.
// Sources are fetched even when already cached, refreshing their
// entries. Static sources are skipped.
//
// The returned map holds the load error per failed source key; an empty
// map means every source warmed successfully.
func (e *Engine) Warm(ctx context.Context, sources []source.Source, cfg WarmConfig) map[string]error {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	start := time.Now()

	queue := make(chan source.Source, len(sources))
	remotes := 0
	for _, src := range sources {
		if src.Kind() == source.KindRemote {
			queue <- src
			remotes++
		}
	}
	close(queue)

	var (
		mu       sync.Mutex
		failures = make(map[string]error)
		warmed   int
	)

	var wg sync.WaitGroup
	for i := 0; i < cfg.MaxConcurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for src := range queue {
				select {
				case <-ctx.Done():
					e.logger.Debug().
						Int("worker_id", workerID).
						Msg("Warm worker stopping (context cancelled)")
					return
				default:
				}

				loadCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
				_, err := e.load(loadCtx, src)
				cancel()

				mu.Lock()
				if err != nil {
					failures[src.Key()] = err
				} else {
					warmed++
				}
				mu.Unlock()

				if err != nil {
					e.logger.Warn().
						Err(err).
						Int("worker_id", workerID).
						Str("source", src.Key()).
						Msg("Warm load failed")
				}
			}
		}(i)
	}
	wg.Wait()

	e.logger.Info().
		Int("warmed", warmed).
		Int("failed", len(failures)).
		Int("remotes", remotes).
		Dur("duration", time.Since(start)).
		Msg("Warm complete")

	return failures
}
