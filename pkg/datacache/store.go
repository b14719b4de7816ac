package datacache

import (
	"context"
	"errors"

	"github.com/Genty83/SimplifyTable/pkg/tabular"
)

var (
	// ErrMiss indicates the requested source key was not found in the cache.
	ErrMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the cache entry is invalid or corrupted.
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Store maps source keys to parsed datasets. Implementations must be safe
// for concurrent use but provide no single-flight guarantee: concurrent
// fills for the same key all run, and the last write wins.
type Store interface {
	// Get returns the dataset cached under key, or ErrMiss.
	Get(ctx context.Context, key string) (*tabular.Dataset, error)

	// Set stores a dataset under key, replacing any earlier entry.
	Set(ctx context.Context, key string, ds *tabular.Dataset) error
}
