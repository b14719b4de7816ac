package datacache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Genty83/SimplifyTable/pkg/tabular"
)

// envelope is the serialized dataset form stored in Redis.
type envelope struct {
	Columns []string         `json:"columns"`
	Records []tabular.Record `json:"records"`
}

// RedisStore shares parsed datasets across processes. It is an opt-in
// deployment variant; MemoryStore remains the default.
type RedisStore struct {
	redis *redis.Client
	ttl   time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedis creates a Redis-backed store. A zero ttl stores entries without
// expiry, matching the base cache contract.
func NewRedis(redisClient *redis.Client, ttl time.Duration) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &RedisStore{
		redis: redisClient,
		ttl:   ttl,
	}
}

// Get returns the dataset cached under key, or ErrMiss.
func (s *RedisStore) Get(ctx context.Context, key string) (*tabular.Dataset, error) {
	data, err := s.redis.Get(ctx, storageKey(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			CacheMisses.WithLabelValues("redis").Inc()
			return nil, ErrMiss
		}
		CacheErrors.WithLabelValues("redis", "get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	ds, err := decodeEnvelope(data)
	if err != nil {
		CacheErrors.WithLabelValues("redis", "get").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	CacheHits.WithLabelValues("redis").Inc()
	return ds, nil
}

// Set stores a dataset under key, replacing any earlier entry.
func (s *RedisStore) Set(ctx context.Context, key string, ds *tabular.Dataset) error {
	if ds == nil {
		return fmt.Errorf("dataset cannot be nil")
	}

	data, err := json.Marshal(envelope{Columns: ds.Columns, Records: ds.Records})
	if err != nil {
		CacheErrors.WithLabelValues("redis", "set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := s.redis.Set(ctx, storageKey(key), data, s.ttl).Err(); err != nil {
		CacheErrors.WithLabelValues("redis", "set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Delete removes a cache entry.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.redis.Del(ctx, storageKey(key)).Err(); err != nil {
		CacheErrors.WithLabelValues("redis", "delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// storageKey namespaces source keys within the Redis keyspace.
func storageKey(key string) string {
	return "simplifytable:dataset:" + key
}

// decodeEnvelope restores a dataset with numbers kept as json.Number, the
// same value shape a fresh parse produces.
func decodeEnvelope(data []byte) (*tabular.Dataset, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var env envelope
	if err := dec.Decode(&env); err != nil {
		return nil, err
	}
	return &tabular.Dataset{Columns: env.Columns, Records: env.Records}, nil
}
