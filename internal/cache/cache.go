package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campora/campora/internal/pkg/logger"
)

// Class identifies a family of cache keys sharing one TTL.
type Class string

const (
	ClassReference  Class = "reference"  // academic years, rooms, fee schedules
	ClassTranscript Class = "transcript" // computed transcripts and GPA summaries
	ClassReport     Class = "report"     // finance and attendance reports
)

// ttlTable maps each key class to its expiry.
var ttlTable = map[Class]time.Duration{
	ClassReference:  12 * time.Hour,
	ClassTranscript: 10 * time.Minute,
	ClassReport:     5 * time.Minute,
}

// TTLFor returns the expiry for a key class, defaulting to five minutes for
// unknown classes.
func TTLFor(class Class) time.Duration {
	if ttl, ok := ttlTable[class]; ok {
		return ttl
	}
	return 5 * time.Minute
}

// Key builds a namespaced cache key. The tenant id is always the first part so
// invalidation can be scoped per tenant.
func Key(tenantID int64, parts ...string) string {
	return fmt.Sprintf("campora:%d:%s", tenantID, strings.Join(parts, ":"))
}

// Store is a get-or-set TTL cache.
type Store interface {
	// Remember loads key into dest; on a miss it calls fetch, stores the result
	// with the class TTL and decodes it into dest.
	Remember(ctx context.Context, key string, class Class, dest interface{}, fetch func() (interface{}, error)) error
	// Forget removes keys.
	Forget(ctx context.Context, keys ...string) error
}

// RedisStore implements Store over a Redis client.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed store and verifies connectivity.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Remember(ctx context.Context, key string, class Class, dest interface{}, fetch func() (interface{}, error)) error {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err == nil {
		if unmarshalErr := json.Unmarshal(raw, dest); unmarshalErr == nil {
			return nil
		}
		// Corrupt entry; fall through to refetch.
		logger.Warn().Str("key", key).Msg("Dropping undecodable cache entry")
	} else if !errors.Is(err, redis.Nil) {
		// Redis being down must not break reads.
		logger.Warn().Err(err).Str("key", key).Msg("Cache read failed, falling back to source")
	}

	value, err := fetch()
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}

	if err := s.client.Set(ctx, key, encoded, TTLFor(class)).Err(); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}

	return json.Unmarshal(encoded, dest)
}

func (s *RedisStore) Forget(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}
	return nil
}

// NoopStore always misses. Used when Redis is disabled and in tests.
type NoopStore struct{}

func (NoopStore) Remember(ctx context.Context, key string, class Class, dest interface{}, fetch func() (interface{}, error)) error {
	value, err := fetch()
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	return json.Unmarshal(encoded, dest)
}

func (NoopStore) Forget(ctx context.Context, keys ...string) error {
	return nil
}
