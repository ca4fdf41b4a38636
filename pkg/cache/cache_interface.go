package cache

import (
	"context"
	"time"
)

// Cache defines the contract for the cache layer
// Implementations: Redis (infrastructure/cache), in-memory (testutil/memstore)
type Cache interface {
	// Get loads key into dest
	// found = false on cache miss, dest untouched
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value as JSON with a TTL
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	Ping(ctx context.Context) error

	DeletePattern(ctx context.Context, pattern string) error

	// Counters for failed login tracking
	Increment(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}
