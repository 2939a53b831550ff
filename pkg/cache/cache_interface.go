package cache

import (
	"context"
	"time"
)

// Cache is the contract for the cache layer. Implementations must treat a
// miss as (false, nil) and leave dest untouched.
type Cache interface {
	// Get reads the value stored at key and unmarshals it into dest.
	// Returns true on a hit, false on a miss.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value at key with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes the given keys.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching the glob pattern.
	DeletePattern(ctx context.Context, pattern string) error

	// Ping verifies the connection.
	Ping(ctx context.Context) error
}
