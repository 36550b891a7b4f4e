// Package cache provides response caching for the listing crawlers.
//
// A snapshot run is point-in-time, so caching is off by default; it is
// switched on to make repeated debug runs against the same registry fast.
// Backends share one interface so the file cache, the shared redis cache
// and the no-op cache are interchangeable.
package cache

import (
	"context"
	"time"
)

// Cache stores raw response bodies under opaque string keys.
type Cache interface {
	// Get returns the cached data for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
