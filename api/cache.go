// Package api declares the public contract of the search-result cache.
// Consumers (the invalidation manager, request handlers) program against this
// interface; sharding, eviction, expiration, mirroring, and concurrency stay
// behind it.
package api

import (
	"context"
	"time"

	"github.com/receiptwise/searchcache"
)

type SearchCache interface {

	// Get returns the cached result for a fingerprint. On a miss or an
	// expired entry the result is recomputed through the search backend,
	// stored, and returned. Concurrent misses on one fingerprint trigger a
	// single backend call.
	Get(ctx context.Context, key string) (any, error)

	// Put stores a result. The configured expiration strategy decides its
	// lifetime; eviction makes room if the shard is full; the write policy
	// mirrors it to persisted storage.
	Put(ctx context.Context, key string, value any) error

	// PutWithTTL stores a result with an explicit lifetime that overrides
	// the expiration strategy's default.
	PutWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error

	// Remove deletes one fingerprint. Idempotent: removing an absent key
	// is safe.
	Remove(key string)

	// InvalidateByPattern removes every fingerprint matching the wildcard
	// pattern ('*' matches any run) and returns the count removed. The
	// bulk primitive behind per-user and temporal invalidation.
	InvalidateByPattern(pattern string) int

	// Expire resets the TTL of an existing fingerprint; false when the
	// fingerprint is not cached.
	Expire(key string, ttl time.Duration) bool

	// TTL returns the remaining lifetime: -1 for no deadline, -2 for
	// absent or expired.
	TTL(key string) time.Duration

	// Stats snapshots entry count and estimated memory usage. Read-only.
	Stats() searchcache.Stats

	// Close flushes pending mirror writes. Call once at shutdown.
	Close()
}

// The concrete implementation must keep satisfying the contract.
var _ SearchCache = (*searchcache.ShardedCache)(nil)
