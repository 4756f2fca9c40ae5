package types

import "time"

// Entry is one cached search result inside a shard.
//
// Entries are never mutated in place by invalidation: invalidation removes the
// entry and a later recomputation inserts a fresh one. The timestamp fields ARE
// mutable (sliding-TTL strategies push ExpireAt forward on access); races on
// timestamps are acceptable, races on Value are not.
type Entry struct {
	// Key is the cache fingerprint: user scope + normalized query + filter
	// digest. See the fingerprint package for how it is built.
	Key string

	// Value is the computed search result payload. The cache never looks
	// inside it.
	Value any

	// SizeHint is the caller's estimate of the payload size in bytes. Used
	// only for the memory-usage figure in stats; zero is fine.
	SizeHint int64

	CreatedAt      time.Time
	LastAccessedAt time.Time
	ExpireAt       time.Time // zero => no TTL
}
