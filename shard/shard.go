// Package shard splits the cache into independent pieces so one big lock never
// serializes every search. Each shard owns a slice of the keyspace, its own
// eviction state, and its own write mutex; reads are lock-free.
package shard

import (
	"sync"

	"github.com/receiptwise/searchcache/eviction"
)

type Shard struct {

	// Store holds this shard's fingerprint -> entry data behind a
	// copy-on-write map.
	Store Store

	// Eviction is this shard's own policy instance. Per-shard instances
	// avoid shared state between shards entirely.
	Eviction eviction.Policy

	// WriteMu serializes writes (Put, Delete, Evict bookkeeping) on this
	// shard. Reads do not take it.
	WriteMu sync.Mutex
}

func New(ev eviction.Policy) *Shard {
	return &Shard{
		Store:    NewCOWStore(),
		Eviction: ev,
	}
}
