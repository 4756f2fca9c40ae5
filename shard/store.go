package shard

import (
	"sync/atomic"

	"github.com/receiptwise/searchcache/types"
)

/*
Store is how a shard holds its entries. It is not a plain map: reads vastly
outnumber writes on the search path, so reads must be lock-free. Writes can
afford extra work.
*/
type Store interface {

	// Get retrieves an entry by fingerprint.
	Get(string) (*types.Entry, bool)

	// Put inserts or replaces an entry.
	Put(string, *types.Entry)

	// Delete removes an entry.
	Delete(string)

	// Size returns how many entries are stored.
	Size() int64

	// Snapshot returns the current immutable entry map. Callers may read it
	// freely but must never modify it; pattern invalidation and stats walk
	// these snapshots.
	Snapshot() map[string]*types.Entry
}

/*
cowStore implements Store with copy-on-write.

Readers always see an immutable snapshot loaded from an atomic.Value. Writers
build a fresh map, copy the survivors over, and swap it in atomically. No read
ever takes a lock; Snapshot is a single atomic load.
*/
type cowStore struct {
	data atomic.Value // map[string]*types.Entry
	size atomic.Int64
}

func NewCOWStore() *cowStore {
	s := &cowStore{}
	s.data.Store(make(map[string]*types.Entry))
	return s
}

func (s *cowStore) Get(key string) (*types.Entry, bool) {
	m := s.data.Load().(map[string]*types.Entry)
	ent, ok := m[key]
	return ent, ok
}

// Put copies the current map, adds the entry, and swaps the result in.
// Writers are serialized by the shard's write lock, so two Puts never race on
// the swap.
func (s *cowStore) Put(key string, ent *types.Entry) {
	old := s.data.Load().(map[string]*types.Entry)

	n := make(map[string]*types.Entry, len(old)+1)
	for k, v := range old {
		n[k] = v
	}
	n[key] = ent

	s.data.Store(n)
	s.size.Store(int64(len(n)))
}

// Delete copies the current map without the key and swaps the result in.
func (s *cowStore) Delete(key string) {
	old := s.data.Load().(map[string]*types.Entry)
	if _, ok := old[key]; !ok {
		return
	}

	n := make(map[string]*types.Entry, len(old))
	for k, v := range old {
		if k != key {
			n[k] = v
		}
	}

	s.data.Store(n)
	s.size.Store(int64(len(n)))
}

func (s *cowStore) Size() int64 {
	return s.size.Load()
}

func (s *cowStore) Snapshot() map[string]*types.Entry {
	return s.data.Load().(map[string]*types.Entry)
}
