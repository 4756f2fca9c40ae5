package shard

import "hash/fnv"

/*
Selector decides which shard handles a fingerprint. The cache does not care
how; strategies can be swapped.
*/
type Selector interface {
	Select(string, []*Shard) *Shard
}

// HashSelector assigns a fingerprint to a shard by FNV-1a hash modulo the
// shard count. FNV is fast, non-cryptographic, and spreads fingerprints well
// because the digest suffix already has high entropy.
type HashSelector struct{}

func hash(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

func (HashSelector) Select(key string, shards []*Shard) *Shard {
	return shards[int(hash(key))%len(shards)]
}
