// Package searchcache is the in-memory store for computed receipt-search
// results. It connects the shards, eviction, expiration, read-through loading,
// mirroring, and metrics; the invalidation manager in manager/ keeps it
// coherent as receipts change.
package searchcache

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/receiptwise/searchcache/engine"
	"github.com/receiptwise/searchcache/eviction"
	"github.com/receiptwise/searchcache/shard"
	"github.com/receiptwise/searchcache/types"
)

// entryOverhead approximates the fixed per-entry bookkeeping cost (struct,
// map slot, timestamps) charged on top of SizeHint in Stats.
const entryOverhead = 112

// Stats is a point-in-time snapshot of cache occupancy.
type Stats struct {
	// EntryCount is the number of live entries across all shards.
	EntryCount int64

	// MemoryUsage estimates resident bytes: key bytes plus SizeHint plus
	// fixed overhead per entry. An estimate, not an accounting.
	MemoryUsage int64
}

/*
ShardedCache is the main cache implementation: N independent shards, each with
its own copy-on-write store and eviction policy, behind one policy engine.
Reads are lock-free; writes lock only their shard.
*/
type ShardedCache struct {
	shards   []*shard.Shard
	engine   *engine.Engine
	selector shard.Selector

	// capacity is the total entry budget, divided evenly across shards.
	capacity int

	// sf collapses concurrent loads of the same missing fingerprint into a
	// single search-backend call.
	sf singleflight.Group
}

func New(
	shards int,
	capacity int,
	policy eviction.PolicyType,
	eng *engine.Engine,
) *ShardedCache {
	s := make([]*shard.Shard, shards)
	for i := range s {
		// Each shard gets its own eviction policy instance.
		s[i] = shard.New(eviction.NewPolicy(policy))
	}

	return &ShardedCache{
		shards:   s,
		engine:   eng,
		selector: shard.HashSelector{},
		capacity: capacity,
	}
}

/*
Get returns the cached result for a fingerprint, computing it through the
search backend on a miss. Expired entries are removed and treated as misses.
A nil result from the backend is passed through without being stored.
*/
func (c *ShardedCache) Get(ctx context.Context, key string) (any, error) {
	sh := c.selector.Select(key, c.shards)

	if ent, ok := sh.Store.Get(key); ok {
		if c.engine.IsExpired(ent) {
			c.engine.Metrics.Expire()
			c.Remove(key)
		} else {
			c.engine.Metrics.Hit()
			c.engine.OnRead(key, ent)

			sh.WriteMu.Lock()
			sh.Eviction.OnGet(key)
			sh.WriteMu.Unlock()

			return ent.Value, nil
		}
	}

	c.engine.Metrics.Miss()

	// Collapse a stampede of identical queries into one backend call.
	val, err, _ := c.sf.Do(key, func() (any, error) {
		return c.engine.Load(ctx, key)
	})
	if err != nil || val == nil {
		return nil, err
	}

	_ = c.Put(ctx, key, val)

	return val, nil
}

// Put stores a result without an explicit TTL; the engine's expiration
// strategy supplies one if configured.
func (c *ShardedCache) Put(ctx context.Context, key string, value any) error {
	return c.PutWithTTL(ctx, key, value, 0)
}

// PutWithTTL stores a result that expires after ttl. ttl <= 0 defers to the
// expiration strategy.
func (c *ShardedCache) PutWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	sh := c.selector.Select(key, c.shards)

	sh.WriteMu.Lock()
	defer sh.WriteMu.Unlock()

	// Each shard owns an equal slice of the total budget.
	if sh.Store.Size() >= int64(c.capacity/len(c.shards)) {
		if victim := sh.Eviction.Evict(); victim != "" {
			c.engine.Metrics.Eviction()
			sh.Store.Delete(victim)
		}
	}

	now := time.Now()
	ent := &types.Entry{
		Key:            key,
		Value:          value,
		SizeHint:       sizeHint(value),
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	if ttl > 0 {
		ent.ExpireAt = now.Add(ttl)
	}

	c.engine.OnWrite(ctx, ent)

	sh.Store.Put(key, ent)
	sh.Eviction.OnPut(key)

	return nil
}

// Remove deletes a fingerprint immediately. Removing an absent key is safe;
// the invalidation manager relies on that for idempotence.
func (c *ShardedCache) Remove(key string) {
	sh := c.selector.Select(key, c.shards)

	sh.WriteMu.Lock()
	defer sh.WriteMu.Unlock()

	sh.Store.Delete(key)
	sh.Eviction.Remove(key)
}

/*
InvalidateByPattern removes every entry whose fingerprint matches the
wildcard pattern ('*' matches any run of characters) and returns how many were
removed. This is the bulk-invalidation primitive behind per-user clears
("search:u1:*") and temporal sweeps ("*today*").

Each shard's snapshot is walked without a lock; matches are then deleted under
the shard lock. Entries inserted mid-walk may be missed, which is fine: the
caller's events are conservative and the TTL sweep backstops any straggler.
*/
func (c *ShardedCache) InvalidateByPattern(pattern string) int {
	removed := 0
	for _, sh := range c.shards {
		var victims []string
		for key := range sh.Store.Snapshot() {
			if matchPattern(pattern, key) {
				victims = append(victims, key)
			}
		}
		if len(victims) == 0 {
			continue
		}

		sh.WriteMu.Lock()
		for _, key := range victims {
			sh.Store.Delete(key)
			sh.Eviction.Remove(key)
			c.engine.Metrics.Invalidation()
			removed++
		}
		sh.WriteMu.Unlock()
	}
	return removed
}

// Expire sets or replaces the TTL of an existing fingerprint. Returns false
// if the fingerprint is not cached.
func (c *ShardedCache) Expire(key string, ttl time.Duration) bool {
	sh := c.selector.Select(key, c.shards)

	sh.WriteMu.Lock()
	defer sh.WriteMu.Unlock()

	ent, ok := sh.Store.Get(key)
	if !ok {
		return false
	}

	ent.ExpireAt = time.Now().Add(ttl)
	return true
}

// TTL returns the remaining lifetime of a fingerprint: -1 when cached without
// a deadline, -2 when absent or already past it.
func (c *ShardedCache) TTL(key string) time.Duration {
	sh := c.selector.Select(key, c.shards)

	ent, ok := sh.Store.Get(key)
	if !ok {
		return -2
	}
	if ent.ExpireAt.IsZero() {
		return -1
	}

	d := time.Until(ent.ExpireAt)
	if d < 0 {
		return -2
	}
	return d
}

// Stats walks the shard snapshots and aggregates occupancy. Read-only.
func (c *ShardedCache) Stats() Stats {
	var st Stats
	for _, sh := range c.shards {
		for key, ent := range sh.Store.Snapshot() {
			st.EntryCount++
			st.MemoryUsage += int64(len(key)) + ent.SizeHint + entryOverhead
		}
	}
	return st
}

// Close flushes the mirror queue. Required for write-back; harmless otherwise.
func (c *ShardedCache) Close() {
	if c.engine.WritePolicy != nil {
		c.engine.WritePolicy.Close()
	}
}

// sizeHint estimates payload size for stats. Only the common payload shapes
// are inspected; anything else is charged overhead only.
func sizeHint(value any) int64 {
	switch v := value.(type) {
	case string:
		return int64(len(v))
	case []byte:
		return int64(len(v))
	default:
		return 0
	}
}

/*
matchPattern reports whether key matches a wildcard pattern where '*' matches
any (possibly empty) run of characters. Literal segments must appear in order;
the first and last segments are anchored unless the pattern starts or ends
with '*'.
*/
func matchPattern(pattern, key string) bool {
	if pattern == "" {
		return key == ""
	}

	segs := strings.Split(pattern, "*")

	// No wildcard at all: exact match.
	if len(segs) == 1 {
		return key == pattern
	}

	if segs[0] != "" {
		if !strings.HasPrefix(key, segs[0]) {
			return false
		}
		key = key[len(segs[0]):]
	}

	last := segs[len(segs)-1]

	for _, seg := range segs[1 : len(segs)-1] {
		if seg == "" {
			continue
		}
		i := strings.Index(key, seg)
		if i < 0 {
			return false
		}
		key = key[i+len(seg):]
	}

	if last == "" {
		return true
	}
	return strings.HasSuffix(key, last)
}
