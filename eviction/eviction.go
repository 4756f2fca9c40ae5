// Package eviction decides which cached result to drop when a shard is full.
package eviction

/*
Policy is the contract every eviction algorithm follows. The cache does not
care how the policy tracks usage internally; it reports reads, writes, and
explicit removals, and asks for a victim when space is needed.

A Policy instance belongs to exactly one shard and is always called under that
shard's write lock, so implementations need no locking of their own.
*/
type Policy interface {

	// OnGet is called when a key is read. LRU moves the key to the front,
	// LFU bumps its count, FIFO ignores reads.
	OnGet(string)

	// OnPut is called when a key is inserted, so the policy can start
	// tracking it.
	OnPut(string)

	// Remove is called when a key is removed for a reason other than
	// eviction (invalidation, TTL), so bookkeeping stays consistent.
	Remove(string)

	// Evict returns the key that should be dropped, or "" when the policy
	// tracks nothing. The shard performs the actual removal.
	Evict() string
}

// PolicyType names the supported eviction strategies in config.
type PolicyType string

const (
	// LRU drops the key unused for the longest time. Default: receipt
	// searches are bursty and recency tracks relevance well.
	LRU PolicyType = "LRU"

	// LFU drops the key with the fewest accesses. Useful when a small set
	// of saved searches dominates traffic.
	LFU PolicyType = "LFU"

	// FIFO drops the oldest insertion regardless of use.
	FIFO PolicyType = "FIFO"
)

// NewPolicy builds the policy for a PolicyType.
func NewPolicy(t PolicyType) Policy {
	switch t {
	case LRU:
		return newLRU()
	case LFU:
		return newLFU()
	case FIFO:
		return newFIFO()
	default:
		panic("unknown eviction policy: " + string(t))
	}
}
