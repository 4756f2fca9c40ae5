package expiration

import (
	"time"

	"github.com/receiptwise/searchcache/types"
)

/*
ExpireAfterWrite gives every entry a fixed lifetime counted from the moment it
was computed. Reads do NOT extend it.

This is the right default for search results: a result set reflects the data at
computation time, and how often someone re-reads it says nothing about whether
the underlying receipts changed. A popular stale answer is still stale.
*/
type ExpireAfterWrite struct {

	// TTL is how long a result stays valid after it is stored.
	TTL time.Duration
}

func (e *ExpireAfterWrite) IsExpired(ent *types.Entry, now time.Time) bool {
	return !ent.ExpireAt.IsZero() && now.After(ent.ExpireAt)
}

// OnAccess only records the access; the deadline stays where the write put it.
func (e *ExpireAfterWrite) OnAccess(ent *types.Entry, now time.Time) {
	ent.LastAccessedAt = now
}

// OnWrite stamps the entry and sets the deadline, unless the caller already
// set an explicit TTL (PutWithTTL) which must not be overwritten.
func (e *ExpireAfterWrite) OnWrite(ent *types.Entry, now time.Time) {
	ent.CreatedAt = now
	ent.LastAccessedAt = now
	if ent.ExpireAt.IsZero() {
		ent.ExpireAt = now.Add(e.TTL)
	}
}
