package expiration

import (
	"time"

	"github.com/receiptwise/searchcache/types"
)

/*
ExpireAfterAccess is a sliding TTL: every read pushes the deadline forward.
Data that keeps getting used stays alive; data nobody touches expires.

Not the default for search results (see ExpireAfterWrite), but kept as an
option for caches of derived artifacts where freshness is tied to use, such as
per-conversation summaries.
*/
type ExpireAfterAccess struct {

	// TTL is how long an entry stays valid after its last access.
	TTL time.Duration
}

func (e *ExpireAfterAccess) IsExpired(ent *types.Entry, now time.Time) bool {
	return !ent.ExpireAt.IsZero() && now.After(ent.ExpireAt)
}

// OnAccess is the sliding part: touch the entry and move the deadline.
func (e *ExpireAfterAccess) OnAccess(ent *types.Entry, now time.Time) {
	ent.LastAccessedAt = now
	ent.ExpireAt = now.Add(e.TTL)
}

// OnWrite stamps the entry. An explicit TTL set by the caller wins over the
// strategy's default.
func (e *ExpireAfterAccess) OnWrite(ent *types.Entry, now time.Time) {
	ent.CreatedAt = now
	ent.LastAccessedAt = now
	if ent.ExpireAt.IsZero() {
		ent.ExpireAt = now.Add(e.TTL)
	}
}
