// Package refresh lets the cache do something extra when a result is read,
// without slowing the read down. The goal: keep data fresh off the hot path.
package refresh

import (
	"time"

	"github.com/receiptwise/searchcache/types"
)

/*
Hook is called after every successful cache read. It MUST be fast and
non-blocking; it runs on the read path.

Typical uses: notice an entry is close to its deadline and schedule a
background recompute, or record access patterns.
*/
type Hook interface {
	OnRead(key string, ent *types.Entry)
}

/*
NearExpiry fires a callback for entries that will expire within Window.
The callback runs in its own goroutine so the read returns immediately.

The usual callback recomputes the query through the search backend and rewrites
the entry, so frequent queries never observe a miss.
*/
type NearExpiry struct {
	Window time.Duration

	// Recompute receives the fingerprint of the entry that is about to
	// expire. Must be safe for concurrent use.
	Recompute func(key string)
}

func (n *NearExpiry) OnRead(key string, ent *types.Entry) {
	if n.Recompute == nil || ent.ExpireAt.IsZero() {
		return
	}
	if time.Until(ent.ExpireAt) <= n.Window {
		go n.Recompute(key)
	}
}
