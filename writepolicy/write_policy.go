// Package writepolicy decides how computed search results reach the persisted
// mirror. Write-through pays the mirror write on the caller's clock; write-back
// queues it. Either way the in-memory cache is authoritative and the mirror is
// best-effort.
package writepolicy

import "context"

/*
Policy is the contract for mirroring. The cache engine does not care which
policy is configured; it calls OnWrite for every stored result and Close at
shutdown.
*/
type Policy interface {

	// OnWrite is called after a result is stored in memory. key is the
	// clear-text fingerprint; value is the result payload.
	OnWrite(ctx context.Context, key string, value any)

	// Close flushes anything pending. Called once at shutdown.
	Close()
}
