// Package expiration decides when a cached search result is too old to serve.
package expiration

import (
	"time"

	"github.com/receiptwise/searchcache/types"
)

/*
Strategy is the interface every expiration rule follows. The cache never
hard-codes expiration logic; it asks the configured Strategy, so the rule can
be swapped without touching the read/write paths.
*/
type Strategy interface {

	// IsExpired reports whether the entry is expired at the given instant.
	IsExpired(*types.Entry, time.Time) bool

	// OnAccess is called after every successful read.
	OnAccess(*types.Entry, time.Time)

	// OnWrite is called when an entry is written or replaced.
	OnWrite(*types.Entry, time.Time)
}
