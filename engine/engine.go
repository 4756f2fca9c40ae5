// Package engine is the policy layer of the search cache: it decides when a
// result is stale, when refresh hooks fire, how misses are computed, and how
// results reach the persisted mirror. It stores nothing and takes no locks;
// storage, sharding, and locking live with the shards.
package engine

import (
	"context"
	"time"

	"github.com/receiptwise/searchcache/expiration"
	"github.com/receiptwise/searchcache/refresh"
	"github.com/receiptwise/searchcache/types"
	"github.com/receiptwise/searchcache/writepolicy"
)

type Engine struct {

	// Expiration decides when a cached result is too old to serve. Nil
	// means results never expire by time (the invalidation manager still
	// removes them on receipt mutations).
	Expiration expiration.Strategy

	// Refresh is an optional hook run after every read, used to recompute
	// soon-to-expire results off the hot path. Nil disables it.
	Refresh refresh.Hook

	// Loader computes results the cache does not have: the search backend.
	Loader types.Loader

	// WritePolicy mirrors stored results to the persisted store. Nil keeps
	// results in memory only.
	WritePolicy writepolicy.Policy

	// Metrics receives lifecycle events. Never nil after New.
	Metrics types.Metrics
}

func New(
	exp expiration.Strategy,
	hook refresh.Hook,
	loader types.Loader,
	wp writepolicy.Policy,
	metrics types.Metrics,
) *Engine {
	// A non-nil Metrics here spares every call site a nil check.
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}
	return &Engine{
		Expiration:  exp,
		Refresh:     hook,
		Loader:      loader,
		WritePolicy: wp,
		Metrics:     metrics,
	}
}

// IsExpired asks the configured strategy; no strategy means never expired.
func (e *Engine) IsExpired(ent *types.Entry) bool {
	return e.Expiration != nil && e.Expiration.IsExpired(ent, time.Now())
}

// OnRead runs after every successful read: sliding strategies update their
// deadline, and the refresh hook gets a chance to act. Both must stay cheap;
// this is the hot path.
func (e *Engine) OnRead(key string, ent *types.Entry) {
	now := time.Now()

	if e.Expiration != nil {
		e.Expiration.OnAccess(ent, now)
	}

	if e.Refresh != nil {
		e.Metrics.Refresh()
		e.Refresh.OnRead(key, ent)
	}
}

// OnWrite runs when a result is stored: the expiration strategy stamps the
// entry, then the write policy mirrors it.
func (e *Engine) OnWrite(ctx context.Context, ent *types.Entry) {
	if e.Expiration != nil {
		e.Expiration.OnWrite(ent, time.Now())
	}

	if e.WritePolicy != nil {
		e.WritePolicy.OnWrite(ctx, ent.Key, ent.Value)
	}
}

// Load computes a missing result through the search backend.
func (e *Engine) Load(ctx context.Context, key string) (any, error) {
	return e.Loader.Load(ctx, key)
}
