package types

/*
Metrics receives cache lifecycle events. The cache calls one method per event;
implementations decide whether to count, export, or ignore them.
*/
type Metrics interface {

	// Hit is called when the cache returns a stored result.
	Hit()

	// Miss is called when the cache has to run the search backend.
	Miss()

	// Eviction is called when a result is removed to make room.
	Eviction()

	// Expire is called when a result is removed because its TTL passed.
	Expire()

	// Invalidation is called once per entry removed by pattern invalidation.
	Invalidation()

	// Refresh is called when a refresh hook fires on a read.
	Refresh()
}

/*
NoopMetrics ignores every event.

It exists so callers that do not care about metrics never force nil checks into
the cache paths: the engine substitutes NoopMetrics for a nil Metrics.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit()          {}
func (NoopMetrics) Miss()         {}
func (NoopMetrics) Eviction()     {}
func (NoopMetrics) Expire()       {}
func (NoopMetrics) Invalidation() {}
func (NoopMetrics) Refresh()      {}
