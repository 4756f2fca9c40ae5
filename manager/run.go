package manager

import (
	"context"
	"time"

	"github.com/apex/log"
)

/*
Run owns the manager's background work: one cleanup immediately, then a
cleanup sweep on the cleanup interval and a temporal sweep on the temporal
interval. It blocks until ctx is cancelled, so the caller's lifecycle — not a
stray timer — decides when sweeping stops.

Only one Run may be active per Manager; a second call returns immediately.
The two tickers share this goroutine, so sweeps never execute concurrently
with each other.
*/
func (m *Manager) Run(ctx context.Context) {
	if !m.running.CompareAndSwap(false, true) {
		log.Warn("manager already running, ignoring second Run")
		return
	}
	defer m.running.Store(false)

	log.Infof("invalidation manager started: cleanup every %s, temporal every %s (%02d:00-%02d:00)",
		m.cleanupInterval, m.temporalInterval, m.temporalStart, m.temporalEnd)

	m.PerformScheduledCleanup(ctx)

	cleanup := time.NewTicker(m.cleanupInterval)
	defer cleanup.Stop()
	temporal := time.NewTicker(m.temporalInterval)
	defer temporal.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("invalidation manager stopped")
			return
		case <-cleanup.C:
			m.PerformScheduledCleanup(ctx)
		case <-temporal.C:
			if m.inTemporalWindow(m.now()) {
				m.InvalidateTemporalQueries(ctx, "scheduler")
			}
		}
	}
}

// inTemporalWindow reports whether the temporal sweep is active at t. Outside
// the window (overnight) temporal queries are left alone; nobody is asking,
// and the first in-window sweep catches up.
func (m *Manager) inTemporalWindow(t time.Time) bool {
	h := t.Hour()
	return h >= m.temporalStart && h < m.temporalEnd
}
