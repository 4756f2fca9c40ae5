// Package manager keeps the search caches coherent as receipts change. It
// translates receipt mutation events and elapsed time into invalidation
// commands against the in-memory cache, the conversation store, and the
// persisted mirror.
//
// The manager is an explicit service object: the application constructs one at
// startup and passes it to the upload/delete/edit workflows. Tests construct a
// fresh instance each; there is no package-level state.
//
// Every operation here is best-effort. An invalidation that cannot complete is
// logged and swallowed, never surfaced to the caller whose upload or delete
// triggered it: the worst outcome is a stale read, and the TTL sweep corrects
// that on its own.
package manager

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/apex/log"

	"github.com/receiptwise/searchcache"
	"github.com/receiptwise/searchcache/conversation"
	"github.com/receiptwise/searchcache/fingerprint"
	"github.com/receiptwise/searchcache/persist"
)

// TemporalTerms is the fixed vocabulary of time-relative phrasing. A query
// containing any of these must never be served from stale cache, because its
// correct answer changes as the clock moves even when no receipt does.
var TemporalTerms = []string{
	"today",
	"yesterday",
	"this week",
	"this month",
	"recent",
	"latest",
	"last",
	"current",
	"now",
}

// ResultCache is the slice of the search cache the manager needs. The full
// cache contract lives in the api package.
type ResultCache interface {
	InvalidateByPattern(pattern string) int
	Stats() searchcache.Stats
}

// Stats is the manager's health snapshot: cache occupancy plus conversation
// cache coverage.
type Stats struct {
	MemoryUsage            int64 `json:"memory_usage"`
	EntryCount             int64 `json:"entry_count"`
	ConversationsWithCache int   `json:"conversations_with_cache"`
	TotalConversations     int   `json:"total_conversations"`
}

// CleanupReport summarizes one sweep, for logging.
type CleanupReport struct {
	ConversationsCleared int
	EntriesPurged        int
	CorruptDropped       int
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock substitutes the time source. Tests use it to place cached results
// exactly at the retention boundary.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

type Manager struct {
	cache  ResultCache
	convs  conversation.Store
	mirror persist.Store

	retention        time.Duration
	cleanupInterval  time.Duration
	temporalInterval time.Duration
	temporalStart    int
	temporalEnd      int

	now     func() time.Time
	running atomic.Bool
}

// New wires a Manager. mirror may be nil when no persisted mirror is
// configured; sweeps then cover memory and conversations only.
func New(
	cache ResultCache,
	convs conversation.Store,
	mirror persist.Store,
	retention time.Duration,
	opts ...Option,
) *Manager {
	m := &Manager{
		cache:            cache,
		convs:            convs,
		mirror:           mirror,
		retention:        retention,
		cleanupInterval:  time.Hour,
		temporalInterval: 5 * time.Minute,
		temporalStart:    6,
		temporalEnd:      23,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetSchedule overrides the sweep cadence and the temporal active-hours
// window before Run is called.
func (m *Manager) SetSchedule(cleanupEvery, temporalEvery time.Duration, startHour, endHour int) {
	m.cleanupInterval = cleanupEvery
	m.temporalInterval = temporalEvery
	m.temporalStart = startHour
	m.temporalEnd = endHour
}

/*
InvalidateOnReceiptUpload clears every cached search result scoped to the
user and marks every conversation holding cached results invalid.

Deliberately conservative: a new receipt can surface in any of the user's
result sets, and the manager keeps no index from receipts to the queries that
mention them, so everything user-scoped goes. Idempotent — a second call finds
nothing left to clear and changes nothing.
*/
func (m *Manager) InvalidateOnReceiptUpload(ctx context.Context, userID string) {
	n := m.cache.InvalidateByPattern(fingerprint.UserPattern(userID))
	log.WithField("user", userID).Debugf("upload invalidation removed %d cached results", n)

	m.invalidateCachedConversations(ctx)
}

// InvalidateOnReceiptDeletion clears the same conservative scope as an
// upload. The receipt ids are logged but cannot narrow the invalidation; see
// the package comment on precision.
func (m *Manager) InvalidateOnReceiptDeletion(ctx context.Context, receiptIDs []string, userID string) {
	log.WithField("user", userID).Debugf("invalidating after deletion of %d receipts", len(receiptIDs))
	m.InvalidateOnReceiptUpload(ctx, userID)
}

// InvalidateOnReceiptModification mirrors the deletion path: an edited
// receipt can change any result set that included (or now includes) it.
func (m *Manager) InvalidateOnReceiptModification(ctx context.Context, receiptIDs []string, userID string) {
	log.WithField("user", userID).Debugf("invalidating after modification of %d receipts", len(receiptIDs))
	m.InvalidateOnReceiptUpload(ctx, userID)
}

/*
InvalidateTemporalQueries drops cached results whose query contains
time-relative phrasing, one pattern invalidation per vocabulary term. These
answers drift with the clock, so they go stale for every user at once —
the sweep matches across the whole keyspace, not just userID's slice. The
userID identifies the triggering workflow in logs.
*/
func (m *Manager) InvalidateTemporalQueries(ctx context.Context, userID string) {
	total := 0
	for _, term := range TemporalTerms {
		total += m.cache.InvalidateByPattern(fingerprint.TermPattern(term))
	}
	log.WithField("user", userID).Debugf("temporal sweep removed %d cached results", total)
}

/*
PerformScheduledCleanup ages out everything past the retention window:
conversation result sets whose CachedAt is older than retention, and persisted
mirror entries whose recorded timestamp is older than retention. Persisted
entries whose metadata cannot be parsed are dropped on the spot — delete, not
retry; a corrupt entry never gets healthier.

The comparison is strictly "older than": a result cached exactly at the window
boundary survives until the next sweep.
*/
func (m *Manager) PerformScheduledCleanup(ctx context.Context) CleanupReport {
	var report CleanupReport
	nowTime := m.now()

	convs, err := m.convs.ListAll(ctx)
	if err != nil {
		log.WithError(err).Warn("cleanup could not list conversations")
	}
	for _, conv := range convs {
		if conv.SearchResults == nil {
			continue
		}
		if nowTime.Sub(conv.SearchResults.CachedAt) > m.retention {
			if err := m.convs.InvalidateSearchCache(ctx, conv.ID); err != nil {
				log.WithError(err).Warnf("cleanup could not invalidate conversation %s", conv.ID)
				continue
			}
			report.ConversationsCleared++
		}
	}

	if m.mirror != nil {
		for _, prefix := range []string{persist.SearchPrefix, persist.ConversationPrefix} {
			m.sweepMirror(prefix, nowTime, &report)
		}
	}

	log.Debugf("cleanup cleared %d conversations, purged %d entries, dropped %d corrupt",
		report.ConversationsCleared, report.EntriesPurged, report.CorruptDropped)
	return report
}

func (m *Manager) sweepMirror(prefix string, nowTime time.Time, report *CleanupReport) {
	for _, key := range m.mirror.Keys(prefix) {
		data, ok := m.mirror.Get(key)
		if !ok {
			continue
		}

		ts, ok := persist.EntryTime(data)
		if !ok {
			if err := m.mirror.Delete(key); err != nil {
				log.WithError(err).Warnf("could not drop corrupt entry %s", key)
				continue
			}
			report.CorruptDropped++
			continue
		}

		if nowTime.Sub(ts) > m.retention {
			if err := m.mirror.Delete(key); err != nil {
				log.WithError(err).Warnf("could not purge entry %s", key)
				continue
			}
			report.EntriesPurged++
		}
	}
}

// ForceRefreshConversation unconditionally clears one conversation's cached
// results and resets its search status to idle, regardless of age. Unknown
// ids are a no-op.
func (m *Manager) ForceRefreshConversation(ctx context.Context, id string) {
	if err := m.convs.InvalidateSearchCache(ctx, id); err != nil {
		if !errors.Is(err, conversation.ErrNotFound) {
			log.WithError(err).Warnf("force refresh could not clear conversation %s", id)
		}
		return
	}
	if err := m.convs.UpdateSearchStatus(ctx, id, conversation.StatusIdle); err != nil {
		log.WithError(err).Warnf("force refresh could not reset status of %s", id)
	}
}

// Stats aggregates cache occupancy and conversation coverage. Read-only; a
// store failure yields zero conversation counts rather than an error.
func (m *Manager) Stats(ctx context.Context) Stats {
	cs := m.cache.Stats()
	st := Stats{
		MemoryUsage: cs.MemoryUsage,
		EntryCount:  cs.EntryCount,
	}

	convs, err := m.convs.ListAll(ctx)
	if err != nil {
		log.WithError(err).Warn("stats could not list conversations")
		return st
	}
	st.TotalConversations = len(convs)
	for _, conv := range convs {
		if conv.HasSearchResults {
			st.ConversationsWithCache++
		}
	}
	return st
}

func (m *Manager) invalidateCachedConversations(ctx context.Context) {
	convs, err := m.convs.ListAll(ctx)
	if err != nil {
		log.WithError(err).Warn("could not list conversations for invalidation")
		return
	}
	for _, conv := range convs {
		if !conv.HasSearchResults {
			continue
		}
		if err := m.convs.InvalidateSearchCache(ctx, conv.ID); err != nil {
			log.WithError(err).Warnf("could not invalidate conversation %s", conv.ID)
		}
	}
}
