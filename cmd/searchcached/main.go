// Command searchcached runs the search-result cache service: it wires the
// sharded cache, the persisted mirror, and the conversation store together and
// keeps the invalidation manager sweeping until interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/receiptwise/searchcache"
	"github.com/receiptwise/searchcache/config"
	"github.com/receiptwise/searchcache/conversation"
	"github.com/receiptwise/searchcache/engine"
	"github.com/receiptwise/searchcache/eviction"
	"github.com/receiptwise/searchcache/expiration"
	"github.com/receiptwise/searchcache/logging"
	"github.com/receiptwise/searchcache/manager"
	"github.com/receiptwise/searchcache/persist"
	"github.com/receiptwise/searchcache/types"
	"github.com/receiptwise/searchcache/writepolicy"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	logging.Init()

	app := &cli.Command{
		Name:  "searchcached",
		Usage: "receipt search-result cache and invalidation service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to YAML config (default: $SEARCHCACHE_CFG)",
			},
		},
		Commands: []*cli.Command{
			runCommand(),
			sweepCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "run the cache service until interrupted",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return err
			}

			mirror, err := persist.NewFileStore(cfg.PersistDir)
			if err != nil {
				return err
			}

			metrics := &counterMetrics{}
			eng := engine.New(
				&expiration.ExpireAfterWrite{TTL: cfg.ResultTTL.Std()},
				nil,
				noBackend{},
				writepolicy.NewWriteBack(mirror, cfg.MirrorBuffer),
				metrics,
			)

			cache := searchcache.New(cfg.Shards, cfg.Capacity, eviction.PolicyType(cfg.Eviction), eng)
			defer cache.Close()

			convs := conversation.NewMemoryStore()

			mgr := manager.New(cache, convs, mirror, cfg.Retention.Std())
			mgr.SetSchedule(
				cfg.CleanupInterval.Std(),
				cfg.TemporalInterval.Std(),
				cfg.TemporalStartHour,
				cfg.TemporalEndHour,
			)

			runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			mgr.Run(runCtx)

			st := mgr.Stats(context.Background())
			log.Infof("final state: %d entries, %s, %d/%d conversations cached",
				st.EntryCount, humanize.Bytes(uint64(st.MemoryUsage)),
				st.ConversationsWithCache, st.TotalConversations)
			metrics.report()
			return nil
		},
	}
}

func sweepCommand() *cli.Command {
	return &cli.Command{
		Name:  "sweep",
		Usage: "run one cleanup pass over the persisted mirror and exit",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return err
			}

			mirror, err := persist.NewFileStore(cfg.PersistDir)
			if err != nil {
				return err
			}

			// The sweep works against persisted state only; the in-memory
			// side of a separate running service is not reachable here.
			eng := engine.New(nil, nil, noBackend{}, nil, nil)
			cache := searchcache.New(1, 1, eviction.LRU, eng)

			mgr := manager.New(cache, conversation.NewMemoryStore(), mirror, cfg.Retention.Std())
			report := mgr.PerformScheduledCleanup(ctx)

			fmt.Printf("purged %d aged entries, dropped %d corrupt entries from %s\n",
				report.EntriesPurged, report.CorruptDropped, cfg.PersistDir)
			return nil
		},
	}
}

// noBackend stands in when no search executor is attached: every miss simply
// yields no result. The daemon's job is holding and sweeping results pushed
// by the application, not computing them.
type noBackend struct{}

func (noBackend) Load(ctx context.Context, key string) (any, error) {
	return nil, nil
}

// counterMetrics counts cache events for the shutdown report.
type counterMetrics struct {
	hits          atomic.Int64
	misses        atomic.Int64
	evictions     atomic.Int64
	expired       atomic.Int64
	invalidations atomic.Int64
	refreshes     atomic.Int64
}

var _ types.Metrics = (*counterMetrics)(nil)

func (m *counterMetrics) Hit()          { m.hits.Add(1) }
func (m *counterMetrics) Miss()         { m.misses.Add(1) }
func (m *counterMetrics) Eviction()     { m.evictions.Add(1) }
func (m *counterMetrics) Expire()       { m.expired.Add(1) }
func (m *counterMetrics) Invalidation() { m.invalidations.Add(1) }
func (m *counterMetrics) Refresh()      { m.refreshes.Add(1) }

func (m *counterMetrics) report() {
	log.Infof("cache events: %d hits, %d misses, %d evictions, %d expired, %d invalidated",
		m.hits.Load(), m.misses.Load(), m.evictions.Load(),
		m.expired.Load(), m.invalidations.Load())
}
