package writepolicy

import (
	"context"
	"sync"
	"time"

	"github.com/apex/log"

	"github.com/receiptwise/searchcache/persist"
)

// writeReq is one pending mirror write.
type writeReq struct {
	key   string
	value any
}

/*
WriteBack queues mirror writes and lets a single background worker drain them.
Put never waits on the disk.

If the queue is full the write is DROPPED, not blocked: a laggy mirror must not
slow the search path, and a dropped mirror write only costs a recomputation
after restart.
*/
type WriteBack struct {
	store persist.Store
	ch    chan writeReq
	wg    sync.WaitGroup
}

func NewWriteBack(store persist.Store, buffer int) *WriteBack {
	w := &WriteBack{
		store: store,
		ch:    make(chan writeReq, buffer),
	}
	w.wg.Add(1)
	go w.worker()
	return w
}

// OnWrite queues the mirror write, dropping it under pressure.
func (w *WriteBack) OnWrite(ctx context.Context, key string, value any) {
	select {
	case w.ch <- writeReq{key: key, value: value}:
	default:
		log.Debugf("mirror queue full, dropping write for %s", key)
	}
}

func (w *WriteBack) worker() {
	defer w.wg.Done()
	for req := range w.ch {
		data, err := persist.Encode(time.Now(), req.value)
		if err != nil {
			log.WithError(err).Warnf("failed to encode mirrored result for %s", req.key)
			continue
		}
		if err := w.store.Put(persist.Key(persist.SearchPrefix, req.key), data); err != nil {
			log.WithError(err).Warnf("failed to mirror result for %s", req.key)
		}
	}
}

// Close stops accepting writes and waits for the worker to drain the queue.
// Skipping this loses whatever was still queued.
func (w *WriteBack) Close() {
	close(w.ch)
	w.wg.Wait()
}
