package writepolicy

import (
	"context"
	"time"

	"github.com/apex/log"

	"github.com/receiptwise/searchcache/persist"
)

/*
WriteThrough mirrors every stored result synchronously. The cache write is not
done until the mirror write finishes, so a slow disk slows Put. In exchange the
mirror never lags the cache.
*/
type WriteThrough struct {
	store persist.Store
}

func NewWriteThrough(store persist.Store) *WriteThrough {
	return &WriteThrough{store: store}
}

// OnWrite mirrors the result under the search_cache_ prefix. Failures are
// logged and swallowed; the mirror is best-effort.
func (w *WriteThrough) OnWrite(ctx context.Context, key string, value any) {
	data, err := persist.Encode(time.Now(), value)
	if err != nil {
		log.WithError(err).Warnf("failed to encode mirrored result for %s", key)
		return
	}
	if err := w.store.Put(persist.Key(persist.SearchPrefix, key), data); err != nil {
		log.WithError(err).Warnf("failed to mirror result for %s", key)
	}
}

// Close has nothing to flush; write-through holds no queue.
func (w *WriteThrough) Close() {}
