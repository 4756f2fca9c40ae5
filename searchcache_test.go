package searchcache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/receiptwise/searchcache"
	"github.com/receiptwise/searchcache/engine"
	"github.com/receiptwise/searchcache/eviction"
	"github.com/receiptwise/searchcache/expiration"
	"github.com/receiptwise/searchcache/fingerprint"
	"github.com/receiptwise/searchcache/persist"
	"github.com/receiptwise/searchcache/refresh"
	"github.com/receiptwise/searchcache/writepolicy"
)

//
// ================= TEST SEARCH BACKEND =================
//

type TestBackend struct {
	mu      sync.RWMutex
	results map[string]any
	loads   int
}

func NewTestBackend() *TestBackend {
	return &TestBackend{results: make(map[string]any)}
}

func (b *TestBackend) Load(ctx context.Context, key string) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loads++
	return b.results[key], nil
}

func (b *TestBackend) Set(key string, value any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.results[key] = value
}

//
// ================= HELPER: CREATE CACHE =================
//

func newTestCache(capacity int) (*searchcache.ShardedCache, *TestBackend) {
	backend := NewTestBackend()

	eng := engine.New(
		&expiration.ExpireAfterWrite{TTL: 10 * time.Second},
		nil,
		backend,
		nil,
		nil,
	)

	c := searchcache.New(
		2,            // shards
		capacity,     // capacity
		eviction.LRU, // eviction policy
		eng,
	)

	return c, backend
}

//
// ================= BASIC OPERATIONS =================
//

func TestPutAndGet(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(10)

	if err := c.Put(ctx, "search:u1:coffee:none", "results-1"); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	v, _ := c.Get(ctx, "search:u1:coffee:none")
	if v != "results-1" {
		t.Fatalf("expected results-1, got %v", v)
	}
}

func TestReadThroughOnMiss(t *testing.T) {
	ctx := context.Background()
	c, backend := newTestCache(10)

	backend.Set("search:u1:lunch:none", "computed")

	v, _ := c.Get(ctx, "search:u1:lunch:none")
	if v != "computed" {
		t.Fatalf("expected computed, got %v", v)
	}

	// Backend knows nothing for this fingerprint.
	v, _ = c.Get(ctx, "search:u1:missing:none")
	if v != nil {
		t.Fatalf("expected nil, got %v", v)
	}
}

func TestPutReplacesResult(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(10)

	c.Put(ctx, "search:u1:coffee:none", "old")
	c.Put(ctx, "search:u1:coffee:none", "new")

	v, _ := c.Get(ctx, "search:u1:coffee:none")
	if v != "new" {
		t.Fatalf("expected new, got %v", v)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(10)

	c.Put(ctx, "search:u1:coffee:none", "results")
	c.Remove("search:u1:coffee:none")
	c.Remove("search:u1:coffee:none") // second remove must be safe

	v, _ := c.Get(ctx, "search:u1:coffee:none")
	if v != nil {
		t.Fatalf("expected nil after remove, got %v", v)
	}
}

//
// ================= PATTERN INVALIDATION =================
//

func TestInvalidateByUserPattern(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(100)

	c.Put(ctx, fingerprint.New("u1", "coffee", nil), "a")
	c.Put(ctx, fingerprint.New("u1", "lunch", nil), "b")
	c.Put(ctx, fingerprint.New("u2", "coffee", nil), "c")

	removed := c.InvalidateByPattern(fingerprint.UserPattern("u1"))
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}

	// u2's result must survive.
	v, _ := c.Get(ctx, fingerprint.New("u2", "coffee", nil))
	if v != "c" {
		t.Fatalf("expected c, got %v", v)
	}
}

func TestInvalidateByTermPattern(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(100)

	c.Put(ctx, fingerprint.New("u1", "receipts from today", nil), "a")
	c.Put(ctx, fingerprint.New("u2", "today coffee", nil), "b")
	c.Put(ctx, fingerprint.New("u1", "march groceries", nil), "c")

	removed := c.InvalidateByPattern(fingerprint.TermPattern("today"))
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}

	v, _ := c.Get(ctx, fingerprint.New("u1", "march groceries", nil))
	if v != "c" {
		t.Fatalf("expected c to survive, got %v", v)
	}
}

func TestInvalidateByPatternEmptyCache(t *testing.T) {
	c, _ := newTestCache(10)

	if removed := c.InvalidateByPattern("search:u1:*"); removed != 0 {
		t.Fatalf("expected 0 removed on empty cache, got %d", removed)
	}
}

//
// ================= CAPACITY & EVICTION =================
//

func TestEvictionOnCapacity(t *testing.T) {
	ctx := context.Background()
	c, backend := newTestCache(2)

	backend.Set("k1", "v1")
	backend.Set("k2", "v2")
	backend.Set("k3", "v3")

	c.Put(ctx, "k1", "v1")
	c.Put(ctx, "k2", "v2")
	c.Put(ctx, "k3", "v3") // exceeds capacity, evicts the LRU key

	// Whatever was evicted reloads from the backend.
	v, _ := c.Get(ctx, "k1")
	if v != "v1" {
		t.Fatalf("expected v1 from backend, got %v", v)
	}
}

//
// ================= TTL =================
//

func TestTTLExpiration(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(10)

	c.PutWithTTL(ctx, "search:u1:temp:none", "temp", 50*time.Millisecond)

	time.Sleep(100 * time.Millisecond)

	v, _ := c.Get(ctx, "search:u1:temp:none")
	if v != nil {
		t.Fatalf("expected nil after TTL expiration, got %v", v)
	}
}

func TestTTLReporting(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(10)

	c.PutWithTTL(ctx, "k", "v", time.Hour)
	if d := c.TTL("k"); d <= 0 || d > time.Hour {
		t.Fatalf("expected remaining TTL in (0, 1h], got %v", d)
	}

	if d := c.TTL("absent"); d != -2 {
		t.Fatalf("expected -2 for absent key, got %v", d)
	}
}

//
// ================= MIRRORING =================
//

func TestWriteThroughMirrorsResult(t *testing.T) {
	ctx := context.Background()
	mirror := persist.NewMemStore()

	eng := engine.New(
		&expiration.ExpireAfterWrite{TTL: time.Minute},
		nil,
		NewTestBackend(),
		writepolicy.NewWriteThrough(mirror),
		nil,
	)
	c := searchcache.New(2, 10, eviction.LRU, eng)
	defer c.Close()

	key := fingerprint.New("u1", "coffee", nil)
	c.Put(ctx, key, "results")

	data, ok := mirror.Get(persist.Key(persist.SearchPrefix, key))
	if !ok {
		t.Fatal("expected mirrored entry")
	}
	if _, ok := persist.EntryTime(data); !ok {
		t.Fatal("mirrored entry missing parsable timestamp")
	}
}

//
// ================= REFRESH HOOK =================
//

func TestNearExpiryHookFiresOnRead(t *testing.T) {
	ctx := context.Background()

	refreshed := make(chan string, 1)
	hook := &refresh.NearExpiry{
		Window: time.Minute,
		Recompute: func(key string) {
			select {
			case refreshed <- key:
			default:
			}
		},
	}

	eng := engine.New(
		&expiration.ExpireAfterWrite{TTL: 30 * time.Second}, // inside the hook window
		hook,
		NewTestBackend(),
		nil,
		nil,
	)
	c := searchcache.New(2, 10, eviction.LRU, eng)

	c.Put(ctx, "search:u1:coffee:none", "results")
	c.Get(ctx, "search:u1:coffee:none")

	select {
	case key := <-refreshed:
		if key != "search:u1:coffee:none" {
			t.Fatalf("hook fired for wrong key %q", key)
		}
	case <-time.After(time.Second):
		t.Fatal("expected refresh hook to fire for a near-expiry read")
	}
}

//
// ================= STATS =================
//

func TestStats(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(10)

	if st := c.Stats(); st.EntryCount != 0 || st.MemoryUsage != 0 {
		t.Fatalf("expected empty stats, got %+v", st)
	}

	c.Put(ctx, "search:u1:coffee:none", "0123456789")

	st := c.Stats()
	if st.EntryCount != 1 {
		t.Fatalf("expected 1 entry, got %d", st.EntryCount)
	}
	if st.MemoryUsage <= 10 {
		t.Fatalf("expected memory usage above payload size, got %d", st.MemoryUsage)
	}
}

//
// ================= CONCURRENCY =================
//

func TestConcurrentGet(t *testing.T) {
	ctx := context.Background()
	c, backend := newTestCache(10)

	backend.Set("k", "v")

	wg := sync.WaitGroup{}
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, _ := c.Get(ctx, "k")
			if v != "v" {
				t.Errorf("expected v, got %v", v)
			}
		}()
	}
	wg.Wait()
}
