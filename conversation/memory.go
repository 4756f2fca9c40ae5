package conversation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps conversations in memory; thread-safe. Callers always get
// and give clones, so nothing outside the store aliases its state.
type MemoryStore struct {
	mu    sync.RWMutex
	convs map[string]*Conversation
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{convs: make(map[string]*Conversation)}
}

func (m *MemoryStore) Save(ctx context.Context, conv *Conversation) error {
	if conv == nil {
		return ErrNotFound
	}
	c := clone(conv)
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	// The flag always mirrors the cache; never trust the caller's value.
	c.HasSearchResults = c.SearchResults != nil

	m.mu.Lock()
	m.convs[c.ID] = c
	m.mu.Unlock()

	// Report the minted id back to the caller.
	conv.ID = c.ID
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	conv, ok := m.convs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(conv), nil
}

func (m *MemoryStore) ListAll(ctx context.Context) ([]*Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Conversation, 0, len(m.convs))
	for _, conv := range m.convs {
		out = append(out, clone(conv))
	}
	return out, nil
}

func (m *MemoryStore) AttachResults(ctx context.Context, id string, results any, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	conv, ok := m.convs[id]
	if !ok {
		return ErrNotFound
	}
	conv.SearchResults = &ResultsCache{Results: results, CachedAt: at}
	conv.HasSearchResults = true
	conv.SearchStatus = StatusComplete
	return nil
}

func (m *MemoryStore) InvalidateSearchCache(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	conv, ok := m.convs[id]
	if !ok {
		return ErrNotFound
	}
	conv.SearchResults = nil
	conv.HasSearchResults = false
	return nil
}

func (m *MemoryStore) UpdateSearchStatus(ctx context.Context, id string, status SearchStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	conv, ok := m.convs[id]
	if !ok {
		return ErrNotFound
	}
	conv.SearchStatus = status
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.convs, id)
	m.mu.Unlock()
	return nil
}

func clone(c *Conversation) *Conversation {
	if c == nil {
		return nil
	}
	out := *c
	if c.SearchResults != nil {
		rc := *c.SearchResults
		out.SearchResults = &rc
	}
	return &out
}
