package conversation

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a conversation id is unknown. Callers that
// treat missing conversations as a no-op test for it with errors.Is.
var ErrNotFound = errors.New("conversation not found")

// Store persists conversations keyed by id.
type Store interface {

	// Save inserts or replaces a conversation, minting an id if it has
	// none. The stored copy's HasSearchResults flag is forced to mirror
	// the presence of SearchResults.
	Save(ctx context.Context, conv *Conversation) error

	Get(ctx context.Context, id string) (*Conversation, error)

	// ListAll returns every conversation. Sweeps and stats iterate this.
	ListAll(ctx context.Context) ([]*Conversation, error)

	// AttachResults caches a result set on the conversation, stamped with
	// the given time, and marks the search complete.
	AttachResults(ctx context.Context, id string, results any, at time.Time) error

	// InvalidateSearchCache drops the conversation's cached result set and
	// clears the flag. Idempotent; invalidating a conversation without a
	// cache is a no-op.
	InvalidateSearchCache(ctx context.Context, id string) error

	// UpdateSearchStatus sets the search lifecycle state.
	UpdateSearchStatus(ctx context.Context, id string, status SearchStatus) error

	Delete(ctx context.Context, id string) error
}
