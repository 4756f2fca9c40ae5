// Package conversation persists chat-style search sessions and the result
// sets cached on them.
package conversation

import "time"

// SearchStatus is where a conversation's search lifecycle currently stands.
type SearchStatus string

const (
	StatusIdle      SearchStatus = "idle"
	StatusSearching SearchStatus = "searching"
	StatusComplete  SearchStatus = "complete"
)

// ResultsCache is a result set cached on a conversation. It is written whole
// and cleared whole; CachedAt is the single timestamp the cleanup sweep ages
// against.
type ResultsCache struct {
	Results  any       `json:"results"`
	CachedAt time.Time `json:"cachedAt"`
}

// Conversation is one persisted search session.
//
// Invariant: SearchResults is either nil or carries one consistent CachedAt,
// and HasSearchResults mirrors SearchResults != nil. The store maintains this;
// callers never toggle the flag directly.
type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`

	SearchStatus     SearchStatus  `json:"search_status"`
	HasSearchResults bool          `json:"has_search_results"`
	SearchResults    *ResultsCache `json:"search_results,omitempty"`
}
