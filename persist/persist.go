// Package persist is the durable mirror of the in-memory caches: a flat
// key-value store of JSON-encoded entries, enumerable by key prefix. Search
// results land under search_cache_, conversation result sets under
// conv_cache_. The mirror exists so warm results survive a process restart;
// losing it costs recomputation, never correctness.
package persist

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/tidwall/gjson"
)

const (
	// SearchPrefix scopes mirrored search results.
	SearchPrefix = "search_cache_"

	// ConversationPrefix scopes mirrored conversation result sets.
	ConversationPrefix = "conv_cache_"
)

// Store is a flat key-value store with prefix enumeration. Keys are file-safe
// by construction (prefix + hex digest).
type Store interface {
	Put(key string, data []byte) error
	Get(key string) ([]byte, bool)
	Keys(prefix string) []string
	Delete(key string) error
}

// Key builds the store key for a clear-text cache fingerprint: the prefix
// followed by the MD5 hex of the fingerprint. Hashing keeps keys file-safe and
// bounded regardless of query length.
func Key(prefix, clearKey string) string {
	h := md5.New()
	_, _ = h.Write([]byte(clearKey))
	return prefix + hex.EncodeToString(h.Sum(nil))
}

// envelope is the wire form of a mirrored entry.
type envelope struct {
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// Encode wraps a payload with its creation timestamp.
func Encode(ts time.Time, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Timestamp: ts, Payload: raw})
}

// EntryTime extracts the recorded creation time from a mirrored entry.
//
// Entries written by this module carry "timestamp"; conversation mirrors
// written by older clients carry "cachedAt". Both are accepted. Returns ok
// false for anything else — malformed JSON, missing field, unparsable time —
// and callers treat that as a corrupt entry and delete it.
func EntryTime(data []byte) (time.Time, bool) {
	if !gjson.ValidBytes(data) {
		return time.Time{}, false
	}
	f := gjson.GetBytes(data, "timestamp")
	if !f.Exists() {
		f = gjson.GetBytes(data, "cachedAt")
	}
	if !f.Exists() {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, f.String())
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
