package persist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyIsStableAndFileSafe(t *testing.T) {
	k1 := Key(SearchPrefix, "search:u1:coffee:none")
	k2 := Key(SearchPrefix, "search:u1:coffee:none")
	k3 := Key(SearchPrefix, "search:u1:lunch:none")

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.True(t, len(k1) == len(SearchPrefix)+32, "prefix plus md5 hex")
	assert.NotContains(t, k1, "/")
	assert.NotContains(t, k1, ":")
}

func TestEncodeRoundTrip(t *testing.T) {
	ts := time.Date(2026, 8, 22, 10, 0, 0, 0, time.UTC)

	data, err := Encode(ts, map[string]any{"total": 3})
	require.NoError(t, err)

	got, ok := EntryTime(data)
	require.True(t, ok)
	assert.True(t, got.Equal(ts))
}

func TestEntryTimeAcceptsCachedAtField(t *testing.T) {
	raw := []byte(`{"cachedAt":"2026-08-22T10:00:00Z","results":[]}`)

	got, ok := EntryTime(raw)
	require.True(t, ok)
	assert.Equal(t, 2026, got.Year())
}

func TestEntryTimeRejectsCorruptEntries(t *testing.T) {
	cases := map[string][]byte{
		"not json":         []byte("garbage"),
		"missing field":    []byte(`{"payload":1}`),
		"unparsable time":  []byte(`{"timestamp":"yesterday-ish"}`),
		"wrong field type": []byte(`{"timestamp":12}`),
		"empty":            nil,
	}

	for name, data := range cases {
		_, ok := EntryTime(data)
		assert.False(t, ok, name)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	key := Key(SearchPrefix, "search:u1:coffee:none")
	require.NoError(t, store.Put(key, []byte(`{"timestamp":"2026-08-22T10:00:00Z"}`)))

	data, ok := store.Get(key)
	require.True(t, ok)
	assert.Contains(t, string(data), "timestamp")

	assert.Equal(t, []string{key}, store.Keys(SearchPrefix))
	assert.Empty(t, store.Keys(ConversationPrefix))

	require.NoError(t, store.Delete(key))
	_, ok = store.Get(key)
	assert.False(t, ok)
}

func TestFileStoreDeleteMissingIsNoop(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete(SearchPrefix+"never-written"))
}

func TestMemStorePrefixEnumeration(t *testing.T) {
	store := NewMemStore()

	require.NoError(t, store.Put(SearchPrefix+"a", []byte("1")))
	require.NoError(t, store.Put(SearchPrefix+"b", []byte("2")))
	require.NoError(t, store.Put(ConversationPrefix+"c", []byte("3")))

	assert.Len(t, store.Keys(SearchPrefix), 2)
	assert.Len(t, store.Keys(ConversationPrefix), 1)
}

func TestMemStoreCopiesData(t *testing.T) {
	store := NewMemStore()

	buf := []byte("original")
	require.NoError(t, store.Put("k", buf))
	buf[0] = 'X'

	data, ok := store.Get("k")
	require.True(t, ok)
	assert.Equal(t, "original", string(data))
}
