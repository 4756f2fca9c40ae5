package fingerprint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsStable(t *testing.T) {
	filters := map[string]string{"category": "food", "year": "2026"}

	a := New("u1", "coffee receipts", filters)
	b := New("u1", "coffee receipts", map[string]string{"year": "2026", "category": "food"})

	assert.Equal(t, a, b, "filter map order must not change the fingerprint")
}

func TestNewSeparatesScopes(t *testing.T) {
	assert.NotEqual(t,
		New("u1", "coffee", nil),
		New("u2", "coffee", nil),
		"different users, different fingerprints")

	assert.NotEqual(t,
		New("u1", "coffee", nil),
		New("u1", "coffee", map[string]string{"year": "2025"}),
		"different filters, different fingerprints")
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "coffee receipts", Normalize("  Coffee\t RECEIPTS "))
	assert.Equal(t, New("u1", "Coffee  Receipts", nil), New("u1", "coffee receipts", nil))
}

func TestUserPattern(t *testing.T) {
	p := UserPattern("u1")
	key := New("u1", "coffee", nil)

	assert.True(t, strings.HasPrefix(key, strings.TrimSuffix(p, "*")))
	assert.False(t, strings.HasPrefix(New("u10", "coffee", nil), strings.TrimSuffix(p, "*")))
}

func TestTermPattern(t *testing.T) {
	assert.Equal(t, "*today*", TermPattern("Today"))
	assert.Equal(t, "*this week*", TermPattern("This  Week"))
}

func TestEmptyFilters(t *testing.T) {
	assert.True(t, strings.HasSuffix(New("u1", "coffee", nil), ":none"))
	assert.Equal(t, New("u1", "coffee", nil), New("u1", "coffee", map[string]string{}))
}
