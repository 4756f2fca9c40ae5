package searchcache

import "testing"

func TestMatchPattern(t *testing.T) {
	cases := []struct {
		pattern string
		key     string
		want    bool
	}{
		// Exact, no wildcard.
		{"search:u1:coffee:none", "search:u1:coffee:none", true},
		{"search:u1:coffee:none", "search:u1:coffee:abc", false},

		// User-scope prefix pattern.
		{"search:u1:*", "search:u1:coffee:none", true},
		{"search:u1:*", "search:u10:coffee:none", false},
		{"search:u1:*", "search:u2:coffee:none", false},

		// Contains pattern.
		{"*today*", "search:u1:receipts from today:none", true},
		{"*today*", "search:u1:today coffee:abc", true},
		{"*today*", "search:u1:march groceries:none", false},

		// Multiple literal segments must appear in order.
		{"search:*:coffee:*", "search:u1:coffee:none", true},
		{"search:*:coffee:*", "search:u1:tea:none", false},

		// Anchoring.
		{"*:none", "search:u1:coffee:none", true},
		{"*:none", "search:u1:coffee:abc", false},

		// Degenerate patterns.
		{"*", "anything", true},
		{"*", "", true},
		{"", "", true},
		{"", "x", false},
	}

	for _, c := range cases {
		if got := matchPattern(c.pattern, c.key); got != c.want {
			t.Errorf("matchPattern(%q, %q) = %v, want %v", c.pattern, c.key, got, c.want)
		}
	}
}
