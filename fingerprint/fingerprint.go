// Package fingerprint derives cache keys from search requests.
//
// A fingerprint identifies one query + filter + user combination:
//
//	search:<userID>:<normalized query>:<filter digest>
//
// The layout is deliberate. Keeping the user segment and the normalized query
// in the clear is what makes pattern invalidation possible: clearing a user is
// "search:<userID>:*", clearing temporal phrasing is "*today*". Only the
// filter set, which can be arbitrarily large, is collapsed into a digest.
package fingerprint

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Prefix starts every search fingerprint.
const Prefix = "search:"

// New builds the fingerprint for a search request.
func New(userID, query string, filters map[string]string) string {
	return Prefix + userID + ":" + Normalize(query) + ":" + digest(filters)
}

// UserPattern matches every fingerprint scoped to a user.
func UserPattern(userID string) string {
	return Prefix + userID + ":*"
}

// TermPattern matches every fingerprint whose normalized query contains the
// term, for any user.
func TermPattern(term string) string {
	return "*" + Normalize(term) + "*"
}

// Normalize lowercases the query and collapses runs of whitespace to single
// spaces, so "Coffee  receipts" and "coffee receipts" share a fingerprint.
func Normalize(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// digest collapses the filter set into a short stable hex string. Filters are
// sorted by key first; map iteration order must not change the fingerprint.
func digest(filters map[string]string) string {
	if len(filters) == 0 {
		return "none"
	}

	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := md5.New()
	for _, k := range keys {
		fmt.Fprintf(h, "%s=%s;", k, filters[k])
	}
	return hex.EncodeToString(h.Sum(nil))
}
