package types

import "context"

/*
Loader is the contract between the cache and the search backend.

When the cache does not hold a fingerprint, it asks the Loader to compute the
result. In production this is the semantic-search executor (embedding lookup,
ranking, whatever lives behind it); in tests it is a map.

	1. Cache checks memory -> fingerprint not found
	2. Cache calls Load(fingerprint)
	3. Loader runs the actual search
	4. Cache stores the result and returns it

Load returning (nil, nil) means "the backend has nothing for this key"; the
cache passes that through without storing anything.
*/
type Loader interface {
	Load(ctx context.Context, key string) (any, error)
}
