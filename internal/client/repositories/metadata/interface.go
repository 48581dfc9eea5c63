// Package metadata is the key/value table in the local state database. It
// backs the persisted session flag and the credential cookie store.
package metadata

import "context"

// Repository stores opaque values under string keys.
//
// Get returns (nil, nil) for a missing key. Set is an upsert.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	List(ctx context.Context) (map[string][]byte, error)

	// ReplacePrefix atomically deletes every key starting with prefix and
	// writes values in their place.
	ReplacePrefix(ctx context.Context, prefix string, values map[string][]byte) error
}
