// Package kvstore provides the persistence layer: JSON collections stored
// under fixed keys, behind a small interface so the data core runs unchanged
// against sqlite, plain files, or an in-memory map.
package kvstore

import "context"

// Store is the persistence contract for the record layer. Values are opaque
// JSON blobs; a whole collection is always read and written as one value.
type Store interface {
	// Get returns the value for key. The second result is false when the
	// key is absent; that is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set replaces the value for key.
	Set(ctx context.Context, key string, value []byte) error

	Close() error
}

// Unavailable models a missing persistence medium. Reads report absent and
// writes are dropped, so every layer above degrades to empty results instead
// of failing.
type Unavailable struct{}

func (Unavailable) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (Unavailable) Set(ctx context.Context, key string, value []byte) error { return nil }

func (Unavailable) Close() error { return nil }
