// Package blobstore persists named JSON documents. Every collection of the
// record store lives in one key and is always written whole.
package blobstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when nothing was ever saved under a key
var ErrNotFound = errors.New("blobstore: key not found")

// Store is a key-value store for whole-collection snapshots.
// Put writes all entries atomically: either every key is updated or none is.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, entries map[string][]byte) error
	Close() error
}
