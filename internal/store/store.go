// Package store persists whole collections of records as JSON arrays.
//
// A collection is always read and written as one unit: callers load the
// full sequence, mutate it in memory, and save it back. There is no partial
// update and no cross-collection transaction.
package store

import (
	"context"
	"fmt"
)

// Collection is the contract every backend implements.
type Collection[T any] interface {
	// Load returns every record of the collection in stored order.
	Load(ctx context.Context) ([]T, error)
	// Save replaces the whole collection with records.
	Save(ctx context.Context, records []T) error
}

// StorageError reports a collection that could not be read, parsed or
// written. It is never recovered by the store.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
