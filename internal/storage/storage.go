// Package storage defines the key-value contract the link registry is built on.
// Implementations live in the subpackages.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrKeyNotFound is returned by Get when the key does not exist.
	ErrKeyNotFound = errors.New("key not found")
	// ErrKeyExists is returned by Create when the key is already present.
	ErrKeyExists = errors.New("key exists")
)

// Store is a flat string key-value store without multi-key atomicity.
type Store interface {
	// Get returns the value stored at key or ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Put stores value at key, replacing any previous value.
	Put(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns all keys starting with prefix in a stable order.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Creator is implemented by stores that can insert a key only if it is absent.
type Creator interface {
	// Create stores value at key or returns ErrKeyExists when key is already present.
	Create(ctx context.Context, key, value string) error
}
