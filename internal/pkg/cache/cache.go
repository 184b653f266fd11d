// Package cache holds the listing caches used in front of the metadata store.
package cache

import "context"

// Store is a keyed cache. Implementations are safe for concurrent use.
type Store[V any] interface {
	// Get returns the cached value and whether it was present
	Get(ctx context.Context, key string) (V, bool, error)
	// Set caches value under key until the store's TTL elapses
	Set(ctx context.Context, key string, value V) error
	// Delete evicts keys; missing keys are ignored
	Delete(ctx context.Context, keys ...string) error
}

// Nop never caches anything
type Nop[V any] struct{}

// Get always misses
func (Nop[V]) Get(context.Context, string) (V, bool, error) {
	var zero V
	return zero, false, nil
}

// Set discards the value
func (Nop[V]) Set(context.Context, string, V) error { return nil }

// Delete is a no-op
func (Nop[V]) Delete(context.Context, ...string) error { return nil }
