package memoize

import (
	"context"
	"time"
)

// KeyConstraint is an interface for cache key constraints.
type KeyConstraint interface {
	comparable
}

// ValueConstraint is an interface for cached value constraints.
type ValueConstraint interface {
	any
}

// Func is a function to be memoized.
// The argument list of the function is modeled as a single value of type A;
// use a struct to memoize functions of multiple arguments.
type Func[A any, V ValueConstraint] func(ctx context.Context, args A) (V, error)

// KeyFunc derives the cache key from an invocation's arguments.
// It must be deterministic and side-effect free: two argument values that map
// to equal keys are treated as the same cached computation.
type KeyFunc[A any, K KeyConstraint] func(args A) K

// CacheItem is a cached result with its expiration time.
type CacheItem[K KeyConstraint, V ValueConstraint] struct {
	// Key is the derived cache key the item is stored under.
	Key K

	// Value is the memoized result.
	Value V

	// ExpiresAt is the expiration time of the item.
	// The zero time means the item never expires.
	ExpiresAt time.Time
}

// CacheStore is an interface for a cache storage backend.
// Implementations must be safe for concurrent use, and each operation must be
// atomic with respect to the others.
//
// Stores return items exactly as stored: expiration is checked above the
// store, so Get must return an item even if it is already past its
// expiration time.
type CacheStore[K KeyConstraint, V ValueConstraint] interface {
	// Has reports whether an item is stored under the key.
	// It does not consider expiration.
	Has(context.Context, K) (bool, error)

	// Get retrieves the item stored under the key.
	// If no item is stored, it returns nil with no error.
	Get(context.Context, K) (*CacheItem[K, V], error)

	// Set stores an item under its key.
	// If an item already exists under the key, it is overwritten.
	Set(context.Context, *CacheItem[K, V]) error

	// Delete removes the item stored under the key.
	// Deleting an absent key is not an error.
	Delete(context.Context, K) error
}

// ClearableStore is an optional capability for stores that can drop all items
// at once. A Memo backed by a store without this capability fails Clear with
// ErrClearUnsupported.
type ClearableStore interface {
	// Clear removes all items from the store.
	Clear(context.Context) error
}
