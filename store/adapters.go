package store

import (
	"context"

	memoize "github.com/karupanerura/memoize"
)

var _ memoize.CacheStore[uint8, struct{}] = (*SilentErrors[uint8, struct{}])(nil)

// SilentErrors is a decorator for a memoize.CacheStore that silently handles
// errors during operations. Instead of propagating the error, it calls the
// provided OnError function: reads degrade to cache misses and writes to
// no-ops, so a flaky backend costs recomputation instead of failed calls.
type SilentErrors[K memoize.KeyConstraint, V memoize.ValueConstraint] struct {
	// Store is the underlying store that this decorator wraps.
	Store memoize.CacheStore[K, V]

	// OnError is a function that is called when an error occurs during an operation.
	// The error is passed to the function as an argument.
	OnError func(error)
}

// Has reports whether an item is stored under the key in the underlying store.
// If an error occurs and an OnError handler is set, the error is passed to the
// handler and the method reports false with nil error.
func (s *SilentErrors[K, V]) Has(ctx context.Context, key K) (bool, error) {
	ok, err := s.Store.Has(ctx, key)
	if err != nil {
		if s.OnError != nil {
			s.OnError(err)
		}
		return false, nil
	}
	return ok, nil
}

// Get retrieves the item associated with the given key from the underlying
// store. If an error occurs and an OnError handler is set, the error is passed
// to the handler and the method returns nil item and nil error.
func (s *SilentErrors[K, V]) Get(ctx context.Context, key K) (*memoize.CacheItem[K, V], error) {
	item, err := s.Store.Get(ctx, key)
	if err != nil {
		if s.OnError != nil {
			s.OnError(err)
		}
		return nil, nil
	}
	return item, nil
}

// Set stores the given item in the underlying store.
// If an error occurs and an OnError handler is set, the error is passed to the
// handler. The method itself always returns nil.
func (s *SilentErrors[K, V]) Set(ctx context.Context, item *memoize.CacheItem[K, V]) error {
	if err := s.Store.Set(ctx, item); err != nil && s.OnError != nil {
		s.OnError(err)
	}
	return nil
}

// Delete removes the item stored under the key from the underlying store.
// If an error occurs and an OnError handler is set, the error is passed to the
// handler. The method itself always returns nil.
func (s *SilentErrors[K, V]) Delete(ctx context.Context, key K) error {
	if err := s.Store.Delete(ctx, key); err != nil && s.OnError != nil {
		s.OnError(err)
	}
	return nil
}

var _ memoize.CacheStore[uint8, struct{}] = (*Funcs[uint8, struct{}])(nil)

// Funcs is a memoize.CacheStore implementation that uses functions to perform
// the store operations. It deliberately does not implement
// memoize.ClearableStore.
type Funcs[K memoize.KeyConstraint, V memoize.ValueConstraint] struct {
	// HasFunc reports whether an item is stored under the key.
	HasFunc func(context.Context, K) (bool, error)

	// GetFunc retrieves the item stored under the key.
	// If no item is stored, it returns nil with no error. Expired items must
	// be returned as stored; expiry is checked above the store.
	GetFunc func(context.Context, K) (*memoize.CacheItem[K, V], error)

	// SetFunc stores an item under its key, overwriting any existing item.
	SetFunc func(context.Context, *memoize.CacheItem[K, V]) error

	// DeleteFunc removes the item stored under the key.
	DeleteFunc func(context.Context, K) error
}

// Has calls the HasFunc function.
func (s *Funcs[K, V]) Has(ctx context.Context, key K) (bool, error) {
	return s.HasFunc(ctx, key)
}

// Get calls the GetFunc function.
func (s *Funcs[K, V]) Get(ctx context.Context, key K) (*memoize.CacheItem[K, V], error) {
	return s.GetFunc(ctx, key)
}

// Set calls the SetFunc function.
func (s *Funcs[K, V]) Set(ctx context.Context, item *memoize.CacheItem[K, V]) error {
	return s.SetFunc(ctx, item)
}

// Delete calls the DeleteFunc function.
func (s *Funcs[K, V]) Delete(ctx context.Context, key K) error {
	return s.DeleteFunc(ctx, key)
}
