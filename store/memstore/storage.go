package memstore

import (
	"context"
	"sync"

	memoize "github.com/karupanerura/memoize"
)

type bucket[K memoize.KeyConstraint, V memoize.ValueConstraint] struct {
	m  map[K]*memoize.CacheItem[K, V]
	mu sync.RWMutex
}

// NewInMemoryStore creates a new in-memory cache store.
// The store can be distributed across multiple buckets for improved
// performance under concurrent access; a hash function distributes the keys
// across the buckets. The returned store implements memoize.ClearableStore.
func NewInMemoryStore[K memoize.KeyConstraint, V memoize.ValueConstraint](opts ...Option[K, V]) memoize.CacheStore[K, V] {
	options := defaultOptions[K, V]()
	for _, opt := range opts {
		opt.apply(&options)
	}

	if options.bucketsSize == 1 {
		return &storage[K, V]{
			bucket:  bucket[K, V]{m: map[K]*memoize.CacheItem[K, V]{}},
			options: options,
		}
	}

	buckets := make([]*bucket[K, V], options.bucketsSize)
	for i := range buckets {
		buckets[i] = &bucket[K, V]{m: map[K]*memoize.CacheItem[K, V]{}}
	}

	return &distributedStorage[K, V]{
		buckets: buckets,
		hashKey: options.resolveKeyHash(),
		options: options,
	}
}

type distributedStorage[K memoize.KeyConstraint, V memoize.ValueConstraint] struct {
	buckets []*bucket[K, V]
	hashKey func(K) int
	options options[K, V]
}

var (
	_ memoize.CacheStore[uint8, struct{}] = (*distributedStorage[uint8, struct{}])(nil)
	_ memoize.ClearableStore              = (*distributedStorage[uint8, struct{}])(nil)
)

// resolveBucket returns the bucket that corresponds to the given key.
func (s *distributedStorage[K, V]) resolveBucket(key K) *bucket[K, V] {
	index := s.hashKey(key) % len(s.buckets)
	if index < 0 {
		index *= -1
	}
	return s.buckets[index]
}

func (s *distributedStorage[K, V]) Has(_ context.Context, key K) (bool, error) {
	bucket := s.resolveBucket(key)
	bucket.mu.RLock()
	defer bucket.mu.RUnlock()

	_, ok := bucket.m[key]
	return ok, nil
}

func (s *distributedStorage[K, V]) Get(_ context.Context, key K) (*memoize.CacheItem[K, V], error) {
	bucket := s.resolveBucket(key)
	bucket.mu.RLock()
	defer bucket.mu.RUnlock()

	if item, ok := bucket.m[key]; ok {
		return cloneCacheItem(s.options.cloner, item), nil
	}
	return nil, nil
}

func (s *distributedStorage[K, V]) Set(_ context.Context, item *memoize.CacheItem[K, V]) error {
	bucket := s.resolveBucket(item.Key)
	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	bucket.m[item.Key] = cloneCacheItem(s.options.cloner, item)
	return nil
}

func (s *distributedStorage[K, V]) Delete(_ context.Context, key K) error {
	bucket := s.resolveBucket(key)
	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	delete(bucket.m, key)
	return nil
}

func (s *distributedStorage[K, V]) Clear(_ context.Context) error {
	// Locks are taken in bucket order so concurrent Clear calls cannot
	// deadlock against each other.
	for _, bucket := range s.buckets {
		bucket.mu.Lock()
		defer bucket.mu.Unlock()
	}

	for _, bucket := range s.buckets {
		clear(bucket.m)
	}
	return nil
}

type storage[K memoize.KeyConstraint, V memoize.ValueConstraint] struct {
	bucket[K, V]
	options options[K, V]
}

var (
	_ memoize.CacheStore[uint8, struct{}] = (*storage[uint8, struct{}])(nil)
	_ memoize.ClearableStore              = (*storage[uint8, struct{}])(nil)
)

func (s *storage[K, V]) Has(_ context.Context, key K) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.m[key]
	return ok, nil
}

func (s *storage[K, V]) Get(_ context.Context, key K) (*memoize.CacheItem[K, V], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if item, ok := s.m[key]; ok {
		return cloneCacheItem(s.options.cloner, item), nil
	}
	return nil, nil
}

func (s *storage[K, V]) Set(_ context.Context, item *memoize.CacheItem[K, V]) error {
	s.bucket.mu.Lock()
	defer s.bucket.mu.Unlock()

	s.bucket.m[item.Key] = cloneCacheItem(s.options.cloner, item)
	return nil
}

func (s *storage[K, V]) Delete(_ context.Context, key K) error {
	s.bucket.mu.Lock()
	defer s.bucket.mu.Unlock()

	delete(s.bucket.m, key)
	return nil
}

func (s *storage[K, V]) Clear(_ context.Context) error {
	s.bucket.mu.Lock()
	defer s.bucket.mu.Unlock()

	clear(s.bucket.m)
	return nil
}

func cloneCacheItem[K memoize.KeyConstraint, V memoize.ValueConstraint](cloner memoize.ValueCloner[V], item *memoize.CacheItem[K, V]) *memoize.CacheItem[K, V] {
	return &memoize.CacheItem[K, V]{
		Key:       item.Key,
		Value:     cloner.CloneValue(item.Value),
		ExpiresAt: item.ExpiresAt,
	}
}
