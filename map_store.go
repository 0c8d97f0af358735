package memoize

import (
	"context"
	"sync"
)

// mapStore is the default cache storage: a plain key-unique mapping guarded
// by a mutex. Every operation is atomic with respect to the others.
type mapStore[K KeyConstraint, V ValueConstraint] struct {
	m  map[K]*CacheItem[K, V]
	mu sync.RWMutex
}

var (
	_ CacheStore[uint8, struct{}] = (*mapStore[uint8, struct{}])(nil)
	_ ClearableStore              = (*mapStore[uint8, struct{}])(nil)
)

func newMapStore[K KeyConstraint, V ValueConstraint]() *mapStore[K, V] {
	return &mapStore[K, V]{m: map[K]*CacheItem[K, V]{}}
}

func (s *mapStore[K, V]) Has(_ context.Context, key K) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.m[key]
	return ok, nil
}

func (s *mapStore[K, V]) Get(_ context.Context, key K) (*CacheItem[K, V], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if item, ok := s.m[key]; ok {
		return item, nil
	}
	return nil, nil
}

func (s *mapStore[K, V]) Set(_ context.Context, item *CacheItem[K, V]) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.m[item.Key] = item
	return nil
}

func (s *mapStore[K, V]) Delete(_ context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.m, key)
	return nil
}

func (s *mapStore[K, V]) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.m)
	return nil
}
