package memoize

import (
	"github.com/karupanerura/memoize/expiration"
)

// Option is the interface for the options of a Memo.
type Option[K KeyConstraint, A any, V ValueConstraint] interface {
	apply(*config[K, A, V])
}

type optionFunc[K KeyConstraint, A any, V ValueConstraint] func(*config[K, A, V])

func (f optionFunc[K, A, V]) apply(c *config[K, A, V]) {
	f(c)
}

// WithTTL sets how long memoized results stay valid.
// The default is Forever: results never expire.
func WithTTL[K KeyConstraint, A any, V ValueConstraint](ttl TTL[A]) Option[K, A, V] {
	if ttl == nil {
		panic("memoize: ttl must not be nil")
	}
	return optionFunc[K, A, V](func(c *config[K, A, V]) {
		c.ttl = ttl
	})
}

// WithStore sets the cache storage backend.
// The default is a plain in-memory map guarded by a mutex; see the memstore
// package for a bucketed store suited to highly concurrent workloads.
func WithStore[K KeyConstraint, A any, V ValueConstraint](store CacheStore[K, V]) Option[K, A, V] {
	if store == nil {
		panic("memoize: store must not be nil")
	}
	return optionFunc[K, A, V](func(c *config[K, A, V]) {
		c.store = store
	})
}

// WithClock sets the clock used for expiry computation and validity checks.
func WithClock[K KeyConstraint, A any, V ValueConstraint](clock Clock) Option[K, A, V] {
	if clock == nil {
		panic("memoize: clock must not be nil")
	}
	return optionFunc[K, A, V](func(c *config[K, A, V]) {
		c.clock = clock
	})
}

// WithExpirationPolicy sets the policy deciding when a stored item counts as
// expired. The default is expiration.GeneralExpirationPolicy: an item is valid
// while the clock is strictly before its expiration time.
func WithExpirationPolicy[K KeyConstraint, A any, V ValueConstraint](policy expiration.ExpirationPolicy) Option[K, A, V] {
	if policy == nil {
		panic("memoize: expiration policy must not be nil")
	}
	return optionFunc[K, A, V](func(c *config[K, A, V]) {
		c.policy = policy
	})
}

// WithSingleFlight serializes computation per cache key: at most one
// invocation of the wrapped function runs per key at a time, and concurrent
// callers for the same key wait for the in-flight result. Without it,
// concurrent callers may compute the same key in duplicate with
// last-write-wins on the store.
func WithSingleFlight[K KeyConstraint, A any, V ValueConstraint]() Option[K, A, V] {
	return optionFunc[K, A, V](func(c *config[K, A, V]) {
		c.singleFlight = true
	})
}

type config[K KeyConstraint, A any, V ValueConstraint] struct {
	ttl          TTL[A]
	store        CacheStore[K, V]
	clock        Clock
	policy       expiration.ExpirationPolicy
	singleFlight bool
}

func defaultConfig[K KeyConstraint, A any, V ValueConstraint]() config[K, A, V] {
	return config[K, A, V]{
		ttl:    Forever[A](),
		store:  newMapStore[K, V](),
		clock:  SystemClock,
		policy: expiration.GeneralExpirationPolicy{},
	}
}
