package memoize

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/karupanerura/memoize/expiration"
	"github.com/karupanerura/memoize/internal/timerset"
)

// Memo is a memoized function handle.
// It owns the cache store, the key derivation function, and the set of
// outstanding eviction timers, so clearing and inspecting the cache are
// methods on the handle and all associated state shares its lifetime.
//
// A Memo is safe for concurrent use as long as its store is. By default,
// concurrent calls for the same key may compute in duplicate with
// last-write-wins on the store; see WithSingleFlight.
type Memo[K KeyConstraint, A any, V ValueConstraint] struct {
	fn     Func[A, V]
	keyFn  KeyFunc[A, K]
	ttl    TTL[A]
	store  CacheStore[K, V]
	clock  Clock
	policy expiration.ExpirationPolicy
	timers timerset.Set
	flight *flightGroup[K, V]

	// bypass marks a handle built with a fixed max age of zero:
	// every call invokes fn directly and nothing is ever stored.
	bypass bool
}

// New creates a memoized handle for fn using the argument value itself as the
// cache key. Use NewKeyed to derive the key from the arguments instead.
func New[K KeyConstraint, V ValueConstraint](fn Func[K, V], opts ...Option[K, K, V]) *Memo[K, K, V] {
	return NewKeyed(fn, func(args K) K { return args }, opts...)
}

// NewKeyed creates a memoized handle for fn with an explicit key derivation
// function. keyFn is called exactly once per invocation, before any lookup.
func NewKeyed[K KeyConstraint, A any, V ValueConstraint](fn Func[A, V], keyFn KeyFunc[A, K], opts ...Option[K, A, V]) *Memo[K, A, V] {
	if fn == nil {
		panic("memoize: fn must not be nil")
	}
	if keyFn == nil {
		panic("memoize: keyFn must not be nil")
	}

	config := defaultConfig[K, A, V]()
	for _, opt := range opts {
		opt.apply(&config)
	}

	m := &Memo[K, A, V]{
		fn:     fn,
		keyFn:  keyFn,
		ttl:    config.ttl,
		store:  config.store,
		clock:  config.clock,
		policy: config.policy,
	}
	if fixed, ok := config.ttl.(fixedTTL[A]); ok && fixed.d == 0 {
		m.bypass = true
		return m
	}
	if config.singleFlight {
		m.flight = newFlightGroup[K, V]()
	}
	return m
}

// Call invokes the memoized function.
// On a cache hit the stored value is returned and fn is not invoked. On a
// miss fn runs, its result is stored according to the handle's TTL, and an
// eviction timer is scheduled for results with a finite max age. Errors from
// fn propagate unchanged and are never cached.
func (m *Memo[K, A, V]) Call(ctx context.Context, args A) (V, error) {
	if m.bypass {
		return m.fn(ctx, args)
	}

	key := m.keyFn(args)
	if item, err := m.lookup(ctx, key); err != nil {
		var zero V
		return zero, err
	} else if item != nil {
		return item.Value, nil
	}

	if m.flight != nil {
		return m.callFlight(ctx, key, args)
	}
	return m.computeAndStore(ctx, key, args)
}

// CallMulti invokes the memoized function for a batch of argument values and
// returns the results in input order. Argument values resolving to the same
// key are computed at most once per batch; distinct misses compute
// concurrently.
func (m *Memo[K, A, V]) CallMulti(ctx context.Context, argsList []A) ([]V, error) {
	results := make([]V, len(argsList))

	if m.bypass {
		eg, gctx := errgroup.WithContext(ctx)
		for i, args := range argsList {
			eg.Go(func() error {
				value, err := m.fn(gctx, args)
				if err != nil {
					return err
				}
				results[i] = value
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
		return results, nil
	}

	indexes := make(map[K][]int, len(argsList))
	order := make([]K, 0, len(argsList))
	for i, args := range argsList {
		key := m.keyFn(args)
		if _, ok := indexes[key]; !ok {
			order = append(order, key)
		}
		indexes[key] = append(indexes[key], i)
	}

	eg, gctx := errgroup.WithContext(ctx)
	for _, key := range order {
		targets := indexes[key]
		args := argsList[targets[0]]
		eg.Go(func() error {
			item, err := m.lookup(gctx, key)
			if err != nil {
				return err
			}

			var value V
			if item != nil {
				value = item.Value
			} else if m.flight != nil {
				value, err = m.callFlight(gctx, key, args)
			} else {
				value, err = m.computeAndStore(gctx, key, args)
			}
			if err != nil {
				return err
			}

			for _, i := range targets {
				results[i] = value
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Clear empties the cache store and cancels every outstanding eviction timer.
// It fails with ErrNotMemoized on a handle that performs no memoization, and
// with ErrClearUnsupported if the store does not implement ClearableStore.
func (m *Memo[K, A, V]) Clear(ctx context.Context) error {
	if m.bypass {
		return ErrNotMemoized
	}
	clearable, ok := m.store.(ClearableStore)
	if !ok {
		return ErrClearUnsupported
	}

	if err := clearable.Clear(ctx); err != nil {
		return err
	}
	m.timers.StopAll()
	return nil
}

// IsCached reports whether args currently resolves to a valid, unexpired
// cached item. It derives the key through the handle's own KeyFunc, never
// invokes the memoized function, and does not mutate the store: an item past
// its expiration reports false but stays in place until the next Call or its
// eviction timer removes it. A handle that performs no memoization always
// reports false.
func (m *Memo[K, A, V]) IsCached(ctx context.Context, args A) (bool, error) {
	if m.bypass {
		return false, nil
	}

	item, err := m.store.Get(ctx, m.keyFn(args))
	if err != nil {
		return false, err
	}
	return item != nil && !m.expired(item), nil
}

// lookup fetches the item for key and checks its validity. A present but
// expired item is deleted eagerly and reported as a miss.
func (m *Memo[K, A, V]) lookup(ctx context.Context, key K) (*CacheItem[K, V], error) {
	item, err := m.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	if m.expired(item) {
		if err := m.store.Delete(ctx, key); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return item, nil
}

func (m *Memo[K, A, V]) expired(item *CacheItem[K, V]) bool {
	if item.ExpiresAt.IsZero() {
		return false
	}
	return m.policy.IsExpired(m.clock.Now(), item.ExpiresAt)
}

func (m *Memo[K, A, V]) computeAndStore(ctx context.Context, key K, args A) (V, error) {
	value, err := m.fn(ctx, args)
	if err != nil {
		var zero V
		return zero, err
	}
	if err := m.storeResult(ctx, key, args, value); err != nil {
		var zero V
		return zero, err
	}
	return value, nil
}

// storeResult stores a computed value according to the resolved max age and
// schedules the proactive eviction timer for finite max ages.
func (m *Memo[K, A, V]) storeResult(ctx context.Context, key K, args A, value V) error {
	ttl, expires := m.ttl.resolveTTL(args)
	if !expires {
		return m.store.Set(ctx, &CacheItem[K, V]{Key: key, Value: value})
	}
	if ttl <= 0 {
		// Computed but never stored: every call recomputes.
		return nil
	}
	if ttl > MaxTTL {
		return fmt.Errorf("%w: %s", ErrTTLExceedsMax, ttl)
	}

	expiresAt := m.clock.Now().Add(ttl)
	if err := m.store.Set(ctx, &CacheItem[K, V]{Key: key, Value: value, ExpiresAt: expiresAt}); err != nil {
		return err
	}
	m.timers.Schedule(ttl, func() {
		m.evict(key, expiresAt)
	})
	return nil
}

// evict is the timer-driven half of eviction. It deletes the item only if the
// store still holds the item the timer was scheduled for and the clock agrees
// it has expired, so a late timer never evicts a fresher item and lazy checks
// against a simulated clock stay authoritative.
func (m *Memo[K, A, V]) evict(key K, expiresAt time.Time) {
	ctx := context.Background()
	item, err := m.store.Get(ctx, key)
	if err != nil || item == nil {
		return
	}
	if item.ExpiresAt.Equal(expiresAt) && m.expired(item) {
		_ = m.store.Delete(ctx, key)
	}
}
