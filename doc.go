// Package memoize provides a generic memoization engine: it wraps a function
// and caches its results keyed by a value derived from the arguments, with
// optional time-based expiration and pluggable storage backends.
//
// A memoized function is represented by a Memo handle that owns its cache
// store, its key derivation function, and the set of eviction timers scheduled
// for stored items. Clearing the cache and inspecting cached state are methods
// on the handle, so all associated state shares the handle's lifetime.
//
// Expired items are evicted twice over: lazily, when a lookup finds an item
// past its expiration, and proactively, by a one-shot timer scheduled when the
// item is stored. The lazy check keeps results correct even if a timer fires
// late; the timer keeps the store from retaining stale entries for keys that
// are never looked up again.
package memoize
