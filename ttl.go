package memoize

import (
	"fmt"
	"math"
	"time"
)

// MaxTTL is the maximum representable timeout for a cached item.
// It matches the largest delay a one-shot millisecond timer can carry.
// A fixed max age above this bound panics at construction; a computed max age
// above it fails the call with ErrTTLExceedsMax.
const MaxTTL = time.Duration(math.MaxInt32) * time.Millisecond

// TTL determines how long a memoized result stays valid.
// It is a closed variant: use Forever, MaxAge, or MaxAgeFunc to construct one.
type TTL[A any] interface {
	// resolveTTL resolves the effective max age for a single miss.
	// The boolean reports whether the result expires at all; when it is
	// false the duration is meaningless.
	resolveTTL(args A) (time.Duration, bool)
}

type foreverTTL[A any] struct{}

func (foreverTTL[A]) resolveTTL(A) (time.Duration, bool) {
	return 0, false
}

// Forever returns a TTL whose results never expire.
// Stored items carry the zero expiration time and no eviction timer is
// scheduled. This is the default.
func Forever[A any]() TTL[A] {
	return foreverTTL[A]{}
}

type fixedTTL[A any] struct {
	d time.Duration
}

func (t fixedTTL[A]) resolveTTL(A) (time.Duration, bool) {
	return t.d, true
}

// MaxAge returns a TTL with a fixed max age.
//
// A max age of exactly zero disables memoization entirely: the constructed
// handle invokes the function on every call, stores nothing, and fails Clear
// with ErrNotMemoized. A negative max age wraps normally but never stores.
// A max age above MaxTTL is a configuration error and panics.
func MaxAge[A any](d time.Duration) TTL[A] {
	if d > MaxTTL {
		panic(fmt.Sprintf("memoize: max age %s exceeds MaxTTL (%s)", d, MaxTTL))
	}
	return fixedTTL[A]{d: d}
}

type computedTTL[A any] struct {
	f func(args A) time.Duration
}

func (t computedTTL[A]) resolveTTL(args A) (time.Duration, bool) {
	return t.f(args), true
}

// MaxAgeFunc returns a TTL computed from the invocation's arguments,
// evaluated once per miss. A computed max age of zero or below stores nothing
// for that miss; unlike a fixed zero max age it does not disable memoization
// for other argument values. A computed max age above MaxTTL fails the call
// with ErrTTLExceedsMax.
func MaxAgeFunc[A any](f func(args A) time.Duration) TTL[A] {
	if f == nil {
		panic("memoize: max age function must not be nil")
	}
	return computedTTL[A]{f: f}
}
