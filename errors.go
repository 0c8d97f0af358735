package memoize

import "errors"

var (
	// ErrNotMemoized is returned by Clear on a handle that performs no
	// memoization, such as one constructed with a fixed max age of zero.
	ErrNotMemoized = errors.New("function is not memoized")

	// ErrClearUnsupported is returned by Clear when the backing store does
	// not implement ClearableStore.
	ErrClearUnsupported = errors.New("cache store does not support clear")

	// ErrTTLExceedsMax is returned when a computed max age resolves to a
	// duration above MaxTTL.
	ErrTTLExceedsMax = errors.New("max age exceeds maximum representable timeout")
)
