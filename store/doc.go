// Package store provides cache store adapters and utilities for the memoize
// library.
//
// This package contains adapters such as SilentErrors, which wraps any
// CacheStore implementation to report backend failures to a hook while
// degrading reads to cache misses, and Funcs, which allows building custom
// store implementations from function callbacks. Funcs has no Clear method on
// purpose: it is also the canonical store for exercising the
// clear-unsupported error path.
//
// This package also defines common error values for store backends to wrap:
// ErrGet, ErrSet, ErrDelete, and ErrClear.
package store
