// Package memstore provides an in-memory cache store for the memoize library.
//
// The store backs a plain map with a mutex, optionally distributed across
// hash-selected buckets to reduce lock contention under highly concurrent
// workloads. Values can be defensively copied on read and write through a
// memoize.ValueCloner.
package memstore
