package memstore

import (
	memoize "github.com/karupanerura/memoize"
	"github.com/karupanerura/memoize/internal/keyhash"
)

// DefaultBucketsSize is the default number of buckets in the store.
// A memoized function usually owns a private store, so the default is a
// single bucket; raise it for stores shared by highly concurrent callers.
var DefaultBucketsSize = 1

// Option is the interface for the options of the in-memory cache store.
type Option[K memoize.KeyConstraint, V memoize.ValueConstraint] interface {
	apply(*options[K, V])
}

type optionFunc[K memoize.KeyConstraint, V memoize.ValueConstraint] func(*options[K, V])

func (f optionFunc[K, V]) apply(o *options[K, V]) {
	f(o)
}

// WithKeyHash sets the key hash function used for bucket selection.
// Key types beyond the primitive comparable types require this option.
func WithKeyHash[K memoize.KeyConstraint, V memoize.ValueConstraint](f func(K) int) Option[K, V] {
	return optionFunc[K, V](func(o *options[K, V]) {
		o.hashKey = f
	})
}

// WithBucketsSize sets the number of buckets in the store.
// The number of buckets must be a natural number.
func WithBucketsSize[K memoize.KeyConstraint, V memoize.ValueConstraint](bucketsSize int) Option[K, V] {
	if bucketsSize <= 0 {
		panic("bucketsSize must be natural number")
	}
	return optionFunc[K, V](func(o *options[K, V]) {
		o.bucketsSize = bucketsSize
	})
}

// WithCloner sets the value cloner used to take defensive copies of items on
// read and write. The default is memoize.NopValueCloner: memoized values are
// treated as immutable and returned as stored.
func WithCloner[K memoize.KeyConstraint, V memoize.ValueConstraint](cloner memoize.ValueCloner[V]) Option[K, V] {
	return optionFunc[K, V](func(o *options[K, V]) {
		o.cloner = cloner
	})
}

type options[K memoize.KeyConstraint, V memoize.ValueConstraint] struct {
	hashKey     func(K) int
	bucketsSize int
	cloner      memoize.ValueCloner[V]
}

func defaultOptions[K memoize.KeyConstraint, V memoize.ValueConstraint]() options[K, V] {
	return options[K, V]{
		bucketsSize: DefaultBucketsSize,
		cloner:      memoize.NopValueCloner[V]{},
	}
}

// resolveKeyHash defers building the default hash function until it is
// needed: single-bucket stores never hash, so unsupported key types stay
// usable without WithKeyHash.
func (o *options[K, V]) resolveKeyHash() func(K) int {
	if o.hashKey != nil {
		return o.hashKey
	}
	return keyhash.ForType[K]()
}
