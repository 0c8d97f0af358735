package method

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goccy/go-reflect"

	memoize "github.com/karupanerura/memoize"
)

// ErrNotCallable is returned by BindName when the named member does not exist
// on the receiver type or does not have the expected method signature.
var ErrNotCallable = errors.New("target member is not callable")

// Binding memoizes a method per receiver.
// Each receiver gets its own memoized handle, and with it its own cache store
// and eviction timers, created lazily on the receiver's first call. Passing
// memoize.WithStore in the options makes all receivers share that store;
// leave it unset to keep caches private per receiver.
type Binding[R comparable, K memoize.KeyConstraint, A any, V memoize.ValueConstraint] struct {
	method func(R, context.Context, A) (V, error)
	keyFn  memoize.KeyFunc[A, K]
	opts   []memoize.Option[K, A, V]

	mu    sync.Mutex
	memos map[R]*memoize.Memo[K, A, V]
}

// Bind creates a Binding from a method expression, e.g. Bind((*Repo).Find, ...).
func Bind[R comparable, K memoize.KeyConstraint, A any, V memoize.ValueConstraint](method func(R, context.Context, A) (V, error), keyFn memoize.KeyFunc[A, K], opts ...memoize.Option[K, A, V]) *Binding[R, K, A, V] {
	if method == nil {
		panic("method: method must not be nil")
	}
	return &Binding[R, K, A, V]{
		method: method,
		keyFn:  keyFn,
		opts:   opts,
		memos:  map[R]*memoize.Memo[K, A, V]{},
	}
}

// BindName creates a Binding by resolving the named method on R reflectively.
// It fails with ErrNotCallable if R has no such method or its signature is not
// func(R, context.Context, A) (V, error).
func BindName[R comparable, K memoize.KeyConstraint, A any, V memoize.ValueConstraint](name string, keyFn memoize.KeyFunc[A, K], opts ...memoize.Option[K, A, V]) (*Binding[R, K, A, V], error) {
	receiverType := reflect.TypeOf((*R)(nil)).Elem()
	m, ok := receiverType.MethodByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no method %q", ErrNotCallable, receiverType, name)
	}

	want := reflect.TypeOf((func(R, context.Context, A) (V, error))(nil))
	if m.Type != want {
		return nil, fmt.Errorf("%w: method %s.%s has type %s, want %s", ErrNotCallable, receiverType, name, m.Type, want)
	}
	return Bind(m.Func.Interface().(func(R, context.Context, A) (V, error)), keyFn, opts...), nil
}

// Call invokes the memoized method on the receiver, creating the receiver's
// handle on first use.
func (b *Binding[R, K, A, V]) Call(ctx context.Context, recv R, args A) (V, error) {
	return b.memoFor(recv).Call(ctx, args)
}

// IsCached reports whether args currently resolves to a valid cached item for
// the receiver. A receiver that never called reports false.
func (b *Binding[R, K, A, V]) IsCached(ctx context.Context, recv R, args A) (bool, error) {
	memo := b.lookupMemo(recv)
	if memo == nil {
		return false, nil
	}
	return memo.IsCached(ctx, args)
}

// Clear empties the receiver's cache and cancels its pending eviction timers.
// It fails with memoize.ErrNotMemoized for a receiver that never called.
func (b *Binding[R, K, A, V]) Clear(ctx context.Context, recv R) error {
	memo := b.lookupMemo(recv)
	if memo == nil {
		return memoize.ErrNotMemoized
	}
	return memo.Clear(ctx)
}

// Release drops the receiver's handle from the binding, clearing its cache
// and cancelling its timers first when the store supports it. It fails with
// memoize.ErrNotMemoized for a receiver that never called. Use it when a
// receiver reaches the end of its life so the binding does not retain its
// cache.
func (b *Binding[R, K, A, V]) Release(ctx context.Context, recv R) error {
	b.mu.Lock()
	memo, ok := b.memos[recv]
	delete(b.memos, recv)
	b.mu.Unlock()

	if !ok {
		return memoize.ErrNotMemoized
	}
	if err := memo.Clear(ctx); err != nil && !errors.Is(err, memoize.ErrClearUnsupported) {
		return err
	}
	return nil
}

func (b *Binding[R, K, A, V]) memoFor(recv R) *memoize.Memo[K, A, V] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if memo, ok := b.memos[recv]; ok {
		return memo
	}
	memo := memoize.NewKeyed(func(ctx context.Context, args A) (V, error) {
		return b.method(recv, ctx, args)
	}, b.keyFn, b.opts...)
	b.memos[recv] = memo
	return memo
}

func (b *Binding[R, K, A, V]) lookupMemo(recv R) *memoize.Memo[K, A, V] {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.memos[recv]
}
