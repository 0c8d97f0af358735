package store_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	memoize "github.com/karupanerura/memoize"
	"github.com/karupanerura/memoize/store"
)

func TestFuncs(t *testing.T) {
	t.Parallel()

	items := map[uint8]*memoize.CacheItem[uint8, string]{}
	backing := &store.Funcs[uint8, string]{
		HasFunc: func(_ context.Context, key uint8) (bool, error) {
			_, ok := items[key]
			return ok, nil
		},
		GetFunc: func(_ context.Context, key uint8) (*memoize.CacheItem[uint8, string], error) {
			return items[key], nil
		},
		SetFunc: func(_ context.Context, item *memoize.CacheItem[uint8, string]) error {
			items[item.Key] = item
			return nil
		},
		DeleteFunc: func(_ context.Context, key uint8) error {
			delete(items, key)
			return nil
		},
	}

	item := &memoize.CacheItem[uint8, string]{
		Key:       1,
		Value:     "value1",
		ExpiresAt: time.Date(2025, 1, 1, 2, 30, 45, 0, time.UTC),
	}
	if err := backing.Set(t.Context(), item); err != nil {
		t.Fatal(err)
	}
	if ok, err := backing.Has(t.Context(), 1); err != nil || !ok {
		t.Fatalf("Has = %v, %v; want true, nil", ok, err)
	}
	if got, err := backing.Get(t.Context(), 1); err != nil {
		t.Fatal(err)
	} else if diff := cmp.Diff(item, got); diff != "" {
		t.Errorf("unexpected item (-want +got):\n%s", diff)
	}
	if err := backing.Delete(t.Context(), 1); err != nil {
		t.Fatal(err)
	}
	if ok, err := backing.Has(t.Context(), 1); err != nil || ok {
		t.Fatalf("Has after Delete = %v, %v; want false, nil", ok, err)
	}
}

func TestSilentErrors(t *testing.T) {
	t.Parallel()

	failing := &store.Funcs[uint8, string]{
		HasFunc: func(_ context.Context, key uint8) (bool, error) {
			return false, fmt.Errorf("%w: key=%d", store.ErrGet, key)
		},
		GetFunc: func(_ context.Context, key uint8) (*memoize.CacheItem[uint8, string], error) {
			return nil, fmt.Errorf("%w: key=%d", store.ErrGet, key)
		},
		SetFunc: func(_ context.Context, item *memoize.CacheItem[uint8, string]) error {
			return fmt.Errorf("%w: key=%d", store.ErrSet, item.Key)
		},
		DeleteFunc: func(_ context.Context, key uint8) error {
			return fmt.Errorf("%w: key=%d", store.ErrDelete, key)
		},
	}

	var reported []error
	silent := &store.SilentErrors[uint8, string]{
		Store: failing,
		OnError: func(err error) {
			reported = append(reported, err)
		},
	}

	if ok, err := silent.Has(t.Context(), 1); err != nil || ok {
		t.Errorf("Has = %v, %v; want false, nil", ok, err)
	}
	if got, err := silent.Get(t.Context(), 1); err != nil || got != nil {
		t.Errorf("Get = %v, %v; want nil, nil", got, err)
	}
	if err := silent.Set(t.Context(), &memoize.CacheItem[uint8, string]{Key: 1, Value: "value1"}); err != nil {
		t.Errorf("Set = %v; want nil", err)
	}
	if err := silent.Delete(t.Context(), 1); err != nil {
		t.Errorf("Delete = %v; want nil", err)
	}

	if len(reported) != 4 {
		t.Fatalf("expected 4 reported errors, got %d", len(reported))
	}
	for i, want := range []error{store.ErrGet, store.ErrGet, store.ErrSet, store.ErrDelete} {
		if !errors.Is(reported[i], want) {
			t.Errorf("reported[%d] = %v, want %v", i, reported[i], want)
		}
	}
}

func TestSilentErrors_DegradesToMiss(t *testing.T) {
	t.Parallel()

	// A memoized function backed by a flaky store recomputes instead of
	// failing the call.
	failing := &store.Funcs[int, int]{
		HasFunc: func(_ context.Context, key int) (bool, error) {
			return false, store.ErrGet
		},
		GetFunc: func(_ context.Context, key int) (*memoize.CacheItem[int, int], error) {
			return nil, store.ErrGet
		},
		SetFunc: func(_ context.Context, item *memoize.CacheItem[int, int]) error {
			return store.ErrSet
		},
		DeleteFunc: func(_ context.Context, key int) error {
			return store.ErrDelete
		},
	}

	var calls int
	memo := memoize.New(func(_ context.Context, n int) (int, error) {
		calls++
		return n * n, nil
	}, memoize.WithStore[int, int, int](&store.SilentErrors[int, int]{Store: failing}))

	for range 2 {
		if got, err := memo.Call(t.Context(), 3); err != nil {
			t.Fatal(err)
		} else if got != 9 {
			t.Errorf("Call(3) = %d, want 9", got)
		}
	}
	if calls != 2 {
		t.Errorf("expected recomputation on every call against a failing store, got %d calls", calls)
	}
}
