// Package storetest provides generic test cases for cache store implementations.
package storetest

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	memoize "github.com/karupanerura/memoize"
	"golang.org/x/sync/errgroup"
)

// TestStore runs the conformance suite for a cache store implementation.
// The provider must return a fresh, empty store and a release function.
func TestStore(t *testing.T, provider func() (memoize.CacheStore[uint8, string], func())) {
	t.Run("SetAndGet", func(t *testing.T) {
		t.Parallel()

		store, release := provider()
		defer release()

		item := &memoize.CacheItem[uint8, string]{
			Key:       1,
			Value:     "value1",
			ExpiresAt: time.Date(2025, 1, 1, 2, 30, 45, 0, time.UTC),
		}
		if err := store.Set(t.Context(), item); err != nil {
			t.Fatal(err)
		}

		got, err := store.Get(t.Context(), 1)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(item, got); diff != "" {
			t.Errorf("unexpected item (-want +got):\n%s", diff)
		}
	})

	t.Run("GetAbsentKey", func(t *testing.T) {
		t.Parallel()

		store, release := provider()
		defer release()

		got, err := store.Get(t.Context(), 9)
		if err != nil {
			t.Fatal(err)
		}
		if got != nil {
			t.Errorf("expected nil item for absent key, got %+v", got)
		}
	})

	t.Run("Has", func(t *testing.T) {
		t.Parallel()

		store, release := provider()
		defer release()

		if ok, err := store.Has(t.Context(), 1); err != nil {
			t.Fatal(err)
		} else if ok {
			t.Error("expected Has to report false before Set")
		}

		if err := store.Set(t.Context(), &memoize.CacheItem[uint8, string]{Key: 1, Value: "value1"}); err != nil {
			t.Fatal(err)
		}

		if ok, err := store.Has(t.Context(), 1); err != nil {
			t.Fatal(err)
		} else if !ok {
			t.Error("expected Has to report true after Set")
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		t.Parallel()

		store, release := provider()
		defer release()

		for _, value := range []string{"old", "new"} {
			if err := store.Set(t.Context(), &memoize.CacheItem[uint8, string]{Key: 1, Value: value}); err != nil {
				t.Fatal(err)
			}
		}

		got, err := store.Get(t.Context(), 1)
		if err != nil {
			t.Fatal(err)
		}
		if got == nil || got.Value != "new" {
			t.Errorf("expected overwritten value %q, got %+v", "new", got)
		}
	})

	t.Run("ExpiredItemIsReturned", func(t *testing.T) {
		t.Parallel()

		// Expiry is checked above the store: a store must return items
		// past their expiration time as stored.
		store, release := provider()
		defer release()

		item := &memoize.CacheItem[uint8, string]{
			Key:       1,
			Value:     "stale",
			ExpiresAt: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		if err := store.Set(t.Context(), item); err != nil {
			t.Fatal(err)
		}

		got, err := store.Get(t.Context(), 1)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(item, got); diff != "" {
			t.Errorf("unexpected item (-want +got):\n%s", diff)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		t.Parallel()

		store, release := provider()
		defer release()

		if err := store.Set(t.Context(), &memoize.CacheItem[uint8, string]{Key: 1, Value: "value1"}); err != nil {
			t.Fatal(err)
		}
		if err := store.Delete(t.Context(), 1); err != nil {
			t.Fatal(err)
		}

		if got, err := store.Get(t.Context(), 1); err != nil {
			t.Fatal(err)
		} else if got != nil {
			t.Errorf("expected nil item after Delete, got %+v", got)
		}

		// Deleting an absent key is not an error.
		if err := store.Delete(t.Context(), 1); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		t.Parallel()

		store, release := provider()
		defer release()

		clearable, ok := store.(memoize.ClearableStore)
		if !ok {
			t.Skip("store does not support clear")
		}

		for key := uint8(1); key <= 8; key++ {
			if err := store.Set(t.Context(), &memoize.CacheItem[uint8, string]{Key: key, Value: fmt.Sprintf("value%d", key)}); err != nil {
				t.Fatal(err)
			}
		}
		if err := clearable.Clear(t.Context()); err != nil {
			t.Fatal(err)
		}

		for key := uint8(1); key <= 8; key++ {
			if ok, err := store.Has(t.Context(), key); err != nil {
				t.Fatal(err)
			} else if ok {
				t.Errorf("expected key %d to be gone after Clear", key)
			}
		}
	})

	t.Run("ConcurrentAccess", func(t *testing.T) {
		t.Parallel()

		store, release := provider()
		defer release()

		var eg errgroup.Group
		for i := 0; i < 16; i++ {
			key := uint8(i % 4)
			eg.Go(func() error {
				if err := store.Set(t.Context(), &memoize.CacheItem[uint8, string]{Key: key, Value: fmt.Sprintf("value%d", key)}); err != nil {
					return err
				}
				if _, err := store.Get(t.Context(), key); err != nil {
					return err
				}
				if _, err := store.Has(t.Context(), key); err != nil {
					return err
				}
				return store.Delete(t.Context(), key)
			})
		}
		if err := eg.Wait(); err != nil {
			t.Fatal(err)
		}
	})
}
