package memoize_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	memoize "github.com/karupanerura/memoize"
)

func TestMemo_Call_SingleFlight(t *testing.T) {
	t.Parallel()

	t.Run("ComputesOncePerKey", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		gate := make(chan struct{})
		memo := memoize.New(func(_ context.Context, n int) (int, error) {
			calls.Add(1)
			<-gate
			return n * n, nil
		}, memoize.WithSingleFlight[int, int, int]())

		const workers = 8
		results := make([]int, workers)
		errs := make([]error, workers)
		var wg sync.WaitGroup
		for i := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i], errs[i] = memo.Call(context.Background(), 5)
			}()
		}

		// Give the workers time to pile up on the in-flight computation.
		time.Sleep(50 * time.Millisecond)
		close(gate)
		wg.Wait()

		for i := range workers {
			if errs[i] != nil {
				t.Fatalf("worker %d: %v", i, errs[i])
			}
			if results[i] != 25 {
				t.Errorf("worker %d: got %d, want 25", i, results[i])
			}
		}
		if got := calls.Load(); got != 1 {
			t.Errorf("expected a single in-flight computation, got %d", got)
		}
	})

	t.Run("DeliversPanicAsErrorToAllWaiters", func(t *testing.T) {
		t.Parallel()

		gate := make(chan struct{})
		memo := memoize.New(func(_ context.Context, n int) (int, error) {
			<-gate
			panic("computation exploded")
		}, memoize.WithSingleFlight[int, int, int]())

		const workers = 4
		errs := make([]error, workers)
		var wg sync.WaitGroup
		for i := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = memo.Call(context.Background(), 1)
			}()
		}

		time.Sleep(50 * time.Millisecond)
		close(gate)
		wg.Wait()

		for i := range workers {
			if errs[i] == nil {
				t.Errorf("worker %d: expected the leader's panic as an error", i)
			}
		}
	})

	t.Run("WaiterHonorsContextCancellation", func(t *testing.T) {
		t.Parallel()

		gate := make(chan struct{})
		defer close(gate)
		memo := memoize.New(func(_ context.Context, n int) (int, error) {
			<-gate
			return n, nil
		}, memoize.WithSingleFlight[int, int, int]())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			_, err := memo.Call(ctx, 1)
			done <- err
		}()

		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			if err != context.Canceled {
				t.Errorf("Call = %v, want context.Canceled", err)
			}
		case <-time.After(time.Second):
			t.Fatal("expected the waiter to return on context cancellation")
		}
	})
}
