package memoize

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/karupanerura/memoize/internal/panicutil"
)

var errGoexit = errors.New("runtime.Goexit is called")

// flightGroup serializes computation per cache key: the first caller for a
// key becomes the leader and runs the computation, later callers wait on a
// per-key waitlist for the leader's result.
type flightGroup[K KeyConstraint, V ValueConstraint] struct {
	mu        sync.Mutex
	waitlists map[K][]chan flightResult[V]
}

type flightResult[V ValueConstraint] struct {
	value V
	err   error
}

func newFlightGroup[K KeyConstraint, V ValueConstraint]() *flightGroup[K, V] {
	return &flightGroup[K, V]{
		waitlists: map[K][]chan flightResult[V]{},
	}
}

// register joins the waitlist for key and reports whether the caller is the
// leader responsible for running the computation.
func (g *flightGroup[K, V]) register(key K) (ch chan flightResult[V], leader bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ch = make(chan flightResult[V], 1)
	g.waitlists[key] = append(g.waitlists[key], ch)
	return ch, len(g.waitlists[key]) == 1
}

// deliver sends the value to every waiting channel and drains the waitlist.
func (g *flightGroup[K, V]) deliver(key K, value V) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, ch := range g.waitlists[key] {
		ch <- flightResult[V]{value: value}
		close(ch)
	}
	g.waitlists[key] = g.waitlists[key][:0]
}

// deliverError sends the error to every waiting channel and drains the waitlist.
func (g *flightGroup[K, V]) deliverError(key K, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, ch := range g.waitlists[key] {
		ch <- flightResult[V]{err: err}
		close(ch)
	}
	g.waitlists[key] = g.waitlists[key][:0]
}

// callFlight computes the value for key through the flight group.
// The leader runs detached from any caller's context so a cancelled leader
// cannot fail the waiters; each caller still honors its own context while
// waiting. A panic in the computation is recovered and delivered to every
// waiter as an error; runtime.Goexit propagates to waiters as Goexit.
func (m *Memo[K, A, V]) callFlight(ctx context.Context, key K, args A) (V, error) {
	ch, leader := m.flight.register(key)
	if leader {
		go m.runFlight(key, args)
	}

	select {
	case r := <-ch:
		if r.err != nil {
			if r.err == errGoexit {
				runtime.Goexit()
			}
			var zero V
			return zero, r.err
		}
		return r.value, nil
	case <-ctx.Done():
		go func() {
			<-ch
		}()
		var zero V
		return zero, ctx.Err()
	}
}

// runFlight runs the computation for key as the flight leader and delivers
// the outcome to the waitlist.
func (m *Memo[K, A, V]) runFlight(key K, args A) {
	ctx := context.Background()
	dds := panicutil.DoubleDeferSandwich{
		OnGoexit: func() {
			m.flight.deliverError(key, errGoexit)
		},
	}

	var value V
	if err := dds.Invoke(func() (err error) {
		value, err = m.fn(ctx, args)
		return
	}); err != nil {
		m.flight.deliverError(key, err)
		return
	}

	if err := m.storeResult(ctx, key, args, value); err != nil {
		m.flight.deliverError(key, err)
		return
	}
	m.flight.deliver(key, value)
}
