// Package timerset provides a set of cancellable one-shot timers scoped to an
// owner, typically a memoized function handle.
package timerset

import (
	"sync"
	"time"
)

// Set owns a collection of outstanding one-shot timers.
// A timer removes its own slot when it fires, so fired timers do not
// accumulate. The zero value is ready to use.
type Set struct {
	mu     sync.Mutex
	seq    uint64
	timers map[uint64]*time.Timer
}

// Schedule registers a one-shot timer that runs fn after d.
// The slot is released before fn runs. If the set has been stopped since the
// timer fired, fn still runs; callers must tolerate that.
func (s *Set) Schedule(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timers == nil {
		s.timers = map[uint64]*time.Timer{}
	}
	id := s.seq
	s.seq++
	s.timers[id] = time.AfterFunc(d, func() {
		s.release(id)
		fn()
	})
}

func (s *Set) release(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.timers, id)
}

// StopAll cancels every outstanding timer and empties the set.
// It is idempotent and safe against timers that have already fired.
func (s *Set) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// Len reports the number of outstanding timers.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
