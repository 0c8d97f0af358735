package memoize_test

import (
	"testing"
	"time"

	memoize "github.com/karupanerura/memoize"
)

func TestClockFunc(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2025, 1, 1, 2, 30, 45, 0, time.UTC)
	clock := memoize.ClockFunc(func() time.Time {
		return fixed
	})
	if got := clock.Now(); !got.Equal(fixed) {
		t.Errorf("Now() = %v, want %v", got, fixed)
	}
}

func TestSystemClock(t *testing.T) {
	t.Parallel()

	before := time.Now()
	got := memoize.SystemClock.Now()
	after := time.Now()
	if got.Before(before) || got.After(after) {
		t.Errorf("Now() = %v, want between %v and %v", got, before, after)
	}
}
