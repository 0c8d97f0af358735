package panicutil_test

import (
	"errors"
	"runtime"
	"sync"
	"testing"

	"github.com/karupanerura/memoize/internal/panicutil"
)

func TestDoubleDeferSandwich_NormalReturn(t *testing.T) {
	t.Parallel()

	want := errors.New("plain error")
	var dds panicutil.DoubleDeferSandwich
	if err := dds.Invoke(func() error {
		return want
	}); !errors.Is(err, want) {
		t.Errorf("Invoke = %v, want %v", err, want)
	}

	if err := dds.Invoke(func() error {
		return nil
	}); err != nil {
		t.Errorf("Invoke = %v, want nil", err)
	}
}

func TestDoubleDeferSandwich_Panic(t *testing.T) {
	t.Parallel()

	var dds panicutil.DoubleDeferSandwich
	err := dds.Invoke(func() error {
		panic("boom")
	})
	if err == nil {
		t.Fatal("expected a recovered panic as an error")
	}
}

func TestDoubleDeferSandwich_Goexit(t *testing.T) {
	t.Parallel()

	var goexitSeen bool
	dds := panicutil.DoubleDeferSandwich{
		OnGoexit: func() {
			goexitSeen = true
		},
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = dds.Invoke(func() error {
			runtime.Goexit()
			return nil
		})
	}()
	wg.Wait()

	if !goexitSeen {
		t.Error("expected OnGoexit to be called")
	}
}
