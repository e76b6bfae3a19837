package lazy

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestValueLoadsOnceUnderConcurrency(t *testing.T) {
	var calls atomic.Int32
	v := New("model", func() (string, error) {
		calls.Add(1)
		time.Sleep(10 * time.Millisecond)
		return "loaded", nil
	})

	if v.Loaded() {
		t.Fatalf("expected value to be unloaded before first Get")
	}

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := v.Get()
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if got != "loaded" {
				t.Errorf("unexpected value: %q", got)
			}
		}()
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Fatalf("expected exactly one load, got %d", calls.Load())
	}

	if !v.Loaded() {
		t.Fatalf("expected value to report loaded")
	}
}

func TestValueCachesLoadError(t *testing.T) {
	var calls atomic.Int32
	loadErr := errors.New("weights missing")
	v := New("model", func() (int, error) {
		calls.Add(1)
		return 0, loadErr
	})

	for range 3 {
		if _, err := v.Get(); !errors.Is(err, loadErr) {
			t.Fatalf("expected cached load error, got %v", err)
		}
	}

	if calls.Load() != 1 {
		t.Fatalf("expected failed load to be attempted once, got %d", calls.Load())
	}
}

func TestValueRecoversLoadPanic(t *testing.T) {
	v := New("tagger", func() (int, error) {
		panic("corrupt model")
	})

	if _, err := v.Get(); err == nil {
		t.Fatal("expected panic to surface as error")
	}
}

func TestReadyAndFailed(t *testing.T) {
	ready := Ready("ready", 7)
	if got, err := ready.Get(); err != nil || got != 7 {
		t.Fatalf("unexpected ready value: %v %v", got, err)
	}

	failed := Failed[int]("failed", errors.New("boom"))
	if _, err := failed.Get(); err == nil {
		t.Fatal("expected failed value to return error")
	}

	if failed.Name() != "failed" {
		t.Fatalf("unexpected name: %s", failed.Name())
	}
}
