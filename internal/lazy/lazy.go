// Package lazy provides process-wide values that are built on first use.
package lazy

import (
	"fmt"
	"sync"
)

// Value holds a T that is loaded at most once. Concurrent first callers block on
// the same load; later callers get the cached value or the cached load error.
type Value[T any] struct {
	name string
	load func() (T, error)

	mu     sync.Mutex
	done   bool
	value  T
	err    error
	loaded chan struct{}
}

// New returns a Value that calls load on first Get.
func New[T any](name string, load func() (T, error)) *Value[T] {
	return &Value[T]{name: name, load: load, loaded: make(chan struct{})}
}

// Get returns the loaded value, loading it if this is the first call.
func (v *Value[T]) Get() (T, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.done {
		return v.value, v.err
	}

	v.value, v.err = v.safeLoad()
	v.done = true
	close(v.loaded)

	return v.value, v.err
}

// Loaded reports whether a load attempt has finished, successfully or not.
func (v *Value[T]) Loaded() bool {
	select {
	case <-v.loaded:
		return true
	default:
		return false
	}
}

// Name returns the name the value was registered with.
func (v *Value[T]) Name() string {
	return v.name
}

func (v *Value[T]) safeLoad() (value T, err error) {
	if v.load == nil {
		return value, fmt.Errorf("%s: no loader configured", v.name)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: load panicked: %v", v.name, r)
		}
	}()

	return v.load()
}

// Ready returns a Value that is already loaded with value.
func Ready[T any](name string, value T) *Value[T] {
	v := New(name, func() (T, error) { return value, nil })
	_, _ = v.Get()
	return v
}

// Failed returns a Value whose load always reports err.
func Failed[T any](name string, err error) *Value[T] {
	v := New(name, func() (T, error) {
		var zero T
		return zero, err
	})
	_, _ = v.Get()
	return v
}
