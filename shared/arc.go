// Package shared provides an atomically reference-counted handle for
// immutable style data that is shared across selector maps, rule
// collectors and worker goroutines.
//
// Go's garbage collector performs the actual deallocation; the explicit
// counter exists for the uniqueness checks behind GetMut/MakeMut, for a
// deterministic drop point (the optional drop hook fires exactly once,
// when the last handle is released), and so that rule storage can assert
// it is not leaking handles.
package shared

import "sync/atomic"

// MaxRefCount is a soft limit on the reference count. It is practically
// unreachable and exists to catch leak-driven counter growth before it
// can wrap.
const MaxRefCount = int64(1) << 40

type inner[T any] struct {
	count  atomic.Int64
	onDrop func(*T)
	value  *T
}

// Arc is a cheaply clonable handle to a shared immutable value.
// The zero Arc is invalid; use New.
type Arc[T any] struct {
	inner *inner[T]
}

// New allocates a value and returns the first handle to it.
func New[T any](value T) Arc[T] {
	in := &inner[T]{value: &value}
	in.count.Store(1)
	return Arc[T]{inner: in}
}

// NewWithDrop is like New but registers a hook that runs when the last
// handle is released.
func NewWithDrop[T any](value T, onDrop func(*T)) Arc[T] {
	a := New(value)
	a.inner.onDrop = onDrop
	return a
}

// Clone returns a new handle to the same value.
//
// The increment can use relaxed ordering semantics because it only ever
// happens through an already-valid handle; Go's atomics are sequentially
// consistent, which is strictly stronger.
func (a Arc[T]) Clone() Arc[T] {
	if a.inner == nil {
		panic("shared: Clone of zero Arc")
	}
	if n := a.inner.count.Add(1); n > MaxRefCount {
		panic("shared: reference count overflow")
	} else if n <= 1 {
		panic("shared: Clone of released Arc")
	}
	return a
}

// Get returns the shared value. Callers must treat it as immutable
// unless they obtained it through GetMut or MakeMut.
func (a Arc[T]) Get() *T {
	return a.inner.value
}

// Release drops this handle. When the count reaches zero the drop hook
// (if any) runs and the value pointer is severed so that the data
// becomes collectable even if the Arc struct itself is still reachable.
func (a Arc[T]) Release() {
	if a.inner == nil {
		return
	}
	n := a.inner.count.Add(-1)
	if n < 0 {
		panic("shared: Release of already-released Arc")
	}
	if n == 0 {
		// All other handles are gone, so every write made through them
		// happened before this load. With Go's seq-cst atomics the
		// required acquire-before-drop pairing holds.
		v := a.inner.value
		a.inner.value = nil
		if a.inner.onDrop != nil {
			a.inner.onDrop(v)
		}
	}
}

// GetMut returns mutable access to the value, but only when this is
// provably the only handle. Uniqueness is a local invariant once
// established: no other goroutine can be incrementing a count of 1.
func (a Arc[T]) GetMut() (*T, bool) {
	if a.inner.count.Load() == 1 {
		return a.inner.value, true
	}
	return nil, false
}

// MakeMut returns a mutable value, cloning the underlying data first if
// the handle is shared. The receiver is updated in place to point at
// the (possibly new) unique allocation.
func (a *Arc[T]) MakeMut() *T {
	if v, ok := a.GetMut(); ok {
		return v
	}
	fresh := New(*a.inner.value)
	fresh.inner.onDrop = a.inner.onDrop
	a.Release()
	*a = fresh
	return fresh.inner.value
}

// PtrEq reports whether two handles refer to the same allocation.
// It compares identity, never content.
func (a Arc[T]) PtrEq(b Arc[T]) bool {
	return a.inner == b.inner
}

// RefCount returns the current reference count. Racy by nature; only
// useful for tests and diagnostics.
func (a Arc[T]) RefCount() int64 {
	if a.inner == nil {
		return 0
	}
	return a.inner.count.Load()
}

// IsZero reports whether this is the zero (invalid) handle.
func (a Arc[T]) IsZero() bool {
	return a.inner == nil
}
