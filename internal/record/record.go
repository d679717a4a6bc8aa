// Package record is a heterogeneous per-stylesheet store.
//
// Every feature allocates its own Key once, at package initialization, and
// keeps its private state under that key on each Meta. The store has no
// central schema: adding a feature never touches this package.
package record

import (
	"fmt"
	"sync/atomic"
)

var nextKeyID atomic.Uint64

// Key is an opaque, type-tagged slot identifier. Two calls to NewKey never
// return equal keys, even with the same name.
type Key[T any] struct {
	id   uint64
	name string
}

// NewKey issues a fresh key. The name only appears in panic messages.
func NewKey[T any](name string) Key[T] {
	return Key[T]{id: nextKeyID.Add(1), name: name}
}

// Name returns the debug name given to NewKey.
func (k Key[T]) Name() string { return k.name }

// Record holds the slots of one compilation unit. The zero value is ready to use.
// Not synchronized: a Record is owned by whoever owns its Meta.
type Record struct {
	slots map[uint64]any
}

// New returns an empty record.
func New() *Record {
	return &Record{slots: make(map[uint64]any)}
}

// Set stores v under k, replacing any previous value.
func Set[T any](r *Record, k Key[T], v T) {
	if k.id == 0 {
		panic("record: zero Key, use NewKey")
	}
	if r.slots == nil {
		r.slots = make(map[uint64]any)
	}
	r.slots[k.id] = v
}

// Get returns the value stored under k.
func Get[T any](r *Record, k Key[T]) (T, bool) {
	var zero T
	if r == nil || r.slots == nil {
		return zero, false
	}
	raw, ok := r.slots[k.id]
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// MustGet returns the value stored under k and panics when the slot was never
// initialized. Reading an unset slot means a feature hook ran before its
// AnalyzeInit, which is a compiler bug rather than a user error.
func MustGet[T any](r *Record, k Key[T]) T {
	v, ok := Get(r, k)
	if !ok {
		panic(fmt.Sprintf("record: slot %q read before initialization", k.name))
	}
	return v
}

// Has reports whether k has been set on r.
func Has[T any](r *Record, k Key[T]) bool {
	_, ok := Get(r, k)
	return ok
}
