// Package arena provides a growable pool of fixed-size node slots indexed
// by a small integer handle, with a free-list for recycling released slots.
//
// This is the NodeArena described by the balanced-tree engine: it owns all
// node memory for an ordered set and hands out stable handles that survive
// growth of the underlying slice. Unlike github.com/flier/goutil's own
// pkg/arena (an unsafe byte-pointer arena aimed at untyped allocation), this
// arena is a plain generic slice of T plus a free-list of indices — there is
// no pointer arithmetic and nothing to keep alive for the GC, because a
// *Arena[T] already keeps every slot reachable for as long as it is alive.
//
// # Usage
//
//	a := arena.New[node](0)
//	h := a.Alloc()
//	*a.Get(h) = node{key: 42}
//	// ...
//	a.Free(h)
package arena

import (
	"reflect"

	"github.com/flier/reusedist/internal/debug"
)

// Handle identifies a slot in an Arena. The zero Handle is reserved to mean
// "absent"; valid handles are always >= 1.
//
// Handles are stable across arena growth: slots never move once written, and
// a handle is only ever reused after the slot it names has been explicitly
// freed with [Arena.Free].
type Handle uint32

// Null is the reserved handle value meaning "no slot".
const Null Handle = 0

// Arena is a growable vector of T slots plus a free-list of recyclable
// handles.
//
// Invariants:
//   - every handle returned by [Arena.Alloc] is either fresh (extending
//     slots) or popped from the free-list;
//   - a freed handle must not be reachable from the owning data structure
//     when [Arena.Free] is called;
//   - Len() == len(slots) - len(free).
//
// The zero Arena is not ready to use; construct one with [New].
type Arena[T any] struct {
	slots []T
	free  []Handle
}

// New creates an empty Arena, optionally reserving capacity for hint slots.
//
// Panics if T's shape is not trivially-copyable (contains a pointer, map,
// slice, channel, or func) — node slots are expected to be small, flat
// values, and an arena of such a type would silently break handle stability
// across growth (a pointer inside a slot could alias freed or moved memory).
func New[T any](hint int) *Arena[T] {
	assertTriviallyCopyable[T]()

	a := &Arena[T]{}
	if hint > 0 {
		a.slots = make([]T, 0, hint)
	}

	return a
}

// Len returns the number of slots currently allocated (not freed).
func (a *Arena[T]) Len() int { return len(a.slots) - len(a.free) }

// Cap returns the number of slots backing this arena, freed or not.
func (a *Arena[T]) Cap() int { return len(a.slots) }

// Alloc reserves a slot and returns its handle.
//
// The contents of the returned slot are undefined (whatever was last stored
// there, if recycled, or the zero value, if fresh); the caller must
// initialize every field before publishing the handle into a tree.
func (a *Arena[T]) Alloc() Handle {
	if n := len(a.free); n > 0 {
		h := a.free[n-1]
		a.free = a.free[:n-1]

		debug.Log(nil, "alloc", "recycled handle %d", h)

		return h
	}

	if len(a.slots) == cap(a.slots) {
		a.grow()
	}

	var zero T
	a.slots = append(a.slots, zero)
	h := Handle(len(a.slots))

	debug.Log(nil, "alloc", "fresh handle %d (cap=%d)", h, cap(a.slots))

	return h
}

// Free recycles h, making it eligible to be returned by a future Alloc.
//
// The slot's contents are left as-is (no zeroing); the caller must not use h
// again, and must ensure nothing in the owning structure still references
// it.
func (a *Arena[T]) Free(h Handle) {
	debug.Assert(h != Null, "Free called with the null handle")

	a.free = append(a.free, h)

	debug.Log(nil, "free", "handle %d (%d free)", h, len(a.free))
}

// Get returns a pointer to the slot named by h.
//
// h must be a handle previously returned by Alloc and not yet freed; Get
// does not itself validate this (the tree backends are expected to only
// ever hold live handles).
func (a *Arena[T]) Get(h Handle) *T {
	debug.Assert(h != Null, "Get called with the null handle")

	return &a.slots[h-1]
}

// grow doubles the arena's capacity (minimum 1).
func (a *Arena[T]) grow() {
	newCap := max(1, cap(a.slots)*2)

	slots := make([]T, len(a.slots), newCap)
	copy(slots, a.slots)
	a.slots = slots

	debug.Log(nil, "grow", "cap=%d", newCap)
}

// assertTriviallyCopyable panics with a clear, non-recoverable message if T
// is not a small, flat, totally-copyable shape.
func assertTriviallyCopyable[T any]() {
	t := reflect.TypeFor[T]()

	if !isTriviallyCopyable(t) {
		panic("reusedist: arena.New[" + t.String() + "]: type contract violation: " +
			"node slot types must be trivially-copyable (no pointers, maps, slices, " +
			"channels, or funcs)")
	}
}

func isTriviallyCopyable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func,
		reflect.Interface, reflect.UnsafePointer:
		return false
	case reflect.Array:
		return isTriviallyCopyable(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !isTriviallyCopyable(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
