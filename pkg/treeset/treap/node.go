package treap

import "github.com/flier/reusedist/pkg/arena"

// node is the slot type stored in the arena backing a [Set]. It is
// trivially-copyable (no pointers, maps, or slices), as required by
// [arena.New]: children are named by [arena.Handle], not by Go pointer.
type node[K any] struct {
	key      K
	priority uint64
	size     uint32
	left     arena.Handle
	right    arena.Handle
}
