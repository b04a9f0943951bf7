package rbtree

import (
	"github.com/flier/reusedist/internal/debug"
	"github.com/flier/reusedist/pkg/arena"
)

// colorBit is the MSB of the parent-and-color word (spec.md §4.3, §9
// "Bit-packing the color"). The arena's handles never reach this bit: a
// Handle is an index into a vector that cannot grow to 2^31 slots on any
// realistic workload, so stealing the MSB for color costs nothing.
const colorBit arena.Handle = 1 << 31

// node is the slot type stored in the arena backing a [Set]. Packing color
// into the parent handle saves a separate color field, so the node is key,
// parent-and-color, left, right and size (five fields rather than six),
// which is the whole point of the trick: better cache locality per node
// visited during a descent.
type node[K any] struct {
	key            K
	parentAndColor arena.Handle
	left, right    arena.Handle
	size           uint32
}

func (n *node[K]) parent() arena.Handle { return n.parentAndColor &^ colorBit }

func (n *node[K]) isRed() bool { return n.parentAndColor&colorBit != 0 }

// setParent preserves the color bit while replacing the parent handle.
func (n *node[K]) setParent(p arena.Handle) {
	debug.Assert(p&colorBit == 0, "parent handle %d collides with the packed color bit", p)

	n.parentAndColor = (n.parentAndColor & colorBit) | p
}

// setColor preserves the parent handle while replacing the color bit.
func (n *node[K]) setColor(red bool) {
	if red {
		n.parentAndColor |= colorBit
	} else {
		n.parentAndColor &^= colorBit
	}
}
