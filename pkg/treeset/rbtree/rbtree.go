// Package rbtree implements the deterministic-balance backend for
// [github.com/flier/reusedist/pkg/treeset.Set]: a canonical red-black tree
// with the color bit packed into the parent handle's MSB (spec.md §4.3,
// §9) and every insert/delete fix-up case parameterized on
// [treeset.Direction] so the left/right mirror images share one code path.
//
// Unlike the reference red-black source this is grounded on, nodes here
// also carry a subtree_size word maintained through every rotation and
// structural change, so CountGreater runs in O(log N) on this backend too
// (spec.md §4.3 implementation note, §9 "order-statistic augmentation").
package rbtree

import (
	"cmp"
	"fmt"

	"github.com/flier/reusedist/pkg/arena"
	"github.com/flier/reusedist/pkg/res"
	"github.com/flier/reusedist/pkg/treeset"
)

// Set is a red-black-tree-backed implementation of [treeset.Set].
//
// A Set is single-owner: see [treeset.Owner]. The zero Set is not ready to
// use; construct one with [New].
type Set[K any] struct {
	treeset.Owner

	arena   *arena.Arena[node[K]]
	root    arena.Handle
	compare func(a, b K) int
}

// New creates an empty Set over a type that satisfies [cmp.Ordered],
// ordered by [cmp.Compare].
func New[K cmp.Ordered]() *Set[K] {
	return NewFunc[K](cmp.Compare[K])
}

// NewFunc creates an empty Set ordered by compare, for key types that
// don't satisfy [cmp.Ordered] directly — see
// [github.com/flier/reusedist/pkg/treeset/treap.NewFunc] for the motivating
// composite-key case, which applies equally to this backend. compare must
// implement a total order consistent with K's equality.
func NewFunc[K any](compare func(a, b K) int) *Set[K] {
	return &Set[K]{arena: arena.New[node[K]](0), compare: compare}
}

func (s *Set[K]) sizeOf(h arena.Handle) uint32 {
	if h == arena.Null {
		return 0
	}
	return s.arena.Get(h).size
}

func (s *Set[K]) recomputeSize(h arena.Handle) {
	if h == arena.Null {
		return
	}
	n := s.arena.Get(h)
	n.size = 1 + s.sizeOf(n.left) + s.sizeOf(n.right)
}

func (s *Set[K]) parentOf(h arena.Handle) arena.Handle {
	if h == arena.Null {
		return arena.Null
	}
	return s.arena.Get(h).parent()
}

// isRed treats the null handle as black, matching the usual convention
// that every null child is an implicit black leaf.
func (s *Set[K]) isRed(h arena.Handle) bool {
	return h != arena.Null && s.arena.Get(h).isRed()
}

func (s *Set[K]) setRed(h arena.Handle, red bool) {
	s.arena.Get(h).setColor(red)
}

// childAt reads the dir-side child of h.
func (s *Set[K]) childAt(h arena.Handle, dir treeset.Direction) arena.Handle {
	n := s.arena.Get(h)
	if dir == treeset.Left {
		return n.left
	}
	return n.right
}

// directionOf reports which side of its parent h occupies. h must not be
// the root.
func (s *Set[K]) directionOf(h arena.Handle) treeset.Direction {
	p := s.arena.Get(h).parent()
	if s.arena.Get(p).left == h {
		return treeset.Left
	}
	return treeset.Right
}

func (s *Set[K]) newNode(key K, parent arena.Handle) arena.Handle {
	h := s.arena.Alloc()
	n := s.arena.Get(h)
	*n = node[K]{key: key, size: 1}
	n.setParent(parent)
	n.setColor(true) // every new node starts red

	return h
}

func (s *Set[K]) leftmost(h arena.Handle) arena.Handle {
	for {
		n := s.arena.Get(h)
		if n.left == arena.Null {
			return h
		}
		h = n.left
	}
}

// rotate performs a standard tree rotation at x, promoting x's
// dir.Reverse()-side child into x's former position — dir names the
// direction x moves towards, so rotate(x, Left) is the textbook "rotate
// left" that promotes x's right child. Parent pointers and both nodes'
// subtree_size are kept consistent; returns the handle that now occupies
// x's old position.
func (s *Set[K]) rotate(x arena.Handle, dir treeset.Direction) arena.Handle {
	xn := s.arena.Get(x)
	p := xn.parent()

	var y arena.Handle
	if dir == treeset.Left {
		y = xn.right
	} else {
		y = xn.left
	}
	yn := s.arena.Get(y)

	if dir == treeset.Left {
		xn.right = yn.left
		if yn.left != arena.Null {
			s.arena.Get(yn.left).setParent(x)
		}
		yn.left = x
	} else {
		xn.left = yn.right
		if yn.right != arena.Null {
			s.arena.Get(yn.right).setParent(x)
		}
		yn.right = x
	}

	xn.setParent(y)
	yn.setParent(p)

	if p == arena.Null {
		s.root = y
	} else {
		pn := s.arena.Get(p)
		if pn.left == x {
			pn.left = y
		} else {
			pn.right = y
		}
	}

	s.recomputeSize(x)
	s.recomputeSize(y)
	return y
}

// Len returns the number of distinct keys currently present.
func (s *Set[K]) Len() int {
	s.Check()
	return int(s.sizeOf(s.root))
}

// Contains reports whether k was inserted and has not since been removed.
func (s *Set[K]) Contains(key K) bool {
	s.Check()

	cur := s.root
	for cur != arena.Null {
		n := s.arena.Get(cur)
		switch c := s.compare(key, n.key); {
		case c == 0:
			return true
		case c < 0:
			cur = n.left
		default:
			cur = n.right
		}
	}
	return false
}

// CountGreater returns the number of stored keys strictly greater than key.
func (s *Set[K]) CountGreater(key K) int {
	s.Check()

	var count uint32
	cur := s.root
	for cur != arena.Null {
		n := s.arena.Get(cur)
		if s.compare(key, n.key) < 0 {
			count += 1 + s.sizeOf(n.right)
			cur = n.left
		} else {
			cur = n.right
		}
	}
	return int(count)
}

// Insert adds key if it is not already present, reporting whether it was
// new. The new node is always colored red (spec.md §4.3); insertFixup then
// restores the red-black invariants with at most two rotations.
func (s *Set[K]) Insert(key K) bool {
	s.Check()

	if s.root == arena.Null {
		h := s.newNode(key, arena.Null)
		s.setRed(h, false)
		s.root = h
		return true
	}

	cur := s.root
	var parent arena.Handle
	var dir treeset.Direction
	for cur != arena.Null {
		n := s.arena.Get(cur)
		switch c := s.compare(key, n.key); {
		case c == 0:
			return false
		case c < 0:
			parent, dir = cur, treeset.Left
			cur = n.left
		default:
			parent, dir = cur, treeset.Right
			cur = n.right
		}
	}

	h := s.newNode(key, parent)
	if dir == treeset.Left {
		s.arena.Get(parent).left = h
	} else {
		s.arena.Get(parent).right = h
	}

	for anc := parent; anc != arena.Null; anc = s.parentOf(anc) {
		s.arena.Get(anc).size++
	}

	s.insertFixup(h)
	return true
}

// insertFixup runs the standard red-black fix-up loop (spec.md §4.3): at
// each iteration p is cur's parent, g the grandparent, u the uncle.
func (s *Set[K]) insertFixup(cur arena.Handle) {
	for {
		p := s.parentOf(cur)
		if p == arena.Null {
			s.setRed(cur, false) // cur is the root
			return
		}
		if !s.isRed(p) {
			return
		}

		// p is red, so p cannot be the root (the root is always black),
		// which means g exists.
		g := s.parentOf(p)
		pDir := s.directionOf(p)
		uncle := s.childAt(g, pDir.Reverse())

		if s.isRed(uncle) {
			s.setRed(p, false)
			s.setRed(uncle, false)
			s.setRed(g, true)
			cur = g
			continue
		}

		// Uncle is black (possibly null). If cur is the inner grandchild
		// of g, rotate p toward the outer side so it becomes the outer
		// grandchild.
		if s.directionOf(cur) != pDir {
			s.rotate(p, pDir)
			cur, p = p, cur
		}

		// cur (possibly reassigned above) is now the outer grandchild;
		// rotate g toward the inner side and recolor.
		s.rotate(g, pDir.Reverse())
		s.setRed(p, false)
		s.setRed(g, true)
		return
	}
}

// Remove deletes key if present, reporting whether it was.
//
// If the located node has two children, its key is overwritten with its
// in-order successor's key and the successor (which has at most one child)
// is unlinked instead — observably identical to the structural swap
// spec.md §4.3 describes, since a Set never exposes node identity to
// callers, and considerably less error-prone to get right without a
// compiler to catch a dangling pointer. See DESIGN.md.
func (s *Set[K]) Remove(key K) bool {
	s.Check()

	target := s.root
	for target != arena.Null {
		n := s.arena.Get(target)
		c := s.compare(key, n.key)
		if c == 0 {
			break
		}
		if c < 0 {
			target = n.left
		} else {
			target = n.right
		}
	}
	if target == arena.Null {
		return false
	}

	y := target
	if yn := s.arena.Get(y); yn.left != arena.Null && yn.right != arena.Null {
		succ := s.leftmost(yn.right)
		s.arena.Get(y).key = s.arena.Get(succ).key
		y = succ
	}

	for anc := s.parentOf(y); anc != arena.Null; anc = s.parentOf(anc) {
		s.arena.Get(anc).size--
	}

	yn := s.arena.Get(y)
	x := yn.left
	if x == arena.Null {
		x = yn.right
	}
	p := yn.parent()
	red := yn.isRed()

	var dir treeset.Direction
	if p != arena.Null {
		dir = s.directionOf(y)
	}

	if p == arena.Null {
		s.root = x
	} else if dir == treeset.Left {
		s.arena.Get(p).left = x
	} else {
		s.arena.Get(p).right = x
	}
	if x != arena.Null {
		s.arena.Get(x).setParent(p)
	}

	switch {
	case red:
		// y was red, so it was a leaf (a red node always has two black
		// children of equal black-height, i.e. none, once it has at most
		// one child); nothing left to fix.
	case x != arena.Null:
		// y was black with one red child: recolor the child black.
		s.setRed(x, false)
	case p != arena.Null:
		// y was black with no children: the hard case.
		s.deleteFixup(p, dir)
	}

	s.arena.Free(y)
	return true
}

// deleteFixup restores the red-black invariants after unlinking a black
// leaf, leaving a "doubly-black" deficiency at p's dir-side child.
// Cases D3–D6 follow spec.md §4.3, naming the sibling sib, the close
// nephew c (sib's dir-side child, nearer the deficiency) and the distant
// nephew d (sib's other child).
func (s *Set[K]) deleteFixup(p arena.Handle, dir treeset.Direction) {
	for {
		sib := s.childAt(p, dir.Reverse())

		if s.isRed(sib) {
			// D3: rotate the red sibling up, swap its color with p's.
			s.rotate(p, dir)
			s.setRed(p, true)
			s.setRed(sib, false)
			sib = s.childAt(p, dir.Reverse())
		}

		c := s.childAt(sib, dir)
		d := s.childAt(sib, dir.Reverse())

		if s.isRed(d) {
			// D6: the distant nephew is red.
			s.rotate(p, dir)
			s.setRed(sib, s.isRed(p))
			s.setRed(p, false)
			s.setRed(d, false)
			return
		}

		if s.isRed(c) {
			// D5: the close nephew is red, distant is black — rotate it
			// into the distant position and fall into D6.
			s.rotate(sib, dir.Reverse())
			s.setRed(c, false)
			s.setRed(sib, true)
			sib, d = c, sib

			s.rotate(p, dir)
			s.setRed(sib, s.isRed(p))
			s.setRed(p, false)
			s.setRed(d, false)
			return
		}

		if s.isRed(p) {
			// D4: sibling and both nephews black, p red.
			s.setRed(p, false)
			s.setRed(sib, true)
			return
		}

		// All four (p, sib, c, d) are black: recolor sib red and move the
		// deficiency up one level.
		s.setRed(sib, true)
		if s.parentOf(p) == arena.Null {
			return
		}
		dir = s.directionOf(p)
		p = s.parentOf(p)
	}
}

// Validate reports whether every structural invariant currently holds.
func (s *Set[K]) Validate() bool {
	return s.Diagnose().UnwrapOr(treeset.Report{}).OK()
}

// Diagnose walks the tree once, checking BST order, the no-red-red and
// uniform-black-height invariants, parent-pointer consistency, and
// recomputes every subtree_size to cross-check the stored value.
func (s *Set[K]) Diagnose() res.Result[treeset.Report] {
	s.Check()

	report := treeset.Report{
		BSTOrdered:            true,
		HeapOrdered:           true, // not applicable to this backend
		NoRedRed:              true,
		BlackHeightUniform:    true,
		ParentLinksConsistent: true,
	}

	var prev *K
	visited := 0
	limit := s.arena.Cap() + 1

	var walk func(h, parent arena.Handle) (size uint32, blackHeight int, err error)
	walk = func(h, parent arena.Handle) (uint32, int, error) {
		if h == arena.Null {
			return 0, 0, nil
		}

		visited++
		if visited > limit {
			return 0, 0, treeset.NewErrCorrupt("cycle detected while traversing")
		}

		n := s.arena.Get(h)

		if n.parent() != parent {
			report.ParentLinksConsistent = false
		}
		if n.isRed() && (s.isRed(n.left) || s.isRed(n.right)) {
			report.NoRedRed = false
		}

		leftSize, leftBH, err := walk(n.left, h)
		if err != nil {
			return 0, 0, err
		}

		if prev != nil && s.compare(*prev, n.key) >= 0 {
			report.BSTOrdered = false
		}
		key := n.key
		prev = &key

		rightSize, rightBH, err := walk(n.right, h)
		if err != nil {
			return 0, 0, err
		}

		if leftBH != rightBH {
			report.BlackHeightUniform = false
		}

		size := 1 + leftSize + rightSize
		if size != n.size {
			return 0, 0, treeset.NewErrCorrupt(
				fmt.Sprintf("size mismatch at key %v: stored %d, computed %d", n.key, n.size, size),
			)
		}

		bh := leftBH
		if !n.isRed() {
			bh++
		}
		return size, bh, nil
	}

	if _, _, err := walk(s.root, arena.Null); err != nil {
		return res.Err[treeset.Report](err)
	}
	return res.Ok(report)
}
