// Package treap implements the randomized-priority balanced-tree backend
// for [github.com/flier/reusedist/pkg/treeset.Set]: a BST ordered on key
// with an independently-random priority on every node, kept in max-heap
// order by rotation. Randomization is what keeps the tree balanced in
// expectation without any case analysis on insert or remove.
package treap

import (
	"cmp"
	"fmt"
	"math/rand/v2"

	"github.com/flier/reusedist/pkg/arena"
	"github.com/flier/reusedist/pkg/res"
	"github.com/flier/reusedist/pkg/treeset"
)

// pathStep records one step of a root-to-node descent: the ancestor's
// handle and which child was taken to continue the descent. Kept in a
// reusable buffer on [Set] so neither Insert nor Remove allocates a path
// slice per call.
type pathStep struct {
	node arena.Handle
	dir  treeset.Direction
}

// Set is a treap-backed implementation of [treeset.Set].
//
// A Set is single-owner: see [treeset.Owner]. The zero Set is not ready to
// use; construct one with [New], [NewFunc], or [NewSeeded].
type Set[K any] struct {
	treeset.Owner

	arena   *arena.Arena[node[K]]
	root    arena.Handle
	compare func(a, b K) int
	rng     *rand.Rand // nil uses the package-level default source
	path    []pathStep
}

// New creates an empty Set over a type that satisfies [cmp.Ordered],
// ordered by [cmp.Compare]. Node priorities are drawn from the
// package-level default random source.
func New[K cmp.Ordered]() *Set[K] {
	return NewFunc[K](cmp.Compare[K])
}

// NewFunc creates an empty Set ordered by compare, for key types that
// don't satisfy [cmp.Ordered] directly — a composite key such as
// [github.com/flier/reusedist/pkg/tuple.Tuple2], ordered lexicographically
// by [github.com/flier/reusedist/pkg/tuple.Compare2], is the motivating
// case. compare must implement a total order consistent with K's equality.
func NewFunc[K any](compare func(a, b K) int) *Set[K] {
	return &Set[K]{arena: arena.New[node[K]](0), compare: compare}
}

// NewSeeded creates an empty Set over a [cmp.Ordered] type whose node
// priorities are drawn from a [rand.Rand] seeded deterministically from
// seed1 and seed2, so tests can reproduce a specific sequence of
// rotations.
func NewSeeded[K cmp.Ordered](seed1, seed2 uint64) *Set[K] {
	s := New[K]()
	s.rng = rand.New(rand.NewPCG(seed1, seed2))
	return s
}

func (s *Set[K]) nextPriority() uint64 {
	if s.rng != nil {
		return s.rng.Uint64()
	}
	return rand.Uint64()
}

func (s *Set[K]) sizeOf(h arena.Handle) uint32 {
	if h == arena.Null {
		return 0
	}
	return s.arena.Get(h).size
}

func (s *Set[K]) newNode(key K) arena.Handle {
	h := s.arena.Alloc()
	*s.arena.Get(h) = node[K]{key: key, priority: s.nextPriority(), size: 1}
	return h
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

// Insert adds key if it is not already present, reporting whether it was
// new. Descent records the root-to-insertion-point path in s.path; the new
// leaf is then rotated upward (spec.md §4.2) until its priority no longer
// exceeds its parent's, restoring heap order, bumping subtree_size on every
// node the rotation passes through or leaves behind.
func (s *Set[K]) Insert(key K) bool {
	s.Check()

	if s.root == arena.Null {
		s.root = s.newNode(key)
		return true
	}

	s.path = s.path[:0]
	cur := s.root
	for {
		n := s.arena.Get(cur)
		switch c := s.compare(key, n.key); {
		case c == 0:
			return false
		case c < 0:
			s.path = append(s.path, pathStep{cur, treeset.Left})
			if n.left == arena.Null {
				h := s.newNode(key)
				s.arena.Get(cur).left = h
				s.fixupAfterInsert(h)
				return true
			}
			cur = n.left
		default:
			s.path = append(s.path, pathStep{cur, treeset.Right})
			if n.right == arena.Null {
				h := s.newNode(key)
				s.arena.Get(cur).right = h
				s.fixupAfterInsert(h)
				return true
			}
			cur = n.right
		}
	}
}

// fixupAfterInsert walks s.path (root-to-parent-of-leaf) from its deepest
// entry back toward the root, rotating the newly-inserted leaf (named by
// cur, reassigned to each rotated-up handle as it climbs) past any ancestor
// whose priority it exceeds. Once an ancestor's priority is not exceeded,
// the remaining ancestors on the path each have exactly one key added to
// their subtree, so their subtree_size is bumped by one and the walk stops.
func (s *Set[K]) fixupAfterInsert(leaf arena.Handle) {
	cur := leaf

	i := len(s.path) - 1
	for ; i >= 0; i-- {
		step := s.path[i]
		parent := s.arena.Get(step.node)
		child := s.arena.Get(cur)

		if child.priority <= parent.priority {
			break
		}

		var newSub arena.Handle
		if step.dir == treeset.Left {
			newSub = s.rotateRight(step.node)
		} else {
			newSub = s.rotateLeft(step.node)
		}

		if i == 0 {
			s.root = newSub
		} else {
			gp := s.path[i-1]
			n := s.arena.Get(gp.node)
			if gp.dir == treeset.Left {
				n.left = newSub
			} else {
				n.right = newSub
			}
		}

		cur = newSub
	}

	for ; i >= 0; i-- {
		n := s.arena.Get(s.path[i].node)
		n.size++
	}
}

// Remove deletes key if present, reporting whether it was. The node is
// rotated down to a leaf (spec.md §4.2's delete, always promoting the
// higher-priority child so the heap property never breaks mid-rotation),
// then unlinked and freed; every true ancestor on the path loses one key
// from its subtree_size.
func (s *Set[K]) Remove(key K) bool {
	s.Check()

	s.path = s.path[:0]
	cur := s.root
	for cur != arena.Null {
		n := s.arena.Get(cur)
		c := s.compare(key, n.key)
		if c == 0 {
			break
		}
		if c < 0 {
			s.path = append(s.path, pathStep{cur, treeset.Left})
			cur = n.left
		} else {
			s.path = append(s.path, pathStep{cur, treeset.Right})
			cur = n.right
		}
	}
	if cur == arena.Null {
		return false
	}

	leaf := s.rotateDownToLeaf(cur)
	s.setTopLink(arena.Null)
	s.arena.Free(leaf)

	for _, step := range s.path {
		s.arena.Get(step.node).size--
	}
	return true
}

// setTopLink sets whichever link currently names the node being
// restructured: the root, if s.path is empty, or the recorded child of
// s.path's last ancestor.
func (s *Set[K]) setTopLink(h arena.Handle) {
	if len(s.path) == 0 {
		s.root = h
		return
	}

	top := s.path[len(s.path)-1]
	n := s.arena.Get(top.node)
	if top.dir == treeset.Left {
		n.left = h
	} else {
		n.right = h
	}
}

// rotateDownToLeaf repeatedly rotates h with whichever child has the
// higher priority until h has no children, appending each newly-promoted
// ancestor to s.path so the caller can both find h's final parent link and
// decrement every true ancestor's subtree_size afterward. Returns h itself
// (now a leaf).
func (s *Set[K]) rotateDownToLeaf(h arena.Handle) arena.Handle {
	for {
		n := s.arena.Get(h)
		left, right := n.left, n.right
		if left == arena.Null && right == arena.Null {
			return h
		}

		var newRoot arena.Handle
		var dir treeset.Direction
		switch {
		case left == arena.Null:
			newRoot, dir = s.rotateLeft(h), treeset.Left
		case right == arena.Null:
			newRoot, dir = s.rotateRight(h), treeset.Right
		case s.arena.Get(left).priority >= s.arena.Get(right).priority:
			newRoot, dir = s.rotateRight(h), treeset.Right
		default:
			newRoot, dir = s.rotateLeft(h), treeset.Left
		}

		s.setTopLink(newRoot)
		s.path = append(s.path, pathStep{newRoot, dir})
	}
}

// rotateLeft promotes x's right child to x's former position: y = x.right
// becomes the new subtree root, x becomes y's left child. Recomputes size
// on x (now a child) first, then y (the new root), and returns y.
func (s *Set[K]) rotateLeft(x arena.Handle) arena.Handle {
	xn := s.arena.Get(x)
	y := xn.right
	yn := s.arena.Get(y)

	xn.right = yn.left
	yn.left = x

	s.recomputeSize(x)
	s.recomputeSize(y)
	return y
}

// rotateRight promotes x's left child to x's former position: y = x.left
// becomes the new subtree root, x becomes y's right child. Recomputes size
// on x (now a child) first, then y (the new root), and returns y.
func (s *Set[K]) rotateRight(x arena.Handle) arena.Handle {
	xn := s.arena.Get(x)
	y := xn.left
	yn := s.arena.Get(y)

	xn.left = yn.right
	yn.right = x

	s.recomputeSize(x)
	s.recomputeSize(y)
	return y
}

func (s *Set[K]) recomputeSize(h arena.Handle) {
	n := s.arena.Get(h)
	n.size = 1 + s.sizeOf(n.left) + s.sizeOf(n.right)
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

// Validate reports whether every structural invariant currently holds.
func (s *Set[K]) Validate() bool {
	return s.Diagnose().UnwrapOr(treeset.Report{}).OK()
}

// Diagnose walks the tree once, checking BST order and heap order and
// recomputing every subtree_size to cross-check the stored value.
func (s *Set[K]) Diagnose() res.Result[treeset.Report] {
	s.Check()

	report := treeset.Report{
		BSTOrdered:            true,
		HeapOrdered:           true,
		NoRedRed:              true,
		BlackHeightUniform:    true,
		ParentLinksConsistent: true,
	}

	var prev *K
	visited := 0
	limit := s.arena.Cap() + 1

	var walk func(h arena.Handle, parentPriority uint64, hasParent bool) (uint32, error)
	walk = func(h arena.Handle, parentPriority uint64, hasParent bool) (uint32, error) {
		if h == arena.Null {
			return 0, nil
		}

		visited++
		if visited > limit {
			return 0, treeset.NewErrCorrupt("cycle detected while traversing")
		}

		n := s.arena.Get(h)

		if hasParent && n.priority >= parentPriority {
			report.HeapOrdered = false
		}

		leftSize, err := walk(n.left, n.priority, true)
		if err != nil {
			return 0, err
		}

		if prev != nil && s.compare(*prev, n.key) >= 0 {
			report.BSTOrdered = false
		}
		key := n.key
		prev = &key

		rightSize, err := walk(n.right, n.priority, true)
		if err != nil {
			return 0, err
		}

		size := 1 + leftSize + rightSize
		if size != n.size {
			return 0, treeset.NewErrCorrupt(
				fmt.Sprintf("size mismatch at key %v: stored %d, computed %d", n.key, n.size, size),
			)
		}
		return size, nil
	}

	if _, err := walk(s.root, 0, false); err != nil {
		return res.Err[treeset.Report](err)
	}
	return res.Ok(report)
}
