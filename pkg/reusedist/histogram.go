package reusedist

import (
	"cmp"
	"iter"

	"github.com/flier/reusedist/pkg/treeset"
	"github.com/flier/reusedist/pkg/treeset/rbtree"
	"github.com/flier/reusedist/pkg/treeset/treap"
	"github.com/flier/reusedist/pkg/tuple"
	"github.com/flier/reusedist/pkg/xiter"
)

// Compute drives the given balanced-tree backend over symbols, a sequence
// of accesses, and returns the reuse-distance histogram: for every access,
// the number of distinct symbols seen between it and that symbol's
// previous occurrence, or −1 if the symbol has not been seen before.
//
// The set tracks exactly one entry per currently-live symbol, keyed by
// (last-use time, symbol) and ordered lexicographically by
// [tuple.Compare2]. Reuse distance falls out of a single count_greater
// query against that entry: every other stored entry with a later time
// belongs to a distinct symbol used since, so the number of keys greater
// than (last-use time, symbol) is the reuse distance.
func Compute[S cmp.Ordered](backend treeset.Backend, symbols iter.Seq[S]) map[int]int {
	set := newOrderedSet[S](backend)
	last := newLastSeen[S](0)
	hist := make(map[int]int)

	for t, s := range xiter.Enumerate(symbols) {
		d := -1
		if lastTime := last.Get(s); lastTime.IsSome() {
			key := tuple.New2(lastTime.Unwrap(), s)
			d = set.CountGreater(key)
			set.Remove(key)
		}
		hist[d]++
		set.Insert(tuple.New2(t, s))
		last.Set(s, t)
	}

	return hist
}

func newOrderedSet[S cmp.Ordered](backend treeset.Backend) treeset.Set[tuple.Tuple2[int, S]] {
	compare := tuple.Compare2[int, S]
	switch backend {
	case treeset.RedBlack:
		return rbtree.NewFunc(compare)
	default:
		return treap.NewFunc(compare)
	}
}
