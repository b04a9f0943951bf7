// Package treeset defines the common surface shared by the two balanced
// ordered-multiset backends (treap and red-black tree) used to make
// reuse-distance computation tractable in a single streaming pass.
//
// Both backends answer the same order-statistic question — "how many keys
// in the set are strictly greater than K?" — in O(log N), and both are
// single-owner, single-threaded structures built on a [arena.Arena] of
// reusable node slots. See pkg/treeset/treap and pkg/treeset/rbtree for the
// two implementations.
package treeset

// Set is the balanced ordered multiset engine's public surface.
//
// K need not satisfy [cmp.Ordered] at the type level: both backends accept
// any key type alongside a three-way comparator supplied at construction
// (cmp.Compare for the common case, or something like
// [github.com/flier/reusedist/pkg/tuple.Compare2] for a composite key). K
// must still name a trivially-copyable shape, since it lives directly in
// an arena node slot — see [github.com/flier/reusedist/pkg/arena.New].
//
// Despite the name, a Set is actually a set, not a multiset: insert rejects
// duplicate keys. Every operation runs in amortized O(log N) and none of
// them report errors in normal use: a lookup miss or a duplicate insert is
// reported as false, and corruption is only detected by Validate.
type Set[K any] interface {
	// Len returns the number of distinct keys currently present.
	Len() int

	// Contains reports whether k was inserted and has not since been
	// removed.
	Contains(k K) bool

	// Insert adds k if it is not already present. It reports whether k was
	// new (false if k was already present, in which case the set is
	// unchanged).
	Insert(k K) bool

	// Remove deletes k if present. It reports whether k was present (false,
	// with no effect, if it was not).
	Remove(k K) bool

	// CountGreater returns the number of stored keys strictly greater than
	// k. k need not itself be present.
	CountGreater(k K) int

	// Validate reports whether every structural invariant of the backend
	// currently holds. Intended for tests and debug builds.
	Validate() bool
}

// Backend selects which balanced-tree implementation
// [github.com/flier/reusedist/pkg/reusedist.Compute] builds.
type Backend int

const (
	// Treap selects the randomized-priority backend (pkg/treeset/treap).
	Treap Backend = iota
	// RedBlack selects the deterministic-balance backend (pkg/treeset/rbtree).
	RedBlack
)

// String implements [fmt.Stringer].
func (b Backend) String() string {
	switch b {
	case Treap:
		return "treap"
	case RedBlack:
		return "rbtree"
	default:
		return "unknown"
	}
}
