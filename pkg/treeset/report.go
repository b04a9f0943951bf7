package treeset

import (
	"fmt"

	"github.com/flier/reusedist/internal/debug"
	"github.com/flier/reusedist/pkg/res"
	"github.com/flier/reusedist/pkg/xerrors"
)

// Report names which structural invariant, if any, failed during a
// [Diagnoser.Diagnose] call.
//
// Validate (the public-surface boolean check every [Set] exposes) is the
// AND of all applicable invariants; Report is the "for tests and debug
// builds" detail behind it described by spec.md's §4.4 Verifier.
type Report struct {
	// BSTOrdered is the BST-order invariant: in-order traversal yields
	// strictly ascending keys.
	BSTOrdered bool

	// HeapOrdered applies only to the treap backend: every non-root node
	// has priority strictly less than its parent's. A stored subtree_size
	// that differs from 1 + the sizes of its non-null children is not
	// reported here; Diagnose returns an [ErrCorrupt] error for it.
	HeapOrdered bool

	// NoRedRed applies only to the red-black backend: no red node has a
	// red child.
	NoRedRed bool

	// BlackHeightUniform applies only to the red-black backend: every
	// root-to-null path crosses the same number of black nodes.
	BlackHeightUniform bool

	// ParentLinksConsistent applies only to the red-black backend: every
	// non-root node's parent field names its actual parent.
	ParentLinksConsistent bool
}

// OK reports whether every invariant this Report tracks holds. A backend
// only sets the fields it applies to; unset (zero-value false) fields for
// invariants a backend doesn't carry are normalized to true by that
// backend's Diagnose before returning, so OK is always the correct AND.
func (r Report) OK() bool {
	return r.BSTOrdered && r.HeapOrdered && r.NoRedRed &&
		r.BlackHeightUniform && r.ParentLinksConsistent
}

// String implements [fmt.Stringer].
func (r Report) String() string {
	if r.OK() {
		return "Report{ok}"
	}
	return fmt.Sprintf(
		"Report{bst=%v heap=%v no-red-red=%v black-height=%v parent-links=%v}",
		r.BSTOrdered, r.HeapOrdered, r.NoRedRed, r.BlackHeightUniform, r.ParentLinksConsistent,
	)
}

// Diagnoser is implemented by both tree backends in addition to [Set], and
// gives tests and debug tooling the specific invariant that failed instead
// of just Validate's boolean AND.
type Diagnoser interface {
	// Diagnose runs every applicable structural check and returns a
	// Report, or an error if the set is too corrupted to traverse safely
	// (e.g. a cycle in the child pointers).
	Diagnose() res.Result[Report]
}

// ErrCorrupt is wrapped into the error of a [Diagnoser.Diagnose] result when
// traversal itself cannot complete safely (for example, a cycle was
// detected in the child pointers). Validate/Diagnose never attempt to
// repair this; per spec.md §7, corruption is a programming error. Stack
// captures the call stack at the point the corruption was detected: the
// Diagnose traversal that noticed it and that traversal's callers, not the
// earlier mutation that caused it.
type ErrCorrupt struct {
	Reason string
	Stack  string
}

// NewErrCorrupt builds an ErrCorrupt for reason, capturing the caller's
// stack. Both backends' Diagnose call this instead of constructing
// ErrCorrupt directly.
func NewErrCorrupt(reason string) *ErrCorrupt {
	return &ErrCorrupt{Reason: reason, Stack: debug.Stack(2)}
}

func (e *ErrCorrupt) Error() string {
	return fmt.Sprintf("reusedist: ordered set corrupted: %s", e.Reason)
}

// AsCorrupt extracts the *ErrCorrupt detail from a failed [Diagnoser.Diagnose]
// result, reporting false if err is nil or not an *ErrCorrupt.
func AsCorrupt(err error) (*ErrCorrupt, bool) {
	return xerrors.AsA[*ErrCorrupt](err)
}
