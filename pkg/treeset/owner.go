package treeset

import (
	"github.com/timandy/routine"

	"github.com/flier/reusedist/internal/debug"
)

// Owner records which goroutine first touched a Set and, in debug builds,
// asserts that every later call happens on that same goroutine.
//
// Both tree backends are single-owner, single-threaded structures: nothing
// in them synchronizes access, so a second goroutine calling in concurrently
// is a programming error rather than a race to be made safe. Owner turns
// that mistake into an immediate panic naming both goroutine ids instead of
// a torn node discovered much later. It costs nothing in release builds,
// where [debug.Enabled] is false and Check is a no-op.
//
// The zero Owner is ready to use; embed it in a backend's Set.
type Owner struct {
	goid int64
	set  bool
}

// Check asserts that the calling goroutine is the one that made the first
// Check call, establishing ownership on that first call.
func (o *Owner) Check() {
	if !debug.Enabled {
		return
	}

	id := routine.Goid()
	if !o.set {
		o.goid = id
		o.set = true
		return
	}

	debug.Assert(o.goid == id, "ordered set accessed from goroutine %d, owned by %d", id, o.goid)
}
