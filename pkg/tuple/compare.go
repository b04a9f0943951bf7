package tuple

import "cmp"

// Compare2 orders two Tuple2 values lexicographically: V0 first, V1 only
// as a tie-breaker. Returns a negative number, zero, or a positive number
// as a < b, a == b, or a > b, matching the convention of [cmp.Compare].
//
// This is the comparator the reuse-distance pipeline hands to a
// balanced-tree backend to order (time, symbol) keys: ties on time never
// occur in practice (each event has a distinct timestamp), but the
// tie-break on V1 keeps the order total regardless.
func Compare2[T0, T1 cmp.Ordered](a, b Tuple2[T0, T1]) int {
	if c := cmp.Compare(a.V0, b.V0); c != 0 {
		return c
	}
	return cmp.Compare(a.V1, b.V1)
}
