package reusedist

import (
	"iter"

	"github.com/flier/reusedist/internal/xsync"
)

// ComputeNaive is the O(N²) reference oracle: for every access, it scans
// backward to the symbol's previous occurrence (if any) and counts the
// distinct symbols seen in between by brute force. It exists purely to
// check [Compute] against (P7), never on the hot path.
func ComputeNaive[S comparable](symbols iter.Seq[S]) map[int]int {
	seq := make([]S, 0)
	for s := range symbols {
		seq = append(seq, s)
	}

	hist := make(map[int]int)
	for i, s := range seq {
		prev := -1
		for j := i - 1; j >= 0; j-- {
			if seq[j] == s {
				prev = j
				break
			}
		}

		d := -1
		if prev >= 0 {
			var between xsync.Set[S]
			for j := prev + 1; j < i; j++ {
				between.Store(seq[j])
			}
			d = 0
			for range between.All() {
				d++
			}
		}
		hist[d]++
	}

	return hist
}
