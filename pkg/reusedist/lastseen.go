// Package reusedist is the reuse-distance histogram pipeline described as
// an external collaborator of the balanced ordered multiset engine: it
// drives a [github.com/flier/reusedist/pkg/treeset.Set] over (time, symbol)
// keys and turns the sequence of count_greater answers into a histogram.
package reusedist

import (
	"github.com/dolthub/maphash"

	"github.com/flier/reusedist/pkg/opt"
)

// lastSeen maps a symbol to the time it was last observed. It is a small
// open-addressing hash table rather than a plain Go map so the pipeline's
// hot loop (one lookup and one store per input element) avoids the
// interface-boxing a map[any]any would otherwise force when S is
// instantiated with a non-trivial symbol type; the hashing itself is
// grounded on the teacher's swiss-table style, via
// [maphash.Hasher.Hash], rather than the unsafe arena-backed slot layout
// that package builds on.
type lastSeen[S comparable] struct {
	hash  maphash.Hasher[S]
	slots []lastSeenSlot[S]
	used  int
}

type lastSeenSlot[S comparable] struct {
	key  S
	time int
	full bool
}

// newLastSeen creates an empty table sized for roughly hint live symbols.
func newLastSeen[S comparable](hint int) *lastSeen[S] {
	n := 16
	for n < hint*2 {
		n *= 2
	}
	return &lastSeen[S]{hash: maphash.NewHasher[S](), slots: make([]lastSeenSlot[S], n)}
}

// Get returns the last-seen time for key, if any.
func (m *lastSeen[S]) Get(key S) opt.Option[int] {
	for i := m.index(key); ; i = (i + 1) % len(m.slots) {
		slot := &m.slots[i]
		if !slot.full {
			return opt.None[int]()
		}
		if slot.key == key {
			return opt.Some(slot.time)
		}
	}
}

// Set records key as last seen at time.
func (m *lastSeen[S]) Set(key S, time int) {
	if (m.used+1)*2 > len(m.slots) {
		m.grow()
	}

	for i := m.index(key); ; i = (i + 1) % len(m.slots) {
		slot := &m.slots[i]
		if !slot.full {
			*slot = lastSeenSlot[S]{key: key, time: time, full: true}
			m.used++
			return
		}
		if slot.key == key {
			slot.time = time
			return
		}
	}
}

func (m *lastSeen[S]) index(key S) int {
	return int(m.hash.Hash(key) % uint64(len(m.slots)))
}

func (m *lastSeen[S]) grow() {
	old := m.slots
	m.slots = make([]lastSeenSlot[S], len(old)*2)
	m.used = 0
	for _, slot := range old {
		if slot.full {
			m.Set(slot.key, slot.time)
		}
	}
}
