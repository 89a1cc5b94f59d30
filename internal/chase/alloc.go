package chase

import "github.com/categorist/chasekit/internal/ir"

// WitnessAlloc mints witness elements for TGD steps. Counters are monotonic
// per (existential variable, sort) pair, so allocation is deterministic
// within a run and two distinct mints can never collide - unlike the random
// identifiers this replaces.
//
// Not safe for concurrent use; the chase loop is single-threaded.
type WitnessAlloc struct {
	next map[string]int64
}

// NewWitnessAlloc returns an allocator with all counters at zero.
func NewWitnessAlloc() *WitnessAlloc {
	return &WitnessAlloc{next: make(map[string]int64)}
}

// Mint returns a fresh witness for the existential variable and sort.
func (a *WitnessAlloc) Mint(existential, sort string) ir.Witness {
	key := existential + "\x00" + sort
	n := a.next[key]
	a.next[key] = n + 1
	return ir.Witness{Existential: existential, Sort: sort, N: n}
}
