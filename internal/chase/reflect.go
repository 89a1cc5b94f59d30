package chase

import (
	"github.com/categorist/chasekit/internal/ir"
	"github.com/categorist/chasekit/internal/theory"
)

// DefaultReflectRounds is the chain length of the reflector colimits.
const DefaultReflectRounds = 64

// FreeReflect builds the free model of a cartesian theory on a seed: run
// the theory as regular EDs (each unique axiom expanded into its existence
// TGD and uniqueness EGD) to the colimit of a fair chain, one parallel step
// per link. For cartesian theories the result is free: unique up to
// isomorphism and independent of scheduling.
//
// A non-cartesian theory is a caller error, reported as a NOT_CARTESIAN
// EngineError naming the first axiom without a unique witness.
func FreeReflect(th theory.RegularTheory, seed ir.Instance, opts ...EngineOption) (Result, error) {
	if !th.IsCartesian() {
		names := th.AxiomNames()
		for i, ed := range th.Axioms {
			if !ed.Unique {
				return Result{}, NewNotCartesianError(names[i])
			}
		}
	}
	e := New(theory.CartesianToRegular(th), opts...)
	res, err := e.ChaseToColimit(seed, ColimitOptions{Rounds: DefaultReflectRounds})
	if err != nil {
		return Result{}, err
	}
	// The expanded regular theory loses the unique flags, so the colimit
	// reports weakly-free; the cartesian precondition restores the full
	// guarantee.
	res.Freedom = FreedomFree
	return res, nil
}

// WeaklyFreeReflect builds a model of an arbitrary regular theory on a
// seed. The model exists but carries no uniqueness guarantee: a different
// schedule may produce a non-isomorphic one.
func WeaklyFreeReflect(th theory.RegularTheory, seed ir.Instance, opts ...EngineOption) (Result, error) {
	e := New(th, opts...)
	return e.ChaseToColimit(seed, ColimitOptions{Rounds: DefaultReflectRounds})
}
