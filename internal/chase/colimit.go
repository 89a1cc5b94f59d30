package chase

import (
	"fmt"

	"github.com/categorist/chasekit/internal/ir"
)

// Freedom states which universal-model guarantee a colimit result carries.
type Freedom string

const (
	// FreedomFree: the model is free - it exists and is unique up to
	// isomorphism. Guaranteed only for cartesian theories.
	FreedomFree Freedom = "free"

	// FreedomWeaklyFree: the model exists but without the uniqueness half
	// of the universal property.
	FreedomWeaklyFree Freedom = "weakly-free"
)

// DefaultColimitRounds bounds the colimit chain length.
const DefaultColimitRounds = 32

// ColimitOptions configures ChaseToColimit.
type ColimitOptions struct {
	// Rounds caps the chain length. Zero means DefaultColimitRounds.
	Rounds int

	// MaxStepsPerRound is the parallel-chase step budget per chain link.
	// Zero means one step per round.
	MaxStepsPerRound int
}

func (o ColimitOptions) withDefaults() ColimitOptions {
	if o.Rounds == 0 {
		o.Rounds = DefaultColimitRounds
	}
	if o.MaxStepsPerRound == 0 {
		o.MaxStepsPerRound = 1
	}
	return o
}

// Result pairs a chased model with its freedom guarantee.
type Result struct {
	Model   ir.Instance
	Freedom Freedom
}

// ChaseToColimit approximates the filtered colimit of a fair chase
// sequence: run a bounded chain of parallel rounds, stopping early when two
// consecutive links agree. Every link maps into its successor (an inclusion
// for TGD steps, the quotient map for EGD steps), so the colimit of the
// chain is its final link. Taking a pointwise union across the chain
// instead would resurrect elements an EGD quotient has already merged away.
func (e *Engine) ChaseToColimit(seed ir.Instance, opts ColimitOptions) (Result, error) {
	opts = opts.withDefaults()

	freedom := FreedomWeaklyFree
	if e.th.IsCartesian() {
		freedom = FreedomFree
	}

	current := ir.NewInstance(e.th.Sig).Union(seed)

	for round := 0; round < opts.Rounds; round++ {
		next, err := e.ChaseRegular(current, Options{
			Parallel: true,
			MaxSteps: opts.MaxStepsPerRound,
		})
		if err != nil {
			return Result{}, fmt.Errorf("colimit round %d: %w", round, err)
		}
		if next.Equal(current) {
			break
		}
		current = next
	}
	return Result{Model: current, Freedom: freedom}, nil
}
