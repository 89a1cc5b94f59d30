package chase

import (
	"fmt"
	"log/slog"

	"github.com/categorist/chasekit/internal/ir"
)

// DefaultFastMaxRounds bounds the canonical fast parallel chase.
const DefaultFastMaxRounds = 128

// FastOptions configures FastParallel.
type FastOptions struct {
	// MaxRounds caps the number of parallel rounds. Zero means
	// DefaultFastMaxRounds.
	MaxRounds int

	// EGDCheckEvery is the round period of the EGD-satisfaction check.
	// Zero means every round.
	EGDCheckEvery int

	// StopWhenFinite enables the stabilization exit: stop once EGDs are
	// satisfied and the instance stopped growing. Disabled, the chase runs
	// until no trigger is active or MaxRounds is hit.
	StopWhenFinite bool
}

func (o FastOptions) withDefaults() FastOptions {
	if o.MaxRounds == 0 {
		o.MaxRounds = DefaultFastMaxRounds
	}
	if o.EGDCheckEvery == 0 {
		o.EGDCheckEvery = 1
	}
	return o
}

// FastParallel is the canonical fast parallel chase: parallel rounds with an
// early-exit oracle so rounds stop once the instance has visibly
// stabilized. Every EGDCheckEvery rounds it checks whether all EGDs are
// satisfied and, with StopWhenFinite, whether the instance stopped growing;
// it also exits as soon as the active trigger count drops to zero.
func (e *Engine) FastParallel(seed ir.Instance, opts FastOptions) (ir.Instance, error) {
	opts = opts.withDefaults()

	inst := ir.NewInstance(e.th.Sig).Union(seed)
	hash := inst.MustHash()

	for round := 0; round < opts.MaxRounds; round++ {
		triggers := e.detectTriggers(inst, false)
		if len(triggers) == 0 {
			slog.Debug("fast chase: no active triggers", "round", round)
			return inst, nil
		}

		next, _, firings := e.applyRound(round, inst, triggers)
		if err := e.rec.RecordRound(round, next, firings); err != nil {
			return inst, fmt.Errorf("record round %d: %w", round, err)
		}

		nextHash := next.MustHash()
		grew := nextHash != hash
		inst, hash = next, nextHash

		if round%opts.EGDCheckEvery == 0 && opts.StopWhenFinite {
			if !grew && e.egdsSatisfied(inst) {
				slog.Debug("fast chase stabilized", "round", round)
				return inst, nil
			}
		}
		if !grew {
			return inst, nil
		}
	}
	slog.Debug("fast chase capped", "max_rounds", opts.MaxRounds)
	return inst, nil
}

// egdsSatisfied reports whether no EGD has an unsatisfied trigger: every
// match of an equality-generating axiom already has its consequent
// equalities holding.
func (e *Engine) egdsSatisfied(inst ir.Instance) bool {
	for i, ed := range e.th.Axioms {
		if !ed.IsEGD() {
			continue
		}
		for _, env := range e.matchFront(inst, i) {
			if !e.isSatisfied(inst, ed, env) {
				return false
			}
		}
	}
	return true
}

// activeTriggerCount counts triggers whose obligation has not been
// discharged.
func (e *Engine) activeTriggerCount(inst ir.Instance) int {
	return len(e.detectTriggers(inst, false))
}
