package chase

import (
	"fmt"
	"log/slog"

	"github.com/categorist/chasekit/internal/ir"
)

// DefaultMaxSteps bounds ChaseRegular rounds. Theories with infinite free
// models never converge; the cap turns them into silent approximations.
const DefaultMaxSteps = 256

// Options configures ChaseRegular. The zero value means: standard
// (one-trigger) rounds, DefaultMaxSteps, rotate axiom priority every round,
// skip already-satisfied triggers.
type Options struct {
	// Parallel applies every detected trigger per round instead of the
	// first one.
	Parallel bool

	// MaxSteps caps the number of rounds. Zero means DefaultMaxSteps.
	MaxSteps int

	// FairnessRounds controls how often the standard chase rotates which
	// axiom's trigger fires first, so late axioms are not starved by a
	// productive early one. Zero means every round; negative disables
	// rotation.
	FairnessRounds int

	// FireSatisfied restores the historical behavior of firing triggers
	// whose obligation already factors through the instance. TGD firings
	// then mint duplicate witnesses every round, so only bounded runs
	// terminate.
	FireSatisfied bool
}

func (o Options) withDefaults() Options {
	if o.MaxSteps == 0 {
		o.MaxSteps = DefaultMaxSteps
	}
	return o
}

// ChaseRegular runs the standard or parallel chase from seed until no
// trigger fires, nothing changes structurally, or MaxSteps is hit. The seed
// is never mutated; the result is a fresh instance.
//
// A capped run returns the instance as of the cap without error; callers
// needing to distinguish convergence from capping should compare trace
// round counts against the cap.
func (e *Engine) ChaseRegular(seed ir.Instance, opts Options) (ir.Instance, error) {
	opts = opts.withDefaults()

	inst := ir.NewInstance(e.th.Sig).Union(seed)
	hash := inst.MustHash()

	for step := 0; step < opts.MaxSteps; step++ {
		triggers := e.detectTriggers(inst, opts.FireSatisfied)
		if len(triggers) == 0 {
			slog.Debug("chase converged", "step", step)
			return inst, nil
		}

		if !opts.Parallel {
			triggers = []Trigger{e.pickFair(triggers, step, opts.FairnessRounds)}
		}

		next, _, firings := e.applyRound(step, inst, triggers)
		if err := e.rec.RecordRound(step, next, firings); err != nil {
			return inst, fmt.Errorf("record round %d: %w", step, err)
		}

		nextHash := next.MustHash()
		if nextHash == hash {
			slog.Debug("chase stabilized", "step", step, "triggers", len(triggers))
			return next, nil
		}
		slog.Debug("chase round applied",
			"step", step,
			"triggers", len(triggers),
			"elements", next.ElementCount(),
			"tuples", next.TupleCount(),
		)
		inst, hash = next, nextHash
	}
	slog.Debug("chase capped", "max_steps", opts.MaxSteps)
	return inst, nil
}

// pickFair selects the round's single trigger for the standard chase,
// rotating the preferred axiom index so every axiom eventually leads.
func (e *Engine) pickFair(triggers []Trigger, step, fairnessRounds int) Trigger {
	if fairnessRounds < 0 || len(e.th.Axioms) == 0 {
		return triggers[0]
	}
	period := fairnessRounds
	if period == 0 {
		period = 1
	}
	offset := (step / period) % len(e.th.Axioms)
	for _, tr := range triggers {
		if tr.Axiom >= offset {
			return tr
		}
	}
	return triggers[0]
}
