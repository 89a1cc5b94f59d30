package chase

import (
	"fmt"
	"log/slog"

	"github.com/categorist/chasekit/internal/ir"
)

// SemiNaiveResult is the outcome of the semi-naive schedule: the final
// instance and the number of incremental rounds consumed after the
// unconditional seeding pass.
type SemiNaiveResult struct {
	I      ir.Instance
	Rounds int
}

// semiNaiveMaxRounds caps the incremental loop against theories that never
// stabilize.
const semiNaiveMaxRounds = 1024

// SemiNaive runs the semi-naive fast parallel chase. The schedule bounds
// re-matching cost by skipping triggers whose witnessing elements were
// already present before the last applied edit, split into a TGD phase and
// an inner EGD phase:
//
//  1. Fire every empty-front axiom once, unconditionally, to seed
//     initially required facts.
//  2. Outer loop: apply the TGD triggers not covered by the accumulated
//     TGD edit; none (beyond the first pass) means done.
//  3. Inner loop: apply EGD triggers not covered by the EGD edit until
//     exhausted. EGD progress also advances the TGD edit - equating
//     elements can expose new TGD matches.
//
// Rounds counts the parallel steps applied by phases 2 and 3.
func (e *Engine) SemiNaive(seed ir.Instance) (SemiNaiveResult, error) {
	inst := ir.NewInstance(e.th.Sig).Union(seed)

	// Seeding pass: empty-front axioms, all at once.
	var seedTriggers []Trigger
	for _, tr := range e.detectTriggers(inst, false) {
		if e.th.Axioms[tr.Axiom].HasEmptyFront() {
			seedTriggers = append(seedTriggers, tr)
		}
	}
	round := 0
	if len(seedTriggers) > 0 {
		next, _, firings := e.applyRound(round, inst, seedTriggers)
		if err := e.rec.RecordRound(round, next, firings); err != nil {
			return SemiNaiveResult{}, fmt.Errorf("record seeding round: %w", err)
		}
		inst = next
	}

	etgd := NewEdit(ir.NewInstance(e.th.Sig))
	eegd := NewEdit(ir.NewInstance(e.th.Sig))
	first := true
	rounds := 0

	for iter := 0; iter < semiNaiveMaxRounds; iter++ {
		tgdTriggers := e.newTriggers(inst, etgd, false)
		if len(tgdTriggers) == 0 && !first {
			break
		}
		if len(tgdTriggers) > 0 {
			round++
			rounds++
			next, image, firings := e.applyRound(round, inst, tgdTriggers)
			if err := e.rec.RecordRound(round, next, firings); err != nil {
				return SemiNaiveResult{}, fmt.Errorf("record tgd round: %w", err)
			}
			etgd = ComposeEdits(etgd, NewEdit(image))
			inst = next
			slog.Debug("semi-naive tgd step", "round", round, "triggers", len(tgdTriggers))
		}

		for {
			egdTriggers := e.newTriggers(inst, eegd, true)
			if len(egdTriggers) == 0 {
				break
			}
			round++
			rounds++
			next, image, firings := e.applyRound(round, inst, egdTriggers)
			if err := e.rec.RecordRound(round, next, firings); err != nil {
				return SemiNaiveResult{}, fmt.Errorf("record egd round: %w", err)
			}
			edit := NewEdit(image)
			etgd = ComposeEdits(etgd, edit)
			eegd = edit
			inst = next
			slog.Debug("semi-naive egd step", "round", round, "triggers", len(egdTriggers))
		}

		first = false
	}

	return SemiNaiveResult{I: inst, Rounds: rounds}, nil
}

// newTriggers collects the active triggers of the requested kind whose
// environments are not covered by the edit's image.
func (e *Engine) newTriggers(inst ir.Instance, edit Edit, egd bool) []Trigger {
	var out []Trigger
	for _, tr := range e.detectTriggers(inst, false) {
		ed := e.th.Axioms[tr.Axiom]
		if ed.IsEGD() != egd || ed.HasEmptyFront() {
			continue
		}
		if edit.Covers(ed, tr) {
			continue
		}
		out = append(out, tr)
	}
	return out
}
