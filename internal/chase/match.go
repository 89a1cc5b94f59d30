package chase

import (
	"github.com/categorist/chasekit/internal/ir"
	"github.com/categorist/chasekit/internal/theory"
)

// Trigger witnesses that an axiom's antecedent matches the working instance:
// the axiom index plus an assignment of every forall variable to a concrete
// element. A trigger is valid only for the instance it was computed against
// and is recomputed after every instance-changing step.
type Trigger struct {
	Axiom int
	Env   map[string]ir.Value
}

// detectTriggers enumerates all triggers of every axiom against inst, in
// declaration order and deterministic assignment order. When fireSatisfied
// is false, triggers whose obligation already factors through the instance
// are filtered out.
//
// Matching is brute-force homomorphism search: worst-case exponential in the
// number of forall variables times carrier size. Acceptable because target
// theories and instances are small.
func (e *Engine) detectTriggers(inst ir.Instance, fireSatisfied bool) []Trigger {
	var out []Trigger
	for i, ed := range e.th.Axioms {
		for _, env := range e.matchFront(inst, i) {
			tr := Trigger{Axiom: i, Env: env}
			if !fireSatisfied && e.isSatisfied(inst, ed, env) {
				continue
			}
			out = append(out, tr)
		}
	}
	return out
}

// matchFront enumerates assignments of the axiom's frozen-front classes to
// elements of inst under which every antecedent relation atom is present.
// The returned environments cover all forall variables (class members share
// their representative's element).
func (e *Engine) matchFront(inst ir.Instance, axiom int) []map[string]ir.Value {
	f := e.fronts[axiom]
	ed := e.th.Axioms[axiom]

	var envs []map[string]ir.Value
	assignment := make(map[string]ir.Value, len(f.classes))

	var assign func(i int)
	assign = func(i int) {
		if i == len(f.classes) {
			if !frontHolds(inst, f.atoms, assignment) {
				return
			}
			env := make(map[string]ir.Value, len(ed.Forall))
			for _, v := range ed.Forall {
				env[v.Name] = assignment[f.rep[v.Name]]
			}
			envs = append(envs, env)
			return
		}
		class := f.classes[i]
		for _, v := range inst.Carrier(class.Sort).Values() {
			assignment[class.Name] = v
			assign(i + 1)
		}
		delete(assignment, class.Name)
	}
	assign(0)
	return envs
}

// frontHolds reports whether every atom's tuple is present under the
// assignment.
func frontHolds(inst ir.Instance, atoms []theory.RelAtom, assignment map[string]ir.Value) bool {
	for _, a := range atoms {
		tup := make(ir.Tuple, len(a.Args))
		for i, arg := range a.Args {
			v, ok := assignment[arg]
			if !ok {
				return false
			}
			tup[i] = v
		}
		if !inst.TupleSet(a.Rel).Has(tup) {
			return false
		}
	}
	return true
}

// isSatisfied is the factorization test: the trigger's obligation is already
// discharged when its front assignment extends to a homomorphism of the
// axiom's antecedent-and-consequent into the instance. For an EGD that means
// every consequent equality already holds; for a TGD it means some choice of
// existing elements for the existential variables realizes every consequent
// atom.
func (e *Engine) isSatisfied(inst ir.Instance, ed theory.ED, env map[string]ir.Value) bool {
	if ed.IsEGD() {
		for _, a := range ed.RHS {
			eq, ok := a.(theory.EqAtom)
			if !ok {
				continue
			}
			if !equalityHolds(ed, env, eq) {
				return false
			}
		}
		return true
	}
	return e.extendsToBack(inst, ed, env)
}

// extendsToBack searches for an assignment of the existential variables to
// existing elements under which the whole consequent holds.
func (e *Engine) extendsToBack(inst ir.Instance, ed theory.ED, env map[string]ir.Value) bool {
	ext := make(map[string]ir.Value, len(env)+len(ed.Exists))
	for k, v := range env {
		ext[k] = v
	}

	var search func(i int) bool
	search = func(i int) bool {
		if i == len(ed.Exists) {
			return backHolds(inst, ed, ext)
		}
		v := ed.Exists[i]
		for _, cand := range inst.Carrier(v.Sort).Values() {
			ext[v.Name] = cand
			if search(i + 1) {
				return true
			}
		}
		delete(ext, v.Name)
		return false
	}
	return search(0)
}

// backHolds checks every consequent atom under a full assignment.
func backHolds(inst ir.Instance, ed theory.ED, env map[string]ir.Value) bool {
	for _, a := range ed.RHS {
		switch at := a.(type) {
		case theory.RelAtom:
			tup := make(ir.Tuple, len(at.Args))
			for i, arg := range at.Args {
				v, ok := env[arg]
				if !ok {
					return false
				}
				tup[i] = v
			}
			if !inst.TupleSet(at.Rel).Has(tup) {
				return false
			}
		case theory.EqAtom:
			if !equalityHolds(ed, env, at) {
				return false
			}
		}
	}
	return true
}

// equalityHolds evaluates a consequent equality under env. Ill-typed
// equalities (mismatched sorts) are treated as holding, matching the step
// code that drops them silently.
func equalityHolds(ed theory.ED, env map[string]ir.Value, eq theory.EqAtom) bool {
	ls, lok := ed.VarSort(eq.L)
	rs, rok := ed.VarSort(eq.R)
	if !lok || !rok || ls != rs {
		return true
	}
	l, lok := env[eq.L]
	r, rok := env[eq.R]
	if !lok || !rok {
		return true
	}
	return ir.MustValueKey(l) == ir.MustValueKey(r)
}
