package chase

import (
	"log/slog"

	"github.com/categorist/chasekit/internal/ir"
	"github.com/categorist/chasekit/internal/theory"
)

// Engine runs chase strategies for one theory. It holds the theory, the
// precomputed frozen instances of every axiom, the witness allocator, and
// the trace recorder. Engines are cheap to construct and single-threaded;
// construct one per run when witness numbering must start fresh.
type Engine struct {
	th     theory.RegularTheory
	names  []string
	fronts []frozenFront
	backs  []frozenBack
	alloc  *WitnessAlloc
	rec    Recorder
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRecorder directs round-by-round trace records to rec.
// The default recorder discards everything.
func WithRecorder(rec Recorder) EngineOption {
	return func(e *Engine) {
		e.rec = rec
	}
}

// WithAllocator replaces the witness allocator. Useful for resuming a run
// with witness numbering continued from a previous engine.
func WithAllocator(alloc *WitnessAlloc) EngineOption {
	return func(e *Engine) {
		e.alloc = alloc
	}
}

// New creates an Engine for a theory. The axiom list is evaluated in
// declaration order everywhere; the order is captured at construction and
// never changes.
func New(th theory.RegularTheory, opts ...EngineOption) *Engine {
	e := &Engine{
		th:    th,
		names: th.AxiomNames(),
		alloc: NewWitnessAlloc(),
		rec:   NopRecorder{},
	}
	for _, ed := range th.Axioms {
		e.fronts = append(e.fronts, freezeFront(ed))
		e.backs = append(e.backs, freezeBack(ed))
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Theory returns the engine's theory.
func (e *Engine) Theory() theory.RegularTheory {
	return e.th
}

// applyRound applies a batch of triggers against the shared pre-round
// snapshot, accumulating into one instance: TGD triggers first, in order,
// each minting fresh witnesses and adding consequent tuples; then a single
// union-find quotient seeded with every EGD trigger's consequent
// equalities. This is sequential application with shared starting state,
// not a true simultaneous pushout.
//
// Returns the new instance, the image of the pre-round instance inside it
// (the pre-round content pushed through the quotient), and the firing
// records for the trace.
func (e *Engine) applyRound(round int, pre ir.Instance, triggers []Trigger) (ir.Instance, ir.Instance, []Firing) {
	acc := pre
	uf := newUnionFind()
	quotiented := false
	firings := make([]Firing, 0, len(triggers))

	for _, tr := range triggers {
		ed := e.th.Axioms[tr.Axiom]
		kind := KindTGD
		if ed.IsEGD() {
			kind = KindEGD
			e.seedEqualities(uf, ed, tr.Env)
			quotiented = true
		} else {
			acc = e.applyTGD(acc, tr)
		}
		firings = append(firings, Firing{
			Round:   round,
			Axiom:   e.names[tr.Axiom],
			Kind:    kind,
			EnvHash: mustEnvHash(tr.Env),
		})
	}

	image := pre
	if quotiented {
		acc = e.quotient(acc, uf)
		image = e.quotient(pre, uf)
	}
	return acc, image, firings
}

// applyTGD fires one tuple-generating trigger: one fresh witness per
// existential class, consequent tuples added under the extended
// environment, deduplicated by the tuple sets.
func (e *Engine) applyTGD(inst ir.Instance, tr Trigger) ir.Instance {
	back := e.backs[tr.Axiom]

	env := make(map[string]ir.Value, len(tr.Env)+len(back.existsRep))
	for k, v := range tr.Env {
		env[k] = v
	}
	out := inst
	for _, class := range back.existsClasses {
		w := e.alloc.Mint(class.Name, class.Sort)
		env[class.Name] = w
		out = out.WithElement(class.Sort, w)
	}
	for v, root := range back.existsRep {
		if val, ok := env[root]; ok {
			env[v] = val
		}
	}

	for _, a := range back.relAtoms {
		tup := make(ir.Tuple, len(a.Args))
		complete := true
		for i, arg := range a.Args {
			val, ok := env[arg]
			if !ok {
				complete = false
				break
			}
			tup[i] = val
		}
		if complete {
			out = out.WithTuple(a.Rel, tup)
		}
	}
	return out
}

// seedEqualities unions the elements equated by an EGD trigger. Ill-typed
// equality atoms are dropped silently.
func (e *Engine) seedEqualities(uf *unionFind, ed theory.ED, env map[string]ir.Value) {
	for _, a := range ed.RHS {
		eq, ok := a.(theory.EqAtom)
		if !ok {
			continue
		}
		ls, lok := ed.VarSort(eq.L)
		rs, rok := ed.VarSort(eq.R)
		if !lok || !rok || ls != rs {
			slog.Debug("dropping ill-typed equality atom",
				"axiom", ed.Name,
				"left", eq.L,
				"right", eq.R,
			)
			continue
		}
		l, lok := env[eq.L]
		r, rok := env[eq.R]
		if lok && rok {
			uf.union(l, r)
		}
	}
}

// quotient rewrites every carrier and relation tuple to union-find class
// representatives, deduplicating as it goes.
func (e *Engine) quotient(inst ir.Instance, uf *unionFind) ir.Instance {
	out := ir.NewInstance(e.th.Sig)
	for _, sort := range inst.Sorts() {
		for _, v := range inst.Carrier(sort).Values() {
			out = out.WithElement(sort, uf.rep(v))
		}
	}
	for _, rel := range inst.Relations() {
		for _, tup := range inst.TupleSet(rel).Tuples() {
			mapped := make(ir.Tuple, len(tup))
			for i, v := range tup {
				mapped[i] = uf.rep(v)
			}
			out = out.WithTuple(rel, mapped)
		}
	}
	return out
}

func mustEnvHash(env map[string]ir.Value) string {
	h, err := ir.EnvHash(env)
	if err != nil {
		panic(err)
	}
	return h
}
