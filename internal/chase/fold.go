package chase

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/categorist/chasekit/internal/ir"
)

// Renaming maps the canonical key of every inspected element to its
// surviving representative. Representatives map to themselves.
type Renaming map[string]ir.Value

// Representative resolves v through the renaming (v itself when absent).
func (r Renaming) Representative(v ir.Value) ir.Value {
	if rep, ok := r[ir.MustValueKey(v)]; ok {
		return rep
	}
	return v
}

// compose chains r with a later renaming: first r, then next.
func (r Renaming) compose(next Renaming) Renaming {
	out := make(Renaming, len(r)+len(next))
	for k, v := range r {
		out[k] = next.Representative(v)
	}
	for k, v := range next {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}

// Protected is the set of elements the fold must keep as representatives,
// keyed by sort then canonical value key.
type Protected map[string]map[string]bool

// has reports whether the element is protected in the sort.
func (p Protected) has(srt, key string) bool {
	return p[srt][key]
}

// ProtectSorts protects every element the instance currently holds in the
// listed sorts. This is how a caller fences its seed data off from the fold.
func ProtectSorts(inst ir.Instance, sorts []string) Protected {
	p := make(Protected, len(sorts))
	for _, srt := range sorts {
		set := make(map[string]bool)
		for _, v := range inst.Carrier(srt).Values() {
			set[ir.MustValueKey(v)] = true
		}
		p[srt] = set
	}
	return p
}

// foldMaxPasses caps the fold fixpoint loop. Each pass strictly shrinks the
// instance, so the cap is only a guard against bugs.
const foldMaxPasses = 64

// FoldDuplicatesByLocalProfile merges elements that are locally
// indistinguishable: same sort, and the same one-hop participation profile,
// where a profile entry is (relation, argument position, the containing
// tuple with the element's own occurrences masked out). Two fresh witnesses
// minted by repeated firings of the same trigger have identical profiles
// and fold into one; elements with any differing neighbor do not.
//
// Merging can make further elements indistinguishable, so the pass repeats
// until nothing changes. The returned instance is therefore a fixpoint and
// folding it again is the identity.
//
// Protected elements always survive as representatives. An unprotected
// element folding into a protected group maps onto the group's first
// protected member; protected members never fold into each other.
//
// This is cheap canonicalization by local profile, not a graph-theoretic
// core computation: elements that are distinguishable one hop out but
// equivalent globally stay separate.
func FoldDuplicatesByLocalProfile(inst ir.Instance, protected Protected) (ir.Instance, Renaming) {
	renaming := make(Renaming)
	cur := inst
	for pass := 0; pass < foldMaxPasses; pass++ {
		next, step, changed := foldOnce(cur, protected)
		renaming = renaming.compose(step)
		if !changed {
			return next, renaming
		}
		cur = next
	}
	return cur, renaming
}

// FoldUnderSeed folds the instance while protecting everything it holds in
// the seed sorts, so caller-supplied data is never merged away.
func FoldUnderSeed(inst ir.Instance, seedSorts []string) (ir.Instance, Renaming) {
	return FoldDuplicatesByLocalProfile(inst, ProtectSorts(inst, seedSorts))
}

// foldOnce performs a single grouping-and-merge pass.
func foldOnce(inst ir.Instance, protected Protected) (ir.Instance, Renaming, bool) {
	profiles := localProfiles(inst)
	renaming := make(Renaming)
	changed := false

	for _, srt := range inst.Sorts() {
		groups := make(map[string][]ir.Value)
		var order []string
		for _, v := range inst.Carrier(srt).Values() {
			h := profiles[ir.MustValueKey(v)]
			if _, seen := groups[h]; !seen {
				order = append(order, h)
			}
			groups[h] = append(groups[h], v)
		}
		for _, h := range order {
			members := groups[h]
			if foldGroup(srt, members, protected, renaming) {
				changed = true
			}
		}
	}

	if !changed {
		return inst, renaming, false
	}
	return rewrite(inst, renaming), renaming, true
}

// foldGroup records the renaming for one (sort, profile) group. Members
// arrive in canonical key order. Returns whether anything actually merged.
func foldGroup(srt string, members []ir.Value, protected Protected, renaming Renaming) bool {
	var shielded, open []ir.Value
	for _, v := range members {
		if protected.has(srt, ir.MustValueKey(v)) {
			shielded = append(shielded, v)
		} else {
			open = append(open, v)
		}
	}
	for _, v := range shielded {
		renaming[ir.MustValueKey(v)] = v
	}

	if len(open) == 0 {
		return false
	}
	var rep ir.Value
	if len(shielded) > 0 {
		rep = shielded[0]
	} else {
		rep = open[0]
		repKey := ir.MustValueKey(rep)
		for _, v := range open[1:] {
			k := ir.MustValueKey(v)
			if preferKey(k, v, repKey, rep) {
				rep, repKey = v, k
			}
		}
	}
	merged := false
	repKey := ir.MustValueKey(rep)
	for _, v := range open {
		k := ir.MustValueKey(v)
		renaming[k] = rep
		if k != repKey {
			merged = true
		}
	}
	return merged
}

// rewrite maps every carrier element and tuple argument through the
// renaming, deduplicating as it goes.
func rewrite(inst ir.Instance, renaming Renaming) ir.Instance {
	out := inst.Empty()
	for _, srt := range inst.Sorts() {
		for _, v := range inst.Carrier(srt).Values() {
			out = out.WithElement(srt, renaming.Representative(v))
		}
	}
	for _, rel := range inst.Relations() {
		for _, tup := range inst.TupleSet(rel).Tuples() {
			mapped := make(ir.Tuple, len(tup))
			for i, v := range tup {
				mapped[i] = renaming.Representative(v)
			}
			out = out.WithTuple(rel, mapped)
		}
	}
	return out
}

// localProfiles computes the profile hash of every element, keyed by
// canonical value key.
func localProfiles(inst ir.Instance) map[string]string {
	entries := make(map[string][]string)
	for _, rel := range inst.Relations() {
		for _, tup := range inst.TupleSet(rel).Tuples() {
			keys := make([]string, len(tup))
			for i, v := range tup {
				keys[i] = ir.MustValueKey(v)
			}
			for i, k := range keys {
				entries[k] = append(entries[k],
					fmt.Sprintf("%s\x00%d\x00%s", rel, i, maskedTupleKey(keys, k)))
			}
		}
	}

	out := make(map[string]string, len(entries))
	for elem, list := range entries {
		sort.Strings(list)
		var buf bytes.Buffer
		for i, e := range list {
			if i > 0 {
				buf.WriteByte('\x01')
			}
			buf.WriteString(e)
		}
		out[elem] = ir.ProfileHash(buf.Bytes())
	}
	return out
}

// maskedTupleKey joins the tuple's argument keys with the element's own
// occurrences replaced by a placeholder, so an element's profile describes
// its neighbors and never itself.
func maskedTupleKey(keys []string, self string) string {
	masked := make([]string, len(keys))
	for i, k := range keys {
		if k == self {
			masked[i] = "\x02"
		} else {
			masked[i] = k
		}
	}
	return strings.Join(masked, "\x03")
}

// StepFunc advances an instance by one chase pass of some strategy.
type StepFunc func(ir.Instance) (ir.Instance, error)

// CoreChaseRound applies one chase step and then one fold. A nil seedSorts
// folds without protection.
func CoreChaseRound(step StepFunc, inst ir.Instance, seedSorts []string) (ir.Instance, Renaming, error) {
	next, err := step(inst)
	if err != nil {
		return ir.Instance{}, nil, err
	}
	if seedSorts == nil {
		folded, ren := FoldDuplicatesByLocalProfile(next, nil)
		return folded, ren, nil
	}
	folded, ren := FoldUnderSeed(next, seedSorts)
	return folded, ren, nil
}

// CoreChase alternates bounded parallel chase passes with seed-protected
// folds until the instance stops changing. The fold keeps repeated runs
// from accreting duplicate witnesses, at the cost of the fold's local
// coarseness.
func (e *Engine) CoreChase(seed ir.Instance, seedSorts []string, opts Options) (ir.Instance, error) {
	opts = opts.withDefaults()
	inst := ir.NewInstance(e.th.Sig).Union(seed)
	prev := inst.MustHash()
	for i := 0; i < opts.MaxSteps; i++ {
		step := func(in ir.Instance) (ir.Instance, error) {
			return e.ChaseRegular(in, Options{
				Parallel:      true,
				MaxSteps:      1,
				FireSatisfied: opts.FireSatisfied,
			})
		}
		next, _, err := CoreChaseRound(step, inst, seedSorts)
		if err != nil {
			return ir.Instance{}, err
		}
		h := next.MustHash()
		if h == prev {
			return next, nil
		}
		inst, prev = next, h
	}
	return inst, nil
}
