package chase

import (
	"github.com/categorist/chasekit/internal/theory"
)

// frozenFront is the canonical representative of an ED's antecedent: one
// variable per equivalence class of forall variables (merged via well-typed
// LHS equality atoms) plus the antecedent relation atoms rewritten to class
// representatives. Matching enumerates assignments of these class variables.
//
// Ill-typed equality atoms (mismatched sorts) are skipped rather than
// raised; they can never hold in a well-sorted instance.
type frozenFront struct {
	rep     map[string]string // forall variable -> class representative
	classes []theory.Var      // representatives in declaration order
	atoms   []theory.RelAtom  // LHS relation atoms over representatives
}

func freezeFront(ed theory.ED) frozenFront {
	rep := make(map[string]string, len(ed.Forall))
	for _, v := range ed.Forall {
		rep[v.Name] = v.Name
	}

	find := func(name string) string {
		for rep[name] != name {
			name = rep[name]
		}
		return name
	}

	for _, a := range ed.LHS {
		eq, ok := a.(theory.EqAtom)
		if !ok {
			continue
		}
		ls, lok := ed.VarSort(eq.L)
		rs, rok := ed.VarSort(eq.R)
		if !lok || !rok || ls != rs {
			continue // ill-typed or unbound equality, skipped
		}
		l, r := find(eq.L), find(eq.R)
		if l != r {
			// Deterministic root: declaration-order-first, via name compare
			// against the forall list below; the smaller name suffices since
			// representatives only feed matching.
			if l < r {
				rep[r] = l
			} else {
				rep[l] = r
			}
		}
	}

	f := frozenFront{rep: make(map[string]string, len(ed.Forall))}
	seen := make(map[string]bool, len(ed.Forall))
	for _, v := range ed.Forall {
		root := find(v.Name)
		f.rep[v.Name] = root
		if !seen[root] {
			seen[root] = true
			sort, _ := ed.VarSort(root)
			f.classes = append(f.classes, theory.Var{Name: root, Sort: sort})
		}
	}

	for _, a := range ed.LHS {
		rel, ok := a.(theory.RelAtom)
		if !ok {
			continue
		}
		args := make([]string, len(rel.Args))
		for i, arg := range rel.Args {
			if root, ok := f.rep[arg]; ok {
				args[i] = root
			} else {
				args[i] = arg // unbound, will never match
			}
		}
		f.atoms = append(f.atoms, theory.RelAtom{Rel: rel.Rel, Args: args})
	}
	return f
}

// frozenBack extends a TGD's frozen front with its consequent: existential
// variables merged by well-typed RHS equality atoms, with classes equated to
// a forall variable resolving to that variable (no fresh witness needed).
// existsClasses lists the classes that do require a fresh witness.
type frozenBack struct {
	front         frozenFront
	existsRep     map[string]string // exists variable -> class representative
	existsClasses []theory.Var      // classes minting fresh witnesses
	relAtoms      []theory.RelAtom  // RHS relation atoms over representatives
}

func freezeBack(ed theory.ED) frozenBack {
	b := frozenBack{
		front:     freezeFront(ed),
		existsRep: make(map[string]string, len(ed.Exists)),
	}

	isExists := make(map[string]bool, len(ed.Exists))
	rep := make(map[string]string, len(ed.Exists))
	for _, v := range ed.Exists {
		isExists[v.Name] = true
		rep[v.Name] = v.Name
	}
	// Forall variables resolve through the front's classes and act as roots.
	resolve := func(name string) (string, bool) {
		if isExists[name] {
			for rep[name] != name && isExists[rep[name]] {
				name = rep[name]
			}
			if !isExists[rep[name]] {
				return rep[name], false
			}
			return name, true
		}
		if root, ok := b.front.rep[name]; ok {
			return root, false
		}
		return name, false
	}

	for _, a := range ed.RHS {
		eq, ok := a.(theory.EqAtom)
		if !ok {
			continue
		}
		ls, lok := ed.VarSort(eq.L)
		rs, rok := ed.VarSort(eq.R)
		if !lok || !rok || ls != rs {
			continue
		}
		l, lEx := resolve(eq.L)
		r, rEx := resolve(eq.R)
		switch {
		case lEx && rEx:
			if l != r {
				if l < r {
					rep[r] = l
				} else {
					rep[l] = r
				}
			}
		case lEx:
			rep[l] = r // equated to a concrete forall variable
		case rEx:
			rep[r] = l
		default:
			// Equality between two forall variables inside a TGD consequent
			// is not applied by the TGD step; EGDs own quotienting.
		}
	}

	seen := make(map[string]bool, len(ed.Exists))
	for _, v := range ed.Exists {
		root, ex := resolve(v.Name)
		b.existsRep[v.Name] = root
		if ex && !seen[root] {
			seen[root] = true
			sort, _ := ed.VarSort(root)
			b.existsClasses = append(b.existsClasses, theory.Var{Name: root, Sort: sort})
		}
	}

	for _, a := range ed.RHS {
		rel, ok := a.(theory.RelAtom)
		if !ok {
			continue
		}
		args := make([]string, len(rel.Args))
		for i, arg := range rel.Args {
			root, _ := resolve(arg)
			args[i] = root
		}
		b.relAtoms = append(b.relAtoms, theory.RelAtom{Rel: rel.Rel, Args: args})
	}
	return b
}
