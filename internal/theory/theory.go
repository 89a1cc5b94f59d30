package theory

import (
	"fmt"

	"github.com/categorist/chasekit/internal/ir"
)

// RegularTheory is a signature plus embedded dependencies in declaration
// order. A CartesianTheory is the same type with every axiom Unique.
type RegularTheory struct {
	Sig    ir.Signature `json:"signature"`
	Axioms []ED         `json:"axioms"`
}

// IsCartesian reports whether every axiom requires a unique witness. The
// chase tags its colimit output "free" only for cartesian theories.
func (th RegularTheory) IsCartesian() bool {
	for _, ed := range th.Axioms {
		if !ed.Unique {
			return false
		}
	}
	return true
}

// Merge unions two theories: sorts are unioned, relations are unioned with
// a's relation kept on a name clash, and axiom lists are concatenated (a's
// first). No clash detection beyond relation-name dedup.
func Merge(a, b RegularTheory) RegularTheory {
	out := RegularTheory{
		Sig: ir.Signature{
			Sorts:     append([]string(nil), a.Sig.Sorts...),
			Relations: append([]ir.Relation(nil), a.Sig.Relations...),
		},
	}
	for _, sort := range b.Sig.Sorts {
		if !out.Sig.HasSort(sort) {
			out.Sig.Sorts = append(out.Sig.Sorts, sort)
		}
	}
	for _, rel := range b.Sig.Relations {
		if _, exists := out.Sig.Relation(rel.Name); !exists {
			out.Sig.Relations = append(out.Sig.Relations, rel)
		}
	}
	out.Axioms = append(out.Axioms, a.Axioms...)
	out.Axioms = append(out.Axioms, b.Axioms...)
	return out
}

// CartesianToRegular expands every unique axiom into a plain existential ED
// plus a uniqueness EGD comparing two witnesses. Used when a cartesian-only
// construction must be consumed as a regular theory.
func CartesianToRegular(th RegularTheory) RegularTheory {
	out := RegularTheory{Sig: th.Sig}
	for _, ed := range th.Axioms {
		if !ed.Unique || len(ed.Exists) == 0 {
			out.Axioms = append(out.Axioms, ed)
			continue
		}

		exist := ed
		exist.Unique = false
		if exist.Name != "" {
			exist.Name = exist.Name + "/exists"
		}
		out.Axioms = append(out.Axioms, exist)
		out.Axioms = append(out.Axioms, uniquenessOf(ed))
	}
	return out
}

// uniquenessOf builds the EGD stating that two witness assignments for the
// same antecedent agree: both copies of the consequent in the antecedent,
// primed and double-primed existential contexts, equalities in the
// consequent.
func uniquenessOf(ed ED) ED {
	u := ED{
		Name:   ed.Name,
		Forall: append([]Var(nil), ed.Forall...),
		LHS:    append([]Atom(nil), ed.LHS...),
	}
	if u.Name != "" {
		u.Name = u.Name + "/unique"
	}

	prime := make(map[string]string, len(ed.Exists))
	doublePrime := make(map[string]string, len(ed.Exists))
	for _, v := range ed.Exists {
		prime[v.Name] = v.Name + "'"
		doublePrime[v.Name] = v.Name + "''"
		u.Forall = append(u.Forall, Var{Name: prime[v.Name], Sort: v.Sort})
		u.Forall = append(u.Forall, Var{Name: doublePrime[v.Name], Sort: v.Sort})
	}

	u.LHS = append(u.LHS, renameAtoms(ed.RHS, prime)...)
	u.LHS = append(u.LHS, renameAtoms(ed.RHS, doublePrime)...)
	for _, v := range ed.Exists {
		u.RHS = append(u.RHS, EqAtom{L: prime[v.Name], R: doublePrime[v.Name]})
	}
	return u
}

// renameAtoms substitutes variable names per the mapping, leaving unmapped
// variables alone.
func renameAtoms(atoms []Atom, mapping map[string]string) []Atom {
	out := make([]Atom, 0, len(atoms))
	for _, a := range atoms {
		switch at := a.(type) {
		case RelAtom:
			args := make([]string, len(at.Args))
			for i, arg := range at.Args {
				if to, ok := mapping[arg]; ok {
					args[i] = to
				} else {
					args[i] = arg
				}
			}
			out = append(out, RelAtom{Rel: at.Rel, Args: args})
		case EqAtom:
			l, r := at.L, at.R
			if to, ok := mapping[l]; ok {
				l = to
			}
			if to, ok := mapping[r]; ok {
				r = to
			}
			out = append(out, EqAtom{L: l, R: r})
		default:
			out = append(out, a)
		}
	}
	return out
}

// AxiomNames lists the theory's axiom names in declaration order, numbering
// unnamed axioms by position.
func (th RegularTheory) AxiomNames() []string {
	out := make([]string, len(th.Axioms))
	for i, ed := range th.Axioms {
		if ed.Name != "" {
			out[i] = ed.Name
		} else {
			out[i] = fmt.Sprintf("axiom[%d]", i)
		}
	}
	return out
}
