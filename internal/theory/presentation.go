package theory

import (
	"fmt"

	"github.com/categorist/chasekit/internal/ir"
)

// Arrow is a generating arrow of a category presentation.
type Arrow struct {
	Name string `json:"name"`
	Src  string `json:"src"`
	Dst  string `json:"dst"`
}

// PathEq equates two composable paths of generating arrows. Paths are
// arrow-name lists read left to right; an empty side denotes the identity
// path at the common source object.
type PathEq struct {
	LHS []string `json:"lhs"`
	RHS []string `json:"rhs"`
}

// Presentation is a graph-style category presentation: objects, generating
// arrows, and path equations.
type Presentation struct {
	Objects   []string `json:"objects"`
	Arrows    []Arrow  `json:"arrows"`
	Equations []PathEq `json:"equations"`
}

// CartesianFromPresentation compiles a presentation into a cartesian theory:
// sorts are the objects, each generating arrow becomes a [src,dst] graph
// relation with a unique-witness totality/functionality axiom, and each path
// equation becomes an axiom chaining relation atoms along both paths and
// equating the final variables.
//
// Arrow names referenced by equations are not validated here; an unknown
// arrow yields an axiom whose relation atom never matches. Run Validate for
// up-front errors.
func CartesianFromPresentation(p Presentation) RegularTheory {
	th := RegularTheory{
		Sig: ir.Signature{
			Sorts: append([]string(nil), p.Objects...),
		},
	}

	arrows := make(map[string]Arrow, len(p.Arrows))
	for _, a := range p.Arrows {
		arrows[a.Name] = a
		th.Sig.Relations = append(th.Sig.Relations, ir.Relation{
			Name:  a.Name,
			Arity: []string{a.Src, a.Dst},
		})
		th.Axioms = append(th.Axioms, ED{
			Name:   "total:" + a.Name,
			Forall: []Var{{Name: "x", Sort: a.Src}},
			Exists: []Var{{Name: "y", Sort: a.Dst}},
			RHS:    []Atom{RelAtom{Rel: a.Name, Args: []string{"x", "y"}}},
			Unique: true,
		})
	}

	for i, eq := range p.Equations {
		th.Axioms = append(th.Axioms, pathEquationAxiom(i, eq, arrows))
	}
	return th
}

// pathEquationAxiom chains both paths from a shared source variable and
// equates their endpoints. The source sort is taken from the first resolvable
// arrow of either path.
func pathEquationAxiom(index int, eq PathEq, arrows map[string]Arrow) ED {
	srcSort := ""
	for _, name := range append(append([]string(nil), eq.LHS...), eq.RHS...) {
		if a, ok := arrows[name]; ok {
			srcSort = a.Src
			break
		}
	}

	ed := ED{
		Name:   fmt.Sprintf("patheq[%d]", index),
		Forall: []Var{{Name: "x", Sort: srcSort}},
		Unique: true,
	}

	lhsEnd := chainPath(&ed, eq.LHS, "p", arrows)
	rhsEnd := chainPath(&ed, eq.RHS, "q", arrows)
	ed.RHS = []Atom{EqAtom{L: lhsEnd, R: rhsEnd}}
	return ed
}

// chainPath appends one variable and one antecedent relation atom per arrow
// of the path, returning the final variable name ("x" for an empty path).
func chainPath(ed *ED, path []string, prefix string, arrows map[string]Arrow) string {
	prev := "x"
	for i, name := range path {
		sort := ""
		if a, ok := arrows[name]; ok {
			sort = a.Dst
		}
		next := fmt.Sprintf("%s%d", prefix, i+1)
		ed.Forall = append(ed.Forall, Var{Name: next, Sort: sort})
		ed.LHS = append(ed.LHS, RelAtom{Rel: name, Args: []string{prev, next}})
		prev = next
	}
	return prev
}
