package theory

import (
	"fmt"

	"github.com/categorist/chasekit/internal/ir"
)

// FnSymbol describes a (partial) function symbol encoded as a graph
// relation of arity Args + [Result].
type FnSymbol struct {
	Name   string   `json:"name"`
	Args   []string `json:"args"`
	Result string   `json:"result"`
}

// GraphRelation returns the relation symbol encoding the function's graph.
func (f FnSymbol) GraphRelation() ir.Relation {
	return ir.Relation{
		Name:  f.Name,
		Arity: append(append([]string(nil), f.Args...), f.Result),
	}
}

// TotalityAxioms emits one unique-witness ED per symbol: for all typed
// inputs there exists a unique output in the symbol's graph relation. This
// is the standard device for encoding a total function as a cartesian
// dependency.
func TotalityAxioms(symbols []FnSymbol) []ED {
	out := make([]ED, 0, len(symbols))
	for _, f := range symbols {
		ed := ED{
			Name:   "total:" + f.Name,
			Exists: []Var{{Name: "y", Sort: f.Result}},
			Unique: true,
		}
		args := make([]string, 0, len(f.Args)+1)
		for i, sort := range f.Args {
			name := fmt.Sprintf("x%d", i)
			ed.Forall = append(ed.Forall, Var{Name: name, Sort: sort})
			args = append(args, name)
		}
		args = append(args, "y")
		ed.RHS = []Atom{RelAtom{Rel: f.Name, Args: args}}
		out = append(out, ed)
	}
	return out
}

// TheoryForFunctions builds a cartesian theory from function symbols alone:
// sorts are every sort mentioned by a symbol, relations are the graph
// relations, axioms are the totality axioms.
func TheoryForFunctions(symbols []FnSymbol) RegularTheory {
	th := RegularTheory{Axioms: TotalityAxioms(symbols)}
	for _, f := range symbols {
		for _, sort := range f.Args {
			if !th.Sig.HasSort(sort) {
				th.Sig.Sorts = append(th.Sig.Sorts, sort)
			}
		}
		if !th.Sig.HasSort(f.Result) {
			th.Sig.Sorts = append(th.Sig.Sorts, f.Result)
		}
		th.Sig.Relations = append(th.Sig.Relations, f.GraphRelation())
	}
	return th
}
