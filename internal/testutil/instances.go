package testutil

import (
	"github.com/categorist/chasekit/internal/ir"
	"github.com/categorist/chasekit/internal/theory"
)

// SeedSyms builds an instance over the theory's signature with one Sym
// element per name in the given sort.
func SeedSyms(th theory.RegularTheory, sort string, names ...string) ir.Instance {
	inst := ir.NewInstance(th.Sig)
	for _, n := range names {
		inst = inst.WithElement(sort, ir.Sym{Name: n})
	}
	return inst
}

// ArrowTheory returns the regular expansion of the smallest useful
// presentation: objects A and B with a single generating arrow e: A -> B.
func ArrowTheory() theory.RegularTheory {
	return theory.CartesianToRegular(theory.CartesianFromPresentation(theory.Presentation{
		Objects: []string{"A", "B"},
		Arrows:  []theory.Arrow{{Name: "e", Src: "A", Dst: "B"}},
	}))
}
