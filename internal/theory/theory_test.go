package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/categorist/chasekit/internal/ir"
)

func TestIsCartesian(t *testing.T) {
	th := TheoryForFunctions([]FnSymbol{{Name: "f", Args: []string{"A"}, Result: "B"}})
	assert.True(t, th.IsCartesian())

	th.Axioms = append(th.Axioms, ED{
		Forall: []Var{{Name: "x", Sort: "A"}},
		Exists: []Var{{Name: "y", Sort: "B"}},
		RHS:    []Atom{RelAtom{Rel: "f", Args: []string{"x", "y"}}},
	})
	assert.False(t, th.IsCartesian())
}

func TestMerge_KeepsLeftRelationOnClash(t *testing.T) {
	a := RegularTheory{
		Sig: ir.Signature{
			Sorts:     []string{"A"},
			Relations: []ir.Relation{{Name: "R", Arity: []string{"A"}}},
		},
		Axioms: []ED{{Name: "a0"}},
	}
	b := RegularTheory{
		Sig: ir.Signature{
			Sorts:     []string{"A", "B"},
			Relations: []ir.Relation{{Name: "R", Arity: []string{"B"}}, {Name: "S", Arity: []string{"B"}}},
		},
		Axioms: []ED{{Name: "b0"}},
	}

	m := Merge(a, b)
	assert.Equal(t, []string{"A", "B"}, m.Sig.Sorts)

	r, ok := m.Sig.Relation("R")
	require.True(t, ok)
	assert.Equal(t, []string{"A"}, r.Arity, "left relation wins on name clash")

	_, ok = m.Sig.Relation("S")
	assert.True(t, ok)
	assert.Equal(t, []string{"a0", "b0"}, m.AxiomNames())
}

func TestCartesianToRegular_ExpandsUniqueAxioms(t *testing.T) {
	th := TheoryForFunctions([]FnSymbol{{Name: "f", Args: []string{"A"}, Result: "B"}})
	reg := CartesianToRegular(th)

	require.Len(t, reg.Axioms, 2)

	exist := reg.Axioms[0]
	assert.False(t, exist.Unique)
	assert.True(t, exist.IsTGD())
	assert.Equal(t, "total:f/exists", exist.Name)

	uniq := reg.Axioms[1]
	assert.True(t, uniq.IsEGD())
	assert.Equal(t, "total:f/unique", uniq.Name)
	// forall x, y', y''; f(x,y') & f(x,y'') => y' = y''
	assert.Len(t, uniq.Forall, 3)
	assert.Len(t, uniq.LHS, 2)
	assert.Equal(t, []Atom{EqAtom{L: "y'", R: "y''"}}, uniq.RHS)
}

func TestCartesianToRegular_LeavesEGDsAlone(t *testing.T) {
	egd := ED{
		Name:   "mono",
		Forall: []Var{{Name: "x", Sort: "A"}, {Name: "y", Sort: "A"}},
		LHS:    []Atom{RelAtom{Rel: "R", Args: []string{"x"}}, RelAtom{Rel: "R", Args: []string{"y"}}},
		RHS:    []Atom{EqAtom{L: "x", R: "y"}},
		Unique: true,
	}
	th := RegularTheory{Axioms: []ED{egd}}
	reg := CartesianToRegular(th)
	require.Len(t, reg.Axioms, 1)
	assert.Equal(t, egd, reg.Axioms[0])
}

func TestTotalityAxioms_Shape(t *testing.T) {
	axioms := TotalityAxioms([]FnSymbol{{Name: "pair", Args: []string{"A", "A"}, Result: "P"}})
	require.Len(t, axioms, 1)

	ed := axioms[0]
	assert.True(t, ed.Unique)
	assert.Equal(t, []Var{{Name: "x0", Sort: "A"}, {Name: "x1", Sort: "A"}}, ed.Forall)
	assert.Equal(t, []Var{{Name: "y", Sort: "P"}}, ed.Exists)
	assert.Equal(t, []Atom{RelAtom{Rel: "pair", Args: []string{"x0", "x1", "y"}}}, ed.RHS)
}
