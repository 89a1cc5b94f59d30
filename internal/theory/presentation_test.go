package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arrowPresentation() Presentation {
	return Presentation{
		Objects: []string{"A", "B"},
		Arrows:  []Arrow{{Name: "e", Src: "A", Dst: "B"}},
	}
}

func TestCartesianFromPresentation_SingleArrow(t *testing.T) {
	th := CartesianFromPresentation(arrowPresentation())

	assert.Equal(t, []string{"A", "B"}, th.Sig.Sorts)
	rel, ok := th.Sig.Relation("e")
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B"}, rel.Arity)

	require.Len(t, th.Axioms, 1)
	total := th.Axioms[0]
	assert.Equal(t, "total:e", total.Name)
	assert.True(t, total.Unique)
	assert.True(t, total.IsTGD())
	assert.True(t, th.IsCartesian())
}

func TestCartesianFromPresentation_PathEquation(t *testing.T) {
	p := Presentation{
		Objects: []string{"A", "B", "C"},
		Arrows: []Arrow{
			{Name: "f", Src: "A", Dst: "B"},
			{Name: "g", Src: "B", Dst: "C"},
			{Name: "h", Src: "A", Dst: "C"},
		},
		Equations: []PathEq{{LHS: []string{"f", "g"}, RHS: []string{"h"}}},
	}
	th := CartesianFromPresentation(p)
	require.Len(t, th.Axioms, 4)

	eq := th.Axioms[3]
	assert.Equal(t, "patheq[0]", eq.Name)
	assert.True(t, eq.IsEGD())
	// forall x:A, p1:B, p2:C, q1:C. f(x,p1) & g(p1,p2) & h(x,q1) => p2 = q1
	assert.Equal(t, []Var{
		{Name: "x", Sort: "A"},
		{Name: "p1", Sort: "B"},
		{Name: "p2", Sort: "C"},
		{Name: "q1", Sort: "C"},
	}, eq.Forall)
	assert.Equal(t, []Atom{
		RelAtom{Rel: "f", Args: []string{"x", "p1"}},
		RelAtom{Rel: "g", Args: []string{"p1", "p2"}},
		RelAtom{Rel: "h", Args: []string{"x", "q1"}},
	}, eq.LHS)
	assert.Equal(t, []Atom{EqAtom{L: "p2", R: "q1"}}, eq.RHS)

	assert.Empty(t, Validate(th))
}

func TestCartesianFromPresentation_IdentityPathSide(t *testing.T) {
	// e followed by r equals the identity on A.
	p := Presentation{
		Objects: []string{"A", "B"},
		Arrows: []Arrow{
			{Name: "e", Src: "A", Dst: "B"},
			{Name: "r", Src: "B", Dst: "A"},
		},
		Equations: []PathEq{{LHS: []string{"e", "r"}, RHS: nil}},
	}
	th := CartesianFromPresentation(p)
	eq := th.Axioms[len(th.Axioms)-1]
	assert.Equal(t, []Atom{EqAtom{L: "p2", R: "x"}}, eq.RHS)
}
