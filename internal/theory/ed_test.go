package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestED_Classification(t *testing.T) {
	egd := ED{
		Forall: []Var{{Name: "x", Sort: "A"}, {Name: "y", Sort: "A"}},
		LHS: []Atom{
			RelAtom{Rel: "R", Args: []string{"x"}},
			RelAtom{Rel: "R", Args: []string{"y"}},
		},
		RHS: []Atom{EqAtom{L: "x", R: "y"}},
	}
	assert.True(t, egd.IsEGD())
	assert.False(t, egd.IsTGD())

	tgd := ED{
		Forall: []Var{{Name: "x", Sort: "A"}},
		Exists: []Var{{Name: "y", Sort: "B"}},
		RHS:    []Atom{RelAtom{Rel: "e", Args: []string{"x", "y"}}},
	}
	assert.False(t, tgd.IsEGD())
	assert.True(t, tgd.IsTGD())
}

func TestED_RelationalConsequentIsTGD(t *testing.T) {
	// No exists block, but the consequent adds a tuple: still a TGD.
	ed := ED{
		Forall: []Var{{Name: "x", Sort: "A"}},
		LHS:    []Atom{RelAtom{Rel: "R", Args: []string{"x"}}},
		RHS:    []Atom{RelAtom{Rel: "S", Args: []string{"x"}}},
	}
	assert.True(t, ed.IsTGD())
}

func TestED_HasEmptyFront(t *testing.T) {
	seed := ED{
		Exists: []Var{{Name: "y", Sort: "A"}},
		RHS:    []Atom{RelAtom{Rel: "R", Args: []string{"y"}}},
	}
	assert.True(t, seed.HasEmptyFront())

	conditional := ED{
		Forall: []Var{{Name: "x", Sort: "A"}},
		LHS:    []Atom{RelAtom{Rel: "R", Args: []string{"x"}}},
		RHS:    []Atom{RelAtom{Rel: "S", Args: []string{"x"}}},
	}
	assert.False(t, conditional.HasEmptyFront())
}

func TestED_VarSort(t *testing.T) {
	ed := ED{
		Forall: []Var{{Name: "x", Sort: "A"}},
		Exists: []Var{{Name: "y", Sort: "B"}},
	}
	sort, ok := ed.VarSort("y")
	assert.True(t, ok)
	assert.Equal(t, "B", sort)

	_, ok = ed.VarSort("z")
	assert.False(t, ok)
}

func TestED_String(t *testing.T) {
	ed := ED{
		Name:   "total:e",
		Forall: []Var{{Name: "x", Sort: "A"}},
		Exists: []Var{{Name: "y", Sort: "B"}},
		RHS:    []Atom{RelAtom{Rel: "e", Args: []string{"x", "y"}}},
		Unique: true,
	}
	assert.Equal(t, "total:e: forall x:A. true => exists! y:B. e(x,y)", ed.String())
}
