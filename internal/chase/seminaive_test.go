package chase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/categorist/chasekit/internal/ir"
	"github.com/categorist/chasekit/internal/theory"
)

// emptyFrontTheory has a single empty-front axiom: "there exists a P-marked
// A-element", unconditionally.
func emptyFrontTheory() theory.RegularTheory {
	return theory.RegularTheory{
		Sig: ir.Signature{
			Sorts:     []string{"A"},
			Relations: []ir.Relation{{Name: "P", Arity: []string{"A"}}},
		},
		Axioms: []theory.ED{{
			Name:   "init",
			Exists: []theory.Var{{Name: "c", Sort: "A"}},
			RHS:    []theory.Atom{theory.RelAtom{Rel: "P", Args: []string{"c"}}},
		}},
	}
}

// TestSemiNaiveSeedingOnlyRoundsZero runs a theory with only empty-front
// axioms. The mandatory seeding pass fires them; the incremental loop then
// finds nothing to do, so the reported round count is zero.
func TestSemiNaiveSeedingOnlyRoundsZero(t *testing.T) {
	th := emptyFrontTheory()

	res, err := New(th).SemiNaive(ir.NewInstance(th.Sig))
	require.NoError(t, err)

	assert.Equal(t, 0, res.Rounds, "only the seeding pass should have fired")
	assert.Equal(t, 1, res.I.Carrier("A").Len())
	assert.Equal(t, 1, res.I.TupleSet("P").Len())
}

// TestSemiNaiveMatchesFastParallel checks that the incremental schedule
// reaches the same instance as the plain fast parallel chase on the arrow
// theory, and that it actually took incremental rounds to get there.
func TestSemiNaiveMatchesFastParallel(t *testing.T) {
	th := arrowTheory()
	seed := seedElements(th, "A", "a")

	inc, err := New(th).SemiNaive(seed)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, inc.Rounds, 1)

	plain, err := New(th).FastParallel(seed, FastOptions{})
	require.NoError(t, err)
	assert.True(t, inc.I.Equal(plain), "semi-naive and fast parallel chase should agree")
}

// TestSemiNaiveEGDPhase seeds the singleton EGD theory and checks the inner
// EGD loop quotients the carrier.
func TestSemiNaiveEGDPhase(t *testing.T) {
	th := singletonEGDTheory()
	seed := seedElements(th, "A", "a", "b").
		WithTuple("R", ir.Tuple{ir.Sym{Name: "a"}}).
		WithTuple("R", ir.Tuple{ir.Sym{Name: "b"}})

	res, err := New(th).SemiNaive(seed)
	require.NoError(t, err)

	assert.Equal(t, 1, res.I.Carrier("A").Len())
	assert.GreaterOrEqual(t, res.Rounds, 1, "the quotient counts as an incremental round")
}

// TestSemiNaiveConvergedSeed runs the schedule on an already-closed
// instance and expects zero rounds and no change.
func TestSemiNaiveConvergedSeed(t *testing.T) {
	th := arrowTheory()
	seed := seedElements(th, "A", "a")

	closed, err := New(th).ChaseRegular(seed, Options{Parallel: true})
	require.NoError(t, err)

	res, err := New(th).SemiNaive(closed)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Rounds)
	assert.True(t, res.I.Equal(closed))
}

// TestEditCovers exercises the trigger classification the schedule hinges
// on: a trigger is old iff every environment value lies in the edit image.
func TestEditCovers(t *testing.T) {
	th := arrowTheory()
	a, b := ir.Sym{Name: "a"}, ir.Sym{Name: "b"}
	ed := th.Axioms[0]

	image := ir.NewInstance(th.Sig).WithElement("A", a)
	edit := NewEdit(image)

	assert.True(t, edit.Covers(ed, Trigger{Axiom: 0, Env: map[string]ir.Value{"x": a}}))
	assert.False(t, edit.Covers(ed, Trigger{Axiom: 0, Env: map[string]ir.Value{"x": b}}))
	assert.True(t, edit.Covers(ed, Trigger{Axiom: 0, Env: map[string]ir.Value{}}),
		"empty environments are vacuously covered")
}

// TestComposeEditsUnions checks that composing edits keeps earlier settled
// data settled.
func TestComposeEditsUnions(t *testing.T) {
	th := arrowTheory()
	a, b := ir.Sym{Name: "a"}, ir.Sym{Name: "b"}

	e1 := NewEdit(ir.NewInstance(th.Sig).WithElement("A", a))
	e2 := NewEdit(ir.NewInstance(th.Sig).WithElement("A", b))

	both := ComposeEdits(e1, e2)
	assert.True(t, both.Image.Carrier("A").Has(a))
	assert.True(t, both.Image.Carrier("A").Has(b))
}
