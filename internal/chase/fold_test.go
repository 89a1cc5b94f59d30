package chase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/categorist/chasekit/internal/ir"
)

func foldFixture() ir.Instance {
	sig := ir.Signature{
		Sorts:     []string{"A", "B"},
		Relations: []ir.Relation{{Name: "f", Arity: []string{"A", "B"}}},
	}
	a := ir.Sym{Name: "a"}
	w1 := ir.Witness{Existential: "y", Sort: "B", N: 0}
	w2 := ir.Witness{Existential: "y", Sort: "B", N: 1}
	return ir.NewInstance(sig).
		WithElement("A", a).
		WithElement("B", w1).
		WithElement("B", w2).
		WithTuple("f", ir.Tuple{a, w1}).
		WithTuple("f", ir.Tuple{a, w2})
}

// TestFoldMergesDuplicateWitnesses folds two witnesses with identical
// one-hop neighborhoods into one and rewrites the tuples accordingly.
func TestFoldMergesDuplicateWitnesses(t *testing.T) {
	inst := foldFixture()

	folded, renaming := FoldDuplicatesByLocalProfile(inst, nil)

	assert.Equal(t, 1, folded.Carrier("B").Len(), "w1 and w2 are locally indistinguishable")
	assert.Equal(t, 1, folded.TupleSet("f").Len(), "merged tuples dedupe")
	assert.Equal(t, 1, folded.Carrier("A").Len(), "a has a unique profile and survives")

	w1 := ir.Witness{Existential: "y", Sort: "B", N: 0}
	w2 := ir.Witness{Existential: "y", Sort: "B", N: 1}
	assert.Equal(t, w1, renaming.Representative(w2), "loser maps onto the surviving witness")
	assert.Equal(t, w1, renaming.Representative(w1))
}

// TestFoldKeepsDistinguishableElements checks that witnesses hanging off
// different parents never merge: their masked neighborhoods differ.
func TestFoldKeepsDistinguishableElements(t *testing.T) {
	sig := ir.Signature{
		Sorts:     []string{"A", "B"},
		Relations: []ir.Relation{{Name: "f", Arity: []string{"A", "B"}}},
	}
	a, b := ir.Sym{Name: "a"}, ir.Sym{Name: "b"}
	w1 := ir.Witness{Existential: "y", Sort: "B", N: 0}
	w2 := ir.Witness{Existential: "y", Sort: "B", N: 1}
	inst := ir.NewInstance(sig).
		WithElement("A", a).WithElement("A", b).
		WithElement("B", w1).WithElement("B", w2).
		WithTuple("f", ir.Tuple{a, w1}).
		WithTuple("f", ir.Tuple{b, w2})

	folded, _ := FoldDuplicatesByLocalProfile(inst, nil)
	assert.True(t, folded.Equal(inst), "witnesses of different parents must not merge")
}

// TestFoldIdempotent folds twice and expects the second pass to be the
// identity: the fold runs to a fixpoint internally.
func TestFoldIdempotent(t *testing.T) {
	folded, _ := FoldDuplicatesByLocalProfile(foldFixture(), nil)

	again, renaming := FoldDuplicatesByLocalProfile(folded, nil)
	assert.True(t, folded.Equal(again), "folding a folded instance must change nothing")
	for k, v := range renaming {
		assert.Equal(t, k, ir.MustValueKey(v), "second-pass renaming must be the identity")
	}
}

// TestFoldProtected checks both protection guarantees: protected elements
// are never merged away, and a mixed group folds its unprotected members
// onto a protected representative.
func TestFoldProtected(t *testing.T) {
	w1 := ir.Witness{Existential: "y", Sort: "B", N: 0}
	w2 := ir.Witness{Existential: "y", Sort: "B", N: 1}

	t.Run("all protected survive", func(t *testing.T) {
		inst := foldFixture()
		folded, _ := FoldUnderSeed(inst, []string{"B"})
		assert.True(t, folded.Equal(inst), "protecting both witnesses blocks the merge")
	})

	t.Run("unprotected folds onto protected", func(t *testing.T) {
		inst := foldFixture()
		protected := Protected{"B": {ir.MustValueKey(w2): true}}
		folded, renaming := FoldDuplicatesByLocalProfile(inst, protected)

		require.Equal(t, 1, folded.Carrier("B").Len())
		assert.True(t, folded.Carrier("B").Has(w2), "the protected member is the representative")
		assert.Equal(t, w2, renaming.Representative(w1))
	})
}

// TestCoreChaseCollapsesRefires runs the arrow theory with satisfied-trigger
// refiring enabled. Every chase pass mints a duplicate witness; the fold
// between passes collapses it, so the loop reaches a fixpoint with a single
// B-element instead of accreting one per round.
func TestCoreChaseCollapsesRefires(t *testing.T) {
	th := arrowTheory()
	seed := seedElements(th, "A", "a")

	got, err := New(th).CoreChase(seed, []string{"A"}, Options{
		MaxSteps:      8,
		FireSatisfied: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, got.Carrier("A").Len())
	assert.Equal(t, 1, got.Carrier("B").Len(), "fold collapses the per-round duplicates")
	assert.Equal(t, 1, got.TupleSet("e").Len())
}

// TestCoreChaseRoundComposes checks the one-round helper: a step followed
// by a plain fold.
func TestCoreChaseRoundComposes(t *testing.T) {
	step := func(in ir.Instance) (ir.Instance, error) {
		return foldFixture(), nil
	}
	out, renaming, err := CoreChaseRound(step, ir.Instance{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Carrier("B").Len())
	assert.NotEmpty(t, renaming)
}
