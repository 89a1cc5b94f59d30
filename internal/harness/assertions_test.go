package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/categorist/chasekit/internal/ir"
)

func assertionFixture() ir.Instance {
	sig := ir.Signature{
		Sorts: []string{"A", "B"},
		Relations: []ir.Relation{
			{Name: "f", Arity: []string{"A", "B"}},
		},
	}
	a := ir.Sym{Name: "a"}
	b := ir.Sym{Name: "b"}
	return ir.NewInstance(sig).
		WithElement("A", a).
		WithElement("B", b).
		WithTuple("f", ir.Tuple{a, b})
}

func TestEvaluateAssertions(t *testing.T) {
	inst := assertionFixture()

	cases := []struct {
		name      string
		assertion Assertion
		wantFail  string
	}{
		{
			name:      "carrier count pass",
			assertion: Assertion{Type: AssertCarrierCount, Sort: "A", Count: 1},
		},
		{
			name:      "carrier count fail",
			assertion: Assertion{Type: AssertCarrierCount, Sort: "A", Count: 3},
			wantFail:  "want 3 elements, got 1",
		},
		{
			name:      "tuple count pass",
			assertion: Assertion{Type: AssertTupleCount, Relation: "f", Count: 1},
		},
		{
			name:      "tuple count fail",
			assertion: Assertion{Type: AssertTupleCount, Relation: "f", Count: 0},
			wantFail:  "want 0 tuples, got 1",
		},
		{
			name:      "has element pass",
			assertion: Assertion{Type: AssertHasElement, Sort: "B", Element: "b"},
		},
		{
			name:      "has element fail",
			assertion: Assertion{Type: AssertHasElement, Sort: "B", Element: "zzz"},
			wantFail:  `generator "zzz" not present`,
		},
		{
			name:      "folded carrier count pass",
			assertion: Assertion{Type: AssertFoldedCarrierCount, Sort: "B", Count: 1},
		},
		{
			name:      "unknown type",
			assertion: Assertion{Type: "carrier_size"},
			wantFail:  "unknown assertion type",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			failures := EvaluateAssertions(inst, []Assertion{tc.assertion})
			if tc.wantFail == "" {
				assert.Empty(t, failures)
				return
			}
			require.Len(t, failures, 1)
			assert.Contains(t, failures[0], tc.wantFail)
		})
	}
}

func TestEvaluateAssertionsIndexesFailures(t *testing.T) {
	inst := assertionFixture()

	failures := EvaluateAssertions(inst, []Assertion{
		{Type: AssertCarrierCount, Sort: "A", Count: 1},
		{Type: AssertCarrierCount, Sort: "B", Count: 9},
	})
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0], "assertions[1]")
}
