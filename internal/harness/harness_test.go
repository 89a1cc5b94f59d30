package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/categorist/chasekit/internal/chase"
	"github.com/categorist/chasekit/internal/ir"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	sc, err := LoadScenario(filepath.Join("testdata", "scenarios", name))
	require.NoError(t, err)
	return sc
}

func TestRunFreeModel(t *testing.T) {
	sc := loadTestScenario(t, "arrow_free_model.yaml")

	res, err := Run(sc)
	require.NoError(t, err)

	assert.True(t, res.Pass)
	assert.Empty(t, res.Errors)
	assert.Equal(t, chase.FreedomFree, res.Freedom)
	assert.Equal(t, 1, res.Final.Carrier("B").Len())
	assert.True(t, res.Final.Carrier("A").Has(ir.Sym{Name: "a"}))
}

func TestRunCommutingPair(t *testing.T) {
	sc := loadTestScenario(t, "commuting_pair.yaml")

	res, err := Run(sc)
	require.NoError(t, err)

	assert.True(t, res.Pass)
	// The path equation merged both witnesses into one.
	assert.Equal(t, 1, res.Final.Carrier("B").Len())
	assert.Equal(t, 1, res.Final.TupleSet("e").Len())
	assert.Equal(t, 1, res.Final.TupleSet("f").Len())
}

func TestRunSemiNaive(t *testing.T) {
	sc := loadTestScenario(t, "arrow_pair_seminaive.yaml")

	res, err := Run(sc)
	require.NoError(t, err)

	assert.True(t, res.Pass)
	assert.Equal(t, 1, res.Rounds)
	assert.Equal(t, 2, res.Final.Carrier("B").Len())
}

func TestRunFailedAssertion(t *testing.T) {
	sc := loadTestScenario(t, "arrow_free_model.yaml")
	sc.Assertions = []Assertion{
		{Type: AssertCarrierCount, Sort: "B", Count: 7},
	}

	res, err := Run(sc)
	require.NoError(t, err)

	assert.False(t, res.Pass)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "carrier B")
}

func TestRunUnknownSeedSort(t *testing.T) {
	sc := loadTestScenario(t, "arrow_free_model.yaml")
	sc.Seed = map[string][]string{"Z": {"a"}}

	_, err := Run(sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `seed sort "Z"`)
}

func TestRunSeedTupleArity(t *testing.T) {
	sc := loadTestScenario(t, "arrow_free_model.yaml")
	sc.Tuples = map[string][][]string{"e": {{"a"}}}

	_, err := Run(sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want arity 2")
}

func TestRunStrategiesAgreeOnArrow(t *testing.T) {
	base := loadTestScenario(t, "arrow_free_model.yaml")

	finals := map[string]ir.Instance{}
	for _, strategy := range []string{StrategyStandard, StrategyParallel, StrategyFast, StrategyColimit} {
		sc := *base
		sc.Strategy = strategy
		res, err := Run(&sc)
		require.NoError(t, err, strategy)
		require.True(t, res.Pass, strategy)
		finals[strategy] = res.Final
	}

	want := finals[StrategyStandard]
	for strategy, got := range finals {
		assert.True(t, want.Equal(got), "strategy %s diverged", strategy)
	}
}
