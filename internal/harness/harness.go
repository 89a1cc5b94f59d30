package harness

import (
	"fmt"
	"os"
	"sort"

	"github.com/categorist/chasekit/internal/chase"
	"github.com/categorist/chasekit/internal/compiler"
	"github.com/categorist/chasekit/internal/ir"
	"github.com/categorist/chasekit/internal/theory"
)

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool

	// Errors holds one message per failed assertion.
	Errors []string

	// Final is the model the assertions ran against.
	Final ir.Instance

	// Freedom is set for colimit and free runs, empty otherwise.
	Freedom chase.Freedom

	// Rounds is the incremental round count of a seminaive run.
	Rounds int
}

func (r *Result) addError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}

// Run executes a scenario: compile the presentation, expand it to a regular
// theory, build the seed, chase with the selected strategy, and evaluate the
// assertions. A returned error means the scenario could not run; assertion
// failures land in Result.Errors with Pass false.
func Run(scenario *Scenario) (*Result, error) {
	src, err := os.ReadFile(scenario.Presentation)
	if err != nil {
		return nil, fmt.Errorf("read presentation: %w", err)
	}
	pres, err := compiler.CompileString(string(src))
	if err != nil {
		return nil, fmt.Errorf("compile presentation: %w", err)
	}

	cart := theory.CartesianFromPresentation(pres)
	if errs := theory.Validate(cart); len(errs) > 0 {
		return nil, fmt.Errorf("invalid theory from %s: %s", scenario.Presentation, errs[0].Error())
	}
	reg := theory.CartesianToRegular(cart)

	seed, err := buildSeed(reg.Sig, scenario)
	if err != nil {
		return nil, err
	}

	result := &Result{Pass: true}
	switch scenario.Strategy {
	case StrategyStandard, StrategyParallel:
		eng := chase.New(reg)
		result.Final, err = eng.ChaseRegular(seed, chase.Options{
			Parallel:      scenario.Strategy == StrategyParallel,
			MaxSteps:      scenario.Options.MaxSteps,
			FireSatisfied: scenario.Options.FireSatisfied,
		})
	case StrategyFast:
		eng := chase.New(reg)
		result.Final, err = eng.FastParallel(seed, chase.FastOptions{
			MaxRounds:      scenario.Options.MaxRounds,
			StopWhenFinite: true,
		})
	case StrategySemiNaive:
		eng := chase.New(reg)
		var sn chase.SemiNaiveResult
		sn, err = eng.SemiNaive(seed)
		result.Final = sn.I
		result.Rounds = sn.Rounds
	case StrategyCore:
		eng := chase.New(reg)
		result.Final, err = eng.CoreChase(seed, scenario.Options.SeedSorts, chase.Options{
			MaxSteps:      scenario.Options.MaxSteps,
			FireSatisfied: scenario.Options.FireSatisfied,
		})
	case StrategyColimit:
		eng := chase.New(reg)
		var out chase.Result
		out, err = eng.ChaseToColimit(seed, chase.ColimitOptions{
			Rounds: scenario.Options.MaxRounds,
		})
		result.Final = out.Model
		result.Freedom = out.Freedom
	case StrategyFree:
		var out chase.Result
		out, err = chase.FreeReflect(cart, seed)
		result.Final = out.Model
		result.Freedom = out.Freedom
	default:
		return nil, fmt.Errorf("unknown strategy %q", scenario.Strategy)
	}
	if err != nil {
		return nil, fmt.Errorf("chase %s: %w", scenario.Strategy, err)
	}

	for _, msg := range EvaluateAssertions(result.Final, scenario.Assertions) {
		result.addError(msg)
	}
	return result, nil
}

// buildSeed materializes the scenario's seed as symbolic generators over
// the theory's signature. Sorts and relations are checked against the
// signature so a typo in the YAML fails instead of seeding a carrier the
// chase never looks at.
func buildSeed(sig ir.Signature, scenario *Scenario) (ir.Instance, error) {
	inst := ir.NewInstance(sig)

	sorts := make(map[string]bool, len(sig.Sorts))
	for _, s := range sig.Sorts {
		sorts[s] = true
	}
	for _, srt := range sortedKeys(scenario.Seed) {
		if !sorts[srt] {
			return ir.Instance{}, fmt.Errorf("seed sort %q is not in the signature", srt)
		}
		for _, name := range scenario.Seed[srt] {
			inst = inst.WithElement(srt, ir.Sym{Name: name})
		}
	}

	for _, rel := range sortedKeys(scenario.Tuples) {
		decl, ok := sig.Relation(rel)
		if !ok {
			return ir.Instance{}, fmt.Errorf("seed relation %q is not in the signature", rel)
		}
		for i, row := range scenario.Tuples[rel] {
			if len(row) != len(decl.Arity) {
				return ir.Instance{}, fmt.Errorf("tuples[%s][%d]: want arity %d, got %d", rel, i, len(decl.Arity), len(row))
			}
			t := make(ir.Tuple, len(row))
			for j, name := range row {
				t[j] = ir.Sym{Name: name}
			}
			inst = inst.WithTuple(rel, t)
		}
	}
	return inst, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
