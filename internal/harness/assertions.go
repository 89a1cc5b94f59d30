package harness

import (
	"fmt"

	"github.com/categorist/chasekit/internal/chase"
	"github.com/categorist/chasekit/internal/ir"
)

// EvaluateAssertions checks every assertion against the final model and
// returns one message per failure. An empty slice means all passed.
func EvaluateAssertions(inst ir.Instance, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluateAssertion(inst, a); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d] (%s): %v", i, a.Type, err))
		}
	}
	return failures
}

func evaluateAssertion(inst ir.Instance, a Assertion) error {
	switch a.Type {
	case AssertCarrierCount:
		got := inst.Carrier(a.Sort).Len()
		if got != a.Count {
			return fmt.Errorf("carrier %s: want %d elements, got %d", a.Sort, a.Count, got)
		}
	case AssertTupleCount:
		got := inst.TupleSet(a.Relation).Len()
		if got != a.Count {
			return fmt.Errorf("relation %s: want %d tuples, got %d", a.Relation, a.Count, got)
		}
	case AssertHasElement:
		if !inst.Carrier(a.Sort).Has(ir.Sym{Name: a.Element}) {
			return fmt.Errorf("carrier %s: generator %q not present", a.Sort, a.Element)
		}
	case AssertFoldedCarrierCount:
		folded, _ := chase.FoldDuplicatesByLocalProfile(inst, nil)
		got := folded.Carrier(a.Sort).Len()
		if got != a.Count {
			return fmt.Errorf("folded carrier %s: want %d elements, got %d", a.Sort, a.Count, got)
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
