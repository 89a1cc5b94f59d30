package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a declarative chase test: a CUE presentation, a seed
// instance, a strategy, and assertions on the resulting model.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden snapshots are stored
	// under this name.
	Name string `yaml:"name"`

	// Description explains what this scenario pins down.
	Description string `yaml:"description"`

	// Presentation is the path to the CUE presentation file. Relative
	// paths are resolved against the scenario file's directory.
	Presentation string `yaml:"presentation"`

	// Strategy selects the chase variant: standard, parallel, fast,
	// seminaive, core, colimit, or free.
	Strategy string `yaml:"strategy"`

	// Options tunes the selected strategy. Zero values mean the
	// strategy's defaults.
	Options ScenarioOptions `yaml:"options,omitempty"`

	// Seed lists named generator elements per sort.
	Seed map[string][]string `yaml:"seed"`

	// Tuples lists seed relation rows, each row referring to generators
	// by name.
	Tuples map[string][][]string `yaml:"tuples,omitempty"`

	// Assertions validate the final model.
	Assertions []Assertion `yaml:"assertions"`
}

// ScenarioOptions carries the strategy knobs a scenario may set.
type ScenarioOptions struct {
	// MaxSteps caps standard, parallel, and core rounds.
	MaxSteps int `yaml:"max_steps,omitempty"`

	// MaxRounds caps fast and colimit rounds.
	MaxRounds int `yaml:"max_rounds,omitempty"`

	// FireSatisfied fires triggers whose obligation already holds.
	FireSatisfied bool `yaml:"fire_satisfied,omitempty"`

	// SeedSorts protects those sorts' elements during core-chase folds.
	SeedSorts []string `yaml:"seed_sorts,omitempty"`
}

// Assertion validates one property of the final model.
type Assertion struct {
	// Type is one of carrier_count, tuple_count, has_element, or
	// folded_carrier_count.
	Type string `yaml:"type"`

	// Sort names the carrier (carrier_count, has_element,
	// folded_carrier_count).
	Sort string `yaml:"sort,omitempty"`

	// Relation names the relation (tuple_count).
	Relation string `yaml:"relation,omitempty"`

	// Element is the generator name expected in the carrier (has_element).
	Element string `yaml:"element,omitempty"`

	// Count is the expected size (carrier_count, tuple_count,
	// folded_carrier_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertCarrierCount       = "carrier_count"
	AssertTupleCount         = "tuple_count"
	AssertHasElement         = "has_element"
	AssertFoldedCarrierCount = "folded_carrier_count"
)

// Strategy constants.
const (
	StrategyStandard  = "standard"
	StrategyParallel  = "parallel"
	StrategyFast      = "fast"
	StrategySemiNaive = "seminaive"
	StrategyCore      = "core"
	StrategyColimit   = "colimit"
	StrategyFree      = "free"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos fail loudly instead of silently dropping assertions.
// The presentation path is resolved relative to the scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	if scenario.Presentation != "" && !filepath.IsAbs(scenario.Presentation) {
		scenario.Presentation = filepath.Join(filepath.Dir(path), scenario.Presentation)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Presentation == "" {
		return fmt.Errorf("presentation is required")
	}
	if _, err := os.Stat(s.Presentation); os.IsNotExist(err) {
		return fmt.Errorf("presentation file not found: %s", s.Presentation)
	}

	switch s.Strategy {
	case StrategyStandard, StrategyParallel, StrategyFast,
		StrategySemiNaive, StrategyCore, StrategyColimit, StrategyFree:
	case "":
		return fmt.Errorf("strategy is required")
	default:
		return fmt.Errorf("unknown strategy %q", s.Strategy)
	}

	if len(s.Seed) == 0 {
		return fmt.Errorf("seed is required and must name at least one sort")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertCarrierCount, AssertFoldedCarrierCount:
		if a.Sort == "" {
			return fmt.Errorf("assertions[%d]: sort is required for %s", index, a.Type)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertTupleCount:
		if a.Relation == "" {
			return fmt.Errorf("assertions[%d]: relation is required for tuple_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for tuple_count", index)
		}
	case AssertHasElement:
		if a.Sort == "" {
			return fmt.Errorf("assertions[%d]: sort is required for has_element", index)
		}
		if a.Element == "" {
			return fmt.Errorf("assertions[%d]: element is required for has_element", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
