package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/categorist/chasekit/internal/chase"
	"github.com/categorist/chasekit/internal/ir"
	"github.com/categorist/chasekit/internal/store"
	"github.com/categorist/chasekit/internal/theory"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Strategy      string
	Seeds         []string
	MaxSteps      int
	MaxRounds     int
	FireSatisfied bool
	SeedSorts     []string
	TraceDB       string
	Output        string
}

// Strategy names accepted by the run command.
var ValidStrategies = []string{"standard", "parallel", "fast", "seminaive", "core", "colimit", "free"}

// RunReport is the JSON payload of a successful run.
type RunReport struct {
	Strategy string        `json:"strategy"`
	Elements int           `json:"elements"`
	Tuples   int           `json:"tuples"`
	Hash     string        `json:"hash"`
	Freedom  chase.Freedom `json:"freedom,omitempty"`
	Rounds   int           `json:"rounds,omitempty"`
	RunID    string        `json:"run_id,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <presentation.cue>",
		Short: "Chase a presentation to a model",
		Long: `Compile a CUE presentation, seed it with named generators, and chase it
with the selected strategy.

Examples:
  chasekit run cat.cue --seed "A=a,b"
  chasekit run cat.cue --seed A=a --strategy free
  chasekit run cat.cue --seed A=a --strategy core --seed-sorts A
  chasekit run cat.cue --seed A=a --trace-db trace.db -o model.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChase(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Strategy, "strategy", "parallel",
		fmt.Sprintf("chase strategy (%s)", strings.Join(ValidStrategies, "|")))
	cmd.Flags().StringArrayVar(&opts.Seeds, "seed", nil, `seed generators, "Sort=a,b" (repeatable)`)
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", 0, "round cap for standard, parallel, and core (0 = default)")
	cmd.Flags().IntVar(&opts.MaxRounds, "max-rounds", 0, "round cap for fast and colimit (0 = default)")
	cmd.Flags().BoolVar(&opts.FireSatisfied, "fire-satisfied", false, "fire triggers whose obligation already holds")
	cmd.Flags().StringSliceVar(&opts.SeedSorts, "seed-sorts", nil, "sorts protected from core-chase folding")
	cmd.Flags().StringVar(&opts.TraceDB, "trace-db", "", "record round-by-round trace to this SQLite database")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the final model's canonical JSON to this file")

	return cmd
}

func runChase(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cart, err := compileTheoryFile(path)
	if err != nil {
		return outputCompileError(formatter, err)
	}
	if verrs := theory.Validate(cart); len(verrs) > 0 {
		_ = formatter.Error(ErrCodeValidate, verrs[0].Error(), nil)
		return NewExitError(ExitFailure, "theory validation failed")
	}
	reg := theory.CartesianToRegular(cart)

	seed, err := parseSeed(reg.Sig, opts.Seeds)
	if err != nil {
		_ = formatter.Error(ErrCodeSeed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid seed", err)
	}

	ctx := cmd.Context()
	var engOpts []chase.EngineOption
	runID := ""
	if opts.TraceDB != "" {
		st, err := store.Open(opts.TraceDB)
		if err != nil {
			_ = formatter.Error(ErrCodeTraceDB, err.Error(), nil)
			return WrapExitError(ExitCommandError, "opening trace database", err)
		}
		defer st.Close()

		run, err := st.BeginRun(ctx, reg, seed, opts.Strategy)
		if err != nil {
			_ = formatter.Error(ErrCodeTraceDB, err.Error(), nil)
			return WrapExitError(ExitCommandError, "beginning trace run", err)
		}
		runID = run.ID
		engOpts = append(engOpts, chase.WithRecorder(st.NewRecorder(ctx, run.ID)))
		formatter.VerboseLog("Recording trace to %s as run %s", opts.TraceDB, run.ID)
	}

	final, freedom, rounds, err := executeStrategy(cart, reg, seed, opts, engOpts)
	if err != nil {
		_ = formatter.Error(ErrCodeChase, err.Error(), nil)
		return WrapExitError(ExitFailure, "chase failed", err)
	}

	if opts.Output != "" {
		data, err := final.Canonical()
		if err != nil {
			return WrapExitError(ExitCommandError, "canonicalizing model", err)
		}
		if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "writing model file", err)
		}
	}

	report := RunReport{
		Strategy: opts.Strategy,
		Elements: final.ElementCount(),
		Tuples:   final.TupleCount(),
		Hash:     final.MustHash(),
		Freedom:  freedom,
		Rounds:   rounds,
		RunID:    runID,
	}
	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	fmt.Fprintf(formatter.Writer, "✓ Chase (%s): %d element(s), %d tuple(s)\n",
		report.Strategy, report.Elements, report.Tuples)
	if report.Freedom != "" {
		fmt.Fprintf(formatter.Writer, "Freedom: %s\n", report.Freedom)
	}
	if opts.Strategy == "seminaive" {
		fmt.Fprintf(formatter.Writer, "Incremental rounds: %d\n", report.Rounds)
	}
	if opts.Verbose {
		for _, sort := range final.Sorts() {
			fmt.Fprintf(formatter.Writer, "  %s: %d element(s)\n", sort, final.Carrier(sort).Len())
		}
		for _, rel := range final.Relations() {
			fmt.Fprintf(formatter.Writer, "  %s: %d tuple(s)\n", rel, final.TupleSet(rel).Len())
		}
	}
	fmt.Fprintf(formatter.Writer, "Model hash: %s\n", report.Hash)
	if runID != "" {
		fmt.Fprintf(formatter.Writer, "Trace run: %s\n", runID)
	}
	if opts.Output != "" {
		fmt.Fprintf(formatter.Writer, "Wrote model to %s\n", opts.Output)
	}
	return nil
}

// executeStrategy dispatches to the chase variant named by the strategy
// flag. The free strategy consumes the cartesian theory directly; all
// others chase its regular expansion.
func executeStrategy(cart, reg theory.RegularTheory, seed ir.Instance, opts *RunOptions, engOpts []chase.EngineOption) (ir.Instance, chase.Freedom, int, error) {
	switch opts.Strategy {
	case "standard", "parallel":
		eng := chase.New(reg, engOpts...)
		final, err := eng.ChaseRegular(seed, chase.Options{
			Parallel:      opts.Strategy == "parallel",
			MaxSteps:      opts.MaxSteps,
			FireSatisfied: opts.FireSatisfied,
		})
		return final, "", 0, err
	case "fast":
		eng := chase.New(reg, engOpts...)
		final, err := eng.FastParallel(seed, chase.FastOptions{
			MaxRounds:      opts.MaxRounds,
			StopWhenFinite: true,
		})
		return final, "", 0, err
	case "seminaive":
		eng := chase.New(reg, engOpts...)
		res, err := eng.SemiNaive(seed)
		return res.I, "", res.Rounds, err
	case "core":
		eng := chase.New(reg, engOpts...)
		final, err := eng.CoreChase(seed, opts.SeedSorts, chase.Options{
			MaxSteps:      opts.MaxSteps,
			FireSatisfied: opts.FireSatisfied,
		})
		return final, "", 0, err
	case "colimit":
		eng := chase.New(reg, engOpts...)
		res, err := eng.ChaseToColimit(seed, chase.ColimitOptions{Rounds: opts.MaxRounds})
		return res.Model, res.Freedom, 0, err
	case "free":
		res, err := chase.FreeReflect(cart, seed, engOpts...)
		return res.Model, res.Freedom, 0, err
	default:
		return ir.Instance{}, "", 0, fmt.Errorf("unknown strategy %q (valid: %s)", opts.Strategy, strings.Join(ValidStrategies, ", "))
	}
}

// parseSeed builds a seed instance from "Sort=a,b" flag entries.
func parseSeed(sig ir.Signature, entries []string) (ir.Instance, error) {
	inst := ir.NewInstance(sig)
	for _, entry := range entries {
		sort, names, ok := strings.Cut(entry, "=")
		if !ok {
			return ir.Instance{}, fmt.Errorf("seed entry %q: want \"Sort=a,b\"", entry)
		}
		if !sig.HasSort(sort) {
			return ir.Instance{}, fmt.Errorf("seed sort %q is not in the signature", sort)
		}
		for _, name := range strings.Split(names, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				return ir.Instance{}, fmt.Errorf("seed entry %q: empty generator name", entry)
			}
			inst = inst.WithElement(sort, ir.Sym{Name: name})
		}
	}
	return inst, nil
}
