package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/categorist/chasekit/internal/chase"
	"github.com/categorist/chasekit/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	RunID string
}

// TraceReport is the JSON payload of a single-run trace inspection.
type TraceReport struct {
	Run     store.Run           `json:"run"`
	Rounds  []store.RoundRecord `json:"rounds"`
	Firings []chase.Firing      `json:"firings"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <trace.db>",
		Short: "Inspect recorded chase runs",
		Long: `List the runs recorded in a trace database, or show one run's
round-by-round history with --run.

Examples:
  chasekit trace trace.db
  chasekit trace trace.db --run 7f3a...`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RunID, "run", "", "show this run's rounds and firings")

	return cmd
}

func runTrace(opts *TraceOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		_ = formatter.Error(ErrCodeTraceDB, fmt.Sprintf("trace database not found: %s", path), nil)
		return NewExitError(ExitCommandError, "trace database not found")
	}
	st, err := store.Open(path)
	if err != nil {
		_ = formatter.Error(ErrCodeTraceDB, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening trace database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if opts.RunID == "" {
		return listTraceRuns(ctx, formatter, st)
	}

	run, err := st.ReadRun(ctx, opts.RunID)
	if err != nil {
		_ = formatter.Error(ErrCodeTraceDB, err.Error(), nil)
		return WrapExitError(ExitCommandError, "reading run", err)
	}
	rounds, err := st.ReadRounds(ctx, opts.RunID)
	if err != nil {
		return WrapExitError(ExitCommandError, "reading rounds", err)
	}
	firings, err := st.ReadFirings(ctx, opts.RunID)
	if err != nil {
		return WrapExitError(ExitCommandError, "reading firings", err)
	}

	report := TraceReport{Run: run, Rounds: rounds, Firings: firings}
	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	fmt.Fprintf(formatter.Writer, "Run %s (%s): %d axiom(s)\n", run.ID, run.Strategy, run.Axioms)
	fmt.Fprintf(formatter.Writer, "Theory %s, seed %s\n", shortHash(run.TheoryHash), shortHash(run.SeedHash))
	for _, r := range rounds {
		fmt.Fprintf(formatter.Writer, "  round %d: %d element(s), %d tuple(s), %s\n",
			r.Round, r.Elements, r.Tuples, shortHash(r.InstanceHash))
	}
	if opts.Verbose {
		for _, f := range firings {
			fmt.Fprintf(formatter.Writer, "  fired %s (%s) in round %d, env %s\n",
				f.Axiom, f.Kind, f.Round, shortHash(f.EnvHash))
		}
	} else {
		fmt.Fprintf(formatter.Writer, "%d firing(s); rerun with --verbose to list them\n", len(firings))
	}
	return nil
}

func listTraceRuns(ctx context.Context, formatter *OutputFormatter, st *store.Store) error {
	runs, err := st.ListRuns(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "listing runs", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded.")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(formatter.Writer, "%s  %-10s %d axiom(s), theory %s\n",
			run.ID, run.Strategy, run.Axioms, shortHash(run.TheoryHash))
	}
	return nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
