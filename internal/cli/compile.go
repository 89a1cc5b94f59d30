package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/categorist/chasekit/internal/compiler"
	"github.com/categorist/chasekit/internal/ir"
	"github.com/categorist/chasekit/internal/theory"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string
}

// AxiomSummary is one axiom in a compiled-theory report.
type AxiomSummary struct {
	Name string `json:"name"`
	Rule string `json:"rule"`
	EGD  bool   `json:"egd"`
}

// CompiledTheory is the JSON payload of a successful compile.
type CompiledTheory struct {
	Sorts     []string       `json:"sorts"`
	Relations []ir.Relation  `json:"relations"`
	Axioms    []AxiomSummary `json:"axioms"`
	Cartesian bool           `json:"cartesian"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <presentation.cue>",
		Short: "Compile a CUE presentation to a validated theory",
		Long: `Compile a CUE category presentation into its cartesian theory and
validate it: sorts from objects, a graph relation plus a unique-witness
axiom per arrow, and an identification axiom per path equation.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path for the theory JSON")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	th, err := compileTheoryFile(path)
	if err != nil {
		return outputCompileError(formatter, err)
	}
	formatter.VerboseLog("Compiled %s: %d sorts, %d relations", path, len(th.Sig.Sorts), len(th.Sig.Relations))

	if verrs := theory.Validate(th); len(verrs) > 0 {
		messages := make([]string, len(verrs))
		for i, ve := range verrs {
			messages[i] = ve.Error()
		}
		_ = formatter.Error(ErrCodeValidate, fmt.Sprintf("theory has %d validation error(s)", len(verrs)), messages)
		if formatter.Format != "json" {
			for _, msg := range messages {
				fmt.Fprintf(formatter.Writer, "  %s\n", msg)
			}
		}
		return NewExitError(ExitFailure, "theory validation failed")
	}

	result := summarizeTheory(th)

	if opts.Output != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return WrapExitError(ExitCommandError, "marshaling theory", err)
		}
		if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "writing output file", err)
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled: %d sort(s), %d relation(s), %d axiom(s)",
		len(result.Sorts), len(result.Relations), len(result.Axioms))
	if result.Cartesian {
		fmt.Fprint(formatter.Writer, " (cartesian)")
	}
	fmt.Fprintln(formatter.Writer)

	fmt.Fprintln(formatter.Writer, "Axioms:")
	for _, ax := range result.Axioms {
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", ax.Name, ax.Rule)
	}
	if opts.Output != "" {
		fmt.Fprintf(formatter.Writer, "Wrote theory JSON to %s\n", opts.Output)
	}
	return nil
}

// compileTheoryFile reads and compiles a CUE presentation into its
// cartesian theory.
func compileTheoryFile(path string) (theory.RegularTheory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return theory.RegularTheory{}, fmt.Errorf("reading %s: %w", path, err)
	}
	pres, err := compiler.CompileString(string(data))
	if err != nil {
		return theory.RegularTheory{}, fmt.Errorf("compiling %s: %w", path, err)
	}
	return theory.CartesianFromPresentation(pres), nil
}

func summarizeTheory(th theory.RegularTheory) CompiledTheory {
	out := CompiledTheory{
		Sorts:     th.Sig.Sorts,
		Relations: th.Sig.Relations,
		Cartesian: th.IsCartesian(),
	}
	for _, ed := range th.Axioms {
		out.Axioms = append(out.Axioms, AxiomSummary{
			Name: ed.Name,
			Rule: ed.String(),
			EGD:  ed.IsEGD(),
		})
	}
	return out
}

func outputCompileError(formatter *OutputFormatter, err error) error {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		_ = formatter.Error(ErrCodeCompile, compileErr.Error(), nil)
		return WrapExitError(ExitCommandError, "compilation failed", err)
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitCommandError, "compilation failed", err)
}
