package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/categorist/chasekit/internal/chase"
	"github.com/categorist/chasekit/internal/ir"
)

// FoldOptions holds flags for the fold command.
type FoldOptions struct {
	*RootOptions
	Protect []string
	Output  string
}

// FoldReport is the JSON payload of a successful fold.
type FoldReport struct {
	Before int    `json:"before"`
	After  int    `json:"after"`
	Merged int    `json:"merged"`
	Hash   string `json:"hash"`
}

// NewFoldCommand creates the fold command.
func NewFoldCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FoldOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fold <instance.json>",
		Short: "Fold locally indistinguishable elements of a saved model",
		Long: `Merge elements of one sort whose relational neighborhoods look alike,
shrinking a model saved by "run -o". Sorts listed with --protect keep all
their elements as merge representatives.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFold(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Protect, "protect", nil, "sorts whose elements must survive the fold")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the folded model's canonical JSON to this file")

	return cmd
}

func runFold(opts *FoldOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "reading instance file", err)
	}
	inst, err := ir.UnmarshalInstance(data)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "decoding instance", err)
	}
	before := inst.ElementCount()

	var folded ir.Instance
	var renaming chase.Renaming
	if len(opts.Protect) > 0 {
		folded, renaming = chase.FoldUnderSeed(inst, opts.Protect)
	} else {
		folded, renaming = chase.FoldDuplicatesByLocalProfile(inst, nil)
	}

	merged := 0
	for key, rep := range renaming {
		if ir.MustValueKey(rep) != key {
			merged++
		}
	}

	if opts.Output != "" {
		out, err := folded.Canonical()
		if err != nil {
			return WrapExitError(ExitCommandError, "canonicalizing folded model", err)
		}
		if err := os.WriteFile(opts.Output, out, 0o644); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "writing folded model", err)
		}
	}

	report := FoldReport{
		Before: before,
		After:  folded.ElementCount(),
		Merged: merged,
		Hash:   folded.MustHash(),
	}
	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	fmt.Fprintf(formatter.Writer, "✓ Folded: %d -> %d element(s), %d merged\n", report.Before, report.After, report.Merged)
	fmt.Fprintf(formatter.Writer, "Model hash: %s\n", report.Hash)
	if opts.Output != "" {
		fmt.Fprintf(formatter.Writer, "Wrote folded model to %s\n", opts.Output)
	}
	return nil
}
