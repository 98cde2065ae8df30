package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/ir"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid        bool   `json:"valid"`
	Wiring       string `json:"wiring"`
	WiringHash   string `json:"wiring_hash"`
	Modules      int    `json:"modules"`
	FlipFlops    int    `json:"flip_flops"`
	Conjunctions int    `json:"conjunctions"`
	Sinks        int    `json:"sinks"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [wiring]",
		Short: "Parse a wiring and build its network without pressing",
		Long: `Parse a wiring file and build the network without pressing the button.

Reports malformed lines with their line number, duplicate module names and
an invalid --config file. Faster than any query for development feedback.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, cmd, args)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	loaded, err := LoadWiring(opts, args)
	if err != nil {
		return outputCommandError(formatter, err)
	}

	result := ValidationResult{
		Valid:      true,
		Wiring:     loaded.Path,
		WiringHash: loaded.WiringHash,
		Modules:    len(loaded.Decls),
		Sinks:      len(loaded.Network.Sinks()),
	}
	for _, d := range loaded.Decls {
		formatter.VerboseLog("%d: %s", d.Line, d)
		switch d.Kind {
		case ir.KindFlipFlop:
			result.FlipFlops++
		case ir.KindConjunction:
			result.Conjunctions++
		}
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Wiring valid: %d modules (%d flip-flops, %d conjunctions), %d sinks\n",
		result.Modules, result.FlipFlops, result.Conjunctions, result.Sinks)
	return nil
}
