package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/compiler"
	"github.com/roach88/pulsenet/internal/ir"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	Target string
}

// ModuleInfo describes one declared module.
type ModuleInfo struct {
	Name         string   `json:"name"`
	Kind         string   `json:"kind"`
	Destinations []string `json:"destinations"`
	Inputs       []string `json:"inputs,omitempty"` // conjunctions only
}

// InspectResult is the output of the inspect command.
type InspectResult struct {
	Wiring      string          `json:"wiring"`
	WiringHash  string          `json:"wiring_hash"`
	Modules     []ModuleInfo    `json:"modules"`
	Sinks       []string        `json:"sinks"`
	Target      string          `json:"target"`
	Feeder      string          `json:"feeder,omitempty"`
	FeederError string          `json:"feeder_error,omitempty"`
	Loops       []compiler.Loop `json:"loops"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect [wiring]",
		Short: "Describe a wiring's modules, inputs, sinks and loops",
		Long: `Describe the network built from a wiring file without pressing the button.

Lists every module with its destinations, the registered inputs of each
conjunction, the sinks (names that are only ever destinations), the
conjunction feeding the target and the feedback loops of the graph.

Examples:
  pulsenet inspect input.txt
  pulsenet inspect input.txt --target output --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, cmd, args)
		},
	}

	cmd.Flags().StringVar(&opts.Target, "target", "", "module whose feeder is reported (default rx)")

	return cmd
}

func runInspect(opts *InspectOptions, cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	loaded, err := LoadWiring(opts.RootOptions, args)
	if err != nil {
		return outputCommandError(formatter, err)
	}
	cfg := loaded.Config
	overrideString(cmd, "target", &cfg.Target, opts.Target)

	net := loaded.Network
	result := InspectResult{
		Wiring:     loaded.Path,
		WiringHash: loaded.WiringHash,
		Modules:    make([]ModuleInfo, 0, len(loaded.Decls)),
		Sinks:      net.Sinks(),
		Target:     cfg.Target,
		Loops:      compiler.AnalyzeLoops(loaded.Decls),
	}

	for _, d := range loaded.Decls {
		info := ModuleInfo{
			Name:         d.Name,
			Kind:         d.Kind.String(),
			Destinations: d.Destinations,
		}
		if d.Kind == ir.KindConjunction {
			if info.Inputs, err = net.InputsOf(d.Name); err != nil {
				return outputCommandError(formatter, err)
			}
		}
		result.Modules = append(result.Modules, info)
	}

	if feeder, err := net.PredecessorConjunction(cfg.Target); err != nil {
		result.FeederError = err.Error()
	} else {
		result.Feeder = feeder
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "%s (%d modules)\n", result.Wiring, len(result.Modules))
	for _, m := range result.Modules {
		fmt.Fprintf(w, "  %-12s %-11s -> %s\n", m.Name, m.Kind, strings.Join(m.Destinations, ", "))
		if len(m.Inputs) > 0 {
			fmt.Fprintf(w, "  %-12s %-11s <- %s\n", "", "", strings.Join(m.Inputs, ", "))
		}
	}
	fmt.Fprintf(w, "sinks: %s\n", strings.Join(result.Sinks, ", "))
	if result.Feeder != "" {
		fmt.Fprintf(w, "feeder of %s: %s\n", result.Target, result.Feeder)
	} else {
		fmt.Fprintf(w, "feeder of %s: none (%s)\n", result.Target, result.FeederError)
	}
	fmt.Fprintf(w, "loops: %d\n", len(result.Loops))
	for _, l := range result.Loops {
		fmt.Fprintf(w, "  %s\n", strings.Join(l.Path, " -> "))
	}
	return nil
}
