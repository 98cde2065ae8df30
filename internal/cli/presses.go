package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/store"
)

// PressesOptions holds flags for the presses command.
type PressesOptions struct {
	*RootOptions
	Target     string
	Witnesses  []string
	MaxPresses int
	BruteForce bool
	Database   string
}

// PressesResult is the output of the presses command.
type PressesResult struct {
	Wiring     string         `json:"wiring"`
	WiringHash string         `json:"wiring_hash"`
	Target     string         `json:"target"`
	Method     string         `json:"method"` // "lcm" or "brute_force"
	Feeder     string         `json:"feeder,omitempty"`
	Witnesses  []string       `json:"witnesses,omitempty"`
	Periods    map[string]int `json:"periods,omitempty"`
	Simulated  int            `json:"simulated"`
	Presses    int64          `json:"presses"`
}

// NewPressesCommand creates the presses command.
func NewPressesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PressesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "presses [wiring]",
		Short: "Find the fewest presses that deliver a low pulse to the target",
		Long: `Find the fewest button presses after which the target module receives
a low pulse.

By default the target's single feeding conjunction is located, each of its
inputs is watched for its first high pulse, and the answer is the least
common multiple of those press numbers. --witness names the watched modules
explicitly. --brute-force instead presses until the target sees a low pulse,
which only finishes for small answers.

Examples:
  pulsenet presses input.txt
  pulsenet presses input.txt --target rx --witness ia --witness ib
  pulsenet presses counters.txt --brute-force --max-presses 100`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPresses(opts, cmd, args)
		},
	}

	cmd.Flags().StringVar(&opts.Target, "target", "", "module that must receive a low pulse (default rx)")
	cmd.Flags().StringArrayVar(&opts.Witnesses, "witness", nil, "module whose first high pulse is watched (repeatable)")
	cmd.Flags().IntVar(&opts.MaxPresses, "max-presses", 0, "give up after this many presses (default 10000000)")
	cmd.Flags().BoolVar(&opts.BruteForce, "brute-force", false, "simulate until the target receives a low pulse")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database")

	return cmd
}

func runPresses(opts *PressesOptions, cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
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
	overrideInt(cmd, "max-presses", &cfg.MaxPresses, opts.MaxPresses)
	if cmd.Flags().Changed("witness") {
		cfg.Witnesses = opts.Witnesses
	}

	result := PressesResult{
		Wiring:     loaded.Path,
		WiringHash: loaded.WiringHash,
		Target:     cfg.Target,
	}
	run := store.Run{
		WiringHash: loaded.WiringHash,
		Entry:      cfg.Entry,
		Target:     cfg.Target,
	}

	if opts.BruteForce {
		press, err := engine.FirstLowPress(ctx, loaded.Network, cfg.Target, engineOptions(cfg)...)
		if err != nil {
			return outputCommandError(formatter, err)
		}
		result.Method = "brute_force"
		result.Simulated = press
		result.Presses = int64(press)

		run.Query = store.QueryFirstLowPress
		run.Presses = press
		run.Result = int64(press)
	} else {
		res, err := engine.MinPresses(ctx, loaded.Network, cfg.Target, engineOptions(cfg)...)
		if err != nil {
			return outputCommandError(formatter, err)
		}
		result.Method = "lcm"
		result.Feeder = res.Feeder
		result.Witnesses = res.Witnesses
		result.Periods = res.Periods
		result.Simulated = res.Presses
		result.Presses = res.Answer

		run.Query = store.QueryMinPresses
		run.Presses = res.Presses
		run.Result = res.Answer
		run.Details = minPressesDetails(res)
	}

	var runID string
	if opts.Database != "" {
		if runID, err = recordRun(ctx, opts.runIDs(), opts.Database, run, nil); err != nil {
			return outputCommandError(formatter, err)
		}
		formatter.VerboseLog("Recorded run %s", runID)
	}

	if opts.Format == "json" {
		return formatter.SuccessWithRun(result, runID)
	}

	w := formatter.Writer
	if result.Feeder != "" {
		fmt.Fprintf(w, "feeder:  %s\n", result.Feeder)
	}
	for _, name := range result.Witnesses {
		fmt.Fprintf(w, "  %s: first high at press %d\n", name, result.Periods[name])
	}
	fmt.Fprintf(w, "presses: %d\n", result.Presses)
	if runID != "" {
		fmt.Fprintf(w, "run:     %s\n", runID)
	}
	return nil
}

// minPressesDetails converts a MinPresses result into canonical run details.
func minPressesDetails(res engine.Result) map[string]any {
	periods := make(map[string]any, len(res.Periods))
	for name, p := range res.Periods {
		periods[name] = p
	}
	details := map[string]any{
		"periods":   periods,
		"witnesses": append([]string(nil), res.Witnesses...),
	}
	if res.Feeder != "" {
		details["feeder"] = res.Feeder
	}
	return details
}
