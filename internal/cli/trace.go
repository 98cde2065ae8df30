package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/harness"
	"github.com/roach88/pulsenet/internal/ir"
	"github.com/roach88/pulsenet/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Presses  int
	Entry    string
	Database string
	RunID    string
	Press    int // optional - filter a stored trace to one press
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	RunID      string     `json:"run_id,omitempty"`
	WiringHash string     `json:"wiring_hash"`
	Presses    int        `json:"presses"`
	Pulses     []ir.Pulse `json:"pulses"`
	Stats      TraceStats `json:"stats"`
}

// TraceStats holds summary statistics for the trace.
type TraceStats struct {
	Deliveries int   `json:"deliveries"`
	Low        int64 `json:"low"`
	High       int64 `json:"high"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace [wiring]",
		Short: "Show every delivered pulse in delivery order",
		Long: `Show the pulses delivered during the first presses, one per line, as
"source -level-> destination".

With a wiring file the presses are simulated; adding --db records the
trace as a new run. With --db and --run a recorded trace is read back
instead, optionally restricted to one press with --press.

Examples:
  pulsenet trace input.txt --presses 1
  pulsenet trace input.txt --presses 4 --db runs.db
  pulsenet trace --db runs.db --run 0192f3c4-... --press 2`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd, args)
		},
	}

	cmd.Flags().IntVar(&opts.Presses, "presses", 1, "number of button presses to simulate")
	cmd.Flags().StringVar(&opts.Entry, "entry", "", "module that receives the button pulse (default broadcaster)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite database to record to, or read from with --run")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "recorded run to read (requires --db)")
	cmd.Flags().IntVar(&opts.Press, "press", 0, "with --run, show only this press")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	var (
		result TraceResult
		err    error
	)
	if opts.RunID != "" {
		result, err = readStoredTrace(opts, cmd)
	} else {
		result, err = simulateTrace(opts, cmd, args)
	}
	if err != nil {
		return outputCommandError(formatter, err)
	}

	tally := tallyOf(result.Pulses)
	result.Stats = TraceStats{
		Deliveries: len(result.Pulses),
		Low:        tally.Low,
		High:       tally.High,
	}

	if opts.Format == "json" {
		return formatter.SuccessWithRun(result, result.RunID)
	}

	w := formatter.Writer
	if _, err := w.Write(harness.RenderTrace(result.Pulses)); err != nil {
		return WrapExitError(ExitCommandError, "write trace", err)
	}
	if result.RunID != "" {
		fmt.Fprintf(w, "# run %s\n", result.RunID)
	}
	fmt.Fprintf(w, "# %d pulses (%d low, %d high)\n", result.Stats.Deliveries, result.Stats.Low, result.Stats.High)
	return nil
}

func simulateTrace(opts *TraceOptions, cmd *cobra.Command, args []string) (TraceResult, error) {
	ctx := cmd.Context()

	loaded, err := LoadWiring(opts.RootOptions, args)
	if err != nil {
		return TraceResult{}, err
	}
	cfg := loaded.Config
	overrideString(cmd, "entry", &cfg.Entry, opts.Entry)
	if opts.Presses < 0 {
		return TraceResult{}, fmt.Errorf("presses must be >= 0, got %d", opts.Presses)
	}

	pulses, err := engine.Trace(ctx, loaded.Network, opts.Presses, engineOptions(cfg)...)
	if err != nil {
		return TraceResult{}, err
	}

	result := TraceResult{
		WiringHash: loaded.WiringHash,
		Presses:    opts.Presses,
		Pulses:     pulses,
	}
	if opts.Database != "" {
		tally := tallyOf(pulses)
		run := store.Run{
			Query:      store.QueryTrace,
			WiringHash: loaded.WiringHash,
			Entry:      cfg.Entry,
			Presses:    opts.Presses,
			Low:        tally.Low,
			High:       tally.High,
		}
		if result.RunID, err = recordRun(ctx, opts.runIDs(), opts.Database, run, pulses); err != nil {
			return TraceResult{}, err
		}
	}
	return result, nil
}

func readStoredTrace(opts *TraceOptions, cmd *cobra.Command) (TraceResult, error) {
	ctx := cmd.Context()

	if opts.Database == "" {
		return TraceResult{}, errors.New("--run requires --db")
	}
	st, err := store.OpenExisting(opts.Database)
	if err != nil {
		return TraceResult{}, err
	}
	defer st.Close()

	run, err := st.ReadRun(ctx, opts.RunID)
	if err != nil {
		return TraceResult{}, err
	}
	pulses, err := st.ReadPulses(ctx, run.ID, opts.Press)
	if err != nil {
		return TraceResult{}, err
	}

	return TraceResult{
		RunID:      run.ID,
		WiringHash: run.WiringHash,
		Presses:    run.Presses,
		Pulses:     pulses,
	}, nil
}

func tallyOf(pulses []ir.Pulse) engine.Tally {
	var t engine.Tally
	for _, p := range pulses {
		t.Observe(p)
	}
	return t
}
