package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/ir"
	"github.com/roach88/pulsenet/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Presses  int
	Database string
	RunID    string // optional - also compare against a recorded trace
}

// RecordedCheck compares a fresh simulation with a recorded trace.
type RecordedCheck struct {
	RunID      string `json:"run_id"`
	Presses    int    `json:"presses"` // presses covered by the recording
	Pulses     int    `json:"pulses"`
	Matches    bool   `json:"matches"`
	DivergesAt int64  `json:"diverges_at,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Wiring        string                   `json:"wiring"`
	WiringHash    string                   `json:"wiring_hash"`
	Determinism   engine.DeterminismReport `json:"determinism"`
	Recorded      *RecordedCheck           `json:"recorded,omitempty"`
	Deterministic bool                     `json:"deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay [wiring]",
		Short: "Simulate a wiring twice and verify determinism",
		Long: `Build the network twice from the same wiring, press the button --presses
times on each and compare the two traces pulse by pulse.

With --db and --run the wiring is also replayed against a recorded trace:
the presses the recording covers are simulated again and must produce the
same pulses in the same order.

Exit codes:
  0 - Traces are identical
  1 - Determinism verification failed (differences detected)
  2 - Command error (bad wiring, run not found, etc.)

Examples:
  pulsenet replay input.txt --presses 100
  pulsenet replay input.txt --db runs.db --run 0192f3c4-...`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd, args)
		},
	}

	cmd.Flags().IntVar(&opts.Presses, "presses", 1000, "number of button presses per run")
	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite database holding the recorded run")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "recorded run to compare against (requires --db)")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command, args []string) error {
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
	overrideInt(cmd, "presses", &cfg.Presses, opts.Presses)

	report, err := engine.VerifyDeterminism(ctx, loaded.Decls, cfg.Presses, engineOptions(cfg)...)
	if err != nil {
		return outputCommandError(formatter, err)
	}
	formatter.VerboseLog("Compared %d deliveries over %d presses", report.Deliveries, report.Presses)

	result := ReplayResult{
		Wiring:        loaded.Path,
		WiringHash:    loaded.WiringHash,
		Determinism:   report,
		Deterministic: report.Identical,
	}

	if opts.RunID != "" {
		check, err := replayRecorded(opts, cmd, loaded)
		if err != nil {
			return outputCommandError(formatter, err)
		}
		result.Recorded = check
		if !check.Matches {
			result.Deterministic = false
		}
	}

	if opts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		outputReplayText(formatter, result)
	}

	if !result.Deterministic {
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

// replayRecorded simulates the presses a recorded run covers and compares
// the pulses with the recording.
func replayRecorded(opts *ReplayOptions, cmd *cobra.Command, loaded *LoadResult) (*RecordedCheck, error) {
	ctx := cmd.Context()

	if opts.Database == "" {
		return nil, fmt.Errorf("--run requires --db")
	}
	st, err := store.OpenExisting(opts.Database)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	run, err := st.ReadRun(ctx, opts.RunID)
	if err != nil {
		return nil, err
	}
	if run.WiringHash != loaded.WiringHash {
		return nil, fmt.Errorf("run %s was recorded for wiring %s, not %s", run.ID, run.WiringHash, loaded.WiringHash)
	}
	recorded, err := st.ReadPulses(ctx, run.ID, 0)
	if err != nil {
		return nil, err
	}
	if len(recorded) == 0 {
		return nil, fmt.Errorf("run %s has no recorded pulses", run.ID)
	}

	presses := recorded[len(recorded)-1].Press
	cfg := loaded.Config
	cfg.Entry = run.Entry
	fresh, err := engine.Trace(ctx, loaded.Network, presses, engineOptions(cfg)...)
	if err != nil {
		return nil, err
	}

	check := &RecordedCheck{
		RunID:   run.ID,
		Presses: presses,
		Pulses:  len(recorded),
	}
	check.DivergesAt = divergence(recorded, fresh)
	check.Matches = check.DivergesAt == 0
	return check, nil
}

// divergence returns the seq of the first pulse where a and b differ, or 0.
func divergence(a, b []ir.Pulse) int64 {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[i].Seq
		}
	}
	if len(a) != len(b) {
		return int64(n + 1)
	}
	return 0
}

func outputReplayText(formatter *OutputFormatter, result ReplayResult) {
	w := formatter.Writer
	r := result.Determinism

	fmt.Fprintf(w, "Replay: %s (%d presses, %d deliveries)\n", result.Wiring, r.Presses, r.Deliveries)
	if r.Identical {
		fmt.Fprintf(w, "  ✓ runs identical (trace %s)\n", r.FirstHash)
	} else {
		fmt.Fprintf(w, "  ✗ runs diverge at seq %d\n", r.DivergesAt)
	}

	if c := result.Recorded; c != nil {
		if c.Matches {
			fmt.Fprintf(w, "  ✓ matches run %s (%d pulses over %d presses)\n", c.RunID, c.Pulses, c.Presses)
		} else {
			fmt.Fprintf(w, "  ✗ run %s diverges at seq %d\n", c.RunID, c.DivergesAt)
		}
	}

	if result.Deterministic {
		fmt.Fprintln(w, "\nDeterministic.")
	} else {
		fmt.Fprintln(w, "\nNot deterministic.")
	}
}
