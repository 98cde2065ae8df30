package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/ir"
	"github.com/roach88/pulsenet/internal/store"
)

// TallyOptions holds flags for the tally command.
type TallyOptions struct {
	*RootOptions
	Presses     int
	Entry       string
	Database    string
	RecordTrace int // presses whose pulses are stored with the run
}

// TallyResult is the output of the tally command.
type TallyResult struct {
	Wiring     string `json:"wiring"`
	WiringHash string `json:"wiring_hash"`
	Presses    int    `json:"presses"`
	Low        int64  `json:"low"`
	High       int64  `json:"high"`
	Product    int64  `json:"product"`
}

// NewTallyCommand creates the tally command.
func NewTallyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TallyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "tally [wiring]",
		Short: "Count low and high pulses over a number of presses",
		Long: `Press the button --presses times and count every delivered pulse,
the button pulses included. Prints the low count, the high count and
their product.

Examples:
  pulsenet tally input.txt
  pulsenet tally input.txt --presses 4 --format json
  pulsenet tally input.txt --db runs.db --record-trace 1`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTally(opts, cmd, args)
		},
	}

	cmd.Flags().IntVar(&opts.Presses, "presses", 1000, "number of button presses")
	cmd.Flags().StringVar(&opts.Entry, "entry", "", "module that receives the button pulse (default broadcaster)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database")
	cmd.Flags().IntVar(&opts.RecordTrace, "record-trace", 0, "with --db, also store the pulses of the first N presses")

	return cmd
}

func runTally(opts *TallyOptions, cmd *cobra.Command, args []string) error {
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
	overrideString(cmd, "entry", &cfg.Entry, opts.Entry)
	if cfg.Presses < 0 {
		return outputCommandError(formatter, fmt.Errorf("presses must be >= 0, got %d", cfg.Presses))
	}

	formatter.VerboseLog("Loaded %d modules from %s", len(loaded.Decls), loaded.Path)

	engineOpts := engineOptions(cfg)
	var rec *engine.Recorder
	if opts.Database != "" && opts.RecordTrace > 0 {
		rec = engine.NewRecorder(opts.RecordTrace)
		engineOpts = append(engineOpts, engine.WithObserver(rec))
	}

	tally, err := engine.CountPulses(ctx, loaded.Network, cfg.Presses, engineOpts...)
	if err != nil {
		return outputCommandError(formatter, err)
	}

	result := TallyResult{
		Wiring:     loaded.Path,
		WiringHash: loaded.WiringHash,
		Presses:    cfg.Presses,
		Low:        tally.Low,
		High:       tally.High,
		Product:    tally.Product(),
	}

	var runID string
	if opts.Database != "" {
		run := store.Run{
			Query:      store.QueryTally,
			WiringHash: loaded.WiringHash,
			Entry:      cfg.Entry,
			Presses:    cfg.Presses,
			Low:        tally.Low,
			High:       tally.High,
			Result:     tally.Product(),
		}
		var pulses []ir.Pulse
		if rec != nil {
			pulses = rec.Pulses()
		}
		if runID, err = recordRun(ctx, opts.runIDs(), opts.Database, run, pulses); err != nil {
			return outputCommandError(formatter, err)
		}
		formatter.VerboseLog("Recorded run %s (%d pulses)", runID, len(pulses))
	}

	if opts.Format == "json" {
		return formatter.SuccessWithRun(result, runID)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "low:     %d\n", result.Low)
	fmt.Fprintf(w, "high:    %d\n", result.High)
	fmt.Fprintf(w, "product: %d\n", result.Product)
	if runID != "" {
		fmt.Fprintf(w, "run:     %s\n", runID)
	}
	return nil
}
