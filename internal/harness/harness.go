package harness

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/ir"
	"github.com/roach88/pulsenet/internal/network"
)

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Compile the wiring and hash it
//  2. Tally presses presses, if any
//  3. Record the first trace_presses presses, if any
//  4. Compute min_presses and first_low_press, if expected
//  5. Compare the results with the expectations
//
// Every step builds its own network from the declarations. An error is
// returned only when a step cannot run; mismatches are reported in
// Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a context checked between presses.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	decls, err := scenario.Declarations()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := NewResult(scenario.Name)
	if result.WiringHash, err = ir.WiringHash(decls); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	opts := scenarioOptions(scenario)
	logger := slog.With("scenario", scenario.Name)

	if scenario.Presses > 0 {
		net, err := network.New(decls)
		if err != nil {
			return nil, err
		}
		tally, err := engine.CountPulses(ctx, net, scenario.Presses, opts...)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		result.Tally = &tally
	}

	if scenario.TracePresses > 0 {
		net, err := network.New(decls)
		if err != nil {
			return nil, err
		}
		if result.Trace, err = engine.Trace(ctx, net, scenario.TracePresses, opts...); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
	}

	if scenario.Expect.MinPresses != nil {
		net, err := network.New(decls)
		if err != nil {
			return nil, err
		}
		mpOpts := opts
		if len(scenario.Witnesses) > 0 {
			mpOpts = append(mpOpts, engine.WithWitnesses(scenario.Witnesses...))
		}
		res, err := engine.MinPresses(ctx, net, scenario.target(), mpOpts...)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		result.MinPresses = &res
	}

	if scenario.Expect.FirstLowPress != nil {
		net, err := network.New(decls)
		if err != nil {
			return nil, err
		}
		if result.FirstLowPress, err = engine.FirstLowPress(ctx, net, scenario.target(), opts...); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
	}

	checkExpectations(scenario, result)
	logger.Debug("scenario complete", "pass", result.Pass, "errors", len(result.Errors))
	return result, nil
}

func scenarioOptions(s *Scenario) []engine.Option {
	var opts []engine.Option
	if s.Entry != "" {
		opts = append(opts, engine.WithEntry(s.Entry))
	}
	if s.MaxPresses > 0 {
		opts = append(opts, engine.WithMaxPresses(s.MaxPresses))
	}
	return opts
}
