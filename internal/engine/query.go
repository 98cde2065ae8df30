package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/pulsenet/internal/ir"
	"github.com/roach88/pulsenet/internal/network"
)

// CountPulses presses the button presses times and tallies every delivered
// pulse, the button pulses included. Every press is simulated.
func CountPulses(ctx context.Context, net *network.Network, presses int, opts ...Option) (Tally, error) {
	tally := &Tally{}
	s := newSettings(append(opts, WithObserver(tally)))

	e, err := newEngine(net, s)
	if err != nil {
		return Tally{}, err
	}
	if err := e.Run(ctx, presses); err != nil {
		return *tally, fmt.Errorf("count pulses: %w", err)
	}

	slog.Info("tally complete",
		"presses", presses,
		"low", tally.Low,
		"high", tally.High,
		"product", tally.Product(),
	)
	return *tally, nil
}

// Result is the outcome of MinPresses.
type Result struct {
	Target    string         `json:"target"`
	Feeder    string         `json:"feeder,omitempty"`
	Witnesses []string       `json:"witnesses"`
	Periods   map[string]int `json:"periods"`
	Presses   int            `json:"presses"` // presses actually simulated
	Answer    int64          `json:"answer"`
}

// MinPresses returns the fewest presses after which target receives a low
// pulse, computed as the least common multiple of the witnesses' periods.
//
// Witnesses default to the inputs of the single conjunction feeding target.
// The network is simulated only until every witness has sent a high pulse.
func MinPresses(ctx context.Context, net *network.Network, target string, opts ...Option) (Result, error) {
	s := newSettings(opts)
	res := Result{Target: target}

	witnesses := s.witnesses
	if !s.witnessesSet {
		feeder, err := net.PredecessorConjunction(target)
		if err != nil {
			return res, fmt.Errorf("find feeder of %s: %w", target, err)
		}
		inputs, err := net.InputsOf(feeder)
		if err != nil {
			return res, fmt.Errorf("find witnesses of %s: %w", feeder, err)
		}
		res.Feeder = feeder
		witnesses = inputs
	}

	if len(witnesses) == 0 {
		return res, newNoWitnessesError(target)
	}
	for _, w := range witnesses {
		if !net.Declared(w) {
			return res, newUnknownWitnessError(w)
		}
	}

	detector := NewPeriodDetector(witnesses)
	res.Witnesses = detector.Witnesses()
	s.observers = append(s.observers, detector)

	e, err := newEngine(net, s)
	if err != nil {
		return res, err
	}

	for !detector.Done() {
		if e.Presses() >= s.maxPresses {
			res.Presses = e.Presses()
			res.Periods = detector.Periods()
			return res, newPressLimitError(s.maxPresses, detector.Pending())
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := e.Press(); err != nil {
			return res, fmt.Errorf("min presses: %w", err)
		}
	}

	res.Presses = e.Presses()
	res.Periods = detector.Periods()

	answer, err := detector.LCM()
	if err != nil {
		return res, err
	}
	res.Answer = answer

	slog.Info("min presses complete",
		"target", target,
		"feeder", res.Feeder,
		"witnesses", len(res.Witnesses),
		"simulated", res.Presses,
		"answer", answer,
	)
	return res, nil
}

// FirstLowPress presses until target receives a low pulse and returns that
// press. It simulates every press, so it only suits small networks; it is the
// reference MinPresses is checked against.
func FirstLowPress(ctx context.Context, net *network.Network, target string, opts ...Option) (int, error) {
	s := newSettings(opts)

	found := 0
	s.observers = append(s.observers, ObserverFunc(func(p ir.Pulse) {
		if found == 0 && p.Dest == target && p.Level == ir.Low {
			found = p.Press
		}
	}))

	e, err := newEngine(net, s)
	if err != nil {
		return 0, err
	}

	for found == 0 {
		if e.Presses() >= s.maxPresses {
			return 0, newPressLimitError(s.maxPresses, []string{target})
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := e.Press(); err != nil {
			return 0, fmt.Errorf("first low press: %w", err)
		}
	}

	slog.Info("first low press found", "target", target, "press", found)
	return found, nil
}
