package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/pulsenet/internal/ir"
	"github.com/roach88/pulsenet/internal/network"
)

// DeterminismReport compares two independent runs of the same wiring.
type DeterminismReport struct {
	Presses    int    `json:"presses"`
	Deliveries int    `json:"deliveries"`
	FirstHash  string `json:"first_hash"`
	SecondHash string `json:"second_hash"`
	Identical  bool   `json:"identical"`
	DivergesAt int64  `json:"diverges_at,omitempty"` // seq of the first differing pulse
	Tally      Tally  `json:"tally"`
}

// VerifyDeterminism builds two networks from decls, runs presses presses on
// each and compares the traces.
//
// A mismatch is reported in the result, not as an error.
func VerifyDeterminism(ctx context.Context, decls []ir.Declaration, presses int, opts ...Option) (DeterminismReport, error) {
	report := DeterminismReport{Presses: presses}

	first, err := traceFresh(ctx, decls, presses, opts)
	if err != nil {
		return report, fmt.Errorf("first run: %w", err)
	}
	second, err := traceFresh(ctx, decls, presses, opts)
	if err != nil {
		return report, fmt.Errorf("second run: %w", err)
	}

	if report.FirstHash, err = ir.TraceHash(first); err != nil {
		return report, err
	}
	if report.SecondHash, err = ir.TraceHash(second); err != nil {
		return report, err
	}

	report.Deliveries = len(first)
	report.Identical = report.FirstHash == report.SecondHash
	for _, p := range first {
		report.Tally.Observe(p)
	}
	if !report.Identical {
		report.DivergesAt = firstDivergence(first, second)
		slog.Error("runs diverged",
			"presses", presses,
			"diverges_at", report.DivergesAt,
		)
	}
	return report, nil
}

func traceFresh(ctx context.Context, decls []ir.Declaration, presses int, opts []Option) ([]ir.Pulse, error) {
	net, err := network.New(decls)
	if err != nil {
		return nil, err
	}
	return Trace(ctx, net, presses, opts...)
}

func firstDivergence(a, b []ir.Pulse) int64 {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[i].Seq
		}
	}
	return int64(n + 1)
}
