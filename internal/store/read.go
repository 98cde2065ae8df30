package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/pulsenet/internal/ir"
)

const runColumns = `id, query, wiring_hash, entry, target, presses, low, high, result, details, seq`

// ReadRun retrieves a single run by id.
// Returns ErrRunNotFound if no such run exists.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	return run, err
}

// ListRuns returns every run in write order.
//
// Returns an empty slice (not nil) if the log is empty.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadPulses returns the recorded pulses of a run ordered by seq.
// A press of 0 returns every press.
//
// Returns an empty slice (not nil) if nothing was recorded.
func (s *Store) ReadPulses(ctx context.Context, runID string, press int) ([]ir.Pulse, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, press, source, dest, level
		FROM pulses
		WHERE run_id = ? AND (? = 0 OR press = ?)
		ORDER BY seq ASC
	`, runID, press, press)
	if err != nil {
		return nil, fmt.Errorf("query pulses: %w", err)
	}
	defer rows.Close()

	pulses := []ir.Pulse{}
	for rows.Next() {
		var (
			p     ir.Pulse
			level string
		)
		if err := rows.Scan(&p.Seq, &p.Press, &p.Source, &p.Dest, &level); err != nil {
			return nil, fmt.Errorf("scan pulse: %w", err)
		}
		if p.Level, err = unmarshalLevel(level); err != nil {
			return nil, fmt.Errorf("scan pulse %d: %w", p.Seq, err)
		}
		pulses = append(pulses, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pulses: %w", err)
	}
	return pulses, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run     Run
		query   string
		details string
	)
	err := row.Scan(
		&run.ID,
		&query,
		&run.WiringHash,
		&run.Entry,
		&run.Target,
		&run.Presses,
		&run.Low,
		&run.High,
		&run.Result,
		&details,
		&run.Seq,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	run.Query = Query(query)
	if run.Details, err = unmarshalDetails(details); err != nil {
		return Run{}, fmt.Errorf("scan run %s: %w", run.ID, err)
	}
	return run, nil
}
