package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/pulsenet/internal/ir"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// WriteRun inserts a run record and returns it with its assigned seq.
//
// Seq is one more than the largest seq in the log, so ListRuns returns runs
// in write order. Writing an id that already exists is an error.
func (s *Store) WriteRun(ctx context.Context, run Run) (Run, error) {
	return insertRun(ctx, s.db, run)
}

// WritePulses appends delivered pulses to a run in one transaction.
//
// The run must already exist (foreign key constraint). Pulses keep the seq
// the engine stamped on them.
func (s *Store) WritePulses(ctx context.Context, runID string, pulses []ir.Pulse) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return insertPulses(ctx, tx, runID, pulses)
	})
}

// RecordRun writes a run and its pulses in one transaction. On any error
// neither the run nor its pulses are in the log.
func (s *Store) RecordRun(ctx context.Context, run Run, pulses []ir.Pulse) (Run, error) {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		if run, err = insertRun(ctx, tx, run); err != nil {
			return err
		}
		return insertPulses(ctx, tx, run.ID, pulses)
	})
	return run, err
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertRun(ctx context.Context, q querier, run Run) (Run, error) {
	if run.ID == "" {
		return run, fmt.Errorf("write run: empty id")
	}

	details, err := marshalDetails(run.Details)
	if err != nil {
		return run, fmt.Errorf("write run: %w", err)
	}

	row := q.QueryRowContext(ctx, `
		INSERT INTO runs
		(id, query, wiring_hash, entry, target, presses, low, high, result, details, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs))
		RETURNING seq
	`,
		run.ID,
		string(run.Query),
		run.WiringHash,
		run.Entry,
		run.Target,
		run.Presses,
		run.Low,
		run.High,
		run.Result,
		details,
	)
	if err := row.Scan(&run.Seq); err != nil {
		return run, fmt.Errorf("write run %s: %w", run.ID, err)
	}

	return run, nil
}

func insertPulses(ctx context.Context, q querier, runID string, pulses []ir.Pulse) error {
	if len(pulses) == 0 {
		return nil
	}

	stmt, err := q.PrepareContext(ctx, `
		INSERT INTO pulses (run_id, seq, press, source, dest, level)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write pulses: prepare: %w", err)
	}
	defer stmt.Close()

	for _, p := range pulses {
		if _, err := stmt.ExecContext(ctx, runID, p.Seq, p.Press, p.Source, p.Dest, marshalLevel(p.Level)); err != nil {
			return fmt.Errorf("write pulses: seq %d: %w", p.Seq, err)
		}
	}
	return nil
}
