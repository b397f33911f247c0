package store

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/animator/internal/trace"
)

// Run summarizes one recorded scenario execution.
type Run struct {
	ID        string    `json:"id"`
	Scenario  string    `json:"scenario"`
	Pass      bool      `json:"pass"`
	Frames    int64     `json:"frames"`
	Schedules int       `json:"schedules"`
	Errors    []string  `json:"errors"`
	Seq       int64     `json:"seq"`
	CreatedAt time.Time `json:"created_at"`
}

// WriteRun stores a run and its events in one transaction and returns the
// run's seq.
//
// Uses ON CONFLICT(id) DO NOTHING for idempotency: writing a run ID that
// already exists leaves the stored run and its events untouched and returns
// the existing seq. run.Seq is ignored; seq is assigned by the store.
func (s *Store) WriteRun(ctx context.Context, run Run, events []trace.Event) (int64, error) {
	errorsJSON, err := marshalErrors(run.Errors)
	if err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("write run: next seq: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, scenario, pass, frames, schedules, errors, seq, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Scenario,
		boolToInt(run.Pass),
		run.Frames,
		run.Schedules,
		errorsJSON,
		seq,
		formatTime(run.CreatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("write run: rows affected: %w", err)
	}
	if rows == 0 {
		// Already recorded; report the original seq.
		if err := tx.QueryRowContext(ctx, `SELECT seq FROM runs WHERE id = ?`, run.ID).Scan(&seq); err != nil {
			return 0, fmt.Errorf("write run: existing seq: %w", err)
		}
		return seq, nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events
		(run_id, seq, frame, kind, phase, component, idx, at, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("write run: prepare events: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.ExecContext(ctx,
			run.ID,
			e.Seq,
			e.Frame,
			string(e.Kind),
			e.Phase,
			e.Component,
			e.Index,
			formatTime(e.At),
			e.Message,
		); err != nil {
			return 0, fmt.Errorf("write event %d: %w", e.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write run: commit: %w", err)
	}
	return seq, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
