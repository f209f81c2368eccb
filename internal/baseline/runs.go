package baseline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// RunStatus is the outcome of a recorded run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one cncc invocation that touched the baseline.
type Run struct {
	ID          string
	Status      RunStatus
	StartedAt   time.Time
	CompletedAt *time.Time
	Files       int
	Violations  int
	Suppressed  int
}

// BeginRun records the start of a run.
func (s *Store) BeginRun(ctx context.Context) (*Run, error) {
	run := &Run{
		ID:        generateID(),
		Status:    RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	s.logger.Debug("beginning run", slog.String("id", run.ID))

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, status, started_at) VALUES (?, ?, ?)`,
		run.ID, string(run.Status), run.StartedAt.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// CompleteRun stores the final counters and status of run.
func (s *Store) CompleteRun(ctx context.Context, run *Run, status RunStatus) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, completed_at = ?, files = ?, violations = ?, suppressed = ? WHERE id = ?`,
		string(status), now.UnixMilli(), run.Files, run.Violations, run.Suppressed, run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run not found: %s", run.ID)
	}

	run.Status = status
	run.CompletedAt = &now
	return nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	var (
		run         Run
		status      string
		startedAt   int64
		completedAt sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, status, started_at, completed_at, files, violations, suppressed FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &status, &startedAt, &completedAt, &run.Files, &run.Violations, &run.Suppressed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	run.Status = RunStatus(status)
	run.StartedAt = time.UnixMilli(startedAt).UTC()
	if completedAt.Valid {
		t := time.UnixMilli(completedAt.Int64).UTC()
		run.CompletedAt = &t
	}
	return &run, nil
}
