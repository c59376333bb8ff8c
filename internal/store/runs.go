package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateRun inserts a new agent run.
func (s *Store) CreateRun(r *AgentRun) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = RunStatusQueued
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO agent_runs (id, agent_id, task_id, status, input, started_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.AgentID, r.TaskID, r.Status, r.Input, r.StartedAt)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

const runColumns = `id, agent_id, task_id, status, COALESCE(input, ''), COALESCE(output, ''),
	input_tokens, output_tokens, total_tokens, cost_usd, COALESCE(error_text, ''),
	started_at, completed_at`

func scanRun(row interface{ Scan(...any) error }) (*AgentRun, error) {
	var r AgentRun
	err := row.Scan(&r.ID, &r.AgentID, &r.TaskID, &r.Status, &r.Input, &r.Output,
		&r.InputTokens, &r.OutputTokens, &r.TotalTokens, &r.CostUSD, &r.ErrorText,
		&r.StartedAt, &r.CompletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	return &r, nil
}

// GetRun loads a run by id.
func (s *Store) GetRun(id string) (*AgentRun, error) {
	return scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM agent_runs WHERE id = ?`, id))
}

// CompleteRun marks an active run COMPLETED with its output and accounting
// totals. Returns ErrNotFound when the run does not exist or is already
// terminal, so a concurrent cancellation is never overwritten.
func (s *Store) CompleteRun(id, output string, inputTokens, outputTokens int, costUSD float64) error {
	now := time.Now().UTC()
	res, err := s.db.Exec(`
		UPDATE agent_runs
		SET status = ?, output = ?, input_tokens = ?, output_tokens = ?,
		    total_tokens = ?, cost_usd = ?, completed_at = ?
		WHERE id = ? AND status IN (?, ?)`,
		RunStatusCompleted, output, inputTokens, outputTokens,
		inputTokens+outputTokens, costUSD, now, id, RunStatusQueued, RunStatusRunning)
	if err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// FailRun marks an active run FAILED with the error message. Terminal runs
// are left untouched, as with CompleteRun.
func (s *Store) FailRun(id, errorText string) error {
	now := time.Now().UTC()
	res, err := s.db.Exec(`
		UPDATE agent_runs SET status = ?, error_text = ?, completed_at = ?
		WHERE id = ? AND status IN (?, ?)`,
		RunStatusFailed, errorText, now, id, RunStatusQueued, RunStatusRunning)
	if err != nil {
		return fmt.Errorf("fail run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkRunRunning transitions a queued run to RUNNING.
func (s *Store) MarkRunRunning(id string) error {
	_, err := s.db.Exec(`UPDATE agent_runs SET status = ? WHERE id = ?`, RunStatusRunning, id)
	return err
}

// CancelRun marks an active (QUEUED or RUNNING) run CANCELLED. Returns
// ErrNotFound when the run does not exist or is already terminal.
func (s *Store) CancelRun(id string) error {
	now := time.Now().UTC()
	res, err := s.db.Exec(`
		UPDATE agent_runs SET status = ?, completed_at = ?
		WHERE id = ? AND status IN (?, ?)`,
		RunStatusCancelled, now, id, RunStatusQueued, RunStatusRunning)
	if err != nil {
		return fmt.Errorf("cancel run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ActiveRunForTask returns the QUEUED or RUNNING run for a task, if any.
func (s *Store) ActiveRunForTask(taskID string) (*AgentRun, error) {
	return scanRun(s.db.QueryRow(`
		SELECT `+runColumns+` FROM agent_runs
		WHERE task_id = ? AND status IN (?, ?)
		ORDER BY started_at DESC LIMIT 1`,
		taskID, RunStatusQueued, RunStatusRunning))
}

// RunsForTask returns all runs for a task, newest first.
func (s *Store) RunsForTask(taskID string) ([]*AgentRun, error) {
	rows, err := s.db.Query(`
		SELECT `+runColumns+` FROM agent_runs WHERE task_id = ? ORDER BY started_at DESC`, taskID)
	if err != nil {
		return nil, fmt.Errorf("runs for task: %w", err)
	}
	defer rows.Close()
	var out []*AgentRun
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// AddActivity appends a run lifecycle event.
func (s *Store) AddActivity(taskID, runID, kind, detail string) error {
	_, err := s.db.Exec(`
		INSERT INTO activities (task_id, run_id, kind, detail) VALUES (?, ?, ?, ?)`,
		taskID, nullable(runID), kind, detail)
	if err != nil {
		return fmt.Errorf("add activity: %w", err)
	}
	return nil
}
