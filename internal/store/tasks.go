package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// CreateProject inserts a project and returns its id.
func (s *Store) CreateProject(name string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`INSERT INTO projects (id, name) VALUES (?, ?)`, id, name)
	if err != nil {
		return "", fmt.Errorf("create project: %w", err)
	}
	return id, nil
}

// CreateTask inserts a task and returns it.
func (s *Store) CreateTask(t *Task) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = TaskStatusBacklog
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO tasks (id, project_id, title, description, status, assignee_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ProjectID, t.Title, t.Description, t.Status, nullable(t.AssigneeID), t.CreatedAt)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// GetTask loads a task with its project name.
func (s *Store) GetTask(id string) (*Task, error) {
	row := s.db.QueryRow(`
		SELECT t.id, t.project_id, t.title, COALESCE(t.description, ''), t.status,
		       COALESCE(t.assignee_id, ''), t.created_at, t.started_at, t.completed_at,
		       COALESCE(p.name, '')
		FROM tasks t LEFT JOIN projects p ON p.id = t.project_id
		WHERE t.id = ?`, id)
	return scanTask(row)
}

func scanTask(row *sql.Row) (*Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status,
		&t.AssigneeID, &t.CreatedAt, &t.StartedAt, &t.CompletedAt, &t.ProjectName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &t, nil
}

// UpdateTaskStatus moves a task to a new status, stamping start/completion
// times for the transitions that carry them.
func (s *Store) UpdateTaskStatus(id, status string) error {
	now := time.Now().UTC()
	var res sql.Result
	var err error
	switch status {
	case TaskStatusInProgress:
		res, err = s.db.Exec(`UPDATE tasks SET status = ?, started_at = ? WHERE id = ?`, status, now, id)
	case TaskStatusDone:
		res, err = s.db.Exec(`UPDATE tasks SET status = ?, completed_at = ? WHERE id = ?`, status, now, id)
	default:
		res, err = s.db.Exec(`UPDATE tasks SET status = ? WHERE id = ?`, status, id)
	}
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// TasksByStatusAssignedToBots returns tasks in the given status whose
// assignee is a bot user. Used by the trigger worker to find due work.
func (s *Store) TasksByStatusAssignedToBots(status string) ([]*Task, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.project_id, t.title, COALESCE(t.description, ''), t.status,
		       COALESCE(t.assignee_id, ''), t.created_at, t.started_at, t.completed_at,
		       COALESCE(p.name, '')
		FROM tasks t
		JOIN users u ON u.id = t.assignee_id AND u.is_bot = 1
		LEFT JOIN projects p ON p.id = t.project_id
		WHERE t.status = ?
		ORDER BY t.created_at`, status)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()
	var out []*Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status,
			&t.AssigneeID, &t.CreatedAt, &t.StartedAt, &t.CompletedAt, &t.ProjectName); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}
