package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateComment appends a comment to a task.
func (s *Store) CreateComment(c *Comment) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO comments (id, task_id, author_id, parent_id, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.TaskID, c.AuthorID, nullable(c.ParentID), c.Content, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// RecentComments returns up to limit comments for a task, newest first.
func (s *Store) RecentComments(taskID string, limit int) ([]*Comment, error) {
	rows, err := s.db.Query(`
		SELECT id, task_id, author_id, COALESCE(parent_id, ''), content, created_at
		FROM comments WHERE task_id = ?
		ORDER BY created_at DESC LIMIT ?`, taskID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent comments: %w", err)
	}
	defer rows.Close()
	var out []*Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.ParentID, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// CountCommentsByAuthor returns the number of comments an author has left on
// a task.
func (s *Store) CountCommentsByAuthor(taskID, authorID string) (int, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM comments WHERE task_id = ? AND author_id = ?`,
		taskID, authorID).Scan(&n)
	return n, err
}
