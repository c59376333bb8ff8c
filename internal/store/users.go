package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateUser inserts a user (human or bot).
func (s *Store) CreateUser(u *User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO users (id, name, email, is_bot, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Name, nullable(u.Email), u.IsBot, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser loads a user by id.
func (s *Store) GetUser(id string) (*User, error) {
	row := s.db.QueryRow(`
		SELECT id, name, COALESCE(email, ''), is_bot, created_at FROM users WHERE id = ?`, id)
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.IsBot, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// BotUserByName loads a bot user by name, case-insensitively.
func (s *Store) BotUserByName(name string) (*User, error) {
	row := s.db.QueryRow(`
		SELECT id, name, COALESCE(email, ''), is_bot, created_at
		FROM users WHERE name = ? COLLATE NOCASE AND is_bot = 1`, name)
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.IsBot, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
