package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateAgent inserts an agent profile. The name must be unique.
func (s *Store) CreateAgent(a *AgentProfile) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	skills, _ := json.Marshal(a.Skills)
	tools, _ := json.Marshal(a.Tools)
	_, err := s.db.Exec(`
		INSERT INTO agent_profiles (id, name, model, system_prompt, temperature, max_tokens, skills, tools, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Model, a.SystemPrompt, a.Temperature, a.MaxTokens,
		string(skills), string(tools), a.Active, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create agent: %w", err)
	}
	return nil
}

const agentColumns = `id, name, model, system_prompt, temperature, max_tokens, skills, tools, active, created_at`

func scanAgent(row interface{ Scan(...any) error }) (*AgentProfile, error) {
	var a AgentProfile
	var skills, tools string
	err := row.Scan(&a.ID, &a.Name, &a.Model, &a.SystemPrompt, &a.Temperature,
		&a.MaxTokens, &skills, &tools, &a.Active, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan agent: %w", err)
	}
	_ = json.Unmarshal([]byte(skills), &a.Skills)
	_ = json.Unmarshal([]byte(tools), &a.Tools)
	return &a, nil
}

// GetAgent loads an agent profile by id.
func (s *Store) GetAgent(id string) (*AgentProfile, error) {
	return scanAgent(s.db.QueryRow(`SELECT `+agentColumns+` FROM agent_profiles WHERE id = ?`, id))
}

// AgentByName loads an agent profile by name, case-insensitively. This is how
// a bot user resolves to the profile driving its execution.
func (s *Store) AgentByName(name string) (*AgentProfile, error) {
	return scanAgent(s.db.QueryRow(
		`SELECT `+agentColumns+` FROM agent_profiles WHERE name = ? COLLATE NOCASE`, name))
}

// ListAgents returns all agent profiles ordered by name.
func (s *Store) ListAgents() ([]*AgentProfile, error) {
	rows, err := s.db.Query(`SELECT ` + agentColumns + ` FROM agent_profiles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()
	var out []*AgentProfile
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
