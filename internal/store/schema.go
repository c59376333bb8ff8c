package store

import "time"

// Task statuses. Board transitions are monotonic in the UI; the runner may
// revert IN_PROGRESS to TODO on failure and advances to REVIEW on success.
const (
	TaskStatusBacklog    = "BACKLOG"
	TaskStatusTodo       = "TODO"
	TaskStatusInProgress = "IN_PROGRESS"
	TaskStatusReview     = "REVIEW"
	TaskStatusDone       = "DONE"
)

// AgentRun statuses. Terminal states are never transitioned out of.
const (
	RunStatusQueued    = "QUEUED"
	RunStatusRunning   = "RUNNING"
	RunStatusCompleted = "COMPLETED"
	RunStatusFailed    = "FAILED"
	RunStatusCancelled = "CANCELLED"
)

// ApiKey validation statuses.
const (
	KeyStatusPending = "PENDING"
	KeyStatusValid   = "VALID"
	KeyStatusInvalid = "INVALID"
)

// Task is one unit of work on a project board.
type Task struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	AssigneeID  string     `json:"assignee_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	ProjectName string     `json:"project_name,omitempty"`
}

// User is a human or bot account. A bot user's name is matched
// case-insensitively against an AgentProfile name at trigger time.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	IsBot     bool      `json:"is_bot"`
	CreatedAt time.Time `json:"created_at"`
}

// AgentProfile is a configured AI persona.
type AgentProfile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Model        string    `json:"model"`
	SystemPrompt string    `json:"system_prompt"`
	Temperature  float64   `json:"temperature"`
	MaxTokens    int       `json:"max_tokens"`
	Skills       []string  `json:"skills,omitempty"`
	Tools        []string  `json:"tools,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// AgentRun is one execution attempt of an agent against a task.
type AgentRun struct {
	ID           string     `json:"id"`
	AgentID      string     `json:"agent_id"`
	TaskID       string     `json:"task_id"`
	Status       string     `json:"status"`
	Input        string     `json:"input,omitempty"`
	Output       string     `json:"output,omitempty"`
	InputTokens  int        `json:"input_tokens"`
	OutputTokens int        `json:"output_tokens"`
	TotalTokens  int        `json:"total_tokens"`
	CostUSD      float64    `json:"cost_usd"`
	ErrorText    string     `json:"error_text,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// Comment is an audit/communication record attached to a task.
type Comment struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	AuthorID  string    `json:"author_id"`
	ParentID  string    `json:"parent_id,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ApiKey is a per-user, per-provider encrypted credential. One row per
// (user, provider) pair; plaintext is never stored, only the last four
// characters for display plus the encrypted blob.
type ApiKey struct {
	UserID        string     `json:"user_id"`
	Provider      string     `json:"provider"`
	EncryptedKey  string     `json:"-"`
	Last4         string     `json:"last4"`
	Status        string     `json:"status"`
	ErrorText     string     `json:"error_text,omitempty"`
	LastCheckedAt *time.Time `json:"last_checked_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Activity is an append-only run lifecycle event.
type Activity struct {
	ID        int64     `json:"id"`
	TaskID    string    `json:"task_id"`
	RunID     string    `json:"run_id,omitempty"`
	Kind      string    `json:"kind"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Schema is the baseline database schema.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	name TEXT UNIQUE NOT NULL,
	email TEXT,
	is_bot BOOLEAN NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	project_id TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT,
	status TEXT NOT NULL DEFAULT 'BACKLOG',
	assignee_id TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	started_at DATETIME,
	completed_at DATETIME
);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks(assignee_id);

CREATE TABLE IF NOT EXISTS agent_profiles (
	id TEXT PRIMARY KEY,
	name TEXT UNIQUE NOT NULL,
	model TEXT NOT NULL,
	system_prompt TEXT NOT NULL DEFAULT '',
	temperature REAL NOT NULL DEFAULT 0.7,
	max_tokens INTEGER NOT NULL DEFAULT 4096,
	skills TEXT NOT NULL DEFAULT '[]',
	tools TEXT NOT NULL DEFAULT '[]',
	active BOOLEAN NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS agent_runs (
	id TEXT PRIMARY KEY,
	agent_id TEXT NOT NULL,
	task_id TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'QUEUED',
	input TEXT,
	output TEXT,
	input_tokens INTEGER NOT NULL DEFAULT 0,
	output_tokens INTEGER NOT NULL DEFAULT 0,
	total_tokens INTEGER NOT NULL DEFAULT 0,
	cost_usd REAL NOT NULL DEFAULT 0,
	error_text TEXT,
	started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	completed_at DATETIME
);
CREATE INDEX IF NOT EXISTS idx_runs_task ON agent_runs(task_id);
CREATE INDEX IF NOT EXISTS idx_runs_status ON agent_runs(status);

CREATE TABLE IF NOT EXISTS comments (
	id TEXT PRIMARY KEY,
	task_id TEXT NOT NULL,
	author_id TEXT NOT NULL,
	parent_id TEXT,
	content TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_comments_task ON comments(task_id, created_at);

CREATE TABLE IF NOT EXISTS api_keys (
	user_id TEXT NOT NULL,
	provider TEXT NOT NULL,
	encrypted_key TEXT NOT NULL,
	last4 TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'PENDING',
	error_text TEXT,
	last_checked_at DATETIME,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (user_id, provider)
);

CREATE TABLE IF NOT EXISTS activities (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id TEXT NOT NULL,
	run_id TEXT,
	kind TEXT NOT NULL,
	detail TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_activities_task ON activities(task_id);
`
