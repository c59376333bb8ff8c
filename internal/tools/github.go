package tools

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// GitHubTool passes a restricted argument list through to the gh CLI.
type GitHubTool struct {
	Timeout        time.Duration
	MaxOutputChars int
	WorkDir        string
}

// NewGitHubTool creates a GitHubTool with the same timeout discipline as the
// shell tool.
func NewGitHubTool(timeout time.Duration, maxOutputChars int, workDir string) *GitHubTool {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if maxOutputChars == 0 {
		maxOutputChars = 50000
	}
	return &GitHubTool{Timeout: timeout, MaxOutputChars: maxOutputChars, WorkDir: workDir}
}

func (t *GitHubTool) Name() string { return "github" }

func (t *GitHubTool) Description() string {
	return "Run a GitHub CLI (gh) command, e.g. 'pr list' or 'issue view 42'."
}

func (t *GitHubTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"args": map[string]any{
				"type":        "string",
				"description": "Arguments passed to gh, e.g. 'issue list --state open'",
			},
		},
		"required": []string{"args"},
	}
}

func (t *GitHubTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	args := strings.Fields(GetString(params, "args", ""))
	if len(args) == 0 {
		return "", fmt.Errorf("args is required")
	}

	ctx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "gh", args...)
	if t.WorkDir != "" {
		cmd.Dir = t.WorkDir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("gh command timed out after %v", t.Timeout)
	}
	if err != nil {
		return "", fmt.Errorf("gh %s: %v: %s", args[0], err, truncate(stderr.String(), 500))
	}
	out := stdout.String()
	if out == "" {
		out = "(no output)"
	}
	return truncate(out, t.MaxOutputChars), nil
}
