package tools

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

// DenyPatterns contains regex patterns for dangerous commands.
var DenyPatterns = []string{
	`\brm\s+(-[a-zA-Z]+\s+)*[/~]`, // rm against root or home
	`\brm\s+-rf\b`,                // rm -rf anywhere
	`\brm\s+-r[fF]?\s+\*`,         // rm -r *
	`\bsudo\b`,                    // privilege escalation
	`\bsu\s`,                      // switch user
	`\bchmod\s+-R\s+777\b`,        // world-writable recursive
	`\bchown\s+-R\b.*[/~]`,        // chown recursive on root/home
	`\bmkfs\b`,                    // filesystem format
	`\bdd\b.*\bof=/dev/`,          // dd to device
	`>\s*/dev/`,                   // redirect to device
	`curl[^|]*\|\s*(ba)?sh`,       // pipe-to-shell download
	`wget[^|]*\|\s*(ba)?sh`,       // pipe-to-shell download
	`\bshutdown\b`,
	`\breboot\b`,
	`\b:(){ :|:& };:\b`, // fork bomb
}

const blockedCommandMessage = "command blocked by security policy"

// ExecTool executes shell commands under a deny-pattern guard with a hard
// wall-clock timeout and output truncation.
type ExecTool struct {
	Timeout        time.Duration
	MaxOutputChars int
	WorkDir        string
	denyRegexes    []*regexp.Regexp
}

// NewExecTool creates an ExecTool. Zero values fall back to 30s / 50000 chars.
func NewExecTool(timeout time.Duration, maxOutputChars int, workDir string) *ExecTool {
	denyRegexes := make([]*regexp.Regexp, 0, len(DenyPatterns))
	for _, pattern := range DenyPatterns {
		if re, err := regexp.Compile(pattern); err == nil {
			denyRegexes = append(denyRegexes, re)
		}
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if maxOutputChars == 0 {
		maxOutputChars = 50000
	}
	return &ExecTool{
		Timeout:        timeout,
		MaxOutputChars: maxOutputChars,
		WorkDir:        workDir,
		denyRegexes:    denyRegexes,
	}
}

func (t *ExecTool) Name() string { return "exec" }

func (t *ExecTool) Description() string {
	return "Execute a shell command and return its output."
}

func (t *ExecTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"command": map[string]any{
				"type":        "string",
				"description": "The shell command to execute",
			},
		},
		"required": []string{"command"},
	}
}

func (t *ExecTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	command := GetString(params, "command", "")
	if command == "" {
		return "", fmt.Errorf("command is required")
	}
	if err := t.guardCommand(command); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	if t.WorkDir != "" {
		cmd.Dir = t.WorkDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	var result strings.Builder
	if stdout.Len() > 0 {
		result.WriteString(stdout.String())
	}
	if stderr.Len() > 0 {
		if result.Len() > 0 {
			result.WriteString("\n")
		}
		result.WriteString("STDERR:\n")
		result.WriteString(stderr.String())
	}

	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("command timed out after %v", t.Timeout)
	}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.WriteString(fmt.Sprintf("\nExit code: %d", exitErr.ExitCode()))
		} else {
			return "", fmt.Errorf("executing command: %w", err)
		}
	}
	if result.Len() == 0 {
		return "(no output)", nil
	}
	return truncate(result.String(), t.MaxOutputChars), nil
}

func (t *ExecTool) guardCommand(command string) error {
	for _, re := range t.denyRegexes {
		if re.MatchString(command) {
			return fmt.Errorf("%s", blockedCommandMessage)
		}
	}
	return nil
}
