package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// allowedPath reports whether path resolves under one of the given roots
// after normalization.
func allowedPath(roots []string, path string) bool {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return false
	}
	for _, root := range roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		if abs == absRoot || strings.HasPrefix(abs, absRoot+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// ReadFileTool reads a file under the allowlisted roots, capped to a maximum
// line count.
type ReadFileTool struct {
	Roots    []string
	MaxLines int
}

// NewReadFileTool creates a ReadFileTool. maxLines 0 falls back to 2000.
func NewReadFileTool(roots []string, maxLines int) *ReadFileTool {
	if maxLines == 0 {
		maxLines = 2000
	}
	return &ReadFileTool{Roots: roots, MaxLines: maxLines}
}

func (t *ReadFileTool) Name() string { return "read_file" }

func (t *ReadFileTool) Description() string {
	return "Read the contents of a file at the specified path. Reads are restricted to allowed directories."
}

func (t *ReadFileTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "The path to the file to read",
			},
			"max_lines": map[string]any{
				"type":        "integer",
				"description": "Maximum number of lines to return",
				"minimum":     1,
			},
		},
		"required": []string{"path"},
	}
}

func (t *ReadFileTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	path := GetString(params, "path", "")
	if path == "" {
		return "", fmt.Errorf("path is required")
	}
	if !allowedPath(t.Roots, path) {
		return "", fmt.Errorf("path outside allowed directories: %s", path)
	}
	maxLines := GetInt(params, "max_lines", t.MaxLines)
	if maxLines <= 0 || maxLines > t.MaxLines {
		maxLines = t.MaxLines
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", path)
		}
		return "", fmt.Errorf("reading file: %w", err)
	}

	lines := strings.Split(string(content), "\n")
	if len(lines) > maxLines {
		return strings.Join(lines[:maxLines], "\n") +
			fmt.Sprintf("\n... (truncated, %d more lines)", len(lines)-maxLines), nil
	}
	return string(content), nil
}

// WriteFileTool writes a file under the allowlisted roots, creating parent
// directories as needed.
type WriteFileTool struct {
	Roots []string
}

func NewWriteFileTool(roots []string) *WriteFileTool {
	return &WriteFileTool{Roots: roots}
}

func (t *WriteFileTool) Name() string { return "write_file" }

func (t *WriteFileTool) Description() string {
	return "Write content to a file at the specified path. Writes are restricted to allowed directories."
}

func (t *WriteFileTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "The path to the file to write",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "The content to write to the file",
			},
		},
		"required": []string{"path", "content"},
	}
}

func (t *WriteFileTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	path := GetString(params, "path", "")
	content := GetString(params, "content", "")
	if path == "" {
		return "", fmt.Errorf("path is required")
	}
	if !allowedPath(t.Roots, path) {
		return "", fmt.Errorf("path outside allowed directories: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	return fmt.Sprintf("Successfully wrote %d bytes to %s", len(content), path), nil
}
