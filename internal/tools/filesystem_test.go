package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadFileWithinRoot(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "notes.txt")
	if err := os.WriteFile(path, []byte("line1\nline2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tool := NewReadFileTool([]string{root}, 0)
	out, err := tool.Execute(context.Background(), map[string]any{"path": path})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "line2") {
		t.Fatalf("output = %q", out)
	}
}

func TestReadFileOutsideRootDenied(t *testing.T) {
	tool := NewReadFileTool([]string{t.TempDir()}, 0)
	_, err := tool.Execute(context.Background(), map[string]any{"path": "/etc/passwd"})
	if err == nil || !strings.Contains(err.Error(), "outside allowed") {
		t.Fatalf("expected path denial, got %v", err)
	}
}

func TestReadFileTraversalDenied(t *testing.T) {
	root := t.TempDir()
	tool := NewReadFileTool([]string{root}, 0)
	_, err := tool.Execute(context.Background(), map[string]any{
		"path": filepath.Join(root, "..", "..", "etc", "passwd"),
	})
	if err == nil || !strings.Contains(err.Error(), "outside allowed") {
		t.Fatalf("expected traversal denial, got %v", err)
	}
}

func TestReadFileLineCap(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "big.txt")
	if err := os.WriteFile(path, []byte(strings.Repeat("x\n", 50)), 0o644); err != nil {
		t.Fatal(err)
	}
	tool := NewReadFileTool([]string{root}, 10)
	out, err := tool.Execute(context.Background(), map[string]any{"path": path})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "truncated") {
		t.Fatalf("expected truncation marker, got %q", out)
	}
}

func TestWriteFileWithinRoot(t *testing.T) {
	root := t.TempDir()
	tool := NewWriteFileTool([]string{root})
	path := filepath.Join(root, "sub", "out.txt")
	if _, err := tool.Execute(context.Background(), map[string]any{"path": path, "content": "data"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "data" {
		t.Fatalf("read back: %q, %v", data, err)
	}
}

func TestWriteFileOutsideRootDenied(t *testing.T) {
	tool := NewWriteFileTool([]string{t.TempDir()})
	_, err := tool.Execute(context.Background(), map[string]any{
		"path": filepath.Join(os.TempDir(), "evil.txt"), "content": "x",
	})
	if err == nil {
		t.Fatal("expected denial outside root")
	}
}
