package tools

import (
	"context"
	"fmt"
	"testing"
)

type stubTool struct {
	name string
	out  string
	err  error
}

func (s *stubTool) Name() string                { return s.name }
func (s *stubTool) Description() string         { return "stub" }
func (s *stubTool) Parameters() map[string]any  { return map[string]any{"type": "object"} }
func (s *stubTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	return s.out, s.err
}

func testRegistry() *Registry {
	r := NewRegistry(map[string][]string{
		"Codex": {"exec", "read_file"},
	}, []string{"read_file"})
	r.Register(&stubTool{name: "exec", out: "ran"})
	r.Register(&stubTool{name: "read_file", out: "contents"})
	r.Register(&stubTool{name: "web_search", out: "results"})
	return r
}

func TestForAgentStaticAllowlist(t *testing.T) {
	r := testRegistry()
	got := r.ForAgent("Codex", nil)
	if len(got) != 2 || got[0].Name() != "exec" || got[1].Name() != "read_file" {
		names := make([]string, len(got))
		for i, tool := range got {
			names[i] = tool.Name()
		}
		t.Fatalf("unexpected tools for Codex: %v", names)
	}
}

func TestForAgentUnknownGetsDefaults(t *testing.T) {
	r := testRegistry()
	got := r.ForAgent("UnknownAgent", nil)
	if len(got) != 1 || got[0].Name() != "read_file" {
		t.Fatalf("expected default allowlist only, got %d tools", len(got))
	}
}

func TestForAgentRequestedSubset(t *testing.T) {
	r := testRegistry()
	got := r.ForAgent("Codex", []string{"exec", "web_search"})
	if len(got) != 1 || got[0].Name() != "exec" {
		t.Fatalf("requested subset must intersect the allowlist, got %d tools", len(got))
	}
}

func TestExecuteForAgentDeniesOutsideAllowlist(t *testing.T) {
	r := testRegistry()
	res := r.ExecuteForAgent(context.Background(), "Codex", "web_search", nil)
	if res.OK {
		t.Fatal("expected denial for tool outside allowlist")
	}
	if res.Error == "" {
		t.Fatal("expected error message in envelope")
	}
}

func TestExecuteForAgentCapturesToolError(t *testing.T) {
	r := NewRegistry(nil, []string{"boom"})
	r.Register(&stubTool{name: "boom", err: fmt.Errorf("it broke")})
	res := r.ExecuteForAgent(context.Background(), "Anyone", "boom", nil)
	if res.OK || res.Error != "it broke" {
		t.Fatalf("unexpected envelope: %+v", res)
	}
}

func TestExecuteForAgentSuccess(t *testing.T) {
	r := testRegistry()
	res := r.ExecuteForAgent(context.Background(), "Codex", "exec", map[string]any{"command": "ls"})
	if !res.OK || res.Output != "ran" {
		t.Fatalf("unexpected envelope: %+v", res)
	}
}

func TestExecuteForAgentUnknownTool(t *testing.T) {
	r := NewRegistry(nil, []string{"ghost"})
	res := r.ExecuteForAgent(context.Background(), "Anyone", "ghost", nil)
	if res.OK {
		t.Fatal("expected failure for unregistered tool")
	}
}
