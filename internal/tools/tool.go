// Package tools provides the tool framework and implementations for agent
// runs: declared specs for the LLM, per-agent allowlists, and sandboxed
// execution with a uniform result envelope.
package tools

import (
	"context"
	"fmt"
	"sort"
)

// Tool is the interface that all agent tools must implement.
type Tool interface {
	// Name returns the tool identifier used in function calls.
	Name() string
	// Description returns a human-readable description for the LLM.
	Description() string
	// Parameters returns the JSON Schema for tool parameters. The schema is
	// advisory for the model; hard security policy is enforced in Execute.
	Parameters() map[string]any
	// Execute runs the tool with the given parameters.
	Execute(ctx context.Context, params map[string]any) (string, error)
}

// Result is the uniform envelope every tool call returns to the orchestrator.
// A failed call is conversational content for the model, not a fatal error.
type Result struct {
	OK     bool   `json:"success"`
	Output string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Registry manages tool registration, per-agent allowlists, and execution.
type Registry struct {
	tools      map[string]Tool
	allowlists map[string][]string
	defaults   []string
}

// NewRegistry creates a registry. allowlists maps agent names to permitted
// tool names; defaults is the minimal allowlist applied to unknown agents.
func NewRegistry(allowlists map[string][]string, defaults []string) *Registry {
	return &Registry{
		tools:      make(map[string]Tool),
		allowlists: allowlists,
		defaults:   defaults,
	}
}

// Register adds a tool to the registry.
func (r *Registry) Register(tool Tool) {
	r.tools[tool.Name()] = tool
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// allowedFor returns the allowlist for an agent name, falling back to the
// default allowlist for agents without a static entry.
func (r *Registry) allowedFor(agentName string) map[string]bool {
	names, ok := r.allowlists[agentName]
	if !ok {
		names = r.defaults
	}
	allowed := make(map[string]bool, len(names))
	for _, n := range names {
		allowed[n] = true
	}
	return allowed
}

// ForAgent returns the tools an agent may use, filtered first by the static
// allowlist and then by the requested subset when one is given.
func (r *Registry) ForAgent(agentName string, requested []string) []Tool {
	allowed := r.allowedFor(agentName)
	var wanted map[string]bool
	if len(requested) > 0 {
		wanted = make(map[string]bool, len(requested))
		for _, n := range requested {
			wanted[n] = true
		}
	}
	var out []Tool
	for name, tool := range r.tools {
		if !allowed[name] {
			continue
		}
		if wanted != nil && !wanted[name] {
			continue
		}
		out = append(out, tool)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// ExecuteForAgent runs a tool on behalf of an agent, enforcing the allowlist.
// Failures of any kind are captured in the envelope and never propagate.
func (r *Registry) ExecuteForAgent(ctx context.Context, agentName, name string, params map[string]any) Result {
	if !r.allowedFor(agentName)[name] {
		return Result{Error: fmt.Sprintf("tool %q is not permitted for agent %q", name, agentName)}
	}
	tool, ok := r.tools[name]
	if !ok {
		return Result{Error: fmt.Sprintf("tool not found: %s", name)}
	}
	output, err := tool.Execute(ctx, params)
	if err != nil {
		return Result{Error: err.Error()}
	}
	return Result{OK: true, Output: output}
}

// Definitions returns tool definitions for the given tools in the common
// function-call format.
func Definitions(ts []Tool) []map[string]any {
	result := make([]map[string]any, 0, len(ts))
	for _, tool := range ts {
		result = append(result, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        tool.Name(),
				"description": tool.Description(),
				"parameters":  tool.Parameters(),
			},
		})
	}
	return result
}

// GetString extracts a string parameter with a default value.
func GetString(params map[string]any, key string, defaultVal string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return defaultVal
}

// GetInt extracts an int parameter with a default value.
func GetInt(params map[string]any, key string, defaultVal int) int {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		}
	}
	return defaultVal
}

// truncate caps s at max characters, appending a marker when cut.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "\n... (output truncated)"
}
