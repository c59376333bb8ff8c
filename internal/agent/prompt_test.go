package agent

import (
	"strings"
	"testing"
	"time"

	"github.com/crewboard/crewboard/internal/store"
)

func TestBuildPromptFullContext(t *testing.T) {
	agent := &store.AgentProfile{
		Name:         "Codex",
		SystemPrompt: "You are a meticulous engineer.",
	}
	task := &store.Task{
		Title:       "Fix login bug",
		ProjectName: "Webapp",
		Status:      store.TaskStatusTodo,
		Description: "Users cannot log in with SSO.",
	}
	comments := []*store.Comment{
		{Content: "second comment", CreatedAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)},
		{Content: "first comment", CreatedAt: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)},
	}

	got := BuildPrompt(agent, task, comments, "## Skills\n\n### Debugging\n\nLook at the logs.")

	for _, want := range []string{
		"You are a meticulous engineer.",
		"### Debugging",
		"Title: Fix login bug",
		"Project: Webapp",
		"Users cannot log in with SSO.",
		"second comment",
		"first comment",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("prompt missing %q:\n%s", want, got)
		}
	}
	// Newest first.
	if strings.Index(got, "second comment") > strings.Index(got, "first comment") {
		t.Fatal("comments not newest first")
	}
}

func TestBuildPromptPlaceholders(t *testing.T) {
	agent := &store.AgentProfile{Name: "Codex"}
	task := &store.Task{Title: "Bare task", Status: store.TaskStatusTodo}

	got := BuildPrompt(agent, task, nil, "")
	if !strings.Contains(got, "(no description provided)") {
		t.Fatalf("missing description placeholder:\n%s", got)
	}
	if !strings.Contains(got, "(no comments yet)") {
		t.Fatalf("missing comments placeholder:\n%s", got)
	}
	if !strings.Contains(got, "You are Codex") {
		t.Fatalf("missing default base prompt:\n%s", got)
	}
}

func TestBuildPromptOmitsEmptySkillsBlock(t *testing.T) {
	agent := &store.AgentProfile{Name: "Codex", SystemPrompt: "base"}
	task := &store.Task{Title: "T", Status: store.TaskStatusTodo}
	got := BuildPrompt(agent, task, nil, "")
	if strings.Contains(got, "## Skills") {
		t.Fatalf("unexpected skills heading:\n%s", got)
	}
}
