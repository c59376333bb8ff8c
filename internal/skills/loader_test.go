package skills

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSkill(t *testing.T, root, id, content string) {
	t.Helper()
	dir := filepath.Join(root, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestGetAndParse(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "code-review", "# Code Review\n\nReview diffs carefully.\n\nDetails follow.")
	l := NewLoader(root)

	s, ok := l.Get("code-review")
	if !ok {
		t.Fatal("expected skill found")
	}
	if s.Name != "Code Review" || s.Description != "Review diffs carefully." {
		t.Fatalf("parsed skill: %+v", s)
	}
}

func TestGetManyDropsUnresolved(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "a", "# A\n\ntext")
	writeSkill(t, root, "b", "# B\n\ntext")
	l := NewLoader(root)

	got := l.GetMany([]string{"b", "missing", "a"})
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "a" {
		t.Fatalf("unexpected skills: %+v", got)
	}
}

func TestBuildPromptEmptyWhenNothingResolves(t *testing.T) {
	l := NewLoader(t.TempDir())
	if got := l.BuildPrompt([]string{"nope"}); got != "" {
		t.Fatalf("expected empty prompt, got %q", got)
	}
}

func TestBuildPromptContainsSkillText(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "deploy", "# Deploy\n\nAlways run the smoke tests.")
	l := NewLoader(root)
	got := l.BuildPrompt([]string{"deploy"})
	if !strings.Contains(got, "### Deploy") || !strings.Contains(got, "smoke tests") {
		t.Fatalf("prompt missing skill text: %q", got)
	}
}

func TestMissingDirectoryYieldsEmptySet(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "does-not-exist"))
	if got := l.List(); len(got) != 0 {
		t.Fatalf("expected no skills, got %d", len(got))
	}
}

func TestReloadPicksUpNewSkills(t *testing.T) {
	root := t.TempDir()
	l := NewLoader(root)
	if _, ok := l.Get("late"); ok {
		t.Fatal("skill should not exist yet")
	}
	writeSkill(t, root, "late", "# Late\n\nadded after first load")
	if _, ok := l.Get("late"); ok {
		t.Fatal("cache should not see the new skill before reload")
	}
	l.Reload()
	if _, ok := l.Get("late"); !ok {
		t.Fatal("expected skill after reload")
	}
}
