// Package skills loads named skill documents injected into agent prompts.
// Each skill lives in its own subdirectory of the skills root, holding a
// single descriptive document (SKILL.md).
package skills

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const skillFileName = "SKILL.md"

// Skill is a named instruction document.
type Skill struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

// Loader reads skills from a directory tree and caches them in memory.
// Skills are best-effort prompt context: a missing directory yields an empty
// set, never an error for the caller.
type Loader struct {
	root   string
	mu     sync.RWMutex
	cache  map[string]*Skill
	loaded bool
}

// NewLoader creates a loader rooted at dir. Nothing is read until first use.
func NewLoader(dir string) *Loader {
	return &Loader{root: dir}
}

// Get returns a skill by id, or false when it does not exist.
func (l *Loader) Get(id string) (*Skill, bool) {
	l.ensureLoaded()
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.cache[id]
	return s, ok
}

// GetMany returns the skills for the given ids in order, silently dropping
// ids that do not resolve.
func (l *Loader) GetMany(ids []string) []*Skill {
	l.ensureLoaded()
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*Skill, 0, len(ids))
	for _, id := range ids {
		if s, ok := l.cache[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

// BuildPrompt renders the skills block for a prompt. Returns the empty
// string when no ids resolve.
func (l *Loader) BuildPrompt(ids []string) string {
	resolved := l.GetMany(ids)
	if len(resolved) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("## Skills\n\n")
	for _, s := range resolved {
		sb.WriteString(fmt.Sprintf("### %s\n\n%s\n\n", s.Name, strings.TrimSpace(s.Content)))
	}
	return strings.TrimSpace(sb.String())
}

// List returns all cached skills.
func (l *Loader) List() []*Skill {
	l.ensureLoaded()
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*Skill, 0, len(l.cache))
	for _, s := range l.cache {
		out = append(out, s)
	}
	return out
}

// Reload clears the cache and re-reads the skills directory.
func (l *Loader) Reload() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loadLocked()
}

func (l *Loader) ensureLoaded() {
	l.mu.RLock()
	done := l.loaded
	l.mu.RUnlock()
	if done {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.loaded {
		l.loadLocked()
	}
}

func (l *Loader) loadLocked() {
	l.cache = make(map[string]*Skill)
	l.loaded = true

	entries, err := os.ReadDir(l.root)
	if err != nil {
		slog.Warn("Skills directory unavailable, continuing without skills", "dir", l.root, "error", err)
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		id := entry.Name()
		data, err := os.ReadFile(filepath.Join(l.root, id, skillFileName))
		if err != nil {
			slog.Warn("Skill document unreadable, skipping", "skill", id, "error", err)
			continue
		}
		l.cache[id] = parseSkill(id, string(data))
	}
}

// parseSkill extracts a display name from the first heading and a description
// from the first paragraph after it. The full text is kept as content.
func parseSkill(id, content string) *Skill {
	s := &Skill{ID: id, Name: id, Content: content}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			s.Name = strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
			for _, rest := range lines[i+1:] {
				if p := strings.TrimSpace(rest); p != "" && !strings.HasPrefix(p, "#") {
					s.Description = p
					break
				}
			}
			break
		}
	}
	return s
}
