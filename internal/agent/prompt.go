package agent

import (
	"fmt"
	"strings"

	"github.com/crewboard/crewboard/internal/store"
)

// BuildPrompt assembles the system prompt for a run. Pure string assembly:
// the agent's base instructions, the pre-rendered skills block, and a
// structured task section with the most recent comments newest first.
// Missing description and comments get placeholder text so the model never
// sees an empty section.
func BuildPrompt(agent *store.AgentProfile, task *store.Task, comments []*store.Comment, skillsBlock string) string {
	var sb strings.Builder

	base := strings.TrimSpace(agent.SystemPrompt)
	if base == "" {
		base = fmt.Sprintf("You are %s, an AI agent working on project tasks.", agent.Name)
	}
	sb.WriteString(base)
	sb.WriteString("\n\n")

	if skillsBlock != "" {
		sb.WriteString(skillsBlock)
		sb.WriteString("\n\n")
	}

	sb.WriteString("## Current Task\n\n")
	sb.WriteString("Title: " + task.Title + "\n")
	if task.ProjectName != "" {
		sb.WriteString("Project: " + task.ProjectName + "\n")
	}
	sb.WriteString("Status: " + task.Status + "\n\n")

	desc := strings.TrimSpace(task.Description)
	if desc == "" {
		desc = "(no description provided)"
	}
	sb.WriteString("Description:\n" + desc + "\n\n")

	sb.WriteString("Recent comments (newest first):\n")
	if len(comments) == 0 {
		sb.WriteString("(no comments yet)\n")
	} else {
		for _, c := range comments {
			sb.WriteString(fmt.Sprintf("- [%s] %s\n", c.CreatedAt.Format("2006-01-02 15:04"), strings.TrimSpace(c.Content)))
		}
	}

	return strings.TrimSpace(sb.String())
}
