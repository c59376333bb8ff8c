// Package notify sends best-effort run outcome notifications. Delivery
// failures are logged, never propagated; notifications must not affect run
// state.
package notify

import (
	"fmt"
	"log/slog"

	"github.com/slack-go/slack"

	"github.com/crewboard/crewboard/internal/agent"
	"github.com/crewboard/crewboard/internal/store"
)

// Notifier announces run outcomes.
type Notifier interface {
	RunFinished(agentName string, task *store.Task, res *agent.RunResult)
}

// slackAPI is the subset of the Slack client the notifier uses.
type slackAPI interface {
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackNotifier posts run outcomes to a Slack channel.
type SlackNotifier struct {
	client  slackAPI
	channel string
}

// NewSlackNotifier creates a notifier posting to the given channel.
func NewSlackNotifier(token, channel string) *SlackNotifier {
	return &SlackNotifier{client: slack.New(token), channel: channel}
}

// RunFinished posts a summary of a finished run.
func (n *SlackNotifier) RunFinished(agentName string, task *store.Task, res *agent.RunResult) {
	var text string
	switch res.Status {
	case store.RunStatusCompleted:
		text = fmt.Sprintf(":white_check_mark: *%s* finished *%s* (%d tokens, $%.4f) - moved to review",
			agentName, task.Title, res.InputTokens+res.OutputTokens, res.CostUSD)
	case store.RunStatusFailed:
		text = fmt.Sprintf(":x: *%s* failed on *%s*: %s - moved back to todo",
			agentName, task.Title, res.Error)
	case store.RunStatusCancelled:
		text = fmt.Sprintf(":no_entry: run for *%s* was cancelled", task.Title)
	default:
		return
	}

	if _, _, err := n.client.PostMessage(n.channel, slack.MsgOptionText(text, false)); err != nil {
		slog.Warn("slack notification failed", "channel", n.channel, "error", err)
	}
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) RunFinished(agentName string, task *store.Task, res *agent.RunResult) {}
