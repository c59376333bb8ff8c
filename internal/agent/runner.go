// Package agent orchestrates AI agent runs against board tasks: prompt
// assembly, provider calls with a bounded tool loop, accounting, and the
// task status transitions around each run.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/crewboard/crewboard/internal/config"
	"github.com/crewboard/crewboard/internal/keys"
	"github.com/crewboard/crewboard/internal/provider"
	"github.com/crewboard/crewboard/internal/skills"
	"github.com/crewboard/crewboard/internal/store"
	"github.com/crewboard/crewboard/internal/tools"
)

// ErrTaskBusy is returned when a run is triggered for a task that already
// has one in flight.
var ErrTaskBusy = errors.New("task already has an active run")

// ErrRunNotActive is returned when cancelling a run that is already in a
// terminal state.
var ErrRunNotActive = errors.New("run is not active")

// RunResult summarizes a finished run for the caller. All side effects are
// persisted before it is returned.
type RunResult struct {
	RunID        string  `json:"run_id"`
	Status       string  `json:"status"`
	Output       string  `json:"output,omitempty"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
	Error        string  `json:"error,omitempty"`
}

// providerFactory builds an LLM client. Overridable in tests.
type providerFactory func(kind provider.Kind, apiKey, apiBase string) (provider.LLMProvider, error)

// Runner executes agent runs.
type Runner struct {
	store     *store.Store
	skills    *skills.Loader
	registry  *tools.Registry
	resolver  *keys.Resolver
	cfg       *config.Config
	newClient providerFactory

	locks    *taskLocks
	mu       sync.Mutex
	inFlight map[string]context.CancelFunc
}

// NewRunner wires the orchestrator.
func NewRunner(st *store.Store, sk *skills.Loader, reg *tools.Registry, res *keys.Resolver, cfg *config.Config) *Runner {
	return &Runner{
		store:     st,
		skills:    sk,
		registry:  reg,
		resolver:  res,
		cfg:       cfg,
		newClient: provider.New,
		locks:     newTaskLocks(),
		inFlight:  make(map[string]context.CancelFunc),
	}
}

// Run executes one agent run for a task and returns its summary. A failed
// run reverts the task to TODO so it can be retried; the task is never left
// in IN_PROGRESS.
func (r *Runner) Run(ctx context.Context, agentID, taskID, userID string) (*RunResult, error) {
	agent, err := r.store.GetAgent(agentID)
	if err != nil {
		return nil, fmt.Errorf("load agent %s: %w", agentID, err)
	}
	task, err := r.store.GetTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("load task %s: %w", taskID, err)
	}
	comments, err := r.store.RecentComments(taskID, r.cfg.Runner.RecentComments)
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}

	if !r.locks.acquire(taskID) {
		return nil, fmt.Errorf("%w: %s", ErrTaskBusy, taskID)
	}
	defer r.locks.release(taskID)

	prompt := BuildPrompt(agent, task, comments, r.skills.BuildPrompt(agent.Skills))

	run := &store.AgentRun{
		AgentID: agent.ID,
		TaskID:  task.ID,
		Status:  store.RunStatusRunning,
		Input:   prompt,
	}
	if err := r.store.CreateRun(run); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	r.trackRun(run.ID, cancel)
	defer r.untrackRun(run.ID)

	slog.Info("agent run started", "run_id", run.ID, "agent", agent.Name, "task_id", task.ID)

	if err := r.store.UpdateTaskStatus(task.ID, store.TaskStatusInProgress); err != nil {
		return nil, err
	}
	_ = r.store.AddActivity(task.ID, run.ID, "run_started", agent.Name)

	output, usage, err := r.execute(runCtx, agent, prompt, userID)
	cost := provider.EstimateCost(agent.Model, usage.InputTokens, usage.OutputTokens)

	if err != nil {
		return r.finishFailed(run.ID, task.ID, agent, err)
	}
	return r.finishCompleted(run.ID, task.ID, agent, output, usage, cost)
}

// cancelledResult resolves a rejected terminal update: when the run was
// cancelled mid-flight the outcome write finds no active row, and the
// cancellation wins.
func (r *Runner) cancelledResult(runID string, updateErr error) (*RunResult, bool) {
	if !errors.Is(updateErr, store.ErrNotFound) {
		return nil, false
	}
	cur, err := r.store.GetRun(runID)
	if err != nil || cur.Status != store.RunStatusCancelled {
		return nil, false
	}
	slog.Info("agent run cancelled", "run_id", runID)
	return &RunResult{RunID: runID, Status: store.RunStatusCancelled}, true
}

// execute performs the provider conversation, iterating through tool calls
// up to the configured cap. Reaching the cap is not an error; the last text
// output is returned as a partial result.
func (r *Runner) execute(ctx context.Context, agent *store.AgentProfile, prompt, userID string) (string, provider.Usage, error) {
	var total provider.Usage

	kind, err := provider.ResolveKind(agent.Model)
	if err != nil {
		return "", total, err
	}
	cred, err := r.resolver.Resolve(kind, userID)
	if err != nil {
		return "", total, err
	}
	client, err := r.newClient(kind, cred.Key, cred.APIBase)
	if err != nil {
		return "", total, err
	}

	toolset := r.registry.ForAgent(agent.Name, agent.Tools)
	defs := make([]provider.ToolDefinition, len(toolset))
	for i, t := range toolset {
		defs[i] = provider.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		}
	}

	maxTokens := agent.MaxTokens
	if maxTokens <= 0 {
		maxTokens = r.cfg.Runner.MaxTokens
	}
	temperature := agent.Temperature
	if temperature <= 0 {
		temperature = r.cfg.Runner.Temperature
	}

	messages := []provider.Message{{
		Role:    "user",
		Content: "Work on the task described in your instructions and report the outcome.",
	}}

	var output string
	for i := 0; i < r.cfg.Runner.MaxToolIterations; i++ {
		resp, err := client.Chat(ctx, &provider.ChatRequest{
			System:      prompt,
			Messages:    messages,
			Tools:       defs,
			Model:       agent.Model,
			MaxTokens:   maxTokens,
			Temperature: temperature,
		})
		if err != nil {
			return "", total, err
		}
		total.InputTokens += resp.Usage.InputTokens
		total.OutputTokens += resp.Usage.OutputTokens

		if resp.Content != "" {
			output = resp.Content
		}
		if len(resp.ToolCalls) == 0 || len(toolset) == 0 {
			return output, total, nil
		}

		messages = append(messages, provider.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		for _, call := range resp.ToolCalls {
			res := r.registry.ExecuteForAgent(ctx, agent.Name, call.Name, call.Arguments)
			payload, merr := json.Marshal(res)
			if merr != nil {
				payload = []byte(`{"success":false,"error":"unencodable tool result"}`)
			}
			slog.Debug("tool executed", "agent", agent.Name, "tool", call.Name, "ok", res.OK)
			messages = append(messages, provider.Message{
				Role:       "tool",
				Content:    string(payload),
				ToolCallID: call.ID,
			})
		}
	}

	slog.Warn("tool loop cap reached, returning partial output", "agent", agent.Name)
	return output, total, nil
}

func (r *Runner) finishCompleted(runID, taskID string, agent *store.AgentProfile, output string, usage provider.Usage, cost float64) (*RunResult, error) {
	if err := r.store.CompleteRun(runID, output, usage.InputTokens, usage.OutputTokens, cost); err != nil {
		// The run may have been cancelled while the provider call was in
		// flight; the cancelled state and the task revert stand.
		if res, ok := r.cancelledResult(runID, err); ok {
			return res, nil
		}
		return nil, err
	}
	r.appendComment(taskID, agent, truncateComment(output, r.cfg.Runner.CommentMaxChars))
	if err := r.store.UpdateTaskStatus(taskID, store.TaskStatusReview); err != nil {
		return nil, err
	}
	_ = r.store.AddActivity(taskID, runID, "run_completed",
		fmt.Sprintf("%d tokens, $%.4f", usage.InputTokens+usage.OutputTokens, cost))
	slog.Info("agent run completed", "run_id", runID,
		"input_tokens", usage.InputTokens, "output_tokens", usage.OutputTokens, "cost_usd", cost)
	return &RunResult{
		RunID:        runID,
		Status:       store.RunStatusCompleted,
		Output:       output,
		InputTokens:  usage.InputTokens,
		OutputTokens: usage.OutputTokens,
		CostUSD:      cost,
	}, nil
}

func (r *Runner) finishFailed(runID, taskID string, agent *store.AgentProfile, runErr error) (*RunResult, error) {
	if err := r.store.FailRun(runID, runErr.Error()); err != nil {
		if res, ok := r.cancelledResult(runID, err); ok {
			return res, nil
		}
		return nil, err
	}
	r.appendComment(taskID, agent, "Agent run failed: "+runErr.Error())
	if err := r.store.UpdateTaskStatus(taskID, store.TaskStatusTodo); err != nil {
		return nil, err
	}
	_ = r.store.AddActivity(taskID, runID, "run_failed", runErr.Error())
	slog.Error("agent run failed", "run_id", runID, "error", runErr)
	return &RunResult{RunID: runID, Status: store.RunStatusFailed, Error: runErr.Error()}, nil
}

// appendComment attributes the result comment to the agent's bot user when
// one exists, else to the agent profile itself. Comment persistence is best
// effort; the run outcome is already recorded.
func (r *Runner) appendComment(taskID string, agent *store.AgentProfile, content string) {
	authorID := agent.ID
	if bot, err := r.store.BotUserByName(agent.Name); err == nil {
		authorID = bot.ID
	}
	c := &store.Comment{TaskID: taskID, AuthorID: authorID, Content: content}
	if err := r.store.CreateComment(c); err != nil {
		slog.Warn("failed to record run comment", "task_id", taskID, "error", err)
	}
}

// Cancel marks an active run CANCELLED, reverts its task to TODO if still
// IN_PROGRESS, and aborts the in-flight provider call if one is running in
// this process.
func (r *Runner) Cancel(runID string) error {
	run, err := r.store.GetRun(runID)
	if err != nil {
		return err
	}
	if err := r.store.CancelRun(runID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %s is %s", ErrRunNotActive, runID, run.Status)
		}
		return err
	}

	if task, err := r.store.GetTask(run.TaskID); err == nil && task.Status == store.TaskStatusInProgress {
		if err := r.store.UpdateTaskStatus(run.TaskID, store.TaskStatusTodo); err != nil {
			return err
		}
	}
	_ = r.store.AddActivity(run.TaskID, runID, "run_cancelled", "")

	r.mu.Lock()
	cancel, ok := r.inFlight[runID]
	r.mu.Unlock()
	if ok {
		cancel()
	}
	slog.Info("agent run cancelled", "run_id", runID)
	return nil
}

func (r *Runner) trackRun(runID string, cancel context.CancelFunc) {
	r.mu.Lock()
	r.inFlight[runID] = cancel
	r.mu.Unlock()
}

func (r *Runner) untrackRun(runID string) {
	r.mu.Lock()
	delete(r.inFlight, runID)
	r.mu.Unlock()
}

func truncateComment(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "\n... (truncated)"
}
