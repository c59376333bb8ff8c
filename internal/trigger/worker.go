package trigger

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/crewboard/crewboard/internal/agent"
	"github.com/crewboard/crewboard/internal/store"
)

// Task event types emitted by the board.
const (
	EventTaskCreated = "task.created"
	EventTaskMoved   = "task.moved"
)

// TaskEvent is the JSON payload on the task-event topic.
type TaskEvent struct {
	Type   string `json:"type"`
	TaskID string `json:"task_id"`
	Status string `json:"status"`
	UserID string `json:"user_id,omitempty"`
}

// Dispatcher executes agent runs. Satisfied by *agent.Runner.
type Dispatcher interface {
	Run(ctx context.Context, agentID, taskID, userID string) (*agent.RunResult, error)
}

// Notifier announces run outcomes. Satisfied by the notify package.
type Notifier interface {
	RunFinished(agentName string, task *store.Task, res *agent.RunResult)
}

// Worker consumes task events and triggers agent runs for TODO tasks
// assigned to bot users.
type Worker struct {
	store      *store.Store
	consumer   Consumer
	dispatcher Dispatcher
	notifier   Notifier
	wg         sync.WaitGroup
}

// NewWorker wires the trigger worker.
func NewWorker(st *store.Store, consumer Consumer, dispatcher Dispatcher) *Worker {
	return &Worker{store: st, consumer: consumer, dispatcher: dispatcher}
}

// SetNotifier attaches an outcome notifier.
func (w *Worker) SetNotifier(n Notifier) {
	w.notifier = n
}

// Run consumes events until the context is cancelled, then waits for
// in-flight runs to settle.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.consumer.Start(ctx); err != nil {
		return err
	}
	defer w.consumer.Close()
	defer w.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-w.consumer.Messages():
			if !ok {
				return nil
			}
			w.handle(ctx, msg)
		}
	}
}

// Sweep dispatches runs for every TODO task currently assigned to a bot.
// Covers events published while no worker was listening.
func (w *Worker) Sweep(ctx context.Context) {
	tasks, err := w.store.TasksByStatusAssignedToBots(store.TaskStatusTodo)
	if err != nil {
		slog.Warn("trigger: sweep query failed", "error", err)
		return
	}
	for _, task := range tasks {
		w.dispatch(ctx, task, "")
	}
	if len(tasks) > 0 {
		slog.Info("trigger: sweep dispatched", "tasks", len(tasks))
	}
}

func (w *Worker) handle(ctx context.Context, msg Message) {
	var ev TaskEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		slog.Warn("trigger: unmarshal event", "error", err)
		return
	}
	if ev.Type != EventTaskCreated && ev.Type != EventTaskMoved {
		slog.Debug("trigger: ignoring event", "type", ev.Type)
		return
	}

	task, err := w.store.GetTask(ev.TaskID)
	if err != nil {
		slog.Warn("trigger: task not found", "task_id", ev.TaskID, "error", err)
		return
	}
	w.dispatch(ctx, task, ev.UserID)
}

func (w *Worker) dispatch(ctx context.Context, task *store.Task, userID string) {
	if task.Status != store.TaskStatusTodo || task.AssigneeID == "" {
		return
	}
	assignee, err := w.store.GetUser(task.AssigneeID)
	if err != nil || !assignee.IsBot {
		return
	}
	profile, err := w.store.AgentByName(assignee.Name)
	if err != nil {
		slog.Warn("trigger: no agent profile for bot", "bot", assignee.Name, "error", err)
		return
	}
	if !profile.Active {
		slog.Debug("trigger: agent inactive", "agent", profile.Name)
		return
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		res, err := w.dispatcher.Run(ctx, profile.ID, task.ID, userID)
		if errors.Is(err, agent.ErrTaskBusy) {
			slog.Info("trigger: task already running, skipped", "task_id", task.ID)
			return
		}
		if err != nil {
			slog.Error("trigger: run dispatch failed", "task_id", task.ID, "error", err)
			return
		}
		slog.Info("trigger: run finished", "run_id", res.RunID, "status", res.Status)
		if w.notifier != nil {
			w.notifier.RunFinished(profile.Name, task, res)
		}
	}()
}
