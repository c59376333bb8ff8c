package agent

import "sync"

// taskLocks serializes runs per task. The board can trigger the same task
// twice in quick succession; the second trigger is rejected instead of
// racing the first run's status transitions.
type taskLocks struct {
	mu   sync.Mutex
	held map[string]bool
}

func newTaskLocks() *taskLocks {
	return &taskLocks{held: make(map[string]bool)}
}

// acquire takes the lock for a task, returning false if it is already held.
func (l *taskLocks) acquire(taskID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[taskID] {
		return false
	}
	l.held[taskID] = true
	return true
}

func (l *taskLocks) release(taskID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, taskID)
}
