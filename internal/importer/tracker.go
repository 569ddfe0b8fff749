package importer

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/hrimport/candidate_importer/internal/domain"
)

// ProgressTracker holds the live counters of running import tasks. Only the
// orchestrator execution that owns a task publishes updates for it; readers
// always receive snapshot copies, so arbitrary polling cadence is safe.
// Tasks unknown to memory (finished before a restart) are resolved from the
// task repository.
type ProgressTracker struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*domain.ImportTask
	repo  TaskRepository
}

func NewProgressTracker(repo TaskRepository) *ProgressTracker {
	return &ProgressTracker{
		tasks: make(map[uuid.UUID]*domain.ImportTask),
		repo:  repo,
	}
}

// Publish stores a snapshot of the task's current state.
func (t *ProgressTracker) Publish(task *domain.ImportTask) {
	clone := task.Clone()

	t.mu.Lock()
	t.tasks[task.ID] = clone
	t.mu.Unlock()
}

func (t *ProgressTracker) GetStatus(ctx context.Context, id uuid.UUID) (*domain.ImportTask, error) {
	t.mu.RLock()
	task, ok := t.tasks[id]
	t.mu.RUnlock()

	if ok {
		return task.Clone(), nil
	}

	return t.repo.TaskByID(ctx, id)
}
