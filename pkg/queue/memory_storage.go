package queue

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemoryStorage is an in-process EnqueuerRepository for tests and local development.
type MemoryStorage struct {
	mu      sync.RWMutex
	tasks   map[uuid.UUID]*Task
	order   []uuid.UUID
	byDedup map[string]uuid.UUID
}

// NewMemoryStorage creates a new in-memory storage implementation
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		tasks:   make(map[uuid.UUID]*Task),
		byDedup: make(map[string]uuid.UUID),
	}
}

// CreateTask implements EnqueuerRepository.
func (ms *MemoryStorage) CreateTask(ctx context.Context, task *Task) error {
	if task == nil {
		return errors.New("task cannot be nil")
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.tasks[task.ID]; exists {
		return fmt.Errorf("%w: id %s", ErrDuplicateTask, task.ID)
	}
	if task.DedupKey != "" {
		if id, exists := ms.byDedup[task.DedupKey]; exists && ms.tasks[id].Status == TaskStatusPending {
			return fmt.Errorf("%w: dedup key %q", ErrDuplicateTask, task.DedupKey)
		}
		ms.byDedup[task.DedupKey] = task.ID
	}

	taskCopy := *task
	taskCopy.Payload = slices.Clone(task.Payload)
	ms.tasks[task.ID] = &taskCopy
	ms.order = append(ms.order, task.ID)

	return nil
}

// Tasks returns copies of every stored task in insertion order, optionally
// filtered by task name.
func (ms *MemoryStorage) Tasks(names ...string) []Task {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	out := make([]Task, 0, len(ms.order))
	for _, id := range ms.order {
		t := ms.tasks[id]
		if len(names) > 0 && !slices.Contains(names, t.TaskName) {
			continue
		}
		c := *t
		c.Payload = slices.Clone(t.Payload)
		out = append(out, c)
	}
	return out
}

// Len reports how many tasks have been stored.
func (ms *MemoryStorage) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.order)
}
