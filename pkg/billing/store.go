package billing

import (
	"context"
	"sync"
	"time"

	"github.com/epreen/zimapp-web-sub001/pkg/entitlement"
	"github.com/epreen/zimapp-web-sub001/pkg/plan"
)

// Assignment is the stored plan and role of one actor.
type Assignment struct {
	ActorID   string           `json:"actor_id"`
	Plan      plan.Plan        `json:"plan"`
	Role      entitlement.Role `json:"role"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// RoleStore persists role assignments.
type RoleStore interface {
	// Get returns ErrAssignmentNotFound when the actor has no assignment.
	Get(ctx context.Context, actorID string) (Assignment, error)
	// Apply records the event and stores a. An event that was already
	// recorded changes nothing. An assignment older than the stored one
	// records the event but keeps the stored state.
	Apply(ctx context.Context, provider, eventID string, a Assignment) (WriteResult, error)
}

// WriteResult reports what RoleStore.Apply did.
type WriteResult uint8

const (
	// WriteDuplicate means the event had been recorded before.
	WriteDuplicate WriteResult = iota
	// WriteStored means the event was recorded and the assignment stored.
	WriteStored
	// WriteStale means the event was recorded but the stored assignment is newer.
	WriteStale
)

func writeResult(recorded, stored bool) WriteResult {
	switch {
	case !recorded:
		return WriteDuplicate
	case !stored:
		return WriteStale
	default:
		return WriteStored
	}
}

// MemoryRoleStore is an in-process RoleStore.
type MemoryRoleStore struct {
	mu          sync.RWMutex
	assignments map[string]Assignment
	events      map[string]struct{}
}

// NewMemoryRoleStore creates an empty store.
func NewMemoryRoleStore() *MemoryRoleStore {
	return &MemoryRoleStore{
		assignments: make(map[string]Assignment),
		events:      make(map[string]struct{}),
	}
}

// Get implements RoleStore.
func (s *MemoryRoleStore) Get(_ context.Context, actorID string) (Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assignments[actorID]
	if !ok {
		return Assignment{}, ErrAssignmentNotFound
	}
	return a, nil
}

// Apply implements RoleStore.
func (s *MemoryRoleStore) Apply(_ context.Context, provider, eventID string, a Assignment) (WriteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := provider + ":" + eventID
	if _, seen := s.events[key]; seen {
		return WriteDuplicate, nil
	}
	s.events[key] = struct{}{}

	if current, ok := s.assignments[a.ActorID]; ok && current.UpdatedAt.After(a.UpdatedAt) {
		return WriteStale, nil
	}
	s.assignments[a.ActorID] = a
	return WriteStored, nil
}

var _ RoleStore = (*MemoryRoleStore)(nil)
