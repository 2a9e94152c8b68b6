package plan

import (
	"context"
	"sync"
)

// Source defines how plan definitions are loaded into a Catalog.
type Source interface {
	Load(ctx context.Context) (map[Plan]Definition, error)
}

// inMemSource implements Source over an in-memory definition map.
type inMemSource struct {
	mu    sync.RWMutex
	plans map[Plan]Definition
}

// NewInMemSource returns a Source holding a deep copy of the given definitions.
func NewInMemSource(plans map[Plan]Definition) Source {
	plansCopy := make(map[Plan]Definition, len(plans))
	for id, def := range plans {
		plansCopy[id] = def.clone()
	}
	return &inMemSource{plans: plansCopy}
}

// Load returns a copy of all definitions.
func (s *inMemSource) Load(ctx context.Context) (map[Plan]Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plansCopy := make(map[Plan]Definition, len(s.plans))
	for id, def := range s.plans {
		plansCopy[id] = def.clone()
	}
	return plansCopy, nil
}
