package feature

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"time"
)

// MemoryProvider is an in-memory Provider for tests and single-instance deployments.
type MemoryProvider struct {
	flags map[string]*Flag
	mu    sync.RWMutex
	now   func() time.Time
}

// NewMemoryProvider creates a provider seeded with initialFlags. Nil entries are skipped.
func NewMemoryProvider(initialFlags ...*Flag) (*MemoryProvider, error) {
	m := &MemoryProvider{
		flags: make(map[string]*Flag),
		now:   time.Now,
	}
	for _, flag := range initialFlags {
		if flag == nil {
			continue
		}
		if err := m.CreateFlag(context.Background(), flag); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// IsEnabled evaluates flagName for the subject carried by ctx.
func (m *MemoryProvider) IsEnabled(ctx context.Context, flagName string) (bool, error) {
	m.mu.RLock()
	flag, exists := m.flags[flagName]
	m.mu.RUnlock()

	if !exists {
		return false, ErrFlagNotFound
	}
	if !flag.Enabled {
		return false, nil
	}
	if flag.Strategy == nil {
		return true, nil
	}
	return flag.Strategy.Evaluate(ctx)
}

// GetFlag returns a copy of the named flag.
func (m *MemoryProvider) GetFlag(ctx context.Context, flagName string) (*Flag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	flag, exists := m.flags[flagName]
	if !exists {
		return nil, ErrFlagNotFound
	}
	return cloneFlag(flag), nil
}

// ListFlags returns copies of all flags sorted by name, keeping only those
// carrying at least one of tags when tags are given.
func (m *MemoryProvider) ListFlags(ctx context.Context, tags ...string) ([]*Flag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Flag, 0, len(m.flags))
	for _, name := range slices.Sorted(maps.Keys(m.flags)) {
		flag := m.flags[name]
		if len(tags) > 0 && !slices.ContainsFunc(tags, func(tag string) bool { return slices.Contains(flag.Tags, tag) }) {
			continue
		}
		result = append(result, cloneFlag(flag))
	}
	return result, nil
}

// CreateFlag stores a new flag. Returns ErrFlagExists for duplicates.
func (m *MemoryProvider) CreateFlag(ctx context.Context, flag *Flag) error {
	if err := validateFlag(flag); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.flags[flag.Name]; exists {
		return ErrFlagExists
	}

	c := cloneFlag(flag)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = m.now()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
	m.flags[flag.Name] = c
	return nil
}

// UpdateFlag replaces an existing flag, keeping its creation time.
func (m *MemoryProvider) UpdateFlag(ctx context.Context, flag *Flag) error {
	if err := validateFlag(flag); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.flags[flag.Name]
	if !exists {
		return ErrFlagNotFound
	}

	c := cloneFlag(flag)
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = m.now()
	m.flags[flag.Name] = c
	return nil
}

// DeleteFlag removes the named flag.
func (m *MemoryProvider) DeleteFlag(ctx context.Context, flagName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.flags[flagName]; !exists {
		return ErrFlagNotFound
	}
	delete(m.flags, flagName)
	return nil
}

// Close is a no-op.
func (m *MemoryProvider) Close() error {
	return nil
}

func validateFlag(flag *Flag) error {
	if flag == nil {
		return errors.Join(ErrInvalidFlag, errors.New("flag cannot be nil"))
	}
	if flag.Name == "" {
		return errors.Join(ErrInvalidFlag, errors.New("flag name cannot be empty"))
	}
	return nil
}

func cloneFlag(f *Flag) *Flag {
	c := *f
	c.Tags = slices.Clone(f.Tags)
	return &c
}
