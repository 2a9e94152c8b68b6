package feature

import (
	"context"
	"errors"
	"hash/fnv"
	"slices"

	"github.com/epreen/zimapp-web-sub001/pkg/environment"
)

// AlwaysStrategy returns the same value for every subject.
type AlwaysStrategy struct {
	Value bool
}

func (s *AlwaysStrategy) Evaluate(ctx context.Context) (bool, error) {
	return s.Value, nil
}

// TargetedStrategy grants a flag to listed actors, to subjects in listed
// groups, or to a stable percentage of actors.
type TargetedStrategy struct {
	Criteria TargetCriteria
}

// NewTargetedStrategy creates a strategy based on targeting criteria.
func NewTargetedStrategy(criteria TargetCriteria) Strategy {
	return &TargetedStrategy{Criteria: criteria}
}

// Evaluate checks the deny list, then actor IDs, then groups, then the rollout percentage.
func (s *TargetedStrategy) Evaluate(ctx context.Context) (bool, error) {
	c := s.Criteria
	if c.ActorIDs == nil && c.Groups == nil && c.Percentage == nil && c.DenyList == nil {
		return false, ErrInvalidStrategy
	}

	subject, _ := SubjectFromContext(ctx)

	if len(c.DenyList) > 0 && (subject.ActorID == "" || slices.Contains(c.DenyList, subject.ActorID)) {
		return false, nil
	}
	if subject.ActorID != "" && slices.Contains(c.ActorIDs, subject.ActorID) {
		return true, nil
	}
	for _, g := range subject.Groups {
		if slices.Contains(c.Groups, g) {
			return true, nil
		}
	}
	if c.Percentage != nil {
		return inRollout(subject.ActorID, *c.Percentage)
	}
	return false, nil
}

func inRollout(actorID string, percentage int) (bool, error) {
	if percentage < 0 || percentage > 100 {
		return false, errors.Join(ErrInvalidStrategy, errors.New("percentage must be between 0 and 100"))
	}
	switch {
	case percentage == 0:
		return false, nil
	case percentage == 100:
		return true, nil
	case actorID == "":
		return false, nil
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(actorID))
	return int(h.Sum32()%100) < percentage, nil
}

// EnvironmentStrategy enables a flag only in the listed environments, read
// from the request context via environment.FromContext.
type EnvironmentStrategy struct {
	Environments []environment.Environment
}

func (s *EnvironmentStrategy) Evaluate(ctx context.Context) (bool, error) {
	if len(s.Environments) == 0 {
		return false, ErrInvalidStrategy
	}
	env := environment.FromContext(ctx)
	return env != "" && slices.Contains(s.Environments, env), nil
}

// AllOf enables a flag only when every child strategy does.
type AllOf []Strategy

func (s AllOf) Evaluate(ctx context.Context) (bool, error) {
	if len(s) == 0 {
		return false, ErrInvalidStrategy
	}
	for _, child := range s {
		ok, err := child.Evaluate(ctx)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// AnyOf enables a flag when at least one child strategy does.
type AnyOf []Strategy

func (s AnyOf) Evaluate(ctx context.Context) (bool, error) {
	if len(s) == 0 {
		return false, ErrInvalidStrategy
	}
	for _, child := range s {
		ok, err := child.Evaluate(ctx)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
