package feature

import (
	"context"
	"time"
)

// Flag is a capability override. Its Name is the capability key asked for
// by the entitlement resolver, normally a plan feature identifier.
type Flag struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Enabled     bool      `json:"enabled"`
	Strategy    Strategy  `json:"-"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"`
}

// Strategy decides whether an enabled flag applies to the subject in ctx.
type Strategy interface {
	Evaluate(ctx context.Context) (bool, error)
}

// TargetCriteria defines targeting criteria for a flag.
type TargetCriteria struct {
	ActorIDs   []string `json:"actor_ids,omitempty"`
	Groups     []string `json:"groups,omitempty"` // plan or role identifiers
	Percentage *int     `json:"percentage,omitempty"`
	// DenyList takes precedence over all other criteria.
	DenyList []string `json:"deny_list,omitempty"`
}

// Provider stores and evaluates flags.
type Provider interface {
	// IsEnabled returns ErrFlagNotFound for unknown flags.
	IsEnabled(ctx context.Context, flagName string) (bool, error)
	GetFlag(ctx context.Context, flagName string) (*Flag, error)
	ListFlags(ctx context.Context, tags ...string) ([]*Flag, error)
	CreateFlag(ctx context.Context, flag *Flag) error
	UpdateFlag(ctx context.Context, flag *Flag) error
	DeleteFlag(ctx context.Context, flagName string) error
	Close() error
}
