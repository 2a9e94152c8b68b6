package plan

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Catalog is the process-wide, read-only plan table.
type Catalog struct {
	// Treated as immutable after NewCatalog returns; concurrent reads need no locking.
	plans map[Plan]Definition
}

// NewCatalog loads definitions from src and validates them.
// Every plan of the enumeration must be present, ceilings must be monotone
// along the plan order and feature sets must only grow.
func NewCatalog(ctx context.Context, src Source) (*Catalog, error) {
	if src == nil {
		panic("plan: Source is required")
	}

	plans, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	if err := validatePlans(plans); err != nil {
		return nil, err
	}

	return &Catalog{plans: plans}, nil
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := NewCatalog(context.Background(), NewInMemSource(DefaultPlans()))
	if err != nil {
		panic(fmt.Sprintf("plan: compiled-in catalog is invalid: %v", err))
	}
	return c
})

// Default returns the catalog built from DefaultPlans.
func Default() *Catalog {
	return defaultCatalog()
}

// Definition returns the full definition of p.
func (c *Catalog) Definition(p Plan) (Definition, bool) {
	def, ok := c.plans[p]
	if !ok {
		return Definition{}, false
	}
	return def.clone(), true
}

// LimitsFor returns the ceilings granted by p.
// The boolean is false for plans outside the catalog; callers must check it.
func (c *Catalog) LimitsFor(p Plan) (Limits, bool) {
	def, ok := c.plans[p]
	if !ok {
		return Limits{}, false
	}
	return def.Limits, true
}

// FeaturesFor returns the features unlocked by p, or nil for unknown plans.
func (c *Catalog) FeaturesFor(p Plan) []Feature {
	def, ok := c.plans[p]
	if !ok {
		return nil
	}
	return slices.Clone(def.Features)
}

// IsKnownPlan reports whether value names a plan in the catalog.
func (c *Catalog) IsKnownPlan(value string) bool {
	_, ok := c.plans[Plan(value)]
	return ok
}

// Has reports whether p unlocks f. Unknown plans unlock nothing.
func (c *Catalog) Has(p Plan, f Feature) bool {
	def, ok := c.plans[p]
	if !ok {
		return false
	}
	return slices.Contains(def.Features, f)
}

// Plans returns the catalog's plans in ascending privilege order.
func (c *Catalog) Plans() []Plan {
	result := make([]Plan, 0, len(c.plans))
	for _, p := range order {
		if _, ok := c.plans[p]; ok {
			result = append(result, p)
		}
	}
	return result
}

// validatePlans checks plan definitions against the catalog invariants.
func validatePlans(plans map[Plan]Definition) error {
	for id, def := range plans {
		if !id.Valid() {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("unknown plan %q", id))
		}
		if def.ID != id {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan ID mismatch: map key %s != definition ID %s", id, def.ID))
		}
		for _, r := range resources {
			if l := def.Limits.Of(r); l < Unlimited {
				return errors.Join(ErrInvalidPlanConfiguration,
					fmt.Errorf("plan %s has invalid %s limit: %d", id, r, l))
			}
		}
		for _, f := range def.Features {
			if !f.Valid() {
				return errors.Join(ErrInvalidPlanConfiguration,
					fmt.Errorf("plan %s lists unknown feature %q", id, f))
			}
		}
	}

	var prev *Definition
	for _, p := range order {
		def, ok := plans[p]
		if !ok {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s is not defined", p))
		}

		if prev != nil {
			for _, r := range resources {
				if !def.Limits.Of(r).AtLeast(prev.Limits.Of(r)) {
					return errors.Join(ErrInvalidPlanConfiguration,
						fmt.Errorf("plan %s grants a smaller %s limit than %s", p, r, prev.ID))
				}
			}
			for _, f := range prev.Features {
				if !slices.Contains(def.Features, f) {
					return errors.Join(ErrInvalidPlanConfiguration,
						fmt.Errorf("plan %s drops feature %s granted by %s", p, f, prev.ID))
				}
			}
		}

		prev = &def
	}

	return nil
}
