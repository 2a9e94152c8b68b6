package plan

import "slices"

// Comparison contains the differences between two plans.
// Used to classify plan changes and communicate them to sellers.
type Comparison struct {
	NewFeatures     []Feature                `json:"new_features"`
	LostFeatures    []Feature                `json:"lost_features"`
	IncreasedLimits map[Resource]LimitChange `json:"increased_limits"`
	DecreasedLimits map[Resource]LimitChange `json:"decreased_limits"`
}

// LimitChange represents a change of one ceiling.
type LimitChange struct {
	From Limit `json:"from"`
	To   Limit `json:"to"`
}

// HasDecreases reports whether the target plan takes anything away.
func (c *Comparison) HasDecreases() bool {
	return len(c.DecreasedLimits) > 0 || len(c.LostFeatures) > 0
}

// Compare returns the differences between current and target plans.
// Returns nil if either plan is outside the catalog.
func (c *Catalog) Compare(current, target Plan) *Comparison {
	from, ok := c.plans[current]
	if !ok {
		return nil
	}
	to, ok := c.plans[target]
	if !ok {
		return nil
	}

	comparison := &Comparison{
		NewFeatures:     make([]Feature, 0),
		LostFeatures:    make([]Feature, 0),
		IncreasedLimits: make(map[Resource]LimitChange),
		DecreasedLimits: make(map[Resource]LimitChange),
	}

	for _, f := range to.Features {
		if !slices.Contains(from.Features, f) {
			comparison.NewFeatures = append(comparison.NewFeatures, f)
		}
	}
	for _, f := range from.Features {
		if !slices.Contains(to.Features, f) {
			comparison.LostFeatures = append(comparison.LostFeatures, f)
		}
	}

	for _, r := range resources {
		fromLimit, toLimit := from.Limits.Of(r), to.Limits.Of(r)
		if fromLimit == toLimit {
			continue
		}
		change := LimitChange{From: fromLimit, To: toLimit}
		// Unlimited-to-limited counts as a decrease.
		if toLimit.AtLeast(fromLimit) {
			comparison.IncreasedLimits[r] = change
		} else {
			comparison.DecreasedLimits[r] = change
		}
	}

	return comparison
}
