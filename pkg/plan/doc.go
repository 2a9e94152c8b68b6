// Package plan holds the marketplace subscription catalog: the closed set of
// plans, the usage ceilings each plan grants and the features it unlocks.
//
// Plans form a strict total order of increasing privilege:
//
//	free < standard < premium < business < enterprise
//
// A Catalog is built once from a Source and is immutable afterwards, so it is
// safe for concurrent use. Construction validates the policy invariants that
// nothing else enforces structurally: a higher plan never grants a smaller
// ceiling than a lower one, and its feature set is a superset of every lower
// plan's set.
//
// Basic usage:
//
//	catalog := plan.Default()
//
//	limits, ok := catalog.LimitsFor(plan.Premium)
//	if !ok {
//	    // unknown plan
//	}
//
//	if catalog.Has(plan.Business, plan.FeatureAIVideoGeneration) {
//	    // unlock video generation
//	}
//
// Custom tables go through the same validation:
//
//	catalog, err := plan.NewCatalog(ctx, plan.NewInMemSource(defs))
package plan
