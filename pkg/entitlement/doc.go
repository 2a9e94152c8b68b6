// Package entitlement resolves who an actor is in billing terms (plan and
// role) and what that actor may do (features).
//
// Resolution starts from an untrusted claim bundle, typically the custom
// claims of a bearer token parsed by TokenParser. ResolvePlan and
// ResolveRole accept arbitrary claim values and never fail: anything that is
// not an exact, known identifier degrades to the least privileged default
// (plan.Free, RoleCustomer).
//
// Feature checks are dual-source. Resolver.Can first asks an optional
// CapabilityQuerier whether an explicit override grants the capability, then
// falls back to the plan's feature set in the catalog. A querier failure
// counts as "no override".
//
// RoleForPlanChange maps billing plan-change events onto the role the actor
// should hold, rejecting unknown plan slugs with ErrUnrecognizedPlan so
// stored role state is never rewritten from an unexpected upstream value.
package entitlement
