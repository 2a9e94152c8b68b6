// Package dispatch maps plan features to the background jobs that deliver
// them and enqueues those jobs once an action has been confirmed.
//
// JobsFor is a static, total lookup over plan.Feature. Features that only
// gate visibility or quotas (analytics, badges, support tiers) map to no
// jobs. Dispatcher re-checks the actor's entitlement before writing
// anything to the queue; job execution itself happens elsewhere.
package dispatch
