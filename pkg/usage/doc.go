// Package usage supplies the current-usage counts the gate compares against
// plan ceilings.
//
// The engine never owns a counter store. Callers register a CounterFunc per
// counted resource in a Registry; PostgresCounters provides the production
// implementations. A Registry may front its counters with a Cache holding
// snapshots for a bounded TTL. Both MemoryCache (per process) and RedisCache
// (shared across replicas) are injected explicitly, so no usage state lives
// in package variables.
//
// Counts are snapshots: two concurrent requests may both observe a count
// below the ceiling. Quotas enforced through this package are soft.
package usage
