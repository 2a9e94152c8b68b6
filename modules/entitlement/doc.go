// Package entitlement mounts the HTTP API over the entitlement core.
//
// Authenticated routes (bearer token) report the caller's entitlements,
// check uploads and counted actions against plan ceilings, and dispatch the
// background jobs for a completed feature action. Denied checks answer 402
// with the decision body; checks that could not read usage answer 503 so
// clients retry. The billing webhook route is unauthenticated and relies on
// the provider's signature.
package entitlement
