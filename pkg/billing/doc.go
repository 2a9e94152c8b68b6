// Package billing turns payment-provider webhooks into plan and role changes.
//
// A Provider verifies and decodes one provider's webhook into an Event that
// names the actor and the new plan slug. Handler resolves the slug through
// entitlement.RoleForPlanChange and writes the result to a RoleStore. Events
// naming a plan the catalog does not know are logged and acknowledged
// without touching stored state, so the provider stops retrying and the
// actor keeps the entitlements they had.
//
// Stores record the provider event ID together with the assignment, which
// makes redelivered events no-ops. Assignments older than the stored one are
// ignored so out-of-order delivery cannot roll a plan back.
package billing
