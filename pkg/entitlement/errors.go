package entitlement

import "errors"

var (
	// ErrUnrecognizedPlan signals a plan-change event naming a plan the catalog
	// does not know. Callers must leave stored role state untouched.
	ErrUnrecognizedPlan = errors.New("entitlement.errors.unrecognized_plan")

	ErrMissingToken = errors.New("entitlement.errors.missing_token")
	ErrInvalidToken = errors.New("entitlement.errors.invalid_token")
	ErrNoActor      = errors.New("entitlement.errors.no_actor_in_context")
)
