package entitlement

import (
	"github.com/epreen/zimapp-web-sub001/pkg/plan"
)

// Role is an access class derived from a plan. The set is closed.
type Role string

const (
	RoleCustomer         Role = "customer"
	RoleBusiness         Role = "business"
	RoleVerifiedBusiness Role = "verified_business"
	RoleAdmin            Role = "admin"
)

// Roles returns every role in ascending privilege.
func Roles() []Role {
	return []Role{RoleCustomer, RoleBusiness, RoleVerifiedBusiness, RoleAdmin}
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleBusiness, RoleVerifiedBusiness, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ResolveRole turns an untrusted claim value into a Role. Only a string that
// exactly matches a declared role is accepted; anything else is RoleCustomer.
func ResolveRole(claim any) Role {
	s, ok := claim.(string)
	if !ok {
		return RoleCustomer
	}
	if r := Role(s); r.Valid() {
		return r
	}
	return RoleCustomer
}

// ResolvePlan turns an untrusted claim value into a Plan. Only a string that
// exactly matches a declared plan is accepted; anything else is plan.Free.
func ResolvePlan(claim any) plan.Plan {
	s, ok := claim.(string)
	if !ok {
		return plan.Free
	}
	if p, ok := plan.Parse(s); ok {
		return p
	}
	return plan.Free
}

// RoleForPlan is the fixed plan to role mapping. RoleAdmin is never derived
// from a plan; unknown plans map to RoleCustomer.
func RoleForPlan(p plan.Plan) Role {
	switch p {
	case plan.Free:
		return RoleCustomer
	case plan.Standard, plan.Premium:
		return RoleBusiness
	case plan.Business, plan.Enterprise:
		return RoleVerifiedBusiness
	}
	return RoleCustomer
}

// Direction classifies a plan change along the plan order.
type Direction string

const (
	DirectionUpgrade   Direction = "upgrade"
	DirectionDowngrade Direction = "downgrade"
	DirectionUnchanged Direction = "unchanged"
)

// RoleChange describes the role an actor should hold after a plan change.
type RoleChange struct {
	Previous  plan.Plan `json:"previous_plan"`
	Target    plan.Plan `json:"target_plan"`
	Role      Role      `json:"role"`
	Direction Direction `json:"direction"`
}

// RoleForPlanChange looks up the role for a plan observed in an external
// plan-change event. An unknown slug yields ErrUnrecognizedPlan and a zero
// RoleChange. The slug is matched exactly; no case folding or trimming.
// An unknown previous plan is treated as plan.Free when computing Direction.
func RoleForPlanChange(previous plan.Plan, slug string) (RoleChange, error) {
	target, ok := plan.Parse(slug)
	if !ok {
		return RoleChange{}, ErrUnrecognizedPlan
	}
	if !previous.Valid() {
		previous = plan.Free
	}

	dir := DirectionUnchanged
	switch {
	case previous.Less(target):
		dir = DirectionUpgrade
	case target.Less(previous):
		dir = DirectionDowngrade
	}

	return RoleChange{
		Previous:  previous,
		Target:    target,
		Role:      RoleForPlan(target),
		Direction: dir,
	}, nil
}
