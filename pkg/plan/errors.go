package plan

import "errors"

var (
	ErrInvalidPlanConfiguration = errors.New("plan.errors.invalid_plan_configuration")
	ErrFailedToLoadPlans        = errors.New("plan.errors.failed_to_load_plans")
)
