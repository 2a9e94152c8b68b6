// Package gate decides whether an attempted action fits within the actor's
// plan ceilings.
//
// CheckUpload and CheckQuota are pure functions of the plan and the supplied
// counts. Checks run in a fixed order and the first failing check wins:
// file size, then duration, then the product count. Size and duration deny
// when the value is strictly greater than the ceiling; counted resources deny
// when the current count has already reached the ceiling, because the new
// item is not counted yet. Unknown plans are checked against the free plan.
//
// Authorize and AuthorizeQuota compose the checks with an external Counter
// (usage.Registry in production). Caller-supplied counts only count when no
// Counter is registered for the resource. If a count cannot be read the decision is a retryable deny
// with an "unable to verify" message; the gate never fails open and never
// returns an error.
package gate
