package plan

import "slices"

// Plan identifies a subscription tier.
type Plan string

const (
	Free       Plan = "free"
	Standard   Plan = "standard"
	Premium    Plan = "premium"
	Business   Plan = "business"
	Enterprise Plan = "enterprise"
)

// order lists plans from least to most privileged.
var order = []Plan{Free, Standard, Premium, Business, Enterprise}

// All returns every plan in ascending privilege order.
func All() []Plan {
	return slices.Clone(order)
}

// Parse validates value against the closed set of plans.
// Unknown values are rejected, never coerced.
func Parse(value string) (Plan, bool) {
	p := Plan(value)
	if !p.Valid() {
		return "", false
	}
	return p, true
}

// Valid reports whether p is a member of the plan enumeration.
func (p Plan) Valid() bool {
	return p.Rank() >= 0
}

// Rank returns the position of p in the privilege order, or -1 for unknown plans.
func (p Plan) Rank() int {
	return slices.Index(order, p)
}

// Less reports whether p is strictly less privileged than other.
// Unknown plans rank below every known plan.
func (p Plan) Less(other Plan) bool {
	return p.Rank() < other.Rank()
}

func (p Plan) String() string {
	return string(p)
}

// Resource is a ceiling tracked per plan.
type Resource string

const (
	ResourceFileSize    Resource = "file_size" // bytes per upload
	ResourceDuration    Resource = "duration"  // seconds per media upload
	ResourceProducts    Resource = "products"
	ResourceVideoAds    Resource = "video_ads"
	ResourcePromoPushes Resource = "promo_pushes"
)

var resources = []Resource{
	ResourceFileSize,
	ResourceDuration,
	ResourceProducts,
	ResourceVideoAds,
	ResourcePromoPushes,
}

// Resources returns every tracked resource.
func Resources() []Resource {
	return slices.Clone(resources)
}

// Valid reports whether r is a member of the resource enumeration.
func (r Resource) Valid() bool {
	return slices.Contains(resources, r)
}

// Feature is a plan-gated capability.
type Feature string

const (
	FeatureBasicAnalytics        Feature = "basic_analytics"
	FeatureAutoResponder         Feature = "auto_responder"
	FeatureSmartCoupons          Feature = "smart_coupons"
	FeaturePromoPush             Feature = "promo_push"
	FeatureVideoAds              Feature = "video_ads"
	FeatureAIProductDescriptions Feature = "ai_product_descriptions"
	FeatureAIVideoGeneration     Feature = "ai_video_generation"
	FeatureVerifiedBadge         Feature = "verified_badge"
	FeatureAdvancedAnalytics     Feature = "advanced_analytics"
	FeaturePrioritySupport       Feature = "priority_support"
	FeatureAPIAccess             Feature = "api_access"
	FeatureCustomDomain          Feature = "custom_domain"
)

var features = []Feature{
	FeatureBasicAnalytics,
	FeatureAutoResponder,
	FeatureSmartCoupons,
	FeaturePromoPush,
	FeatureVideoAds,
	FeatureAIProductDescriptions,
	FeatureAIVideoGeneration,
	FeatureVerifiedBadge,
	FeatureAdvancedAnalytics,
	FeaturePrioritySupport,
	FeatureAPIAccess,
	FeatureCustomDomain,
}

// Features returns the full feature vocabulary.
func Features() []Feature {
	return slices.Clone(features)
}

// ParseFeature validates value against the feature vocabulary.
func ParseFeature(value string) (Feature, bool) {
	f := Feature(value)
	if !f.Valid() {
		return "", false
	}
	return f, true
}

// Valid reports whether f is a member of the feature vocabulary.
func (f Feature) Valid() bool {
	return slices.Contains(features, f)
}
