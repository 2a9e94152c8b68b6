package plan

import "slices"

// Definition describes a plan's display data, ceilings and feature set.
type Definition struct {
	ID          Plan
	Name        string
	Description string
	Limits      Limits
	Features    []Feature
}

func (d Definition) clone() Definition {
	d.Features = slices.Clone(d.Features)
	return d
}

// DefaultPlans returns the compiled-in marketplace plan table.
// Each call returns a fresh map.
func DefaultPlans() map[Plan]Definition {
	free := []Feature{FeatureBasicAnalytics}
	standard := append(slices.Clone(free), FeatureAutoResponder, FeatureSmartCoupons)
	premium := append(slices.Clone(standard), FeaturePromoPush, FeatureVideoAds, FeatureAIProductDescriptions)
	business := append(slices.Clone(premium), FeatureAIVideoGeneration, FeatureVerifiedBadge, FeatureAdvancedAnalytics)
	enterprise := append(slices.Clone(business), FeaturePrioritySupport, FeatureAPIAccess, FeatureCustomDomain)

	return map[Plan]Definition{
		Free: {
			ID:          Free,
			Name:        "Free",
			Description: "Start selling with a small catalog",
			Limits: Limits{
				MaxFileSize:    50_000_000,
				MaxDuration:    60,
				MaxProducts:    10,
				MaxVideoAds:    0,
				MaxPromoPushes: 0,
			},
			Features: free,
		},
		Standard: {
			ID:          Standard,
			Name:        "Standard",
			Description: "Automated replies and coupons for growing shops",
			Limits: Limits{
				MaxFileSize:    100_000_000,
				MaxDuration:    180,
				MaxProducts:    50,
				MaxVideoAds:    2,
				MaxPromoPushes: 1,
			},
			Features: standard,
		},
		Premium: {
			ID:          Premium,
			Name:        "Premium",
			Description: "Video ads, promo pushes and AI product copy",
			Limits: Limits{
				MaxFileSize:    250_000_000,
				MaxDuration:    600,
				MaxProducts:    250,
				MaxVideoAds:    10,
				MaxPromoPushes: 5,
			},
			Features: premium,
		},
		Business: {
			ID:          Business,
			Name:        "Business",
			Description: "AI video generation and a verified seller badge",
			Limits: Limits{
				MaxFileSize:    500_000_000,
				MaxDuration:    1800,
				MaxProducts:    1000,
				MaxVideoAds:    50,
				MaxPromoPushes: 20,
			},
			Features: business,
		},
		Enterprise: {
			ID:          Enterprise,
			Name:        "Enterprise",
			Description: "No ceilings, API access and priority support",
			Limits: Limits{
				MaxFileSize:    Unlimited,
				MaxDuration:    Unlimited,
				MaxProducts:    Unlimited,
				MaxVideoAds:    Unlimited,
				MaxPromoPushes: Unlimited,
			},
			Features: enterprise,
		},
	}
}
