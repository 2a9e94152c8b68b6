package plan

// Limit is a numeric ceiling for a resource.
type Limit int64

// Unlimited marks a resource without a ceiling (-1 chosen for SQL compatibility).
const Unlimited Limit = -1

// IsUnlimited reports whether l imposes no ceiling.
func (l Limit) IsUnlimited() bool {
	return l == Unlimited
}

// AtLeast reports whether l is at least as permissive as other.
func (l Limit) AtLeast(other Limit) bool {
	if l == Unlimited {
		return true
	}
	if other == Unlimited {
		return false
	}
	return l >= other
}

// Limits holds the ceilings granted by a plan.
type Limits struct {
	MaxFileSize    Limit `json:"max_file_size"`    // bytes
	MaxDuration    Limit `json:"max_duration"`     // seconds
	MaxProducts    Limit `json:"max_products"`     // listed products
	MaxVideoAds    Limit `json:"max_video_ads"`    // active video ads
	MaxPromoPushes Limit `json:"max_promo_pushes"` // promotional push sends
}

// Of returns the ceiling for r.
// Unknown resources get a zero ceiling so callers fail closed.
func (l Limits) Of(r Resource) Limit {
	switch r {
	case ResourceFileSize:
		return l.MaxFileSize
	case ResourceDuration:
		return l.MaxDuration
	case ResourceProducts:
		return l.MaxProducts
	case ResourceVideoAds:
		return l.MaxVideoAds
	case ResourcePromoPushes:
		return l.MaxPromoPushes
	default:
		return 0
	}
}
