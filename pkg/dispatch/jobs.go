package dispatch

import (
	"slices"

	"github.com/epreen/zimapp-web-sub001/pkg/plan"
)

// JobName identifies a background job.
type JobName string

const (
	JobAutoRespondInquiry         JobName = "auto_respond_inquiry"
	JobGenerateCouponSuggestions  JobName = "generate_coupon_suggestions"
	JobSendPromoPush              JobName = "send_promo_push"
	JobModerateMedia              JobName = "moderate_media"
	JobTranscodeVideo             JobName = "transcode_video"
	JobGenerateProductDescription JobName = "generate_product_description"
	JobGenerateProductEmbeddings  JobName = "generate_product_embeddings"
	JobGenerateProductVideo       JobName = "generate_product_video"
)

// Jobs returns every job name.
func Jobs() []JobName {
	return []JobName{
		JobAutoRespondInquiry,
		JobGenerateCouponSuggestions,
		JobSendPromoPush,
		JobModerateMedia,
		JobTranscodeVideo,
		JobGenerateProductDescription,
		JobGenerateProductEmbeddings,
		JobGenerateProductVideo,
	}
}

// Valid reports whether j is a known job.
func (j JobName) Valid() bool {
	return slices.Contains(Jobs(), j)
}

func (j JobName) String() string {
	return string(j)
}

var featureJobs = map[plan.Feature][]JobName{
	plan.FeatureAutoResponder:         {JobAutoRespondInquiry},
	plan.FeatureSmartCoupons:          {JobGenerateCouponSuggestions},
	plan.FeaturePromoPush:             {JobSendPromoPush},
	plan.FeatureVideoAds:              {JobModerateMedia, JobTranscodeVideo},
	plan.FeatureAIProductDescriptions: {JobGenerateProductDescription, JobGenerateProductEmbeddings},
	plan.FeatureAIVideoGeneration:     {JobGenerateProductVideo, JobModerateMedia},
}

// JobsFor returns the jobs that deliver f, in dispatch order. The result is
// a fresh slice the caller may modify. Unknown features and features without
// background work return an empty slice.
func JobsFor(f plan.Feature) []JobName {
	return slices.Clone(featureJobs[f])
}
