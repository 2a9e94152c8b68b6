package plan_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epreen/zimapp-web-sub001/pkg/plan"
)

type failingSource struct {
	err error
}

func (s *failingSource) Load(ctx context.Context) (map[plan.Plan]plan.Definition, error) {
	return nil, s.err
}

func TestDefaultCatalog_Monotonicity(t *testing.T) {
	t.Parallel()

	catalog := plan.Default()
	plans := plan.All()

	for i := range plans {
		for j := i + 1; j < len(plans); j++ {
			lower, higher := plans[i], plans[j]

			lowerLimits, ok := catalog.LimitsFor(lower)
			require.True(t, ok)
			higherLimits, ok := catalog.LimitsFor(higher)
			require.True(t, ok)

			for _, r := range plan.Resources() {
				assert.True(t, higherLimits.Of(r).AtLeast(lowerLimits.Of(r)),
					"%s grants smaller %s than %s", higher, r, lower)
			}

			assert.Subset(t, catalog.FeaturesFor(higher), catalog.FeaturesFor(lower),
				"%s features must include all of %s", higher, lower)
		}
	}
}

func TestDefaultCatalog_CoversEveryPlan(t *testing.T) {
	t.Parallel()

	catalog := plan.Default()
	assert.Equal(t, plan.All(), catalog.Plans())

	for _, p := range plan.All() {
		def, ok := catalog.Definition(p)
		require.True(t, ok)
		assert.Equal(t, p, def.ID)
		assert.NotEmpty(t, def.Name)
	}
}

func TestCatalog_LimitsFor(t *testing.T) {
	t.Parallel()

	catalog := plan.Default()

	t.Run("free plan", func(t *testing.T) {
		t.Parallel()

		limits, ok := catalog.LimitsFor(plan.Free)
		require.True(t, ok)
		assert.Equal(t, plan.Limit(50_000_000), limits.MaxFileSize)
		assert.Equal(t, plan.Limit(10), limits.MaxProducts)
	})

	t.Run("enterprise is unlimited", func(t *testing.T) {
		t.Parallel()

		limits, ok := catalog.LimitsFor(plan.Enterprise)
		require.True(t, ok)
		for _, r := range plan.Resources() {
			assert.True(t, limits.Of(r).IsUnlimited(), r)
		}
	})

	t.Run("unknown plan", func(t *testing.T) {
		t.Parallel()

		limits, ok := catalog.LimitsFor(plan.Plan("mystery-tier"))
		assert.False(t, ok)
		assert.Equal(t, plan.Limits{}, limits)
	})
}

func TestCatalog_FeaturesFor(t *testing.T) {
	t.Parallel()

	catalog := plan.Default()

	t.Run("returns a copy", func(t *testing.T) {
		t.Parallel()

		features := catalog.FeaturesFor(plan.Standard)
		require.NotEmpty(t, features)
		features[0] = plan.FeatureCustomDomain

		assert.False(t, catalog.Has(plan.Standard, plan.FeatureCustomDomain))
	})

	t.Run("unknown plan has no features", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, catalog.FeaturesFor(plan.Plan("gold")))
		assert.False(t, catalog.Has(plan.Plan("gold"), plan.FeatureBasicAnalytics))
	})

	t.Run("ai video generation starts at business", func(t *testing.T) {
		t.Parallel()

		assert.False(t, catalog.Has(plan.Free, plan.FeatureAIVideoGeneration))
		assert.False(t, catalog.Has(plan.Premium, plan.FeatureAIVideoGeneration))
		assert.True(t, catalog.Has(plan.Business, plan.FeatureAIVideoGeneration))
		assert.True(t, catalog.Has(plan.Enterprise, plan.FeatureAIVideoGeneration))
	})
}

func TestCatalog_IsKnownPlan(t *testing.T) {
	t.Parallel()

	catalog := plan.Default()

	for _, p := range plan.All() {
		assert.True(t, catalog.IsKnownPlan(string(p)), p)
	}

	for _, value := range []string{"", "FREE", " free", "mystery-tier", "admin"} {
		assert.False(t, catalog.IsKnownPlan(value), value)
	}
}

func TestNewCatalog(t *testing.T) {
	t.Parallel()

	t.Run("source load error", func(t *testing.T) {
		t.Parallel()

		catalog, err := plan.NewCatalog(context.Background(), &failingSource{err: errors.New("boom")})

		assert.ErrorIs(t, err, plan.ErrFailedToLoadPlans)
		assert.Nil(t, catalog)
	})

	t.Run("missing plan", func(t *testing.T) {
		t.Parallel()

		defs := plan.DefaultPlans()
		delete(defs, plan.Premium)

		_, err := plan.NewCatalog(context.Background(), plan.NewInMemSource(defs))

		assert.ErrorIs(t, err, plan.ErrInvalidPlanConfiguration)
	})

	t.Run("non-monotone limit", func(t *testing.T) {
		t.Parallel()

		defs := plan.DefaultPlans()
		business := defs[plan.Business]
		business.Limits.MaxProducts = 5
		defs[plan.Business] = business

		_, err := plan.NewCatalog(context.Background(), plan.NewInMemSource(defs))

		assert.ErrorIs(t, err, plan.ErrInvalidPlanConfiguration)
	})

	t.Run("unlimited followed by limited", func(t *testing.T) {
		t.Parallel()

		defs := plan.DefaultPlans()
		premium := defs[plan.Premium]
		premium.Limits.MaxDuration = plan.Unlimited
		defs[plan.Premium] = premium

		_, err := plan.NewCatalog(context.Background(), plan.NewInMemSource(defs))

		assert.ErrorIs(t, err, plan.ErrInvalidPlanConfiguration)
	})

	t.Run("dropped feature", func(t *testing.T) {
		t.Parallel()

		defs := plan.DefaultPlans()
		enterprise := defs[plan.Enterprise]
		enterprise.Features = []plan.Feature{plan.FeatureAPIAccess}
		defs[plan.Enterprise] = enterprise

		_, err := plan.NewCatalog(context.Background(), plan.NewInMemSource(defs))

		assert.ErrorIs(t, err, plan.ErrInvalidPlanConfiguration)
	})

	t.Run("unknown feature", func(t *testing.T) {
		t.Parallel()

		defs := plan.DefaultPlans()
		free := defs[plan.Free]
		free.Features = append(free.Features, plan.Feature("teleport"))
		defs[plan.Free] = free

		_, err := plan.NewCatalog(context.Background(), plan.NewInMemSource(defs))

		assert.ErrorIs(t, err, plan.ErrInvalidPlanConfiguration)
	})

	t.Run("negative ceiling", func(t *testing.T) {
		t.Parallel()

		defs := plan.DefaultPlans()
		free := defs[plan.Free]
		free.Limits.MaxVideoAds = -7
		defs[plan.Free] = free

		_, err := plan.NewCatalog(context.Background(), plan.NewInMemSource(defs))

		assert.ErrorIs(t, err, plan.ErrInvalidPlanConfiguration)
	})

	t.Run("ID mismatch", func(t *testing.T) {
		t.Parallel()

		defs := plan.DefaultPlans()
		free := defs[plan.Free]
		free.ID = plan.Standard
		defs[plan.Free] = free

		_, err := plan.NewCatalog(context.Background(), plan.NewInMemSource(defs))

		assert.ErrorIs(t, err, plan.ErrInvalidPlanConfiguration)
	})
}

func TestNewInMemSource_IndependentCopy(t *testing.T) {
	t.Parallel()

	defs := plan.DefaultPlans()
	source := plan.NewInMemSource(defs)

	free := defs[plan.Free]
	free.Features[0] = plan.FeatureCustomDomain
	free.Limits.MaxProducts = 9999
	defs[plan.Free] = free

	loaded, err := source.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, plan.FeatureBasicAnalytics, loaded[plan.Free].Features[0])
	assert.Equal(t, plan.Limit(10), loaded[plan.Free].Limits.MaxProducts)
}

func TestCatalog_Compare(t *testing.T) {
	t.Parallel()

	catalog := plan.Default()

	t.Run("upgrade", func(t *testing.T) {
		t.Parallel()

		cmp := catalog.Compare(plan.Free, plan.Standard)
		require.NotNil(t, cmp)

		assert.ElementsMatch(t, []plan.Feature{plan.FeatureAutoResponder, plan.FeatureSmartCoupons}, cmp.NewFeatures)
		assert.Empty(t, cmp.LostFeatures)
		assert.Equal(t, plan.LimitChange{From: 10, To: 50}, cmp.IncreasedLimits[plan.ResourceProducts])
		assert.False(t, cmp.HasDecreases())
	})

	t.Run("downgrade from unlimited", func(t *testing.T) {
		t.Parallel()

		cmp := catalog.Compare(plan.Enterprise, plan.Business)
		require.NotNil(t, cmp)

		assert.Equal(t, plan.LimitChange{From: plan.Unlimited, To: 1000}, cmp.DecreasedLimits[plan.ResourceProducts])
		assert.Contains(t, cmp.LostFeatures, plan.FeatureAPIAccess)
		assert.True(t, cmp.HasDecreases())
	})

	t.Run("unknown plan", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, catalog.Compare(plan.Free, plan.Plan("mystery")))
	})
}
