package feature_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epreen/zimapp-web-sub001/pkg/entitlement"
	"github.com/epreen/zimapp-web-sub001/pkg/feature"
	"github.com/epreen/zimapp-web-sub001/pkg/plan"
)

func TestQuerier(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	provider, err := feature.NewMemoryProvider(
		&feature.Flag{
			Name:     string(plan.FeatureAIVideoGeneration),
			Enabled:  true,
			Strategy: feature.NewTargetedStrategy(feature.TargetCriteria{ActorIDs: []string{"seller-1"}}),
		},
		&feature.Flag{
			Name:     string(plan.FeaturePromoPush),
			Enabled:  true,
			Strategy: feature.NewTargetedStrategy(feature.TargetCriteria{Groups: []string{string(entitlement.RoleBusiness)}}),
		},
	)
	require.NoError(t, err)
	q := feature.NewQuerier(provider)

	seller1 := entitlement.Actor{ID: "seller-1", Plan: plan.Free, Role: entitlement.RoleCustomer}
	seller2 := entitlement.Actor{ID: "seller-2", Plan: plan.Standard, Role: entitlement.RoleBusiness}

	ok, err := q.HasCapability(ctx, seller1, string(plan.FeatureAIVideoGeneration))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = q.HasCapability(ctx, seller2, string(plan.FeatureAIVideoGeneration))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = q.HasCapability(ctx, seller2, string(plan.FeaturePromoPush))
	require.NoError(t, err)
	assert.True(t, ok, "role is offered as a group")

	ok, err = q.HasCapability(ctx, seller1, "no_such_flag")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQuerier_WithResolver(t *testing.T) {
	t.Parallel()

	provider, err := feature.NewMemoryProvider(&feature.Flag{
		Name:     string(plan.FeatureAIVideoGeneration),
		Enabled:  true,
		Strategy: &feature.AlwaysStrategy{Value: true},
	})
	require.NoError(t, err)

	r := entitlement.NewResolver(nil, entitlement.WithCapabilityQuerier(feature.NewQuerier(provider)))
	free := entitlement.Actor{ID: "x", Plan: plan.Free, Role: entitlement.RoleCustomer}

	assert.True(t, r.Can(context.Background(), free, plan.FeatureAIVideoGeneration))
	assert.False(t, r.Can(context.Background(), free, plan.FeatureSmartCoupons))
}
