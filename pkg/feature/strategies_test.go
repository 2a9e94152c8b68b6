package feature_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epreen/zimapp-web-sub001/pkg/environment"
	"github.com/epreen/zimapp-web-sub001/pkg/feature"
)

func subjectCtx(id string, groups ...string) context.Context {
	return feature.WithSubject(context.Background(), feature.Subject{ActorID: id, Groups: groups})
}

func TestTargetedStrategy(t *testing.T) {
	t.Parallel()

	pct := func(v int) *int { return &v }

	tests := []struct {
		name     string
		criteria feature.TargetCriteria
		ctx      context.Context
		want     bool
		wantErr  error
	}{
		{"empty criteria", feature.TargetCriteria{}, subjectCtx("a"), false, feature.ErrInvalidStrategy},
		{"actor listed", feature.TargetCriteria{ActorIDs: []string{"a"}}, subjectCtx("a"), true, nil},
		{"actor not listed", feature.TargetCriteria{ActorIDs: []string{"b"}}, subjectCtx("a"), false, nil},
		{"deny wins", feature.TargetCriteria{ActorIDs: []string{"a"}, DenyList: []string{"a"}}, subjectCtx("a"), false, nil},
		{"deny list without subject", feature.TargetCriteria{DenyList: []string{"x"}, Percentage: pct(100)}, context.Background(), false, nil},
		{"group match", feature.TargetCriteria{Groups: []string{"premium"}}, subjectCtx("a", "premium", "business"), true, nil},
		{"group miss", feature.TargetCriteria{Groups: []string{"enterprise"}}, subjectCtx("a", "free", "customer"), false, nil},
		{"full rollout", feature.TargetCriteria{Percentage: pct(100)}, subjectCtx(""), true, nil},
		{"zero rollout", feature.TargetCriteria{Percentage: pct(0)}, subjectCtx("a"), false, nil},
		{"partial rollout needs actor", feature.TargetCriteria{Percentage: pct(50)}, subjectCtx(""), false, nil},
		{"bad percentage", feature.TargetCriteria{Percentage: pct(101)}, subjectCtx("a"), false, feature.ErrInvalidStrategy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := feature.NewTargetedStrategy(tt.criteria).Evaluate(tt.ctx)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTargetedStrategy_RolloutIsStable(t *testing.T) {
	t.Parallel()

	s := feature.NewTargetedStrategy(feature.TargetCriteria{Percentage: func() *int { v := 30; return &v }()})
	first, err := s.Evaluate(subjectCtx("seller-123"))
	require.NoError(t, err)
	for range 10 {
		again, err := s.Evaluate(subjectCtx("seller-123"))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestEnvironmentStrategy(t *testing.T) {
	t.Parallel()

	s := &feature.EnvironmentStrategy{Environments: []environment.Environment{environment.Staging}}

	on, err := s.Evaluate(environment.WithContext(context.Background(), environment.Staging))
	require.NoError(t, err)
	assert.True(t, on)

	on, err = s.Evaluate(environment.WithContext(context.Background(), environment.Production))
	require.NoError(t, err)
	assert.False(t, on)

	_, err = (&feature.EnvironmentStrategy{}).Evaluate(context.Background())
	assert.ErrorIs(t, err, feature.ErrInvalidStrategy)
}

func TestCompositeStrategies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	on := &feature.AlwaysStrategy{Value: true}
	off := &feature.AlwaysStrategy{Value: false}

	got, err := feature.AllOf{on, on}.Evaluate(ctx)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = feature.AllOf{on, off}.Evaluate(ctx)
	require.NoError(t, err)
	assert.False(t, got)

	got, err = feature.AnyOf{off, on}.Evaluate(ctx)
	require.NoError(t, err)
	assert.True(t, got)

	_, err = feature.AnyOf{}.Evaluate(ctx)
	assert.ErrorIs(t, err, feature.ErrInvalidStrategy)
	_, err = feature.AllOf{}.Evaluate(ctx)
	assert.ErrorIs(t, err, feature.ErrInvalidStrategy)
}
