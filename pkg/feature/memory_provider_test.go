package feature_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epreen/zimapp-web-sub001/pkg/feature"
)

func TestMemoryProvider_CRUD(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	p, err := feature.NewMemoryProvider(
		&feature.Flag{Name: "smart_coupons", Enabled: true, Tags: []string{"beta"}},
		nil,
		&feature.Flag{Name: "promo_push", Enabled: false},
	)
	require.NoError(t, err)

	t.Run("get returns a copy", func(t *testing.T) {
		f, err := p.GetFlag(ctx, "smart_coupons")
		require.NoError(t, err)
		f.Tags[0] = "mutated"

		again, err := p.GetFlag(ctx, "smart_coupons")
		require.NoError(t, err)
		assert.Equal(t, []string{"beta"}, again.Tags)
		assert.False(t, again.CreatedAt.IsZero())
	})

	t.Run("list filters by tag", func(t *testing.T) {
		all, err := p.ListFlags(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "promo_push", all[0].Name)

		beta, err := p.ListFlags(ctx, "beta")
		require.NoError(t, err)
		require.Len(t, beta, 1)
		assert.Equal(t, "smart_coupons", beta[0].Name)
	})

	t.Run("create duplicate", func(t *testing.T) {
		err := p.CreateFlag(ctx, &feature.Flag{Name: "promo_push"})
		assert.ErrorIs(t, err, feature.ErrFlagExists)
	})

	t.Run("update and delete", func(t *testing.T) {
		require.NoError(t, p.CreateFlag(ctx, &feature.Flag{Name: "tmp"}))
		require.NoError(t, p.UpdateFlag(ctx, &feature.Flag{Name: "tmp", Enabled: true}))

		on, err := p.IsEnabled(ctx, "tmp")
		require.NoError(t, err)
		assert.True(t, on)

		require.NoError(t, p.DeleteFlag(ctx, "tmp"))
		_, err = p.IsEnabled(ctx, "tmp")
		assert.ErrorIs(t, err, feature.ErrFlagNotFound)
		assert.ErrorIs(t, p.DeleteFlag(ctx, "tmp"), feature.ErrFlagNotFound)
		assert.ErrorIs(t, p.UpdateFlag(ctx, &feature.Flag{Name: "tmp"}), feature.ErrFlagNotFound)
	})

	t.Run("invalid flags", func(t *testing.T) {
		assert.ErrorIs(t, p.CreateFlag(ctx, nil), feature.ErrInvalidFlag)
		assert.ErrorIs(t, p.CreateFlag(ctx, &feature.Flag{}), feature.ErrInvalidFlag)
		_, err := feature.NewMemoryProvider(&feature.Flag{})
		assert.ErrorIs(t, err, feature.ErrInvalidFlag)
	})

	t.Run("disabled flag ignores strategy", func(t *testing.T) {
		on, err := p.IsEnabled(ctx, "promo_push")
		require.NoError(t, err)
		assert.False(t, on)
	})

	assert.NoError(t, p.Close())
}
