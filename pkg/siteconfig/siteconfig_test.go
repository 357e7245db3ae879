package siteconfig_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidshop/storefront/pkg/siteconfig"
)

func TestMemoryRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := siteconfig.NewMemoryRepository()

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, siteconfig.ErrNotFound)

	created, err := repo.EnsureDefault(ctx, siteconfig.Default(""))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.EnsureDefault(ctx, siteconfig.Default("Other"))
	require.NoError(t, err)
	assert.False(t, created)

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Video Site", got.SiteName)
	assert.Equal(t, "Featured Videos", got.VideoListTitle)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, []string{}, got.Crypto)
	assert.False(t, got.UpdatedAt.IsZero())

	got.StripeSecretKey = "sk_test_123"
	got.Crypto = append(got.Crypto, "btc:addr")
	require.NoError(t, repo.Save(ctx, got))

	again, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sk_test_123", again.StripeSecretKey)
	assert.Equal(t, got.ID, again.ID)

	again.Crypto[0] = "mutated"
	third, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "btc:addr", third.Crypto[0])

	assert.ErrorIs(t, repo.Save(ctx, nil), siteconfig.ErrInvalidConfig)
	_, err = repo.EnsureDefault(ctx, nil)
	assert.ErrorIs(t, err, siteconfig.ErrInvalidConfig)
}
