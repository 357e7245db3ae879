package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidshop/storefront/pkg/catalog"
	"github.com/vidshop/storefront/pkg/secrets"
	"github.com/vidshop/storefront/pkg/validator"
)

func newCodec(t *testing.T) *secrets.Codec {
	t.Helper()
	codec, err := secrets.New("catalog-test-secret")
	require.NoError(t, err)
	return codec
}

type steppingClock struct {
	now time.Time
}

func (c *steppingClock) Now() time.Time {
	c.now = c.now.Add(time.Minute)
	return c.now
}

func newService(t *testing.T) (*catalog.Service, *catalog.MemoryRepository) {
	t.Helper()
	repo := catalog.NewMemoryRepository()
	clock := &steppingClock{now: time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)}
	return catalog.NewService(repo, newCodec(t), catalog.WithClock(clock.Now)), repo
}

func TestService_Create(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, repo := newService(t)

	v, err := svc.Create(ctx, catalog.NewVideo{
		Title:       "Introduction to Web Development",
		Description: "HTML, CSS and JavaScript basics",
		Price:       9.99,
		Duration:    6330,
		VideoID:     "video_1_abcdef_x.mp4",
		ProductLink: "https://example.com/product/intro",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, v.ID)
	assert.True(t, v.IsActive)
	assert.Equal(t, "Introduction to Web Development", v.Title)

	stored, err := repo.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, secrets.IsEncrypted(stored.Title))
	assert.True(t, secrets.IsEncrypted(stored.Description))
	assert.True(t, secrets.IsEncrypted(stored.ProductLink))
	assert.True(t, secrets.IsEncrypted(stored.VideoID))
	assert.Empty(t, stored.ThumbnailID)
	assert.Equal(t, 9.99, stored.Price)

	got, err := svc.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestService_CreateValidation(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t)

	_, err := svc.Create(context.Background(), catalog.NewVideo{Price: -1, ProductLink: "not a url"})
	require.Error(t, err)

	errs := validator.ExtractValidationErrors(err)
	assert.True(t, errs.Has("title"))
	assert.True(t, errs.Has("price"))
	assert.True(t, errs.Has("productLink"))
}

func TestService_List(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, repo := newService(t)

	first, err := svc.Create(ctx, catalog.NewVideo{Title: "First", Price: 1})
	require.NoError(t, err)
	second, err := svc.Create(ctx, catalog.NewVideo{Title: "Second", Price: 2})
	require.NoError(t, err)
	require.NoError(t, repo.Insert(ctx, &catalog.Video{ID: "hidden", Title: "Hidden", CreatedAt: time.Now()}))

	all, err := svc.List(ctx, catalog.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := svc.List(ctx, catalog.Filter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, second.ID, active[0].ID)
	assert.Equal(t, "Second", active[0].Title)
	assert.Equal(t, first.ID, active[1].ID)

	limited, err := svc.List(ctx, catalog.Filter{ActiveOnly: true, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestService_IncrementViews(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newService(t)

	v, err := svc.Create(ctx, catalog.NewVideo{Title: "Clip", Price: 1})
	require.NoError(t, err)

	svc.IncrementViews(ctx, v.ID)
	svc.IncrementViews(ctx, v.ID)
	assert.NotPanics(t, func() { svc.IncrementViews(ctx, "missing") })

	got, err := svc.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Views)
}
