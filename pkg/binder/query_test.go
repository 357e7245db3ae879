package binder_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidshop/storefront/pkg/binder"
)

func TestQuery(t *testing.T) {
	t.Parallel()

	type streamRequest struct {
		ProjectID string   `query:"projectId"`
		APIKey    string   `query:"apiKey"`
		Tags      []string `query:"tags"`
		Limit     *int     `query:"limit"`
		Internal  string   `query:"-"`
	}

	t.Run("binds values", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/api/setup/stream?projectId=p1&apiKey=k1&tags=a,b&tags=c&limit=3&Internal=x", nil)

		var got streamRequest
		require.NoError(t, binder.Query()(req, &got))
		assert.Equal(t, "p1", got.ProjectID)
		assert.Equal(t, "k1", got.APIKey)
		assert.Equal(t, []string{"a", "b", "c"}, got.Tags)
		require.NotNil(t, got.Limit)
		assert.Equal(t, 3, *got.Limit)
		assert.Empty(t, got.Internal)
	})

	t.Run("invalid number", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/?limit=many", nil)

		var got streamRequest
		require.ErrorIs(t, binder.Query()(req, &got), binder.ErrFailedToParseQuery)
	})
}

func TestPath(t *testing.T) {
	t.Parallel()

	type revokeRequest struct {
		UserID string `path:"userID"`
		Page   int    `path:"page"`
		Name   string `json:"name"`
	}

	params := map[string]string{"userID": "user-1", "page": "2", "name": "ignored"}
	extractor := func(_ *http.Request, key string) string { return params[key] }

	t.Run("binds tagged fields only", func(t *testing.T) {
		t.Parallel()
		var got revokeRequest
		require.NoError(t, binder.Path(extractor)(httptest.NewRequest(http.MethodDelete, "/", nil), &got))
		assert.Equal(t, "user-1", got.UserID)
		assert.Equal(t, 2, got.Page)
		assert.Empty(t, got.Name)
	})

	t.Run("nil extractor", func(t *testing.T) {
		t.Parallel()
		var got revokeRequest
		require.ErrorIs(t, binder.Path(nil)(httptest.NewRequest(http.MethodDelete, "/", nil), &got), binder.ErrFailedToParsePath)
	})

	t.Run("non pointer target", func(t *testing.T) {
		t.Parallel()
		require.ErrorIs(t, binder.Path(extractor)(httptest.NewRequest(http.MethodDelete, "/", nil), revokeRequest{}), binder.ErrFailedToParsePath)
	})
}
