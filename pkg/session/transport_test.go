package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidshop/storefront/pkg/session"
)

func TestTransport(t *testing.T) {
	t.Parallel()

	tr := session.NewTransport(session.DefaultConfig())

	t.Run("missing token", func(t *testing.T) {
		_, err := tr.GetToken(httptest.NewRequest(http.MethodGet, "/", nil))
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("cookie wins over header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "sessionToken", Value: "from-cookie"})
		r.Header.Set("X-Session-Token", "from-header")

		tok, err := tr.GetToken(r)
		require.NoError(t, err)
		assert.Equal(t, "from-cookie", tok)
	})

	t.Run("header fallback", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Session-Token", "  abc ")

		tok, err := tr.GetToken(r)
		require.NoError(t, err)
		assert.Equal(t, "abc", tok)
	})

	t.Run("set and clear", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, tr.SetToken(w, "tok", time.Hour))

		res := w.Result()
		require.Len(t, res.Cookies(), 1)
		c := res.Cookies()[0]
		assert.Equal(t, "tok", c.Value)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, 3600, c.MaxAge)
		assert.Equal(t, "tok", w.Header().Get("X-Session-Token"))
		assert.NotEmpty(t, w.Header().Get("X-Session-Token-Expires"))

		w = httptest.NewRecorder()
		require.NoError(t, tr.ClearToken(w))
		require.Len(t, w.Result().Cookies(), 1)
		assert.Equal(t, -1, w.Result().Cookies()[0].MaxAge)
		assert.Empty(t, w.Header().Get("X-Session-Token"))
	})

	t.Run("header scheme", func(t *testing.T) {
		h := session.Header{Name: "Authorization", Scheme: "Bearer "}
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer xyz")

		tok, err := h.GetToken(r)
		require.NoError(t, err)
		assert.Equal(t, "xyz", tok)
	})
}
