package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidshop/storefront/handler"
	"github.com/vidshop/storefront/pkg/binder"
)

type greetRequest struct {
	Name string `json:"name"`
	ID   string `path:"id"`
}

func TestWrap(t *testing.T) {
	t.Parallel()

	greet := handler.HandlerFunc[handler.Context, greetRequest](
		func(ctx handler.Context, req greetRequest) handler.Response {
			return handler.JSON(map[string]string{"hello": req.Name, "id": req.ID})
		},
	)

	t.Run("binders run in order", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(greet, handler.WithBinders[handler.Context, greetRequest](
			binder.JSON(),
			binder.Path(func(_ *http.Request, key string) string { return map[string]string{"id": "42"}[key] }),
		))

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name":"ana"}`))
		r.Header.Set("Content-Type", "application/json")
		h(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		var got map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, map[string]string{"hello": "ana", "id": "42"}, got)
	})

	t.Run("bind failure goes to error handler", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(greet, handler.WithBinders[handler.Context, greetRequest](binder.JSON()))

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{`))
		r.Header.Set("Content-Type", "application/json")
		h(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("custom error handler", func(t *testing.T) {
		t.Parallel()
		var captured error
		h := handler.Wrap(greet,
			handler.WithBinders[handler.Context, greetRequest](binder.JSON()),
			handler.WithErrorHandler[handler.Context, greetRequest](func(ctx handler.Context, err error) {
				captured = err
				ctx.ResponseWriter().WriteHeader(http.StatusTeapot)
			}),
		)

		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodPost, "/", nil))

		assert.Equal(t, http.StatusTeapot, w.Code)
		assert.ErrorIs(t, captured, binder.ErrMissingContentType)
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()
		var captured error
		h := handler.Wrap(
			handler.HandlerFunc[handler.Context, greetRequest](func(ctx handler.Context, req greetRequest) handler.Response { return nil }),
			handler.WithErrorHandler[handler.Context, greetRequest](func(ctx handler.Context, err error) {
				captured = err
			}),
		)

		h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.ErrorIs(t, captured, handler.ErrNilResponse)
	})

	t.Run("not applicable binder is skipped", func(t *testing.T) {
		t.Parallel()
		skip := func(*http.Request, any) error { return binder.ErrBinderNotApplicable }
		h := handler.Wrap(greet, handler.WithBinders[handler.Context, greetRequest](nil, skip, binder.JSON()))

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name":"bo"}`))
		r.Header.Set("Content-Type", "application/json")
		h(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"hello":"bo"`)
	})
}

func TestEmpty(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	require.NoError(t, handler.Empty().Render(w, httptest.NewRequest(http.MethodDelete, "/api/session", nil)))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Empty(t, w.Header().Get("Content-Type"))

	for _, status := range []int{http.StatusCreated, http.StatusAccepted} {
		w := httptest.NewRecorder()
		require.NoError(t, handler.EmptyWithStatus(status).Render(w, httptest.NewRequest(http.MethodPost, "/", nil)))
		assert.Equal(t, status, w.Code)
		assert.Empty(t, w.Body.String())
	}
}

func TestNewContext(t *testing.T) {
	t.Parallel()

	type key struct{}
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(context.WithValue(r.Context(), key{}, "v"))
	w := httptest.NewRecorder()

	ctx := handler.NewContext(w, r)
	assert.Same(t, r, ctx.Request())
	assert.Equal(t, "v", ctx.Value(key{}))
	assert.NoError(t, ctx.Err())
}
