package binder_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidshop/storefront/pkg/binder"
)

type checkoutBody struct {
	Amount     int    `json:"amount"`
	Currency   string `json:"currency"`
	Name       string `json:"name"`
	SuccessURL string `json:"success_url"`
}

func newJSONRequest(body, contentType string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/create-checkout-session", bytes.NewBufferString(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("valid body", func(t *testing.T) {
		t.Parallel()
		req := newJSONRequest(`{"amount":1999,"currency":"usd","name":"  Clip  ","success_url":"https://x.test/ok"}`, "application/json; charset=utf-8")

		var got checkoutBody
		require.NoError(t, binder.JSON()(req, &got))
		assert.Equal(t, 1999, got.Amount)
		assert.Equal(t, "usd", got.Currency)
		assert.Equal(t, "Clip", got.Name, "strings are trimmed")
		assert.Equal(t, "https://x.test/ok", got.SuccessURL)
	})

	t.Run("unknown fields are ignored", func(t *testing.T) {
		t.Parallel()
		req := newJSONRequest(`{"amount":5,"extra":true}`, "application/json")

		var got checkoutBody
		require.NoError(t, binder.JSON()(req, &got))
		assert.Equal(t, 5, got.Amount)
	})

	t.Run("missing content type", func(t *testing.T) {
		t.Parallel()
		var got checkoutBody
		err := binder.JSON()(newJSONRequest(`{}`, ""), &got)
		require.ErrorIs(t, err, binder.ErrMissingContentType)
		assert.True(t, binder.IsBindError(err))
	})

	t.Run("wrong media type", func(t *testing.T) {
		t.Parallel()
		var got checkoutBody
		err := binder.JSON()(newJSONRequest(`{}`, "text/plain"), &got)
		require.ErrorIs(t, err, binder.ErrUnsupportedMediaType)
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()
		var got checkoutBody
		err := binder.JSON()(newJSONRequest(``, "application/json"), &got)
		require.ErrorIs(t, err, binder.ErrFailedToParseJSON)
		assert.Contains(t, err.Error(), "empty body")
	})

	t.Run("type mismatch keeps field", func(t *testing.T) {
		t.Parallel()
		var got checkoutBody
		err := binder.JSON()(newJSONRequest(`{"amount":"ten"}`, "application/json"), &got)
		require.ErrorIs(t, err, binder.ErrFailedToParseJSON)

		var typeErr *json.UnmarshalTypeError
		require.True(t, errors.As(err, &typeErr))
		assert.Equal(t, "amount", typeErr.Field)
	})

	t.Run("trailing data", func(t *testing.T) {
		t.Parallel()
		var got checkoutBody
		err := binder.JSON()(newJSONRequest(`{"amount":1}{"amount":2}`, "application/json"), &got)
		require.ErrorIs(t, err, binder.ErrFailedToParseJSON)
	})

	t.Run("too large", func(t *testing.T) {
		t.Parallel()
		big := `{"name":"` + strings.Repeat("a", binder.DefaultMaxJSONSize) + `"}`
		var got checkoutBody
		err := binder.JSON()(newJSONRequest(big, "application/json"), &got)
		require.ErrorIs(t, err, binder.ErrFailedToParseJSON)
		assert.Contains(t, err.Error(), "too large")
	})
}

func TestIsBindError(t *testing.T) {
	t.Parallel()

	assert.True(t, binder.IsBindError(binder.ErrFailedToParseQuery))
	assert.False(t, binder.IsBindError(errors.New("other")))
	assert.False(t, binder.IsBindError(nil))
}
