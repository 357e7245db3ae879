package checkout_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidshop/storefront/handler"
	"github.com/vidshop/storefront/pkg/checkout"
)

func postCheckout(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) handler.ErrorBody {
	t.Helper()
	var body handler.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHandler_CreateSession(t *testing.T) {
	t.Parallel()
	proc := &fakeProcessor{}
	h := checkout.NewHandler(checkout.NewService(proc, staticKey("sk_test_123")), nil).Handle()

	w := postCheckout(t, h, `{
		"amount": 1999,
		"currency": "usd",
		"name": "  Advanced React Patterns  ",
		"success_url": "https://shop.example.com/success",
		"cancel_url": "https://shop.example.com/cancel"
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var sess checkout.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))
	assert.Equal(t, "cs_test_1", sess.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", sess.URL)
	assert.Contains(t, w.Body.String(), `"sessionId":"cs_test_1"`)

	require.Len(t, proc.params, 1)
	assert.Equal(t, "Advanced React Patterns", proc.params[0].Item.Name)
}

func TestHandler_CreateSessionRejectsBadInput(t *testing.T) {
	t.Parallel()
	proc := &fakeProcessor{}
	h := checkout.NewHandler(checkout.NewService(proc, staticKey("sk_test_123")), nil).Handle()
	t.Cleanup(func() { assert.Empty(t, proc.params) })

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{
			name:  "negative amount",
			body:  `{"amount":-5,"name":"Clip","success_url":"https://a.example/s","cancel_url":"https://a.example/c"}`,
			field: "amount",
		},
		{
			name:  "missing amount",
			body:  `{"name":"Clip","success_url":"https://a.example/s","cancel_url":"https://a.example/c"}`,
			field: "amount",
		},
		{
			name:  "amount as string",
			body:  `{"amount":"1999","name":"Clip","success_url":"https://a.example/s","cancel_url":"https://a.example/c"}`,
			field: "amount",
		},
		{
			name:  "fractional amount",
			body:  `{"amount":19.99,"name":"Clip","success_url":"https://a.example/s","cancel_url":"https://a.example/c"}`,
			field: "amount",
		},
		{
			name:  "name of wrong type",
			body:  `{"amount":100,"name":42,"success_url":"https://a.example/s","cancel_url":"https://a.example/c"}`,
			field: "name",
		},
		{
			name:  "missing cancel url",
			body:  `{"amount":100,"name":"Clip","success_url":"https://a.example/s"}`,
			field: "cancel_url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := postCheckout(t, h, tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.True(t, strings.HasPrefix(decodeError(t, w).Error, tt.field), w.Body.String())
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()
		w := postCheckout(t, h, `{"amount":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_CreateSessionFailures(t *testing.T) {
	t.Parallel()
	body := `{"amount":100,"name":"Clip","success_url":"https://a.example/s","cancel_url":"https://a.example/c"}`

	t.Run("no key configured", func(t *testing.T) {
		t.Parallel()
		h := checkout.NewHandler(checkout.NewService(&fakeProcessor{}, staticKey("")), nil).Handle()
		w := postCheckout(t, h, body)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "payment processor is not configured", decodeError(t, w).Error)
	})

	t.Run("processor error is not leaked", func(t *testing.T) {
		t.Parallel()
		proc := &fakeProcessor{err: errors.Join(checkout.ErrProviderError, errors.New("stripe api_key_expired: Expired API Key"))}
		h := checkout.NewHandler(checkout.NewService(proc, staticKey("sk_test_123")), nil).Handle()
		w := postCheckout(t, h, body)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.NotContains(t, w.Body.String(), "Expired")
	})
}
