package checkout_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"

	"github.com/vidshop/storefront/pkg/checkout"
)

func stubBackend(t *testing.T, h http.HandlerFunc) stripe.Backend {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		HTTPClient:        srv.Client(),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     checkout.NewStripeLogger(slog.New(slog.DiscardHandler)),
	})
}

func sessionParams() checkout.SessionParams {
	return checkout.SessionParams{
		Item:       checkout.LineItem{Name: "Intro", Amount: 1999, Currency: "usd", Quantity: 1},
		SuccessURL: "https://shop.example.com/success",
		CancelURL:  "https://shop.example.com/cancel",
	}
}

func TestStripeProcessor_CreateSession(t *testing.T) {
	t.Parallel()

	var form map[string]string
	var auth, path string
	backend := stubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		form = map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_1","object":"checkout.session","url":"https://checkout.stripe.com/c/pay/cs_test_1"}`))
	})

	p := checkout.NewStripeProcessor(checkout.DefaultConfig(), nil, checkout.WithBackend(backend))
	sess, err := p.CreateSession(context.Background(), "sk_test_123", sessionParams())
	require.NoError(t, err)
	assert.Equal(t, &checkout.Session{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1"}, sess)

	assert.Equal(t, "/v1/checkout/sessions", path)
	assert.Equal(t, "Bearer sk_test_123", auth)
	assert.Equal(t, "payment", form["mode"])
	assert.Equal(t, "card", form["payment_method_types[0]"])
	assert.Equal(t, "auto", form["billing_address_collection"])
	assert.Equal(t, "https://shop.example.com/success", form["success_url"])
	assert.Equal(t, "https://shop.example.com/cancel", form["cancel_url"])
	assert.Equal(t, "usd", form["line_items[0][price_data][currency]"])
	assert.Equal(t, "Intro", form["line_items[0][price_data][product_data][name]"])
	assert.Equal(t, "1999", form["line_items[0][price_data][unit_amount]"])
	assert.Equal(t, "1", form["line_items[0][quantity]"])
}

func TestStripeProcessor_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("api error", func(t *testing.T) {
		t.Parallel()
		backend := stubBackend(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","code":"api_key_expired","message":"Expired API Key provided"}}`))
		})
		p := checkout.NewStripeProcessor(checkout.DefaultConfig(), nil, checkout.WithBackend(backend))

		_, err := p.CreateSession(ctx, "sk_test_old", sessionParams())
		require.ErrorIs(t, err, checkout.ErrProviderError)
		assert.Contains(t, err.Error(), "api_key_expired")
	})

	t.Run("missing url", func(t *testing.T) {
		t.Parallel()
		backend := stubBackend(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"cs_test_2","object":"checkout.session"}`))
		})
		p := checkout.NewStripeProcessor(checkout.DefaultConfig(), nil, checkout.WithBackend(backend))

		_, err := p.CreateSession(ctx, "sk_test_123", sessionParams())
		assert.ErrorIs(t, err, checkout.ErrNoCheckoutURL)
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()
		p := checkout.NewStripeProcessor(checkout.DefaultConfig(), nil)
		_, err := p.CreateSession(ctx, "", sessionParams())
		assert.ErrorIs(t, err, checkout.ErrMissingSecretKey)
	})
}
