package checkout_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidshop/storefront/pkg/checkout"
	"github.com/vidshop/storefront/pkg/siteconfig"
	"github.com/vidshop/storefront/pkg/validator"
)

type fakeProcessor struct {
	mu     sync.Mutex
	keys   []string
	params []checkout.SessionParams
	err    error
}

func (f *fakeProcessor) CreateSession(_ context.Context, key string, p checkout.SessionParams) (*checkout.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.keys = append(f.keys, key)
	f.params = append(f.params, p)
	return &checkout.Session{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1"}, nil
}

type staticKey string

func (k staticKey) SecretKey(context.Context) (string, error) {
	if k == "" {
		return "", checkout.ErrMissingSecretKey
	}
	return string(k), nil
}

func validRequest() checkout.Request {
	return checkout.Request{
		Amount:     1999,
		Currency:   "usd",
		Name:       "Advanced React Patterns",
		SuccessURL: "https://shop.example.com/success",
		CancelURL:  "https://shop.example.com/cancel",
	}
}

func TestService_CreateSession(t *testing.T) {
	t.Parallel()
	proc := &fakeProcessor{}
	svc := checkout.NewService(proc, staticKey("sk_test_123"))

	req := validRequest()
	req.Currency = "eur"
	sess, err := svc.CreateSession(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", sess.ID)

	require.Len(t, proc.params, 1)
	assert.Equal(t, []string{"sk_test_123"}, proc.keys)
	assert.Equal(t, checkout.SessionParams{
		Item: checkout.LineItem{
			Name:     "Advanced React Patterns",
			Amount:   1999,
			Currency: "usd",
			Quantity: 1,
		},
		SuccessURL: "https://shop.example.com/success",
		CancelURL:  "https://shop.example.com/cancel",
	}, proc.params[0])
}

func TestService_CreateSessionErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("invalid request never reaches processor", func(t *testing.T) {
		proc := &fakeProcessor{}
		svc := checkout.NewService(proc, staticKey("sk_test_123"))
		req := validRequest()
		req.Amount = -5

		_, err := svc.CreateSession(ctx, req)
		require.Error(t, err)
		assert.True(t, validator.IsValidationError(err))
		assert.Empty(t, proc.params)
	})

	t.Run("missing key", func(t *testing.T) {
		svc := checkout.NewService(&fakeProcessor{}, staticKey(""))
		_, err := svc.CreateSession(ctx, validRequest())
		assert.ErrorIs(t, err, checkout.ErrMissingSecretKey)
	})

	t.Run("processor failure", func(t *testing.T) {
		proc := &fakeProcessor{err: errors.Join(checkout.ErrProviderError, errors.New("boom"))}
		svc := checkout.NewService(proc, staticKey("sk_test_123"))
		_, err := svc.CreateSession(ctx, validRequest())
		assert.ErrorIs(t, err, checkout.ErrProviderError)
	})
}

func TestRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*checkout.Request)
		field  string
	}{
		{"negative amount", func(r *checkout.Request) { r.Amount = -5 }, "amount"},
		{"zero amount", func(r *checkout.Request) { r.Amount = 0 }, "amount"},
		{"amount over limit", func(r *checkout.Request) { r.Amount = checkout.MaxAmount + 1 }, "amount"},
		{"missing name", func(r *checkout.Request) { r.Name = "  " }, "name"},
		{"missing success url", func(r *checkout.Request) { r.SuccessURL = "" }, "success_url"},
		{"relative cancel url", func(r *checkout.Request) { r.CancelURL = "/cancel" }, "cancel_url"},
		{"unknown currency", func(r *checkout.Request) { r.Currency = "zzz" }, "currency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := validRequest()
			tt.modify(&req)

			errs := validator.ExtractValidationErrors(req.Validate(250))
			assert.True(t, errs.Has(tt.field), "expected error for %s, got %v", tt.field, errs)
		})
	}

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validRequest().Validate(250))

		req := validRequest()
		req.Currency = ""
		assert.NoError(t, req.Validate(250))
	})
}

type failingSites struct {
	siteconfig.Repository
}

func (failingSites) Get(context.Context) (*siteconfig.SiteConfig, error) {
	return nil, errors.New("connection refused")
}

func TestKeyResolver(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("site config wins", func(t *testing.T) {
		sites := siteconfig.NewMemoryRepository()
		require.NoError(t, sites.Save(ctx, &siteconfig.SiteConfig{SiteName: "Shop", StripeSecretKey: "sk_site"}))

		key, err := checkout.NewKeyResolver(sites, "sk_env", nil).SecretKey(ctx)
		require.NoError(t, err)
		assert.Equal(t, "sk_site", key)
	})

	t.Run("empty site key falls back", func(t *testing.T) {
		sites := siteconfig.NewMemoryRepository()
		require.NoError(t, sites.Save(ctx, siteconfig.Default("Shop")))

		key, err := checkout.NewKeyResolver(sites, "sk_env", nil).SecretKey(ctx)
		require.NoError(t, err)
		assert.Equal(t, "sk_env", key)
	})

	t.Run("no document falls back", func(t *testing.T) {
		key, err := checkout.NewKeyResolver(siteconfig.NewMemoryRepository(), "sk_env", nil).SecretKey(ctx)
		require.NoError(t, err)
		assert.Equal(t, "sk_env", key)
	})

	t.Run("lookup failure falls back", func(t *testing.T) {
		key, err := checkout.NewKeyResolver(failingSites{}, "sk_env", nil).SecretKey(ctx)
		require.NoError(t, err)
		assert.Equal(t, "sk_env", key)
	})

	t.Run("nothing configured", func(t *testing.T) {
		_, err := checkout.NewKeyResolver(nil, "", nil).SecretKey(ctx)
		assert.ErrorIs(t, err, checkout.ErrMissingSecretKey)
	})
}
