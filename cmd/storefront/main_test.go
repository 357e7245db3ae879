package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidshop/storefront/pkg/catalog"
	"github.com/vidshop/storefront/pkg/checkout"
	"github.com/vidshop/storefront/pkg/clientip"
	"github.com/vidshop/storefront/pkg/file"
	"github.com/vidshop/storefront/pkg/httpserver"
	"github.com/vidshop/storefront/pkg/provision"
	"github.com/vidshop/storefront/pkg/ratelimiter"
	"github.com/vidshop/storefront/pkg/secrets"
	"github.com/vidshop/storefront/pkg/session"
	"github.com/vidshop/storefront/pkg/siteconfig"
)

func TestRun_Usage(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := run(context.Background(), nil, &out)
	assert.ErrorIs(t, err, errUsage)
	assert.Contains(t, out.String(), "migrate-files")

	out.Reset()
	err = run(context.Background(), []string{"deploy"}, &out)
	assert.ErrorIs(t, err, errUsage)
	assert.Contains(t, err.Error(), `"deploy"`)

	out.Reset()
	require.NoError(t, run(context.Background(), []string{"help"}, &out))
	assert.Contains(t, out.String(), "keygen")
}

func TestRun_Keygen(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"keygen"}, &out))

	secret := strings.TrimSpace(out.String())
	assert.Len(t, secret, 2*secrets.KeySize)

	codec, err := secrets.New(secret)
	require.NoError(t, err)
	sealed, err := codec.EncryptField("hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", codec.DecryptField(sealed))
}

func TestRun_SessionNeedsAction(t *testing.T) {
	t.Parallel()
	err := run(context.Background(), []string{"session"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, errUsage)
}

const testIssuerKey = "router-issuer-key"

func testApp(t *testing.T) *app {
	t.Helper()

	secret, err := secrets.GenerateSecret()
	require.NoError(t, err)
	codec, err := secrets.New(secret)
	require.NoError(t, err)

	dir := t.TempDir()
	storage, err := file.NewLocalStorage(dir, "/files/")
	require.NoError(t, err)
	names, err := file.NewObfuscator(codec)
	require.NoError(t, err)

	log := slog.New(slog.DiscardHandler)
	sites := siteconfig.NewMemoryRepository()

	return &app{
		cfg: appConfig{
			HTTP:    httpserver.Config{CORSOrigins: []string{"*"}},
			Storage: file.Config{Driver: file.DriverLocal, LocalDir: dir, LocalURL: "/files/"},
			Catalog: catalog.DefaultConfig(),
			Session: session.Config{IssuerKey: testIssuerKey},
		},
		log:      log,
		backends: &backends{},
		codec:    codec,
		storage:  storage,
		names:    names,
		sites:    sites,
		sessions: session.New(session.WithLogger(log)),
		videos:   catalog.NewService(catalog.NewMemoryRepository(), codec),
		provisioner: provision.New(provision.NewMemoryBackend(),
			provision.WithStorage(storage),
			provision.WithSiteConfig(sites),
			provision.WithCredentialsStore(provision.NewMemoryCredentialsStore(provision.Credentials{})),
		),
		checkout: checkout.NewService(
			checkout.NewStripeProcessor(checkout.DefaultConfig(), log),
			checkout.NewKeyResolver(sites, "", log),
		),
		ips: clientip.New(),
	}
}

func do(t *testing.T, h http.Handler, method, target, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRouter(t *testing.T) {
	t.Parallel()

	a := testApp(t)
	h := a.router()

	t.Run("health", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/health/live", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

		w = do(t, h, http.MethodGet, "/health/ready", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("cors preflight", func(t *testing.T) {
		w := do(t, h, http.MethodOptions, "/api/create-checkout-session", "", http.Header{
			"Origin":                        {"http://localhost:5173"},
			"Access-Control-Request-Method": {http.MethodPost},
		})
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("checkout validation", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/api/create-checkout-session",
			`{"amount":-5,"name":"Video","success_url":"https://a.example/ok","cancel_url":"https://a.example/no"}`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var body struct {
			Error string `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, strings.HasPrefix(body.Error, "amount"), body.Error)
	})

	t.Run("checkout without key", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/api/create-checkout-session",
			`{"amount":1999,"name":"Video","success_url":"https://a.example/ok","cancel_url":"https://a.example/no"}`, nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("videos", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/api/videos", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())

		w = do(t, h, http.MethodPost, "/api/videos", `{}`, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("session create needs issuer", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/api/session", `{"userId":"admin"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("session guards writes", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/api/session", `{"userId":"admin"}`, http.Header{
			"Authorization": {"Bearer " + testIssuerKey},
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var created session.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		require.Len(t, created.Token, 64)

		w = do(t, h, http.MethodPost, "/api/videos", `{}`, http.Header{
			"X-Session-Token": {created.Token},
		})
		assert.NotEqual(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("local files", func(t *testing.T) {
		_, err := a.storage.EnsureBucket(context.Background(), "videos")
		require.NoError(t, err)
		obj, err := a.storage.Put(context.Background(), "videos", "clip.mp4", strings.NewReader("data"), 4)
		require.NoError(t, err)

		w := do(t, h, http.MethodGet, a.storage.URL("videos", obj.Name), "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "data", w.Body.String())
	})
}

func TestRouter_RateLimit(t *testing.T) {
	t.Parallel()

	a := testApp(t)
	store := ratelimiter.NewMemoryStore(ratelimiter.WithSweepInterval(0))
	t.Cleanup(store.Close)
	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Hour})
	require.NoError(t, err)
	a.limiter = limiter
	h := a.router()

	body := `{"amount":-5}`
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/create-checkout-session", body, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, h, http.MethodPost, "/api/create-checkout-session", body, nil).Code)

	// buckets are per route group
	w := do(t, h, http.MethodGet, "/api/setup/stream", "", nil)
	assert.NotEqual(t, http.StatusTooManyRequests, w.Code)

	issuer := http.Header{"Authorization": {"Bearer " + testIssuerKey}}
	assert.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/session", `{"userId":"a"}`, issuer).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, h, http.MethodPost, "/api/session", `{"userId":"a"}`, issuer).Code)

	// reads are never throttled
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/videos", "", nil).Code)
}
