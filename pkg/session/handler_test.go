package session_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidshop/storefront/pkg/session"
)

const issuerKey = "issuer-test-key"

func newSessionServer(t *testing.T) (*chi.Mux, *session.Manager) {
	t.Helper()
	m := session.New()
	r := chi.NewRouter()
	r.Mount("/api/session", session.NewHandler(m, nil, session.WithIssuer(session.IssuerKey(issuerKey))).Handle())
	return r, m
}

func do(r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("X-Session-Token", token)
	}
	req.Header.Set("User-Agent", "storefront-test")
	req.Header.Set("Authorization", "Bearer "+issuerKey)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, r http.Handler, userID string) session.Response {
	t.Helper()
	w := do(r, http.MethodPost, "/api/session", `{"userId":"`+userID+`"}`, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp session.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandler_Create(t *testing.T) {
	t.Parallel()
	r, _ := newSessionServer(t)

	w := do(r, http.MethodPost, "/api/session", `{"userId":"user-1"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp session.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "user-1", resp.UserID)
	assert.Equal(t, "storefront-test", resp.UserAgent)
	assert.Len(t, resp.Token, 64)
	assert.True(t, resp.IsActive)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sessionToken", cookies[0].Name)
	assert.Equal(t, resp.Token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, resp.Token, w.Header().Get("X-Session-Token"))

	t.Run("missing user id", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/session", `{}`, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "userId")
	})

	t.Run("malformed body", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/session", `{"userId":`, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_CurrentAndRevoke(t *testing.T) {
	t.Parallel()
	r, _ := newSessionServer(t)

	created := createSession(t, r, "user-1")

	w := do(r, http.MethodGet, "/api/session", "", created.Token)
	require.Equal(t, http.StatusOK, w.Code)

	var got session.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, created.ID, got.ID)
	assert.Empty(t, got.Token)

	t.Run("cookie works too", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
		req.AddCookie(&http.Cookie{Name: "sessionToken", Value: created.Token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	w = do(r, http.MethodDelete, "/api/session", "", created.Token)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodGet, "/api/session", "", created.Token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodDelete, "/api/session", "", created.Token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_NoToken(t *testing.T) {
	t.Parallel()
	r, _ := newSessionServer(t)

	w := do(r, http.MethodGet, "/api/session", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/api/session", "", "not-a-real-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_RevokeUser(t *testing.T) {
	t.Parallel()
	r, _ := newSessionServer(t)

	first := createSession(t, r, "user-1")
	second := createSession(t, r, "user-1")
	other := createSession(t, r, "user-2")

	w := do(r, http.MethodDelete, "/api/session/user/user-1", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodDelete, "/api/session/user/user-2", "", first.Token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodDelete, "/api/session/user/user-1", "", first.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"revoked":2}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/session", "", second.Token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/api/session", "", other.Token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_CreateRequiresIssuer(t *testing.T) {
	t.Parallel()

	post := func(r http.Handler, authorization string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/session", strings.NewReader(`{"userId":"admin"}`))
		req.Header.Set("Content-Type", "application/json")
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	r, _ := newSessionServer(t)
	for name, authorization := range map[string]string{
		"anonymous":    "",
		"wrong key":    "Bearer not-the-key",
		"wrong scheme": "Basic " + issuerKey,
		"empty bearer": "Bearer ",
	} {
		t.Run(name, func(t *testing.T) {
			w := post(r, authorization)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.NotContains(t, w.Body.String(), `"token"`)
			assert.Empty(t, w.Result().Cookies())
		})
	}

	t.Run("issuer key", func(t *testing.T) {
		assert.Equal(t, http.StatusCreated, post(r, "Bearer "+issuerKey).Code)
	})

	t.Run("no issuer configured", func(t *testing.T) {
		locked := chi.NewRouter()
		locked.Mount("/api/session", session.NewHandler(session.New(), nil).Handle())
		assert.Equal(t, http.StatusUnauthorized, post(locked, "Bearer "+issuerKey).Code)
	})
}
