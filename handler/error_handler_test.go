package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidshop/storefront/handler"
	"github.com/vidshop/storefront/pkg/requestid"
)

func TestNewErrorHandler(t *testing.T) {
	t.Parallel()

	t.Run("server error logged at error level", func(t *testing.T) {
		t.Parallel()
		var logs bytes.Buffer
		eh := handler.NewErrorHandler(slog.New(slog.NewJSONHandler(&logs, nil)))

		r := httptest.NewRequest(http.MethodPost, "/api/setup", nil)
		r = r.WithContext(requestid.WithContext(r.Context(), "req-1"))
		w := httptest.NewRecorder()

		eh(handler.NewContext(w, r), errors.New("mongo unreachable"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
		assert.Equal(t, "ERROR", entry["level"])
		assert.Equal(t, "req-1", entry["request_id"])
		assert.Equal(t, "/api/setup", entry["path"])
	})

	t.Run("client error logged at warn level", func(t *testing.T) {
		t.Parallel()
		var logs bytes.Buffer
		eh := handler.NewErrorHandler(slog.New(slog.NewJSONHandler(&logs, nil)))

		w := httptest.NewRecorder()
		eh(handler.NewContext(w, httptest.NewRequest(http.MethodGet, "/", nil)), handler.ErrNotFound)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, logs.String(), `"level":"WARN"`)
	})
}
