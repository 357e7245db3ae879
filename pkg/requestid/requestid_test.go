package requestid_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidshop/storefront/pkg/logger"
	"github.com/vidshop/storefront/pkg/requestid"
)

func serve(t *testing.T, header string) (seen string, echoed string) {
	t.Helper()
	h := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestid.FromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		r.Header.Set(requestid.Header, header)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return seen, w.Header().Get(requestid.Header)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("reuses valid header", func(t *testing.T) {
		t.Parallel()
		seen, echoed := serve(t, "abc-123_X")
		assert.Equal(t, "abc-123_X", seen)
		assert.Equal(t, seen, echoed)
	})

	t.Run("generates when missing", func(t *testing.T) {
		t.Parallel()
		seen, echoed := serve(t, "")
		_, err := uuid.Parse(seen)
		require.NoError(t, err)
		assert.Equal(t, seen, echoed)
	})

	t.Run("replaces malformed header", func(t *testing.T) {
		t.Parallel()
		for _, bad := range []string{"<script>", "a b", strings.Repeat("a", 129)} {
			seen, _ := serve(t, bad)
			assert.NotEqual(t, bad, seen)
			_, err := uuid.Parse(seen)
			assert.NoError(t, err)
		}
	})
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	assert.Empty(t, requestid.FromContext(context.Background()))
	assert.Equal(t, "id-1", requestid.FromContext(requestid.WithContext(context.Background(), "id-1")))
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithContextExtractors(requestid.LoggerExtractor()))
	log.InfoContext(requestid.WithContext(context.Background(), "id-7"), "hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "id-7", entry["request_id"])
}
