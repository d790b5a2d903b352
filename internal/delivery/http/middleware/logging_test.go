package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingHandler records the last log record for assertions.
type capturingHandler struct {
	record slog.Record
}

func (h *capturingHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *capturingHandler) Handle(_ context.Context, r slog.Record) error {
	h.record = r.Clone()
	return nil
}

func (h *capturingHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }

func (h *capturingHandler) WithGroup(_ string) slog.Handler { return h }

func (h *capturingHandler) attrs() map[string]slog.Value {
	out := make(map[string]slog.Value)
	h.record.Attrs(func(a slog.Attr) bool {
		out[a.Key] = a.Value
		return true
	})
	return out
}

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		target    string
		wantPath  string
		wantQuery string
		wantLevel slog.Level
	}{
		{"ok page", http.StatusOK, "/collections/c1/records?page=2&page_size=10", "/collections/c1/records", "page=2&page_size=10", slog.LevelInfo},
		{"created", http.StatusCreated, "/auth/signup", "/auth/signup", "", slog.LevelInfo},
		{"bad page size", http.StatusBadRequest, "/collections?page_size=0", "/collections", "page_size=0", slog.LevelInfo},
		{"server error", http.StatusInternalServerError, "/collections", "/collections", "", slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var capture capturingHandler
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("hello"))
			})
			handler := LoggingMiddleware(slog.New(&capture), next)
			req := httptest.NewRequest(http.MethodGet, "http://test"+tt.target, nil)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			require.Equal(t, "request", capture.record.Message)
			assert.Equal(t, tt.wantLevel, capture.record.Level)
			attrs := capture.attrs()
			assert.Equal(t, http.MethodGet, attrs["method"].String())
			assert.Equal(t, tt.wantPath, attrs["path"].String())
			assert.Equal(t, tt.wantQuery, attrs["query"].String())
			assert.Equal(t, int64(tt.status), attrs["status"].Int64())
			assert.Equal(t, int64(5), attrs["bytes"].Int64())
			assert.GreaterOrEqual(t, attrs["duration_ms"].Int64(), int64(0))
			assert.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	var capture capturingHandler
	handler := LoggingMiddleware(slog.New(&capture), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	t.Run("generated when missing", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "http://test/", nil))

		id := rr.Header().Get(RequestIDHeader)
		require.NoError(t, uuid.Validate(id))
		assert.Equal(t, id, capture.attrs()["request_id"].String())
	})

	t.Run("echoed when supplied", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "http://test/", nil)
		req.Header.Set(RequestIDHeader, "req-42")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, "req-42", rr.Header().Get(RequestIDHeader))
		assert.Equal(t, "req-42", capture.attrs()["request_id"].String())
	})
}
