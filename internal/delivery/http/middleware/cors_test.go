package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name        string
		allowed     []string
		method      string
		origin      string
		preflight   bool
		wantStatus  int
		wantOrigin  string
		wantMethods string
	}{
		{"allowed origin simple request", []string{"https://app.example.com/"}, http.MethodGet, "https://app.example.com", false, http.StatusOK, "https://app.example.com", ""},
		{"unknown origin simple request", []string{"https://app.example.com"}, http.MethodGet, "https://evil.example.com", false, http.StatusOK, "", ""},
		{"allowed origin preflight", []string{"https://app.example.com"}, http.MethodOptions, "https://app.example.com", true, http.StatusNoContent, "https://app.example.com", corsAllowMethods},
		{"unknown origin preflight", []string{"https://app.example.com"}, http.MethodOptions, "https://evil.example.com", true, http.StatusNoContent, "", ""},
		{"wildcard", []string{" * "}, http.MethodGet, "https://any.example.com", false, http.StatusOK, "https://any.example.com", ""},
		{"plain options is not a preflight", []string{"https://app.example.com"}, http.MethodOptions, "https://app.example.com", false, http.StatusOK, "https://app.example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "http://test/collections", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			}
			rr := httptest.NewRecorder()
			CORS(tt.allowed, okHandler).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantMethods, rr.Header().Get("Access-Control-Allow-Methods"))
		})
	}
}
