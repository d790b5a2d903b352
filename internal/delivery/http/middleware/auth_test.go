package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"recordpager/internal/delivery/http/helpers"
	"recordpager/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokenVerifier implements domain.TokenVerifier for tests.
type fakeTokenVerifier struct {
	userID    string
	err       error
	lastToken string
}

func (f *fakeTokenVerifier) Verify(token string) (string, error) {
	f.lastToken = token
	if f.err != nil {
		return "", f.err
	}
	return f.userID, nil
}

func TestRequireAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name          string
		authHeader    string
		verifier      domain.TokenVerifier
		wantStatus    int
		wantMessage   string
		wantNext      bool
		wantContextID string
	}{
		{
			name:          "valid token sets context and calls next",
			authHeader:    "Bearer valid-token",
			verifier:      &fakeTokenVerifier{userID: "user-123"},
			wantStatus:    http.StatusOK,
			wantNext:      true,
			wantContextID: "user-123",
		},
		{
			name:          "scheme is case insensitive",
			authHeader:    "bearer valid-token",
			verifier:      &fakeTokenVerifier{userID: "user-9"},
			wantStatus:    http.StatusOK,
			wantNext:      true,
			wantContextID: "user-9",
		},
		{
			name:        "missing authorization header",
			verifier:    &fakeTokenVerifier{userID: "user-123"},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "missing authorization header",
		},
		{
			name:        "basic scheme",
			authHeader:  "Basic abc",
			verifier:    &fakeTokenVerifier{userID: "user-123"},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "invalid authorization format",
		},
		{
			name:        "empty token after bearer",
			authHeader:  "Bearer   ",
			verifier:    &fakeTokenVerifier{userID: "user-123"},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "missing token",
		},
		{
			name:        "verifier rejects token",
			authHeader:  "Bearer bad-token",
			verifier:    &fakeTokenVerifier{err: errors.New("token is expired")},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "invalid or expired token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var capturedUserID string
			next := func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				capturedUserID, _ = UserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}
			handler := RequireAuth(tt.verifier, logger)(next)

			req := httptest.NewRequest(http.MethodGet, "http://test/collections", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()
			handler(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantNext, nextCalled)
			if tt.wantNext {
				assert.Equal(t, tt.wantContextID, capturedUserID)
				return
			}
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			require.NotNil(t, envelope.Error)
			assert.Equal(t, helpers.ErrCodeUnauthorized, envelope.Error.Code)
			assert.Equal(t, tt.wantMessage, envelope.Error.Message)
		})
	}
}

func TestRequireAuth_PassesTrimmedToken(t *testing.T) {
	verifier := &fakeTokenVerifier{userID: "u"}
	handler := RequireAuth(verifier, slog.New(slog.NewTextHandler(io.Discard, nil)))(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "http://test/", nil)
	req.Header.Set("Authorization", "Bearer  abc.def.ghi ")
	handler(httptest.NewRecorder(), req)

	assert.Equal(t, "abc.def.ghi", verifier.lastToken)
}

func TestUserIDFromContext_EmptyIsAbsent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://test/", nil)
	_, ok := UserIDFromContext(req.Context())
	assert.False(t, ok)

	_, ok = UserIDFromContext(SetUserID(req.Context(), ""))
	assert.False(t, ok)
}
