package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIKeyAuth(t *testing.T) {
	auth := NewAPIKeyAuth("X-API-Key", []string{"secret", ""})
	protected := auth.Middleware(okHandler())

	tests := []struct {
		name       string
		setup      func(r *http.Request)
		wantStatus int
	}{
		{
			name:       "valid header key",
			setup:      func(r *http.Request) { r.Header.Set("X-API-Key", "secret") },
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid bearer token",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer secret") },
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing key",
			setup:      func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong key",
			setup:      func(r *http.Request) { r.Header.Set("X-API-Key", "nope") },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "empty configured key does not open the API",
			setup: func(r *http.Request) {
				r.Header.Set("X-API-Key", "")
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
			tt.setup(req)

			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
				assert.Contains(t, rec.Body.String(), "api_key")
			}
		})
	}
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	limited := RequestSizeLimitMiddleware(16)(okHandler())

	t.Run("small body passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("tiny"))
		rec := httptest.NewRecorder()

		limited.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("declared oversize body rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64)))
		rec := httptest.NewRecorder()

		limited.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Contains(t, rec.Body.String(), "payload_too_large")
	})
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	SecurityHeadersMiddleware(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestChain_OrderIsOutsideIn(t *testing.T) {
	var order []string
	tag := func(name string) MiddlewareFunc {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	Chain(tag("outer"), tag("inner"))(okHandler()).ServeHTTP(rec, req)

	require.Equal(t, []string{"outer", "inner"}, order)
	assert.Equal(t, http.StatusOK, rec.Code)
}
