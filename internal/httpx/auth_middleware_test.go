package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bookreviews/internal/httpx"
	"bookreviews/internal/testutil"

	"github.com/stretchr/testify/assert"
)

func identityEcho(t *testing.T, wantUserID, wantEmail, wantRole string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wantUserID, httpx.UserIDFrom(r))
		assert.Equal(t, wantEmail, httpx.EmailFrom(r))
		assert.Equal(t, wantRole, httpx.RoleFrom(r))
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	protect := httpx.AuthMiddleware(testutil.TestJWTSecret)

	t.Run("valid token passes identity through", func(t *testing.T) {
		handler := protect(identityEcho(t, "user-1", "user@example.com", "MODERATOR"))

		req := httptest.NewRequest(http.MethodGet, "/api/books/reviews/statistics", nil)
		testutil.Authorize(t, req, "user-1", "user@example.com", "MODERATOR")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing token yields 401", func(t *testing.T) {
		called := false
		handler := protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/books/reviews/statistics", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("garbage token yields 401", func(t *testing.T) {
		handler := protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		req := httptest.NewRequest(http.MethodGet, "/api/books/reviews/statistics", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
