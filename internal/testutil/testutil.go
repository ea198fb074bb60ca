package testutil

import (
	"net/http"
	"testing"
	"time"

	"bookreviews/internal/platform/crypto"
)

const TestJWTSecret = "test-secret"

// BearerToken mints a signed token for the given identity, for use in
// handler and middleware tests.
func BearerToken(t *testing.T, userID, email, role string) string {
	t.Helper()
	token, err := crypto.GenerateToken(TestJWTSecret, userID, email, role, time.Hour)
	if err != nil {
		t.Fatalf("generating test token: %v", err)
	}
	return "Bearer " + token
}

// Authorize attaches a freshly minted bearer token to the request.
func Authorize(t *testing.T, r *http.Request, userID, email, role string) {
	t.Helper()
	r.Header.Set("Authorization", BearerToken(t, userID, email, role))
}
