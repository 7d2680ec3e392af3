package jwtmw

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// TestMain puts Gin into test mode before running the tests.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// TestAuthRequired_MissingBearerToken verifies 401 is returned when the
// bearer token is absent or the prefix is malformed.
func TestAuthRequired_MissingBearerToken(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	tests := []struct {
		name       string
		authHeader string
	}{
		{"no header", ""},
		{"basic auth", "Basic dXNlcjpwYXNz"},
		{"bearer lowercase", "bearer token123"},
		{"no space after Bearer", "Bearertoken123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				c.Request.Header.Set("Authorization", tt.authHeader)
			}

			handler := AuthRequired(svc)
			handler(c)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
			}
			if !c.IsAborted() {
				t.Error("expected request to be aborted")
			}
			if got := w.Header().Get("WWW-Authenticate"); got != "Bearer" {
				t.Errorf("expected WWW-Authenticate challenge, got %q", got)
			}
		})
	}
}

// TestAuthRequired_InvalidToken verifies 401 for tampered or expired tokens.
func TestAuthRequired_InvalidToken(t *testing.T) {
	svc := NewTokenService("test-secret-key-for-invalid", time.Hour)
	otherSvc := NewTokenService("wrong-secret", time.Hour)

	wrongSecret, _ := otherSvc.GenerateToken(1, "user@example.com")
	expired, _ := svc.GenerateTokenWithTTL(1, "user@example.com", -time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{"malformed token", "not.a.valid.token"},
		{"random string", "randomstring"},
		{"wrong secret", wrongSecret},
		{"expired token", expired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.Header.Set("Authorization", "Bearer "+tt.token)

			handler := AuthRequired(svc)
			handler(c)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
			}
		})
	}
}

// TestAuthRequired_ValidToken verifies a valid token passes through and the
// user id and email land in the request context.
func TestAuthRequired_ValidToken(t *testing.T) {
	svc := NewTokenService("test-secret-key-for-valid", time.Hour)

	tests := []struct {
		name   string
		userID uint
		email  string
	}{
		{"user id 1", 1, "one@example.com"},
		{"user id 42", 42, "answer@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := svc.GenerateToken(tt.userID, tt.email)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.Header.Set("Authorization", "Bearer "+token)

			handler := AuthRequired(svc)
			handler(c)

			if c.IsAborted() {
				t.Fatal("expected request to pass through")
			}

			id, ok := UserID(c)
			if !ok {
				t.Fatal("expected user id in context")
			}
			if id != tt.userID {
				t.Errorf("expected user id %d, got %d", tt.userID, id)
			}
			if email := c.GetString(ContextEmail); email != tt.email {
				t.Errorf("expected email %q, got %q", tt.email, email)
			}
		})
	}
}
