package jwtmw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"finance_backend/internal/api"
)

const (
	// ContextUserID is the gin context key holding the authenticated user id.
	ContextUserID = "userID"
	// ContextEmail is the gin context key holding the authenticated email.
	ContextEmail = "userEmail"
)

// Verifier validates a bearer token and returns its claims.
// Following Go convention, the interface is defined by the consumer.
type Verifier interface {
	VerifyToken(token string) (*Claims, error)
}

// AuthRequired returns a Gin middleware that validates bearer tokens and
// restricts access to authenticated requests. On success the user id and
// email from the token are stored in the request context.
func AuthRequired(verifier Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "missing bearer token"})
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		claims, err := verifier.VerifyToken(tokenStr)
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid token"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

// UserID extracts the authenticated user id set by AuthRequired.
// The second return is false when the middleware did not run.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
