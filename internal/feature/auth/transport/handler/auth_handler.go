// Package handler provides the HTTP handlers for the auth feature.
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"finance_backend/internal/api"
	"finance_backend/internal/feature/auth/adapters/oauth"
	"finance_backend/internal/feature/auth/domain/entity"
	"finance_backend/internal/feature/auth/usecase"
	jwtmw "finance_backend/internal/platform/jwt"
)

// AuthUsecase defines the auth operations the handler depends on.
// Following Go convention, the interface is defined by the consumer
// (handler), not the provider (usecase).
type AuthUsecase interface {
	Register(ctx context.Context, email, password string) (*entity.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	CurrentUser(ctx context.Context, userID uint) (*entity.User, error)
	ResolveOAuthIdentity(ctx context.Context, provider entity.AuthProvider, externalID, email string) (*entity.User, string, error)
}

// OAuthProvider abstracts one external OAuth provider.
type OAuthProvider interface {
	Name() string
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth.Profile, error)
}

// StateStore issues and validates single-use OAuth state tokens.
type StateStore interface {
	Issue(ctx context.Context) (string, error)
	Consume(ctx context.Context, state string) bool
}

// AuthHandler handles HTTP requests for registration, login, the current
// user, and the OAuth flows.
type AuthHandler struct {
	auth        AuthUsecase
	providers   map[string]OAuthProvider
	states      StateStore
	frontendURL string
}

// NewAuthHandler creates an AuthHandler. providers maps the URL provider
// segment (e.g. "google") to its implementation; frontendURL is where OAuth
// callbacks redirect with the issued token.
func NewAuthHandler(auth AuthUsecase, providers map[string]OAuthProvider, states StateStore, frontendURL string) *AuthHandler {
	return &AuthHandler{auth: auth, providers: providers, states: states, frontendURL: frontendURL}
}

// Register handles POST /auth/register.
// Returns 201 with the created user, 400 on validation failure or a taken
// email.
func (h *AuthHandler) Register(c *gin.Context) {
	var req api.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrEmailAlreadyExists) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "email already registered"})
			return
		}
		slog.Error("register failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}

	slog.Info("user registered", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, userResponse(user))
}

// Login handles POST /auth/login.
// Returns 200 with a bearer token, 401 with a uniform message on any
// credential failure to prevent account enumeration.
func (h *AuthHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			slog.Warn("login failed", "remote_addr", c.ClientIP())
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "incorrect email or password"})
			return
		}
		slog.Error("login failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}

	c.JSON(http.StatusOK, api.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Me handles GET /auth/me.
// A token whose subject no longer exists yields 401, not 500.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "not authenticated"})
		return
	}

	user, err := h.auth.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "not authenticated"})
			return
		}
		slog.Error("current user lookup failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}

	c.JSON(http.StatusOK, userResponse(user))
}

// OAuthStart handles GET /auth/:provider. It issues a single-use state
// token and redirects to the provider's consent screen.
func (h *AuthHandler) OAuthStart(c *gin.Context) {
	p, ok := h.providers[c.Param("provider")]
	if !ok {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "unknown provider"})
		return
	}

	state, err := h.states.Issue(c.Request.Context())
	if err != nil {
		slog.Error("oauth state issue failed", "provider", p.Name(), "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}
	c.Redirect(http.StatusFound, p.AuthURL(state))
}

// OAuthCallback handles GET /auth/:provider/callback. It exchanges the
// authorization code, resolves the identity to a local user, and redirects
// to the frontend with the issued token in the query string. Any exchange
// failure yields a generic 400; no provider error detail leaks to clients.
func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	p, ok := h.providers[c.Param("provider")]
	if !ok {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "unknown provider"})
		return
	}

	if !h.states.Consume(c.Request.Context(), c.Query("state")) {
		slog.Warn("oauth state validation failed", "provider", p.Name(), "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid oauth state"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "missing authorization code"})
		return
	}

	profile, err := p.Exchange(c.Request.Context(), code)
	if err != nil {
		slog.Warn("oauth exchange failed", "provider", p.Name(), "error", err)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: usecase.ErrOAuthVerification.Error()})
		return
	}

	user, token, err := h.auth.ResolveOAuthIdentity(c.Request.Context(), entity.AuthProvider(p.Name()), profile.SubjectID, profile.Email)
	if err != nil {
		slog.Error("oauth identity resolution failed", "provider", p.Name(), "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}

	slog.Info("oauth login", "provider", p.Name(), "user_id", user.ID)
	c.Redirect(http.StatusFound, fmt.Sprintf("%s/auth/callback?token=%s&provider=%s", h.frontendURL, token, p.Name()))
}

func userResponse(u *entity.User) api.UserResponse {
	return api.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Provider:  string(u.Provider),
		CreatedAt: u.CreatedAt,
	}
}
