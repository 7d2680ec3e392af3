package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance_backend/internal/feature/auth/adapters/oauth"
	"finance_backend/internal/feature/auth/domain/entity"
	"finance_backend/internal/feature/auth/usecase"
	jwtmw "finance_backend/internal/platform/jwt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockAuthUsecase is a mock implementation of the AuthUsecase interface.
type mockAuthUsecase struct {
	RegisterFunc             func(ctx context.Context, email, password string) (*entity.User, error)
	LoginFunc                func(ctx context.Context, email, password string) (string, error)
	CurrentUserFunc          func(ctx context.Context, userID uint) (*entity.User, error)
	ResolveOAuthIdentityFunc func(ctx context.Context, provider entity.AuthProvider, externalID, email string) (*entity.User, string, error)
}

func (m *mockAuthUsecase) Register(ctx context.Context, email, password string) (*entity.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, email, password)
	}
	return &entity.User{ID: 1, Email: email, Provider: entity.ProviderLocal, CreatedAt: time.Now()}, nil
}

func (m *mockAuthUsecase) Login(ctx context.Context, email, password string) (string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return "", usecase.ErrInvalidCredentials
}

func (m *mockAuthUsecase) CurrentUser(ctx context.Context, userID uint) (*entity.User, error) {
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx, userID)
	}
	return nil, usecase.ErrUserNotFound
}

func (m *mockAuthUsecase) ResolveOAuthIdentity(ctx context.Context, provider entity.AuthProvider, externalID, email string) (*entity.User, string, error) {
	if m.ResolveOAuthIdentityFunc != nil {
		return m.ResolveOAuthIdentityFunc(ctx, provider, externalID, email)
	}
	return nil, "", errors.New("not configured")
}

// mockProvider is a mock implementation of the OAuthProvider interface.
type mockProvider struct {
	name         string
	ExchangeFunc func(ctx context.Context, code string) (*oauth.Profile, error)
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) AuthURL(state string) string {
	return "https://provider.example.com/authorize?state=" + state
}

func (m *mockProvider) Exchange(ctx context.Context, code string) (*oauth.Profile, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, code)
	}
	return nil, errors.New("exchange failed")
}

// mockStateStore is a mock implementation of the StateStore interface.
// It accepts any state it issued and rejects the rest.
type mockStateStore struct {
	issued map[string]bool
}

func newMockStateStore() *mockStateStore {
	return &mockStateStore{issued: map[string]bool{"known-state": true}}
}

func (m *mockStateStore) Issue(ctx context.Context) (string, error) {
	m.issued["fresh-state"] = true
	return "fresh-state", nil
}

func (m *mockStateStore) Consume(ctx context.Context, state string) bool {
	if m.issued[state] {
		delete(m.issued, state)
		return true
	}
	return false
}

func newAuthRouter(uc AuthUsecase, providers map[string]OAuthProvider) *gin.Engine {
	h := NewAuthHandler(uc, providers, newMockStateStore(), "http://localhost:5173")
	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.GET("/auth/me", h.Me)
	r.GET("/auth/:provider", h.OAuthStart)
	r.GET("/auth/:provider/callback", h.OAuthCallback)
	return r
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    gin.H
		mockRegister   func(ctx context.Context, email, password string) (*entity.User, error)
		expectedStatus int
	}{
		{
			name:           "success",
			requestBody:    gin.H{"email": "test@example.com", "password": "secret1"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "invalid email",
			requestBody:    gin.H{"email": "invalid-email", "password": "secret1"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "password below minimum length",
			requestBody:    gin.H{"email": "test@example.com", "password": "12345"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "duplicate email",
			requestBody: gin.H{"email": "taken@example.com", "password": "secret1"},
			mockRegister: func(ctx context.Context, email, password string) (*entity.User, error) {
				return nil, usecase.ErrEmailAlreadyExists
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthRouter(&mockAuthUsecase{RegisterFunc: tt.mockRegister}, nil)

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusCreated {
				var resp map[string]any
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "test@example.com", resp["email"])
				assert.NotContains(t, w.Body.String(), "password", "response must not leak the password hash")
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success returns bearer token", func(t *testing.T) {
		uc := &mockAuthUsecase{
			LoginFunc: func(ctx context.Context, email, password string) (string, error) {
				return "issued-token", nil
			},
		}
		router := newAuthRouter(uc, nil)

		body, _ := json.Marshal(gin.H{"email": "test@example.com", "password": "secret1"})
		req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "issued-token", resp["access_token"])
		assert.Equal(t, "bearer", resp["token_type"])
	})

	t.Run("bad credentials yield uniform 401", func(t *testing.T) {
		router := newAuthRouter(&mockAuthUsecase{}, nil)

		body, _ := json.Marshal(gin.H{"email": "test@example.com", "password": "wrong11"})
		req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	})
}

func TestAuthHandler_Me(t *testing.T) {
	t.Run("returns current user", func(t *testing.T) {
		uc := &mockAuthUsecase{
			CurrentUserFunc: func(ctx context.Context, userID uint) (*entity.User, error) {
				return &entity.User{ID: userID, Email: "me@example.com", Provider: entity.ProviderLocal}, nil
			},
		}
		h := NewAuthHandler(uc, nil, newMockStateStore(), "http://localhost:5173")

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		c.Set(jwtmw.ContextUserID, uint(7))

		h.Me(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "me@example.com")
	})

	t.Run("valid token for deleted user yields 401", func(t *testing.T) {
		h := NewAuthHandler(&mockAuthUsecase{}, nil, newMockStateStore(), "http://localhost:5173")

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		c.Set(jwtmw.ContextUserID, uint(7))

		h.Me(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_OAuth(t *testing.T) {
	providers := func(p *mockProvider) map[string]OAuthProvider {
		return map[string]OAuthProvider{p.name: p}
	}

	t.Run("start redirects to consent URL", func(t *testing.T) {
		router := newAuthRouter(&mockAuthUsecase{}, providers(&mockProvider{name: "google"}))

		req, _ := http.NewRequest(http.MethodGet, "/auth/google", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Contains(t, w.Header().Get("Location"), "provider.example.com/authorize")
	})

	t.Run("unknown provider yields 404", func(t *testing.T) {
		router := newAuthRouter(&mockAuthUsecase{}, providers(&mockProvider{name: "google"}))

		req, _ := http.NewRequest(http.MethodGet, "/auth/gitlab", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("callback redirects to frontend with token", func(t *testing.T) {
		p := &mockProvider{
			name: "github",
			ExchangeFunc: func(ctx context.Context, code string) (*oauth.Profile, error) {
				return &oauth.Profile{Email: "gh@example.com", SubjectID: "42"}, nil
			},
		}
		uc := &mockAuthUsecase{
			ResolveOAuthIdentityFunc: func(ctx context.Context, provider entity.AuthProvider, externalID, email string) (*entity.User, string, error) {
				assert.Equal(t, entity.ProviderGitHub, provider)
				assert.Equal(t, "42", externalID)
				return &entity.User{ID: 3, Email: email, Provider: provider}, "fresh-token", nil
			},
		}
		router := newAuthRouter(uc, providers(p))

		req, _ := http.NewRequest(http.MethodGet, "/auth/github/callback?code=abc&state=known-state", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		loc := w.Header().Get("Location")
		assert.Contains(t, loc, "http://localhost:5173/auth/callback")
		assert.Contains(t, loc, "token=fresh-token")
		assert.Contains(t, loc, "provider=github")
	})

	t.Run("missing code yields 400", func(t *testing.T) {
		router := newAuthRouter(&mockAuthUsecase{}, providers(&mockProvider{name: "github"}))

		req, _ := http.NewRequest(http.MethodGet, "/auth/github/callback?state=known-state", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown state yields 400", func(t *testing.T) {
		router := newAuthRouter(&mockAuthUsecase{}, providers(&mockProvider{name: "github"}))

		req, _ := http.NewRequest(http.MethodGet, "/auth/github/callback?code=abc&state=forged", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid oauth state")
	})

	t.Run("exchange failure yields generic 400", func(t *testing.T) {
		p := &mockProvider{
			name: "github",
			ExchangeFunc: func(ctx context.Context, code string) (*oauth.Profile, error) {
				return nil, errors.New("provider returned status 502: upstream detail")
			},
		}
		router := newAuthRouter(&mockAuthUsecase{}, providers(p))

		req, _ := http.NewRequest(http.MethodGet, "/auth/github/callback?code=abc&state=known-state", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), usecase.ErrOAuthVerification.Error())
		assert.NotContains(t, w.Body.String(), "upstream detail", "provider errors must not leak")
	})
}
