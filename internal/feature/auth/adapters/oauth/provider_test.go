package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// fakeTokenEndpoint serves a minimal successful code-for-token exchange.
func fakeTokenEndpoint(t *testing.T, mux *http.ServeMux) {
	t.Helper()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"test-access-token","token_type":"bearer"}`))
	})
}

func TestGoogleProvider_Exchange(t *testing.T) {
	mux := http.NewServeMux()
	fakeTokenEndpoint(t, mux)
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"sub-123","email":"user@example.com"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewGoogleProvider("cid", "secret", "http://localhost/callback")
	p.config.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
	p.userInfoURL = srv.URL + "/userinfo"

	profile, err := p.Exchange(context.Background(), "test-code")

	require.NoError(t, err)
	assert.Equal(t, "user@example.com", profile.Email)
	assert.Equal(t, "sub-123", profile.SubjectID)
}

func TestGoogleProvider_Exchange_MissingEmail(t *testing.T) {
	mux := http.NewServeMux()
	fakeTokenEndpoint(t, mux)
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"sub-123"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewGoogleProvider("cid", "secret", "http://localhost/callback")
	p.config.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
	p.userInfoURL = srv.URL + "/userinfo"

	_, err := p.Exchange(context.Background(), "test-code")
	assert.Error(t, err, "a profile without an email must not resolve")
}

func TestGitHubProvider_Exchange(t *testing.T) {
	t.Run("email on profile", func(t *testing.T) {
		mux := http.NewServeMux()
		fakeTokenEndpoint(t, mux)
		mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":42,"email":"gh@example.com"}`))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		p := NewGitHubProvider("cid", "secret", "http://localhost/callback")
		p.config.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
		p.userURL = srv.URL + "/user"

		profile, err := p.Exchange(context.Background(), "test-code")

		require.NoError(t, err)
		assert.Equal(t, "gh@example.com", profile.Email)
		assert.Equal(t, "42", profile.SubjectID)
	})

	t.Run("hidden email falls back to primary address", func(t *testing.T) {
		mux := http.NewServeMux()
		fakeTokenEndpoint(t, mux)
		mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":42,"email":""}`))
		})
		mux.HandleFunc("/emails", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"email":"old@example.com","primary":false,"verified":true},
				{"email":"primary@example.com","primary":true,"verified":true}
			]`))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		p := NewGitHubProvider("cid", "secret", "http://localhost/callback")
		p.config.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
		p.userURL = srv.URL + "/user"
		p.emailsURL = srv.URL + "/emails"

		profile, err := p.Exchange(context.Background(), "test-code")

		require.NoError(t, err)
		assert.Equal(t, "primary@example.com", profile.Email)
	})

	t.Run("failed token exchange yields error", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad code", http.StatusBadRequest)
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		p := NewGitHubProvider("cid", "secret", "http://localhost/callback")
		p.config.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}

		_, err := p.Exchange(context.Background(), "bad-code")
		assert.Error(t, err)
	})
}

func TestAuthURL_CarriesState(t *testing.T) {
	p := NewGitHubProvider("cid", "secret", "http://localhost/callback")
	url := p.AuthURL("state-xyz")
	assert.Contains(t, url, "state=state-xyz")
	assert.Contains(t, url, "client_id=cid")
}
