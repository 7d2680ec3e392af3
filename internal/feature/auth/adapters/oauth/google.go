package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// googleUserInfo is the portion of the Google userinfo response we care
// about.
type googleUserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// GoogleProvider drives the authorization-code flow against Google.
type GoogleProvider struct {
	config      *oauth2.Config
	userInfoURL string
}

// NewGoogleProvider creates a GoogleProvider with the given app credentials.
// callbackURL must match the redirect URI registered with Google exactly.
func NewGoogleProvider(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
	}
}

// Name returns the provider tag stored on linked accounts.
func (p *GoogleProvider) Name() string { return "google" }

// AuthURL returns the consent URL to redirect the user to.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades an authorization code for the user's profile. The token
// exchange and the userinfo call both run server-to-server with a bounded
// timeout; any failure yields an error and no profile.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*Profile, error) {
	ctx = withHTTPClient(ctx)

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging google code: %w", err)
	}

	client := p.config.Client(ctx, token)
	resp, err := getJSON(client, p.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetching google userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo returned status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decoding google userinfo: %w", err)
	}
	if info.Email == "" || info.ID == "" {
		return nil, fmt.Errorf("google userinfo missing email or subject id")
	}

	return &Profile{Email: info.Email, SubjectID: info.ID}, nil
}
