package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const (
	githubUserURL   = "https://api.github.com/user"
	githubEmailsURL = "https://api.github.com/user/emails"
)

// githubUser is the portion of the GitHub /user response we care about.
// GitHub's numeric user id is stable and never changes.
type githubUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// githubEmail is one entry of the GitHub /user/emails response.
type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// GitHubProvider drives the authorization-code flow against GitHub.
type GitHubProvider struct {
	config    *oauth2.Config
	userURL   string
	emailsURL string
}

// NewGitHubProvider creates a GitHubProvider with the given app credentials.
// callbackURL must match the authorization callback URL registered with
// GitHub exactly.
func NewGitHubProvider(clientID, clientSecret, callbackURL string) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		userURL:   githubUserURL,
		emailsURL: githubEmailsURL,
	}
}

// Name returns the provider tag stored on linked accounts.
func (p *GitHubProvider) Name() string { return "github" }

// AuthURL returns the authorization URL to redirect the user to.
func (p *GitHubProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades an authorization code for the user's profile. When the
// profile hides the email, the primary address from /user/emails is used
// instead.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*Profile, error) {
	ctx = withHTTPClient(ctx)

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging github code: %w", err)
	}

	client := p.config.Client(ctx, token)
	resp, err := getJSON(client, p.userURL)
	if err != nil {
		return nil, fmt.Errorf("fetching github user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github user endpoint returned status %d", resp.StatusCode)
	}

	var ghUser githubUser
	if err := json.NewDecoder(resp.Body).Decode(&ghUser); err != nil {
		return nil, fmt.Errorf("decoding github user: %w", err)
	}
	if ghUser.ID == 0 {
		return nil, fmt.Errorf("github returned an invalid user")
	}

	email := ghUser.Email
	if email == "" {
		email, err = p.primaryEmail(client)
		if err != nil {
			return nil, err
		}
	}
	if email == "" {
		return nil, fmt.Errorf("github profile exposes no email")
	}

	return &Profile{Email: email, SubjectID: strconv.FormatInt(ghUser.ID, 10)}, nil
}

// primaryEmail lists the user's email addresses and selects the primary one.
func (p *GitHubProvider) primaryEmail(client *http.Client) (string, error) {
	resp, err := getJSON(client, p.emailsURL)
	if err != nil {
		return "", fmt.Errorf("fetching github emails: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("github emails endpoint returned status %d", resp.StatusCode)
	}

	var emails []githubEmail
	if err := json.NewDecoder(resp.Body).Decode(&emails); err != nil {
		return "", fmt.Errorf("decoding github emails: %w", err)
	}
	for _, e := range emails {
		if e.Primary {
			return e.Email, nil
		}
	}
	return "", nil
}
