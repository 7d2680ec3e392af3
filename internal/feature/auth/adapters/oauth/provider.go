// Package oauth implements the external OAuth provider exchange for Google
// and GitHub using golang.org/x/oauth2.
package oauth

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	platformhttp "finance_backend/internal/platform/http"
)

// Profile is the minimal identity a provider must yield: a verified email
// and the provider-assigned subject id.
type Profile struct {
	Email     string
	SubjectID string
}

// httpTimeout bounds every outbound provider call so a hung provider cannot
// block a request indefinitely.
const httpTimeout = 10 * time.Second

// withHTTPClient installs a bounded-timeout client for all oauth2 calls made
// under ctx.
func withHTTPClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, platformhttp.NewHTTPClient(httpTimeout))
}

// getJSON fetches url with the token-bearing client, retrying once on
// transport error. The calls are read-only against the provider, so a single
// retry has no side effects.
func getJSON(client *http.Client, url string) (*http.Response, error) {
	resp, err := client.Get(url)
	if err != nil {
		resp, err = client.Get(url)
	}
	return resp, err
}
