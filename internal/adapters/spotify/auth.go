package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/lucasbflopes/spotify-track-classifier/internal/core/domain"
)

const (
	// DefaultTokenURL is the accounts service token endpoint.
	DefaultTokenURL = "https://accounts.spotify.com/api/token"
	// DefaultBaseURL is the Web API root all catalog paths are relative to.
	DefaultBaseURL = "https://api.spotify.com/v1"
)

// Credentials identify the application to the accounts service.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// RequestToken performs one client-credentials exchange and returns the bearer
// token. The secret travels as HTTP Basic auth, the grant as a form body.
// A rejected exchange is reported as domain.ErrAuthentication. There is no
// refresh: callers fetch once per process.
func RequestToken(ctx context.Context, tokenURL string, creds Credentials, httpClient *http.Client) (string, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return "", fmt.Errorf("spotify auth: %w: client id and secret are required", domain.ErrAuthentication)
	}
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}

	cfg := clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	if httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	}

	token, err := cfg.Token(ctx)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			status := 0
			if retrieveErr.Response != nil {
				status = retrieveErr.Response.StatusCode
			}
			return "", fmt.Errorf("spotify auth: %w: token endpoint returned status %d", domain.ErrAuthentication, status)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return "", fmt.Errorf("spotify auth: token request failed: %w", err)
		}
		return "", fmt.Errorf("spotify auth: %w: %v", domain.ErrAuthentication, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("spotify auth: %w: empty access token", domain.ErrAuthentication)
	}

	return token.AccessToken, nil
}
