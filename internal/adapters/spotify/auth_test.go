package spotify_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lucasbflopes/spotify-track-classifier/internal/adapters/spotify"
	"github.com/lucasbflopes/spotify-track-classifier/internal/core/domain"
)

func newTokenServer(t *testing.T, id, secret string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
			t.Errorf("grant_type: got %q", got)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != id || pass != secret {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": "invalid_client", "error_description": "Invalid client"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "issued-token", "token_type": "Bearer", "expires_in": 3600}`))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestRequestToken(t *testing.T) {
	ts := newTokenServer(t, "client-id", "client-secret")

	tests := []struct {
		name      string
		creds     spotify.Credentials
		wantToken string
		wantErr   error
	}{
		{
			name:      "valid credentials",
			creds:     spotify.Credentials{ClientID: "client-id", ClientSecret: "client-secret"},
			wantToken: "issued-token",
		},
		{
			name:    "invalid secret",
			creds:   spotify.Credentials{ClientID: "client-id", ClientSecret: "wrong"},
			wantErr: domain.ErrAuthentication,
		},
		{
			name:    "missing credentials",
			creds:   spotify.Credentials{},
			wantErr: domain.ErrAuthentication,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := spotify.RequestToken(context.Background(), ts.URL, tt.creds, ts.Client())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if token != tt.wantToken {
				t.Errorf("token: got %q, want %q", token, tt.wantToken)
			}
		})
	}
}

func TestNew_UsesIssuedToken(t *testing.T) {
	tokenServer := newTokenServer(t, "client-id", "client-secret")
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer issued-token" {
			t.Errorf("Authorization: got %q", got)
		}
		w.Write([]byte(`{"tracks": {"items": [{"id": "1", "name": "Song", "artists": [{"name": "Band"}]}]}}`))
	}))
	defer api.Close()

	client, err := spotify.New(context.Background(), spotify.Options{
		BaseURL:     api.URL,
		TokenURL:    tokenServer.URL,
		Credentials: spotify.Credentials{ClientID: "client-id", ClientSecret: "client-secret"},
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	track, err := client.SearchTrack(context.Background(), "song")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if track.ID != "1" || track.Artist != "Band" {
		t.Errorf("unexpected track %+v", track)
	}
}

func TestNew_RejectsBadCredentials(t *testing.T) {
	tokenServer := newTokenServer(t, "client-id", "client-secret")

	_, err := spotify.New(context.Background(), spotify.Options{
		TokenURL:    tokenServer.URL,
		Credentials: spotify.Credentials{ClientID: "client-id", ClientSecret: "nope"},
	})
	if !errors.Is(err, domain.ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}
}
