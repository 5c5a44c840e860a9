// Package spotify is the catalog adapter: a bearer-token client over the
// Spotify Web API endpoints the dataset builder and the predictor need.
package spotify

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/lucasbflopes/spotify-track-classifier/internal/core/ports"
)

const (
	maxCategoryPlaylists = 50
	maxPlaylistTracks    = 100
	maxFeatureIDs        = 100
)

// Client is an HTTP client for the Spotify adapter. The token it carries is
// fixed for the life of the client.
type Client struct {
	http *resty.Client
	log  *zap.Logger
}

// compile-time interface assertion
var _ ports.CatalogProvider = (*Client)(nil)

// Options configures New.
type Options struct {
	BaseURL     string
	TokenURL    string
	Credentials Credentials
	// HTTPClient is used for both the token exchange and the API calls.
	// Nil means http.DefaultClient.
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// New exchanges the credentials for a token and returns a ready client.
func New(ctx context.Context, opts Options) (*Client, error) {
	token, err := RequestToken(ctx, opts.TokenURL, opts.Credentials, opts.HTTPClient)
	if err != nil {
		return nil, err
	}
	return NewWithToken(opts.BaseURL, token, opts.HTTPClient, opts.Logger), nil
}

// NewWithToken builds a client around an already issued bearer token.
func NewWithToken(baseURL, token string, httpClient *http.Client, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}

	rc := resty.NewWithClient(httpClient).
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(token).
		SetHeader("Accept", "application/json")

	return &Client{
		http: rc,
		log:  log.Named("spotify"),
	}
}

func (c *Client) get(ctx context.Context, path string, pathParams, query map[string]string) (*resty.Response, error) {
	req := c.http.R().SetContext(ctx)
	if len(pathParams) > 0 {
		req.SetPathParams(pathParams)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Get(path)
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: request %s: %w", path, err)
	}
	c.log.Debug("catalog request",
		zap.String("url", resp.Request.URL),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("elapsed", resp.Time()),
	)
	return resp, nil
}

func clampLimit(limit, maximum int) int {
	if limit <= 0 || limit > maximum {
		return maximum
	}
	return limit
}
