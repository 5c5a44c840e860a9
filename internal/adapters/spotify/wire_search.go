package spotify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lucasbflopes/spotify-track-classifier/internal/core/domain"
	"github.com/lucasbflopes/spotify-track-classifier/internal/core/ports"
)

// SearchTrack returns the top track match for a free-text query.
// An empty query or an empty result set is a ports.TrackNotFoundError.
func (c *Client) SearchTrack(ctx context.Context, query string) (domain.Track, error) {
	q := normalizeQuery(query)
	if q == "" {
		return domain.Track{}, fmt.Errorf("spotify adapter: %w", ports.TrackNotFoundError{Query: query})
	}

	resp, err := c.get(ctx, "/search", nil, map[string]string{
		"q":     q,
		"type":  "track",
		"limit": "1",
	})
	if err != nil {
		return domain.Track{}, err
	}
	if !resp.IsSuccess() {
		return domain.Track{}, fmt.Errorf("spotify adapter: %w: search status %d", domain.ErrMalformedResponse, resp.StatusCode())
	}

	var body spotifySearchResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return domain.Track{}, fmt.Errorf("spotify adapter: %w: search decode: %v", domain.ErrMalformedResponse, err)
	}
	if body.Tracks == nil {
		return domain.Track{}, fmt.Errorf("spotify adapter: %w: search response has no tracks", domain.ErrMalformedResponse)
	}
	if len(body.Tracks.Items) == 0 {
		return domain.Track{}, fmt.Errorf("spotify adapter: %w", ports.TrackNotFoundError{Query: query})
	}

	top := body.Tracks.Items[0]
	if top.ID == "" || len(top.Artists) == 0 {
		return domain.Track{}, fmt.Errorf("spotify adapter: %w: search hit lacks id or artists", domain.ErrMalformedResponse)
	}

	return mapTrackToDomain(top), nil
}
