package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/lucasbflopes/spotify-track-classifier/internal/core/domain"
)

// ListCategoryPlaylists returns (owner, playlist) pairs for a browse category.
// Unknown categories answer without a "playlists" object; that case yields an
// empty slice and a warning rather than an error.
func (c *Client) ListCategoryPlaylists(ctx context.Context, category string, limit int) ([]domain.PlaylistRef, error) {
	resp, err := c.get(ctx, "/browse/categories/{category_id}/playlists",
		map[string]string{"category_id": category},
		map[string]string{"limit": strconv.Itoa(clampLimit(limit, maxCategoryPlaylists))},
	)
	if err != nil {
		return nil, err
	}

	var body spotifyCategoryPlaylistsResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("spotify adapter: %w: category playlists decode: %v", domain.ErrMalformedResponse, err)
	}
	if body.Playlists == nil {
		c.log.Warn("category listing has no playlists",
			zap.String("category", category),
			zap.Int("status", resp.StatusCode()),
		)
		return []domain.PlaylistRef{}, nil
	}

	return mapPlaylistsToDomain(body.Playlists.Items), nil
}

// ListPlaylistTracks returns (title, id) pairs of a playlist, dropping entries
// whose track id is null.
func (c *Client) ListPlaylistTracks(ctx context.Context, ownerID, playlistID string, limit int) ([]domain.PlaylistTrack, error) {
	resp, err := c.get(ctx, "/users/{user_id}/playlists/{playlist_id}/tracks",
		map[string]string{"user_id": ownerID, "playlist_id": playlistID},
		map[string]string{"limit": strconv.Itoa(clampLimit(limit, maxPlaylistTracks))},
	)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("spotify adapter: %w: playlist %s status %d", domain.ErrMalformedResponse, playlistID, resp.StatusCode())
	}

	var body spotifyPlaylistTracksResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("spotify adapter: %w: playlist tracks decode: %v", domain.ErrMalformedResponse, err)
	}
	if body.Items == nil {
		return nil, fmt.Errorf("spotify adapter: %w: playlist %s response has no items", domain.ErrMalformedResponse, playlistID)
	}

	return mapPlaylistTracksToDomain(body.Items), nil
}
